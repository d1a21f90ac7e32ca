// Copyright 2026 Graceworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/objectstore"
)

var (
	// ErrSearcherRequired is returned when a searcher is not provided.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrSourceRequired is returned when a local translation source is not provided.
	ErrSourceRequired = errors.New("local translation source required")
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler maps domain errors onto HTTP statuses. Handlers return errors
// as is; this is the only place a status code is chosen for a failure.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(errorBody{
		Error: errorDetail{Code: code, Message: err.Error()},
	})
}

// classify buckets an error into the taxonomy: validation 400, availability
// 404, store not ready 503, remote transport 502, everything else (including
// data integrity) 500. fiber's own routing errors keep their status.
func classify(err error) (status int, code string) {
	var fiberErr *fiber.Error
	var apiErr *objectstore.APIError
	var quotaErr *objectstore.QuotaError

	switch {
	case errors.Is(err, core.ErrInvalidLimit),
		errors.Is(err, core.ErrInvalidTranslation),
		errors.Is(err, core.ErrInvalidVerseRef):
		return fiber.StatusBadRequest, "invalid_request"
	case errors.Is(err, core.ErrTranslationUnavailable),
		errors.Is(err, core.ErrPassageUnavailable),
		errors.Is(err, objectstore.ErrNotFound):
		return fiber.StatusNotFound, "not_available"
	case errors.Is(err, core.ErrStoreNotBuilt),
		errors.Is(err, core.ErrCorpusEmpty):
		return fiber.StatusServiceUnavailable, "corpus_not_ready"
	case errors.As(err, &quotaErr), errors.As(err, &apiErr):
		return fiber.StatusBadGateway, "upstream_error"
	case errors.As(err, &fiberErr):
		return fiberErr.Code, "http_error"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}
