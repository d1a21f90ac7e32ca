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


package objectstore

import (
	"errors"
	"fmt"
)

var (
	// ErrEndpointRequired indicates the client was built without a store endpoint.
	ErrEndpointRequired = errors.New("objectstore: endpoint required")

	// ErrCredentialRequired indicates the client was built without a bearer credential.
	ErrCredentialRequired = errors.New("objectstore: bearer credential required")

	// ErrNotFound indicates the requested object does not exist in the store.
	ErrNotFound = errors.New("objectstore: object not found")
)

// QuotaError indicates the store refused an operation because the storage
// quota is exhausted. Sync runs treat it as fatal for the whole run rather
// than for the single object.
type QuotaError struct {
	StatusCode int
	Key        string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("objectstore: storage quota exceeded (status %d, key %s)", e.StatusCode, e.Key)
}

// APIError represents any other unexpected store response.
type APIError struct {
	StatusCode int
	Message    string
	Key        string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("objectstore: API error %d (key %s)", e.StatusCode, e.Key)
	}
	return fmt.Sprintf("objectstore: API error %d: %s (key %s)", e.StatusCode, e.Message, e.Key)
}

// IsNotFound checks if the error indicates a missing object.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsQuotaExceeded checks if the error indicates exhausted storage quota.
func IsQuotaExceeded(err error) bool {
	var quotaErr *QuotaError
	return errors.As(err, &quotaErr)
}
