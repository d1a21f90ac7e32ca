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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidVerseRef indicates a VerseRef failed validation.
	ErrInvalidVerseRef = errors.New("invalid verse reference")

	// ErrInvalidTranslation indicates a translation code failed validation.
	ErrInvalidTranslation = errors.New("invalid translation code")

	// ErrInvalidDimension indicates a non-positive embedding dimension.
	ErrInvalidDimension = errors.New("invalid embedding dimension")

	// ErrInvalidLimit indicates a negative result limit.
	ErrInvalidLimit = errors.New("invalid result limit")

	// ErrEmptyBook indicates the Book field is empty.
	ErrEmptyBook = errors.New("book name cannot be empty")
)

// Data availability errors
var (
	// ErrStoreNotBuilt indicates the corpus store has never been built.
	// Callers should run the offline build step before searching.
	ErrStoreNotBuilt = errors.New("corpus store not yet built")

	// ErrCorpusEmpty indicates the corpus store holds no passages.
	ErrCorpusEmpty = errors.New("corpus contains no passages")

	// ErrTranslationUnavailable indicates no document exists for the
	// requested translation in any configured source.
	ErrTranslationUnavailable = errors.New("translation not available")

	// ErrPassageUnavailable indicates the translation document exists but
	// does not contain the requested passage.
	ErrPassageUnavailable = errors.New("passage not available in target translation")
)
