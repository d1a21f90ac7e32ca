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

import (
	"fmt"
	"strings"
)

// NormalizeTranslationCode trims surrounding whitespace and upper-cases a
// translation code. Codes are case-insensitive everywhere; the normalized
// form is what gets stored, compared, and used in object keys.
func NormalizeTranslationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateTranslationCode validates an already-normalized translation code.
//
// Validation rules:
//   - must not be empty
//   - at most 12 characters
//   - characters limited to A-Z and 0-9
func ValidateTranslationCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: code is empty", ErrInvalidTranslation)
	}
	if len(code) > 12 {
		return fmt.Errorf("%w: %q exceeds 12 characters", ErrInvalidTranslation, code)
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidTranslation, code, c)
		}
	}
	return nil
}

// ValidateVerseRef validates a VerseRef according to domain rules.
//
// Validation rules:
//   - Book must not be empty
//   - Chapter and Verse must be >= 1
func ValidateVerseRef(ref VerseRef) error {
	if ref.Book == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerseRef, ErrEmptyBook)
	}
	if ref.Chapter < 1 {
		return fmt.Errorf("%w: chapter %d", ErrInvalidVerseRef, ref.Chapter)
	}
	if ref.Verse < 1 {
		return fmt.Errorf("%w: verse %d", ErrInvalidVerseRef, ref.Verse)
	}
	return nil
}

// ValidateDimension validates an embedding dimension.
func ValidateDimension(dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: value %d", ErrInvalidDimension, dim)
	}
	return nil
}

// ValidateLimit rejects negative result limits. Zero is valid and means
// "no results"; clamping of oversized limits happens in the search layer.
func ValidateLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: value %d", ErrInvalidLimit, limit)
	}
	return nil
}
