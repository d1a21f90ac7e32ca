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


package translation

import "errors"

var (
	// ErrLocalSourceRequired is returned when a resolver is built without a
	// local translations directory.
	ErrLocalSourceRequired = errors.New("local translation source required")

	// ErrMalformedDocument indicates a translation file that is not valid
	// book/chapter/verse JSON.
	ErrMalformedDocument = errors.New("malformed translation document")
)
