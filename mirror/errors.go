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


package mirror

import "errors"

var (
	// ErrStoreRequired is returned when an object store client is not provided.
	ErrStoreRequired = errors.New("object store client required")

	// ErrSourceRequired is returned when a local translation source is not provided.
	ErrSourceRequired = errors.New("local translation source required")

	// ErrMalformedManifest indicates manifest JSON that cannot be parsed.
	ErrMalformedManifest = errors.New("malformed sync manifest")
)
