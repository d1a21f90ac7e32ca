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


package search

import "errors"

var (
	// ErrVerseRepositoryRequired is returned when a verse repository is not provided.
	ErrVerseRepositoryRequired = errors.New("verse repository required")

	// ErrResolverRequired is returned when a passage resolver is not provided.
	ErrResolverRequired = errors.New("passage resolver required")
)
