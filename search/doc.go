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


// Package search provides semantic similarity search over the verse corpus.
//
// The Searcher type implements the query path:
//   - Lazy, memoized load of the persisted corpus (single-flight on first use)
//   - Query vectorization with the corpus's embedding dimension
//   - Top-K ranking by dot product over unit vectors (cosine similarity)
//   - Optional cross-translation text resolution for every hit
//
// The corpus is immutable after load, so ranking is lock-free once the
// first search has completed.
package search
