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


// Package mirror incrementally replicates local translation documents to the
// remote object store.
//
// Sync is manifest-driven. Each document's SHA-256 and byte size are compared
// against a local manifest cache (fast path, skips remote round-trips) and
// the remote manifest (source of truth shared across sync runs); only content
// unknown to both, and absent from the store itself, is uploaded. A manifest
// entry is recorded only after the content it describes is durably stored.
//
// Translations sync concurrently on a bounded worker pool, but each worker
// only computes an outcome; both manifests are applied by a single writer
// after all workers finish and persisted at most once per run. Upload
// failures are logged and skipped so one bad document does not starve the
// rest; an exhausted storage quota aborts the remaining queue instead,
// since every following upload would fail the same way.
package mirror
