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


// Package objectstore implements the client for the remote translation store.
//
// The store is a flat HTTP object service addressed by key:
//
//	{prefix}/{CODE}/{CODE}_bible.json   translation documents
//	{prefix}/manifest.json              shared sync manifest
//
// It supports three operations: a metadata probe (HEAD, returning the
// object's SHA-256 and byte size), content retrieval (GET), and content
// upload (PUT with the payload's SHA-256 declared up front). All requests
// carry a bearer credential.
//
// The client deliberately performs no retries. The search path surfaces
// transient failures to its caller, and the sync manager's contract is
// log-and-skip per file with a fail-fast abort on exhausted storage quota,
// so a retry layer here would blur both policies.
package objectstore
