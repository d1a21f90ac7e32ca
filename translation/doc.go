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


// Package translation resolves verse references into specific translations.
//
// A translation lives in one whole-document JSON file shaped
// book → chapter → verse → text, with chapter and verse keys as decimal
// strings. Documents are loaded whole and cached per translation code for
// the process lifetime; concurrent first loads share one fetch.
//
// The Resolver prefers the remote object store when one is configured and
// falls back to the local translations directory when the store does not
// hold the document. A verse missing from an otherwise loadable document is
// reported as core.ErrPassageUnavailable, distinct from load failures, so
// callers can tell "translation lacks this verse" from "translation could
// not be read".
package translation
