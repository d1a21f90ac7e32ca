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


// Package storage provides the storage abstraction layer for the search corpus.
//
// This package defines the repository interface that decouples the storage
// implementation from search and ingestion logic, plus the codecs shared by
// every backend: MUS serialization of verse records and the little-endian
// float32 byte form of embedding vectors.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.VerseRepository interface to
// prevent accidental coupling to BadgerDB specifics:
//
//	repo, backend, err := badger.NewMemoryRepository()  // repo is storage.VerseRepository
//
// # Persisted Shape
//
// The corpus is a row store plus a small metadata table:
//
//   - one row per passage, keyed by translation code and the content-derived
//     ID of the passage reference, holding the MUS-encoded record
//   - metadata keys for the stored translation code and embedding dimension
//
// Embeddings travel inside records as raw bytes; EncodeVector and
// DecodeVector convert between that form and []float32, and decoding
// validates the byte length against the corpus dimension.
//
// # Thread Safety
//
// Repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation. Long
// write operations check the context between transaction batches.
package storage
