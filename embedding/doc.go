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


// Package embedding turns text into fixed-dimension vectors for semantic
// similarity search.
//
// The production implementation is a hashing-trick bag of words: tokens are
// bucketed by a 32-bit FNV-1a hash modulo the dimension, counted, and the
// resulting vector is L2-normalized. It is fully deterministic, needs no
// model files or network access, and two texts sharing tokens land in shared
// buckets, so the dot product of two unit vectors measures token overlap.
//
// Tokenization is part of the contract and must stay stable across releases,
// because stored corpus vectors and live query vectors have to agree:
// lowercase, every character outside [a-z0-9 '] becomes a space, split on
// whitespace. Text with no surviving tokens embeds to the all-zero vector.
//
// The Embedder interface is the seam used by the ingestion pipeline; it keeps
// batch embedding swappable and lets tests inject failures.
package embedding
