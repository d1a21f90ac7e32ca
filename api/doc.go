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


// Package api exposes verse search over HTTP.
//
// The server is a thin boundary: handlers validate query parameters before
// touching the engine, call the search layer, and shape JSON responses.
// Domain errors funnel through a single fiber ErrorHandler that maps the
// error taxonomy onto HTTP statuses, so handlers return errors rather than
// writing status codes themselves.
package api
