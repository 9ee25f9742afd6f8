// Copyright 2025 Poiesic Systems
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


// Package server exposes the matching pipeline over HTTP.
//
// Routes:
//   - GET  /health              liveness probe
//   - GET  /api/ask?q=...       answer a question via query string
//   - POST /api/ask             answer a question via JSON body
//   - GET  /api/analytics/recent  recent query events (when a recorder is wired)
//
// Responses are structured JSON carrying the success flag, answer text,
// confidence, similarity, category, matched question, match type and
// timestamp.
package server
