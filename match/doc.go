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


// Package match implements the three-tier answer matching pipeline.
//
// The Pipeline type escalates through three strategies in fixed order:
//   - Exact match on normalized question text
//   - Lexical match using Jaccard token-set similarity
//   - Semantic match using embedding cosine similarity
//
// The first strategy that produces a sufficiently confident result wins;
// later, more expensive strategies never run once an earlier one succeeds.
// When every strategy misses, the pipeline reports the best similarity and
// confidence observed across all of them.
package match
