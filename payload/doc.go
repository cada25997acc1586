// Copyright 2024 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package payload transforms the opaque Docker engine API payloads passed
through Powerstrip hooks: it parses container environments, rewrites the
network mode of container creation requests, and patches container
inspection results.

All transformations are pure and best-effort: they never fail a hook, but
instead return a [Result] that carries either the transformed body, or the
original body together with the reason why it was left alone.
*/
package payload
