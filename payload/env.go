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

package payload

import "strings"

// ParseEnvironment parses a list of environment variables in "KEY=VALUE"
// form into a map for easy access. Only the first "=" separates the key from
// its value, so values may contain further "=". Entries without any "=" map
// to the empty value. Later duplicates override earlier entries.
func ParseEnvironment(env []string) map[string]string {
	vars := make(map[string]string, len(env))
	for _, pair := range env {
		key, value, _ := strings.Cut(pair, "=")
		vars[key] = value
	}
	return vars
}
