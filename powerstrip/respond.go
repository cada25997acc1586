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

package powerstrip

import (
	"encoding/json"
	"net/http"

	"github.com/thediveo/whalestrip/log"
)

// RespondJSON sends an HTTP response with the specified status, containing
// the payload marshaled into JSON format.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.L.Errorf("cannot marshal response: %s", err)
		RespondProblem(w, http.StatusInternalServerError, "cannot marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// RespondProblem sends an HTTP response with the specified status and an
// error message in a JSON object.
func RespondProblem(w http.ResponseWriter, status int, message string) {
	b, _ := json.Marshal(map[string]string{"error": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// RespondBad sends an HTTP 400 "bad request" response.
func RespondBad(w http.ResponseWriter, err error) {
	RespondProblem(w, http.StatusBadRequest, err.Error())
}
