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
	"net/http"

	"github.com/gorilla/mux"
)

// DefaultPath is the path Powerstrip POSTs its hook requests to.
const DefaultPath = "/calico-adapter"

// SetupRoutes sets up the provided mux.Router to handle hook requests at the
// specified path, as well as health checks.
func SetupRoutes(router *mux.Router, path string, h *Handler) {
	if path == "" {
		path = DefaultPath
	}
	router.Handle(path, h).Methods(http.MethodPost).Name("hook")
	router.HandleFunc("/healthz", healthz).Methods(http.MethodGet).Name("healthz")
}

func healthz(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
