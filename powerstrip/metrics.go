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

import "github.com/prometheus/client_golang/prometheus"

// Hook actions, as counted in the hooks metric.
const (
	actionRejected    = "rejected"
	actionPassed      = "passed"
	actionRewritten   = "rewritten"
	actionProvisioned = "provisioned"
	actionPatched     = "patched"
)

var hooksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "whalestrip_hooks_total",
		Help: "Number of Powerstrip hook requests handled, by hook type and action taken.",
	},
	[]string{"type", "action"},
)

func init() {
	prometheus.MustRegister(hooksTotal)
}

func countHook(hooktype, action string) {
	hooksTotal.WithLabelValues(hooktype, action).Inc()
}
