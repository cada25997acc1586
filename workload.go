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

package whalestrip

import "fmt"

// Workload is a deliberately limited view on a container, dealing with only
// those few bits of data needed in order to attach a container to the
// network.
//
// Only containers with an initial process can be attached, as the network
// namespace to attach to is referenced through this process.
type Workload struct {
	ID   string   // unique identifier of this container.
	Name string   // user-friendly name of this container.
	PID  int      // PID of container's initial process.
	Env  []string // environment variables in "KEY=VALUE" form.
}

// String renders a textual representation of the information kept about a
// specific workload, such as its name, ID, and PID.
func (w Workload) String() string {
	return fmt.Sprintf("container '%s'/%s with PID %d", w.Name, w.ID, w.PID)
}
