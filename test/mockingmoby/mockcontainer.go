// Copyright 2021 Harald Albrecht.
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

package mockingmoby

// MockedContainerStatus is a compressed, only-essentials, no-bulls version of
// Docker's container status.
type MockedContainerStatus int

// The available states of a mocked container.
const (
	MockedCreated MockedContainerStatus = iota
	MockedRunning
	MockedPaused
	MockedDead
	MockedExited
)

// MockedStatus maps the states of a mocked container to Docker's container
// status strings.
var MockedStatus = map[MockedContainerStatus]string{
	MockedCreated: "created",
	MockedRunning: "running",
	MockedPaused:  "paused",
	MockedDead:    "dead",
	MockedExited:  "exited",
}

// MockedContainer is our very, very limited knowledge about a mocked container;
// it just stores the minimum of information we need in mocking our own unit
// tests.
type MockedContainer struct {
	ID     string                // unique identifier of container
	Name   string                // name of container without any prefixing "/"
	Status MockedContainerStatus // container status (without any thrills)
	PID    int                   // PID of initial container process if container is "alive"
	Env    []string              // environment variables in "KEY=value" form
}

// Alive returns true if the mocked container is either running or paused.
func (c MockedContainer) Alive() bool {
	return c.Status == MockedRunning || c.Status == MockedPaused
}
