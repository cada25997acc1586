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

import (
	"fmt"
	"net/netip"
)

// EndpointStateActive is the state of an endpoint that has been fully set up.
const EndpointStateActive = "active"

// Address is a single IP address assigned to an endpoint. Its JSON form is
// what goes into an endpoint's "addrs" leaf in the coordination store.
type Address struct {
	Addr netip.Addr `json:"addr"`
}

// Endpoint is the network identity of a container: the addresses, MAC and
// lifecycle state of the (single) virtual network interface attached to it.
// Endpoints are immutable once written to the coordination store.
type Endpoint struct {
	ID    string    // endpoint ID, unique within its container.
	Addrs []Address // assigned addresses, in order of assignment.
	MAC   string    // hardware address of the container-side interface.
	State string    // textual lifecycle tag, such as "active".
}

// String renders a textual representation of an endpoint, such as its ID and
// (first) address.
func (e Endpoint) String() string {
	if len(e.Addrs) == 0 {
		return fmt.Sprintf("endpoint %s without addresses (%s)", e.ID, e.State)
	}
	return fmt.Sprintf("endpoint %s with address %s and MAC %s (%s)",
		e.ID, e.Addrs[0].Addr, e.MAC, e.State)
}
