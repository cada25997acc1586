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

package adapter

import (
	"context"
	"net/netip"

	"github.com/thediveo/whalestrip"
)

// Attacher attaches the container with the specified initial process to the
// host network, using the specified IP address for the container, and returns
// the resulting endpoint.
type Attacher interface {
	Attach(ctx context.Context, ip netip.Addr, pid int) (whalestrip.Endpoint, error)
}

// AttacherFunc adapts an ordinary function to the Attacher interface.
type AttacherFunc func(ctx context.Context, ip netip.Addr, pid int) (whalestrip.Endpoint, error)

// Attach calls f(ctx, ip, pid).
func (f AttacherFunc) Attach(ctx context.Context, ip netip.Addr, pid int) (whalestrip.Endpoint, error) {
	return f(ctx, ip, pid)
}

// EndpointStore records the endpoints of containers and looks up their
// addresses.
type EndpointStore interface {
	CreateEndpoint(ctx context.Context, hostname, containerID string, ep whalestrip.Endpoint)
	ContainerAddress(ctx context.Context, hostname, containerID string) (netip.Addr, error)
}

// GroupMembership adds containers to groups.
type GroupMembership interface {
	AddContainerToGroup(ctx context.Context, containerID, groupName string) error
}
