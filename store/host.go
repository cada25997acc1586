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

package store

import (
	"context"
	"net/netip"
	"strings"

	etcd "go.etcd.io/etcd/client/v2"
)

// DefaultNextHops returns the next hop addresses for default routes on the
// specified host, keyed by IP version (4 or 6). The IPv4 next hop is read
// from the host's "bird_ip" leaf, the IPv6 next hop from "bird6_ip". These
// leaves might be missing or blank, or contain something that isn't an
// address of the correct IP version: then the result simply lacks the
// corresponding entry.
func (c *Client) DefaultNextHops(ctx context.Context, hostname string) (map[int]netip.Addr, error) {
	if err := checkSegments(hostname); err != nil {
		return nil, err
	}
	hostpath := HostPath(hostname)
	nexthops := map[int]netip.Addr{}
	for _, nexthop := range []struct {
		leaf    string
		version int
	}{
		{NextHopV4Leaf, 4},
		{NextHopV6Leaf, 6},
	} {
		key := hostpath + "/" + nexthop.leaf
		resp, err := c.keys.Get(ctx, key, nil)
		if err != nil {
			if etcd.IsKeyNotFound(err) {
				continue
			}
			return nil, fromEtcd(key, err)
		}
		addr, err := netip.ParseAddr(strings.TrimSpace(resp.Node.Value))
		if err != nil {
			continue
		}
		addr = addr.Unmap()
		if (nexthop.version == 4) != addr.Is4() {
			continue
		}
		nexthops[nexthop.version] = addr
	}
	logger(ctx).Infof("default next hops for host %s: %v", hostname, nexthops)
	return nexthops, nil
}
