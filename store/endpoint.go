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
	"encoding/json"
	"net/netip"
	"strings"

	etcd "go.etcd.io/etcd/client/v2"

	"github.com/thediveo/whalestrip"
)

// CreateEndpoint writes the specified endpoint of a container on the
// specified host into the store. It writes the endpoint's addresses, MAC,
// and state as three independent leaves.
//
// CreateEndpoint logs and then swallows any failure, so callers cannot learn
// about failures from the call itself; they need to read the endpoint back
// if they need to know. Creating the same endpoint again is always safe.
func (c *Client) CreateEndpoint(ctx context.Context, hostname, containerID string, ep whalestrip.Endpoint) {
	l := logger(ctx).WithField("container", containerID)
	if err := checkSegments(hostname, containerID, ep.ID); err != nil {
		l.WithError(err).Error("refusing to write endpoint outside its subtree")
		return
	}
	addrs := ep.Addrs
	if addrs == nil {
		addrs = []whalestrip.Address{}
	}
	addrsJSON, err := json.Marshal(addrs)
	if err != nil {
		l.WithError(err).Error("cannot serialize endpoint addresses")
		return
	}
	eppath := EndpointPath(hostname, containerID, ep.ID)
	l.Infof("creating endpoint at %s", eppath)
	for _, leaf := range []struct{ name, value string }{
		{AddrsLeaf, string(addrsJSON)},
		{MACLeaf, ep.MAC},
		{StateLeaf, ep.State},
	} {
		if err := c.write(ctx, eppath+"/"+leaf.name, leaf.value); err != nil {
			l.WithError(err).Error("cannot write endpoint to etcd")
			return
		}
	}
}

// ReadContainerConfig returns the whole subtree of the specified container,
// or nil if the container doesn't exist or the store cannot be read.
func (c *Client) ReadContainerConfig(ctx context.Context, hostname, containerID string) *etcd.Node {
	l := logger(ctx).WithField("container", containerID)
	if err := checkSegments(hostname, containerID); err != nil {
		l.WithError(err).Warn("invalid container path")
		return nil
	}
	cpath := ContainerPath(hostname, containerID)
	l.Debugf("getting container config at %s", cpath)
	resp, err := c.keys.Get(ctx, cpath, &etcd.GetOptions{Recursive: true, Sort: true})
	if err != nil {
		if etcd.IsKeyNotFound(err) {
			l.Debug("no such container in etcd")
			return nil
		}
		l.WithError(err).Error("cannot read container config from etcd")
		return nil
	}
	return resp.Node
}

// ContainerAddress returns the first address of the first endpoint of the
// specified container. It returns a NotFound error if the container has no
// endpoint or the endpoint has no address.
func (c *Client) ContainerAddress(ctx context.Context, hostname, containerID string) (netip.Addr, error) {
	if err := checkSegments(hostname, containerID); err != nil {
		return netip.Addr{}, err
	}
	epspath := EndpointsPath(hostname, containerID)
	logger(ctx).Debugf("getting endpoint config at %s", epspath)
	resp, err := c.keys.Get(ctx, epspath, &etcd.GetOptions{Recursive: true, Sort: true})
	if err != nil {
		return netip.Addr{}, fromEtcd(epspath, err)
	}
	for _, leaf := range leaves(resp.Node) {
		if !strings.HasSuffix(leaf.Key, "/"+AddrsLeaf) {
			continue
		}
		var addrs []whalestrip.Address
		if err := json.Unmarshal([]byte(leaf.Value), &addrs); err != nil {
			return netip.Addr{}, &Error{Kind: Malformed, Key: leaf.Key, Err: err}
		}
		if len(addrs) == 0 {
			return netip.Addr{}, &Error{Kind: NotFound, Key: leaf.Key}
		}
		if !addrs[0].Addr.IsValid() {
			return netip.Addr{}, &Error{Kind: Malformed, Key: leaf.Key}
		}
		return addrs[0].Addr, nil
	}
	return netip.Addr{}, &Error{Kind: NotFound, Key: epspath}
}

// EndpointID returns the ID of the (first) endpoint of the specified
// container on our own host. It returns a NotFound error if the container has
// no endpoint.
func (c *Client) EndpointID(ctx context.Context, containerID string) (string, error) {
	if err := checkSegments(c.hostname, containerID); err != nil {
		return "", err
	}
	epspath := EndpointsPath(c.hostname, containerID)
	resp, err := c.keys.Get(ctx, epspath, &etcd.GetOptions{Sort: true})
	if err != nil {
		return "", fromEtcd(epspath, err)
	}
	if !resp.Node.Dir || len(resp.Node.Nodes) == 0 {
		return "", &Error{Kind: NotFound, Key: epspath}
	}
	return lastSegment(resp.Node.Nodes[0].Key), nil
}
