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
	"os"

	"github.com/sirupsen/logrus"
	"github.com/thediveo/whalestrip/engineclient"
	"github.com/thediveo/whalestrip/log"
	"github.com/thediveo/whalestrip/payload"
	"github.com/thediveo/whalestrip/store"
)

// Names of the environment variables of containers that control attachment.
const (
	IPEnv    = "CALICO_IP"
	GroupEnv = "CALICO_GROUP"
)

// Calico provisions endpoints for freshly started containers and patches
// endpoint addresses into container inspection results. A Calico is safe for
// concurrent use as long as its collaborators are.
type Calico struct {
	engine   engineclient.EngineClient
	store    EndpointStore
	attacher Attacher
	groups   GroupMembership // optional.
	hostname string
}

// NewOption represents options to New.
type NewOption func(*Calico)

// WithHostname sets the name of the host the containers are running on,
// defaulting to the OS hostname.
func WithHostname(hostname string) NewOption {
	return func(c *Calico) {
		c.hostname = hostname
	}
}

// WithGroupMembership enables adding containers to the groups named in their
// CALICO_GROUP environment variable.
func WithGroupMembership(groups GroupMembership) NewOption {
	return func(c *Calico) {
		c.groups = groups
	}
}

// New returns a new Calico adapter using the specified container engine
// client, endpoint store, and attacher.
func New(engine engineclient.EngineClient, store EndpointStore, attacher Attacher, opts ...NewOption) *Calico {
	hostname, _ := os.Hostname()
	c := &Calico{
		engine:   engine,
		store:    store,
		attacher: attacher,
		hostname: hostname,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hostname returns the name of the host the containers are running on.
func (c *Calico) Hostname() string { return c.hostname }

func containerLogger(ctx context.Context, containerID string) *logrus.Entry {
	return log.G(log.WithModule(ctx, "adapter")).WithField("container", containerID)
}

// Started provisions an endpoint for the specified container that has just
// been started, returning true if an endpoint got created. Containers without
// a CALICO_IP environment variable are left alone.
func (c *Calico) Started(ctx context.Context, containerID string) bool {
	logger := containerLogger(ctx, containerID)
	w, err := c.engine.Inspect(ctx, containerID)
	if err != nil {
		if engineclient.IsProcesslessContainer(err) {
			logger.Info("container has already gone, not attaching")
			return false
		}
		logger.Errorf("cannot inspect container: %s", err)
		return false
	}
	env := payload.ParseEnvironment(w.Env)
	ipvar, ok := env[IPEnv]
	if !ok {
		logger.Warnf("container not configured with %s, not attaching", IPEnv)
		return false
	}
	ip, err := netip.ParseAddr(ipvar)
	if err != nil {
		logger.Errorf("invalid %s %q, not attaching: %s", IPEnv, ipvar, err)
		return false
	}
	group := env[GroupEnv]

	logger.Infof("attaching %s with address %s", w, ip)
	ep, err := c.attacher.Attach(ctx, ip, w.PID)
	if err != nil {
		logger.Errorf("cannot attach container: %s", err)
		return false
	}
	c.store.CreateEndpoint(ctx, c.hostname, containerID, ep)
	logger.Infof("created %s", ep)

	if group == "" {
		return true
	}
	if c.groups == nil {
		logger.Infof("group membership not enabled, ignoring group %q", group)
		return true
	}
	if err := c.groups.AddContainerToGroup(ctx, containerID, group); err != nil {
		logger.Warnf("cannot add container to group %q: %s", group, err)
	}
	return true
}

// Inspected patches the address of the specified container's endpoint into
// the container inspection result body, returning the (possibly) patched body
// and true if it has been patched. Containers without an endpoint are left
// untouched.
func (c *Calico) Inspected(ctx context.Context, containerID string, body string) (string, bool) {
	logger := containerLogger(ctx, containerID)
	addr, err := c.store.ContainerAddress(ctx, c.hostname, containerID)
	if err != nil {
		if store.IsNotFound(err) {
			logger.Debugf("container has no endpoint: %s", err)
		} else {
			logger.Warnf("cannot look up endpoint address: %s", err)
		}
		return body, false
	}
	res := payload.PatchInspectResponse(body, addr)
	if !res.Changed {
		logger.Warnf("cannot patch inspection result: %s", res.Reason)
		return res.Body, false
	}
	logger.Debugf("patched address %s into inspection result", addr)
	return res.Body, true
}
