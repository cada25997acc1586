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

package moby

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/pkg/errors"
	"github.com/thediveo/whalestrip"
	"github.com/thediveo/whalestrip/engineclient"
)

// Type specifies this container engine's type identifier.
const Type = "docker.com"

// MobyAPIClient is the (tiny) subset of a Docker client we need. For
// production, Docker's client.Client is a compatible implementation, for unit
// testing our very own mockingmoby.MockingMoby.
type MobyAPIClient interface {
	ContainerInspect(ctx context.Context, container string) (types.ContainerJSON, error)
	DaemonHost() string
	Close() error
}

// MobyEngine is a Docker-engine EngineClient for inspecting containers
// started through a Docker daemon.
type MobyEngine struct {
	moby   MobyAPIClient // (minimal) moby engine API client.
	engine string        // engine type identifier.
}

// Make sure that the EngineClient interface is fully implemented
var _ (engineclient.EngineClient) = (*MobyEngine)(nil)

// NewMobyEngine returns a new MobyEngine using the specified Docker engine
// client; typically, you would want to use this lower-level constructor only in
// unit tests and instead use moby.New in most use cases.
func NewMobyEngine(moby MobyAPIClient, opts ...NewOption) *MobyEngine {
	me := &MobyEngine{
		moby:   moby,
		engine: Type,
	}
	for _, opt := range opts {
		opt(me)
	}
	return me
}

// NewOption represents options to NewMobyEngine.
type NewOption func(*MobyEngine)

// WithDemonType sets the engine type identifier to something other than
// "docker.com", such as when talking to a podman service.
func WithDemonType(typeid string) NewOption {
	return func(me *MobyEngine) {
		me.engine = typeid
	}
}

// New returns a new MobyEngine talking to the Docker daemon at the specified
// API endpoint. An empty dockerHost picks up DOCKER_HOST and friends from the
// environment, falling back to the default local daemon socket. The API
// version gets negotiated with the daemon on first use.
func New(dockerHost string, opts ...NewOption) (*MobyEngine, error) {
	copts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if dockerHost != "" {
		copts = append(copts, client.WithHost(dockerHost))
	}
	moby, err := client.NewClientWithOpts(copts...)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create Docker client")
	}
	return NewMobyEngine(moby, opts...), nil
}

// Type returns the type identifier for this container engine.
func (me *MobyEngine) Type() string { return me.engine }

// API returns the container engine API path.
func (me *MobyEngine) API() string { return me.moby.DaemonHost() }

// Close cleans up and release any engine client resources, if necessary.
func (me *MobyEngine) Close() {
	_ = me.moby.Close()
}

// Inspect (only) those container details of interest to us, given the name or
// ID of a container. Containers without an initial process are reported as
// ProcesslessContainerError, as there is no network namespace to attach to.
// Other errors are passed on as is, so callers can check them using Docker's
// errdefs.
func (me *MobyEngine) Inspect(ctx context.Context, nameorid string) (*whalestrip.Workload, error) {
	details, err := me.moby.ContainerInspect(ctx, nameorid)
	if err != nil {
		return nil, err
	}
	if details.ContainerJSONBase == nil || details.State == nil || details.State.Pid == 0 {
		return nil, engineclient.NewProcesslessContainerError(nameorid, me.engine)
	}
	w := &whalestrip.Workload{
		ID:   details.ID,
		Name: strings.TrimPrefix(details.Name, "/"),
		PID:  details.State.Pid,
	}
	if details.Config != nil {
		w.Env = details.Config.Env
	}
	return w, nil
}
