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
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/thediveo/whalestrip/log"
	"github.com/thediveo/whalestrip/payload"
)

// PostHooks get triggered by post-hooks about containers that have been
// started or inspected.
type PostHooks interface {
	// Started gets called after the specified container has been started
	// successfully.
	Started(ctx context.Context, containerID string) bool
	// Inspected gets called after the specified container has been inspected
	// successfully, returning the (possibly) patched inspection result body.
	Inspected(ctx context.Context, containerID string, body string) (string, bool)
}

// Handler handles Powerstrip hook requests. Whatever goes wrong while
// handling a well-formed hook request, it always answers with the original
// client request or server response, so the intercepted Docker API calls
// always complete.
type Handler struct {
	hooks   PostHooks
	netNone bool // rewrite container creation to network mode "none"?
}

// NewOption represents options to New.
type NewOption func(*Handler)

// WithNetworkModeNone enables or disables rewriting container creation
// requests so that Docker doesn't network the new containers itself.
func WithNetworkModeNone(enable bool) NewOption {
	return func(h *Handler) {
		h.netNone = enable
	}
}

// New returns a new hook request Handler, triggering the specified post-hooks.
func New(hooks PostHooks, opts ...NewOption) *Handler {
	h := &Handler{hooks: hooks}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP decodes the hook envelope and dispatches it to the pre-hook or
// post-hook processing. Malformed envelopes are answered with 400 Bad
// Request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Powerstrip might give up on us, but Docker might have already acted, so
	// we carry on regardless.
	ctx := log.WithModule(context.WithoutCancel(r.Context()), "powerstrip")
	logger := log.G(ctx)

	var env Envelope
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&env); err != nil {
		h.reject(w, logger, "invalid", errors.Wrap(err, "malformed hook envelope"))
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.reject(w, logger, "invalid", errors.New("malformed hook envelope: trailing data"))
		return
	}
	switch env.Type {
	case PreHook:
		if env.ClientRequest == nil {
			h.reject(w, logger, env.Type, errors.New("pre-hook without ClientRequest"))
			return
		}
		RespondJSON(w, http.StatusOK, &Response{
			PowerstripProtocolVersion: ProtocolVersion,
			ModifiedClientRequest:     h.preHook(ctx, env.ClientRequest),
		})
	case PostHook:
		if env.ClientRequest == nil || env.ServerResponse == nil {
			h.reject(w, logger, env.Type, errors.New("post-hook without ClientRequest or ServerResponse"))
			return
		}
		RespondJSON(w, http.StatusOK, &Response{
			PowerstripProtocolVersion: ProtocolVersion,
			ModifiedServerResponse:    h.postHook(ctx, env.ClientRequest, env.ServerResponse),
		})
	default:
		h.reject(w, logger, "invalid", errors.Errorf("unsupported hook type %q", env.Type))
	}
}

func (h *Handler) reject(w http.ResponseWriter, logger *logrus.Entry, hooktype string, err error) {
	logger.Warnf("rejecting hook request: %s", err)
	countHook(hooktype, actionRejected)
	RespondBad(w, err)
}

// preHook optionally rewrites container creation requests to network mode
// "none", returning the (possibly) rewritten client request.
func (h *Handler) preHook(ctx context.Context, req *ClientRequest) *ClientRequest {
	if !h.netNone || req.Method != http.MethodPost ||
		ParseRequestPath(req.Request).Action != ActionCreate {
		countHook(PreHook, actionPassed)
		return req
	}
	res := payload.SetNetworkModeNone(req.Body)
	if !res.Changed {
		log.G(ctx).Warnf("cannot set network mode none, passing on unmodified: %s", res.Reason)
		countHook(PreHook, actionPassed)
		return req
	}
	req.Body = res.Body
	countHook(PreHook, actionRewritten)
	return req
}

// postHook triggers provisioning of started containers and patching of
// container inspection results, returning the (possibly) patched server
// response. Failed Docker API calls are passed on without triggering.
func (h *Handler) postHook(ctx context.Context, req *ClientRequest, resp *ServerResponse) *ServerResponse {
	route := ParseRequestPath(req.Request)
	if route.Action == ActionNone || route.Action == ActionCreate {
		countHook(PostHook, actionPassed)
		return resp
	}
	logger := log.G(ctx).WithField("container", route.ContainerID)
	if resp.Code >= http.StatusBadRequest {
		logger.Debugf("Docker failed %s with status %d, passing on", route.Action, resp.Code)
		countHook(PostHook, actionPassed)
		return resp
	}
	switch route.Action {
	case ActionStart:
		if h.hooks.Started(ctx, route.ContainerID) {
			countHook(PostHook, actionProvisioned)
			return resp
		}
	case ActionInspect:
		if body, ok := h.hooks.Inspected(ctx, route.ContainerID, resp.Body); ok {
			resp.Body = body
			countHook(PostHook, actionPatched)
			return resp
		}
	}
	countHook(PostHook, actionPassed)
	return resp
}
