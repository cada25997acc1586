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

import "context"

// HookKey identifies the point in processing a container inspection request
// where a hook gets called.
type HookKey string

const (
	ContainerInspectPre  = HookKey("containerinspectpre")
	ContainerInspectPost = HookKey("containerinspectpost")
)

// Hook gets called with the hook point and the container name or ID as passed
// in by the API caller. Returning a non-nil error aborts the request with
// this error, so tests can simulate a failing engine for individual
// containers.
//
// Hooks never get called for requests with an already "Done" context.
type Hook func(key HookKey, nameorid string) error

type hookCtxKey HookKey

// WithHook returns a new context with the specific Hook added.
func WithHook(ctx context.Context, key HookKey, hook Hook) context.Context {
	return context.WithValue(ctx, hookCtxKey(key), hook)
}

// FailFor returns a Hook failing only requests for the specified container
// name or ID.
func FailFor(nameorid string, err error) Hook {
	return func(_ HookKey, ref string) error {
		if ref == nameorid {
			return err
		}
		return nil
	}
}

func callHook(ctx context.Context, key HookKey, nameorid string) error {
	if h, ok := ctx.Value(hookCtxKey(key)).(Hook); ok {
		return h(key, nameorid)
	}
	return nil
}
