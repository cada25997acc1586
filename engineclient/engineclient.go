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

package engineclient

import (
	"context"

	"github.com/thediveo/whalestrip"
)

// EngineClient defines the generic methods needed in order to learn about
// containers of a container engine, regardless of the specific type of engine.
type EngineClient interface {
	// Query (only) those container details of interest to us, given the name or
	// ID of a container.
	Inspect(ctx context.Context, nameorid string) (*whalestrip.Workload, error)
	// Container engine API path.
	API() string
	// Clean up and release any engine client resources, if necessary.
	Close()
}
