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

package engineclient

import (
	"fmt"

	"github.com/pkg/errors"
)

// ProcesslessContainerError signals that a container exists, but lacks an
// initial process, so there is no network namespace to attach to.
type ProcesslessContainerError struct {
	NameOrID string // container name or ID as asked for.
	Engine   string // engine type, such as "docker.com".
}

// NewProcesslessContainerError returns a new ProcesslessContainerError for the
// specified container and engine type.
func NewProcesslessContainerError(nameorid string, engine string) error {
	return &ProcesslessContainerError{NameOrID: nameorid, Engine: engine}
}

func (e *ProcesslessContainerError) Error() string {
	return fmt.Sprintf("%s container '%s' has no initial process", e.Engine, e.NameOrID)
}

// IsProcesslessContainer returns true if the specified error (or any error it
// wraps) is a ProcesslessContainerError.
func IsProcesslessContainer(err error) bool {
	var perr *ProcesslessContainerError
	return errors.As(err, &perr)
}
