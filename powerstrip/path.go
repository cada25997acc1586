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
	"net/url"
	"regexp"
	"strings"
)

// Action is what a Docker API request path is about, as far as we care.
type Action int

// The Docker API request actions we recognize.
const (
	ActionNone    Action = iota // anything else.
	ActionCreate                // containers/create
	ActionStart                 // containers/{id}/start
	ActionInspect               // containers/{id}/json
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionStart:
		return "start"
	case ActionInspect:
		return "inspect"
	}
	return "none"
}

// Route is a parsed Docker API request path.
type Route struct {
	Action      Action
	ContainerID string // only for ActionStart and ActionInspect.
}

var apiVersionSegment = regexp.MustCompile(`^v[0-9.]+$`)

// ParseRequestPath parses the specified Docker API request URI, ignoring any
// query and an optional leading API version path segment, such as "v1.16".
func ParseRequestPath(uri string) Route {
	path := uri
	if u, err := url.Parse(uri); err == nil {
		path = u.Path
	} else if before, _, ok := strings.Cut(uri, "?"); ok {
		path = before
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) > 0 && apiVersionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}
	switch {
	case len(segments) == 2 && segments[0] == "containers" && segments[1] == "create":
		return Route{Action: ActionCreate}
	case len(segments) == 3 && segments[0] == "containers" && segments[1] != "":
		switch segments[2] {
		case "start":
			return Route{Action: ActionStart, ContainerID: segments[1]}
		case "json":
			return Route{Action: ActionInspect, ContainerID: segments[1]}
		}
	}
	return Route{Action: ActionNone}
}
