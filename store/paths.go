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
	"path"
	"strings"
)

// The etcd namespace prefix of all keys whalestrip reads and writes.
const Namespace = "/calico"

// GroupsPath is the directory of all groups.
const GroupsPath = Namespace + "/network/group"

// Leaf names of an endpoint.
const (
	AddrsLeaf = "addrs"
	MACLeaf   = "mac"
	StateLeaf = "state"
)

// Leaf names of a host.
const (
	NextHopV4Leaf = "bird_ip"
	NextHopV6Leaf = "bird6_ip"
)

// HostPath returns the directory of the specified host.
func HostPath(hostname string) string {
	return path.Join(Namespace, "host", hostname)
}

// ContainerPath returns the directory of a Docker container on the specified
// host.
func ContainerPath(hostname, containerID string) string {
	return path.Join(HostPath(hostname), "workload", "docker", containerID)
}

// EndpointsPath returns the directory of all endpoints of a container.
func EndpointsPath(hostname, containerID string) string {
	return path.Join(ContainerPath(hostname, containerID), "endpoint")
}

// EndpointPath returns the directory of a single endpoint of a container.
func EndpointPath(hostname, containerID, endpointID string) string {
	return path.Join(EndpointsPath(hostname, containerID), endpointID)
}

// GroupPath returns the directory of the group with the specified ID.
func GroupPath(groupID string) string {
	return path.Join(GroupsPath, groupID)
}

// GroupMemberPath returns the key of the membership marker of an endpoint in
// a group.
func GroupMemberPath(groupID, endpointID string) string {
	return path.Join(GroupPath(groupID), "member", endpointID)
}

// validSegment returns true if the specified string can be safely used as a
// single key path segment: it must neither be empty, nor contain the path
// separator, nor be a relative path element.
func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.Contains(s, "/")
}

// checkSegments returns a Malformed error for the first of the specified
// key path segments that is not valid, otherwise nil.
func checkSegments(segments ...string) error {
	for _, seg := range segments {
		if !validSegment(seg) {
			return &Error{Kind: Malformed, Key: seg}
		}
	}
	return nil
}

// lastSegment returns the last path segment of a key.
func lastSegment(key string) string {
	return path.Base(key)
}
