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
	"sort"
	"strings"

	etcd "go.etcd.io/etcd/client/v2"
)

// Groups returns all configured groups as a map of group IDs to group names.
// If there are no groups at all, an empty map is returned.
func (c *Client) Groups(ctx context.Context) (map[string]string, error) {
	groups := map[string]string{}
	resp, err := c.keys.Get(ctx, GroupsPath, &etcd.GetOptions{Recursive: true, Sort: true})
	if err != nil {
		if etcd.IsKeyNotFound(err) {
			return groups, nil
		}
		return nil, fromEtcd(GroupsPath, err)
	}
	for _, leaf := range leaves(resp.Node) {
		// We're only interested in ".../group/{groupId}/name" and
		// nothing deeper or shallower.
		segments := strings.Split(strings.TrimPrefix(leaf.Key, GroupsPath+"/"), "/")
		if len(segments) == 2 && segments[1] == "name" {
			groups[segments[0]] = leaf.Value
		}
	}
	return groups, nil
}

// GroupID returns the ID of the group with the specified name. As group names
// are not unique, the first matching group in order of group IDs wins. It
// returns a NotFound error if there is no group with the specified name.
func (c *Client) GroupID(ctx context.Context, name string) (string, error) {
	groups, err := c.Groups(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if groups[id] == name {
			return id, nil
		}
	}
	return "", &Error{Kind: NotFound, Key: GroupsPath + "?name=" + name}
}

// AddContainerToGroup adds the endpoint of the specified container on our
// own host to the group with the specified name. If there is no such group,
// or the container has no endpoint, nothing gets written and a NotFound error
// is returned.
func (c *Client) AddContainerToGroup(ctx context.Context, containerID, groupName string) error {
	groupID, err := c.GroupID(ctx, groupName)
	if err != nil {
		return err
	}
	endpointID, err := c.EndpointID(ctx, containerID)
	if err != nil {
		return err
	}
	if err := checkSegments(groupID, endpointID); err != nil {
		return err
	}
	memberpath := GroupMemberPath(groupID, endpointID)
	logger(ctx).Infof("adding endpoint %s to group %s", endpointID, GroupPath(groupID))
	if err := c.write(ctx, memberpath, ""); err != nil {
		logger(ctx).WithError(err).Error("cannot write group membership to etcd")
		return err
	}
	return nil
}
