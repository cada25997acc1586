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

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/thediveo/whalestrip/store"
	etcd "go.etcd.io/etcd/client/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const allFlag = "all"

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the groups known to etcd",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := newStore(cmd)
			if err != nil {
				return err
			}
			groups, err := st.Groups(cmd.Context())
			if err != nil {
				return err
			}
			ids := maps.Keys(groups)
			slices.Sort(ids)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, id := range ids {
				fmt.Fprintf(w, "%s\t%s\n", id, groups[id])
			}
			return w.Flush()
		},
	}
}

func newNextHopsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nexthops [HOSTNAME]",
		Short: "Show the default next hops of a host",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStore(cmd)
			if err != nil {
				return err
			}
			hostname := st.Hostname()
			if len(args) > 0 {
				hostname = args[0]
			}
			hops, err := st.DefaultNextHops(cmd.Context(), hostname)
			if err != nil {
				return err
			}
			versions := maps.Keys(hops)
			slices.Sort(versions)
			for _, version := range versions {
				fmt.Fprintf(cmd.OutOrStdout(), "IPv%d %s\n", version, hops[version])
			}
			return nil
		},
	}
}

func newEndpointCmd() *cobra.Command {
	endpointCmd := &cobra.Command{
		Use:   "endpoint CONTAINER-ID",
		Short: "Show the endpoint of a container on this host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStore(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if all, _ := cmd.Flags().GetBool(allFlag); all {
				cpath := store.ContainerPath(st.Hostname(), args[0])
				node := st.ReadContainerConfig(ctx, st.Hostname(), args[0])
				if node == nil {
					return &store.Error{Kind: store.NotFound, Key: cpath}
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				dumpLeaves(w, cpath+"/", node)
				return w.Flush()
			}
			id, err := st.EndpointID(ctx, args[0])
			if err != nil {
				return err
			}
			addr, err := st.ContainerAddress(ctx, st.Hostname(), args[0])
			if err != nil && !store.IsNotFound(err) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "endpoint %s", id)
			if addr.IsValid() {
				fmt.Fprintf(cmd.OutOrStdout(), " with address %s", addr)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	endpointCmd.Flags().BoolP(allFlag, "a", false, "dump all keys stored for the container")
	return endpointCmd
}

// dumpLeaves writes the keys of all leaves below node, relative to prefix,
// together with their values.
func dumpLeaves(w io.Writer, prefix string, node *etcd.Node) {
	if !node.Dir {
		fmt.Fprintf(w, "%s\t%s\n", strings.TrimPrefix(node.Key, prefix), node.Value)
		return
	}
	for _, child := range node.Nodes {
		dumpLeaves(w, prefix, child)
	}
}
