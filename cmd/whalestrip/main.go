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

// whalestrip is a Powerstrip hook adapter that attaches freshly started Docker
// containers to a Calico network and records their endpoints in etcd.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thediveo/whalestrip/log"
	"github.com/thediveo/whalestrip/store"
)

// Flag names.
const (
	logLevelFlag      = "log-level"
	logFileFlag       = "log-file"
	logFileSizeFlag   = "log-file-size"
	logFileBackupFlag = "log-file-backups"
	etcdAuthorityFlag = "etcd-authority"
	etcdRetryFlag     = "etcd-retry"
	hostnameFlag      = "hostname"
	dockerHostFlag    = "docker-host"
	listenFlag        = "listen"
	hookPathFlag      = "hook-path"
	netNoneFlag       = "net-none"
	joinGroupsFlag    = "join-groups"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd returns the whalestrip root command, which serves hook requests
// unless told to run one of its subcommands.
func newRootCmd() *cobra.Command {
	var logCloser interface{ Close() error }
	rootCmd := &cobra.Command{
		Use:          "whalestrip",
		Short:        "Attach Docker containers to Calico networks via Powerstrip hooks",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString(logLevelFlag)
			file, _ := cmd.Flags().GetString(logFileFlag)
			size, _ := cmd.Flags().GetInt(logFileSizeFlag)
			backups, _ := cmd.Flags().GetInt(logFileBackupFlag)
			closer, err := log.Setup(cmd.ErrOrStderr(), log.Options{
				Level:   level,
				File:    file,
				MaxSize: size,
				Backups: backups,
			})
			if err != nil {
				return err
			}
			logCloser = closer
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
		RunE: serve,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringP(logLevelFlag, "l", "info",
		"log level (options \"trace\", \"debug\", \"info\", \"warn\", \"error\", \"fatal\", \"panic\")")
	pf.String(logFileFlag, "",
		"additionally log into the specified file, such as /var/log/calico/powerstrip-calico.log")
	pf.Int(logFileSizeFlag, 1, "maximum size of the log file in MB before it gets rotated")
	pf.Int(logFileBackupFlag, 5, "number of rotated log files to keep")
	pf.String(etcdAuthorityFlag, store.AuthorityFromEnv(),
		"etcd service \"host:port\", defaults to $"+store.AuthorityEnv)
	pf.String(hostnameFlag, "", "name of this host in etcd, defaults to the OS hostname")

	addServeFlags(rootCmd.Flags())
	rootCmd.AddCommand(
		newServeCmd(),
		newGroupsCmd(),
		newNextHopsCmd(),
		newEndpointCmd(),
	)
	return rootCmd
}
