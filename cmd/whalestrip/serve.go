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
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/whalestrip/adapter"
	"github.com/thediveo/whalestrip/engineclient/moby"
	"github.com/thediveo/whalestrip/log"
	"github.com/thediveo/whalestrip/netns"
	"github.com/thediveo/whalestrip/powerstrip"
	"github.com/thediveo/whalestrip/store"
)

const (
	defaultListen   = "127.0.0.1:2378"
	shutdownTimeout = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve Powerstrip hook requests (default)",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	addServeFlags(serveCmd.Flags())
	return serveCmd
}

func addServeFlags(f *pflag.FlagSet) {
	f.String(listenFlag, defaultListen, "address to listen on for hook requests")
	f.String(hookPathFlag, powerstrip.DefaultPath, "path to serve hook requests on")
	f.String(dockerHostFlag, "", "Docker API endpoint, defaults to $DOCKER_HOST or the local socket")
	f.Bool(netNoneFlag, false, "create containers with network mode \"none\"")
	f.Bool(joinGroupsFlag, false, "add containers to the group named in their CALICO_GROUP")
	f.Duration(etcdRetryFlag, 5*time.Second, "how long to retry failed etcd writes, 0 disables retrying")
}

// newStore returns a store client as configured by the command's flags.
var newStore = func(cmd *cobra.Command) (*store.Client, error) {
	authority, _ := cmd.Flags().GetString(etcdAuthorityFlag)
	var opts []store.NewOption
	if hostname, _ := cmd.Flags().GetString(hostnameFlag); hostname != "" {
		opts = append(opts, store.WithHostname(hostname))
	}
	if f := cmd.Flags().Lookup(etcdRetryFlag); f != nil {
		if retry, _ := cmd.Flags().GetDuration(etcdRetryFlag); retry > 0 {
			opts = append(opts, store.WithBackOff(func() backoff.BackOff {
				b := backoff.NewExponentialBackOff()
				b.MaxElapsedTime = retry
				return b
			}))
		}
	}
	return store.Dial(authority, opts...)
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(log.WithModule(cmd.Context(), "whalestrip"))
	defer cancel()
	logger := log.G(ctx)

	st, err := newStore(cmd)
	if err != nil {
		return err
	}
	dockerHost, _ := cmd.Flags().GetString(dockerHostFlag)
	engine, err := moby.New(dockerHost)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := []adapter.NewOption{adapter.WithHostname(st.Hostname())}
	if join, _ := cmd.Flags().GetBool(joinGroupsFlag); join {
		opts = append(opts, adapter.WithGroupMembership(st))
	}
	calico := adapter.New(engine, st, netns.NewVethAttacher(), opts...)

	netNone, _ := cmd.Flags().GetBool(netNoneFlag)
	hookPath, _ := cmd.Flags().GetString(hookPathFlag)
	router := mux.NewRouter()
	powerstrip.SetupRoutes(router, hookPath,
		powerstrip.New(calico, powerstrip.WithNetworkModeNone(netNone)))
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")

	listen, _ := cmd.Flags().GetString(listenFlag)
	srv := &http.Server{
		Addr:              listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("cannot gracefully shut down: %s", err)
		}
	}()

	logger.Infof("serving hooks at http://%s%s, Docker at %s, etcd host %s",
		listen, hookPath, engine.API(), st.Hostname())
	err = srv.ListenAndServe()
	cancel()
	<-done
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "cannot serve on %s", listen)
	}
	logger.Info("stopped")
	return nil
}
