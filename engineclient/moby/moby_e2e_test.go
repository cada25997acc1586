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

package moby

import (
	"context"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/thediveo/whalestrip/engineclient"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

const dockerSocket = "unix:///var/run/docker.sock"

const (
	runningName = "whalestrip-moby-running"
	createdName = "whalestrip-moby-created"
)

var _ = Describe("moby engineclient against a real engine", Ordered, func() {

	var pool *dockertest.Pool
	var ec *MobyEngine

	BeforeAll(func() {
		var err error
		pool, err = dockertest.NewPool(dockerSocket)
		if err != nil {
			Skip("needs Docker: " + err.Error())
		}
		if err := pool.Client.Ping(); err != nil {
			Skip("needs a reachable Docker engine: " + err.Error())
		}
		DeferCleanup(func() {
			pool.Client.HTTPClient.CloseIdleConnections()
		})
		ec = Successful(New(dockerSocket))
		DeferCleanup(func() {
			ec.Close()
		})
	})

	It("inspects a running container with its network environment", func(ctx context.Context) {
		_ = pool.RemoveContainerByName(runningName)
		cntr := Successful(pool.RunWithOptions(&dockertest.RunOptions{
			Name:       runningName,
			Repository: "busybox",
			Tag:        "latest",
			Cmd:        []string{"/bin/sleep", "30s"},
			Env:        []string{"CALICO_IP=10.0.0.66", "CALICO_GROUP=web"},
		}))
		DeferCleanup(func() {
			Expect(pool.Purge(cntr)).To(Succeed())
		})

		w := Successful(ec.Inspect(ctx, runningName))
		Expect(w.ID).To(Equal(cntr.Container.ID))
		Expect(w.Name).To(Equal(runningName))
		Expect(w.PID).NotTo(BeZero())
		Expect(w.Env).To(ContainElements("CALICO_IP=10.0.0.66", "CALICO_GROUP=web"))

		Expect(ec.Inspect(ctx, cntr.Container.ID)).To(HaveField("Name", runningName))
	})

	It("reports containers that were never started as processless", func(ctx context.Context) {
		_ = pool.RemoveContainerByName(createdName)
		cntr := Successful(pool.Client.CreateContainer(docker.CreateContainerOptions{
			Name: createdName,
			Config: &docker.Config{
				Image: "busybox:latest",
				Cmd:   []string{"/bin/true"},
				Env:   []string{"CALICO_IP=10.0.0.42"},
			},
		}))
		DeferCleanup(func() {
			Expect(pool.Client.RemoveContainer(docker.RemoveContainerOptions{
				ID:    cntr.ID,
				Force: true,
			})).To(Succeed())
		})

		_, err := ec.Inspect(ctx, createdName)
		Expect(err).To(HaveOccurred())
		Expect(engineclient.IsProcesslessContainer(err)).To(BeTrue())
	})

})
