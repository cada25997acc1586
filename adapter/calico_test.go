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

package adapter

import (
	"context"
	"errors"
	"net/netip"
	"sync"

	"github.com/thediveo/whalestrip"
	"github.com/thediveo/whalestrip/engineclient/moby"
	"github.com/thediveo/whalestrip/store"
	"github.com/thediveo/whalestrip/test/mocketcd"
	"github.com/thediveo/whalestrip/test/mockingmoby"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/whalestrip/test/matcher"
)

const (
	testHost     = "moby-dick"
	testEndpoint = "b4ba98ee5ac211e5"
	testMAC      = "ee:ee:ee:ee:ee:ee"
)

var (
	furiousFuruncle = mockingmoby.MockedContainer{
		ID:     "6666666666",
		Name:   "furious_furuncle",
		Status: mockingmoby.MockedRunning,
		PID:    666,
		Env:    []string{"PATH=/bin", "CALICO_IP=10.0.0.66", "CALICO_GROUP=web"},
	}

	loneLamprey = mockingmoby.MockedContainer{
		ID:     "4242424242",
		Name:   "lone_lamprey",
		Status: mockingmoby.MockedRunning,
		PID:    42,
		Env:    []string{"PATH=/bin"},
	}

	bogusBarnacle = mockingmoby.MockedContainer{
		ID:     "1111111111",
		Name:   "bogus_barnacle",
		Status: mockingmoby.MockedRunning,
		PID:    111,
		Env:    []string{"CALICO_IP=10.0.0.666"},
	}

	deadDummy = mockingmoby.MockedContainer{
		ID:     "1234567890",
		Name:   "dead_dummy",
		Status: mockingmoby.MockedDead,
		Env:    []string{"CALICO_IP=10.0.0.1"},
	}
)

// attachment records a single call to an Attacher.
type attachment struct {
	IP  netip.Addr
	PID int
}

// fakeAttacher records attachments and hands out endpoints without touching
// any real network namespaces.
type fakeAttacher struct {
	mux         sync.Mutex
	attachments []attachment
	err         error
}

func (a *fakeAttacher) Attach(ctx context.Context, ip netip.Addr, pid int) (whalestrip.Endpoint, error) {
	a.mux.Lock()
	defer a.mux.Unlock()
	a.attachments = append(a.attachments, attachment{IP: ip, PID: pid})
	if a.err != nil {
		return whalestrip.Endpoint{}, a.err
	}
	return whalestrip.Endpoint{
		ID:    testEndpoint,
		Addrs: []whalestrip.Address{{Addr: ip}},
		MAC:   testMAC,
		State: whalestrip.EndpointStateActive,
	}, nil
}

func (a *fakeAttacher) Attachments() []attachment {
	a.mux.Lock()
	defer a.mux.Unlock()
	return append([]attachment{}, a.attachments...)
}

var _ = Describe("Calico adapter", func() {

	var mm *mockingmoby.MockingMoby
	var me *mocketcd.MockingEtcd
	var st *store.Client
	var attacher *fakeAttacher
	var calico *Calico
	doh := errors.New("D'oh!")

	BeforeEach(func() {
		mm = mockingmoby.NewMockingMoby()
		for _, c := range []mockingmoby.MockedContainer{
			furiousFuruncle, loneLamprey, bogusBarnacle, deadDummy,
		} {
			mm.AddContainer(c)
		}
		engine := moby.NewMobyEngine(mm)
		DeferCleanup(func() { engine.Close() })
		me = mocketcd.NewMockingEtcd()
		st = store.New(me, store.WithHostname(testHost))
		attacher = &fakeAttacher{}
		calico = New(engine, st, attacher, WithHostname(testHost))
	})

	It("defaults to the OS hostname", func() {
		Expect(New(nil, nil, nil).Hostname()).NotTo(BeEmpty())
		Expect(calico.Hostname()).To(Equal(testHost))
	})

	Context("provisioning started containers", func() {

		It("attaches containers and records their endpoints", func(ctx context.Context) {
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeTrue())
			Expect(attacher.Attachments()).To(ConsistOf(attachment{
				IP:  netip.MustParseAddr("10.0.0.66"),
				PID: furiousFuruncle.PID,
			}))
			eppath := store.EndpointPath(testHost, furiousFuruncle.ID, testEndpoint)
			Expect(me.Keys()).To(ConsistOf(
				eppath+"/addrs", eppath+"/mac", eppath+"/state"))
			Expect(me.Value(eppath + "/addrs")).To(MatchJSON(`[{"addr":"10.0.0.66"}]`))
			Expect(me.Value(eppath + "/mac")).To(Equal(testMAC))
			Expect(me.Value(eppath + "/state")).To(Equal("active"))
		})

		It("records endpoints under the container ID as given", func(ctx context.Context) {
			Expect(calico.Started(ctx, furiousFuruncle.Name)).To(BeTrue())
			Expect(me.Has(store.EndpointPath(testHost, furiousFuruncle.Name, testEndpoint) + "/addrs")).To(BeTrue())
		})

		It("leaves containers without an IP address alone", func(ctx context.Context) {
			Expect(calico.Started(ctx, loneLamprey.ID)).To(BeFalse())
			Expect(attacher.Attachments()).To(BeEmpty())
			Expect(me.Writes()).To(BeZero())
		})

		It("leaves containers with an invalid IP address alone", func(ctx context.Context) {
			Expect(calico.Started(ctx, bogusBarnacle.ID)).To(BeFalse())
			Expect(attacher.Attachments()).To(BeEmpty())
			Expect(me.Writes()).To(BeZero())
		})

		It("skips containers without a process", func(ctx context.Context) {
			Expect(calico.Started(ctx, deadDummy.ID)).To(BeFalse())
			Expect(attacher.Attachments()).To(BeEmpty())
			Expect(me.Writes()).To(BeZero())
		})

		It("skips unknown containers and failing engines", func(ctx context.Context) {
			Expect(calico.Started(ctx, "mad_mary")).To(BeFalse())
			Expect(calico.Started(
				mockingmoby.WithHook(ctx, mockingmoby.ContainerInspectPre,
					func(mockingmoby.HookKey, string) error { return doh }),
				furiousFuruncle.ID)).To(BeFalse())
			Expect(attacher.Attachments()).To(BeEmpty())
			Expect(me.Writes()).To(BeZero())
		})

		It("doesn't record endpoints when attaching fails", func(ctx context.Context) {
			attacher.err = doh
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeFalse())
			Expect(attacher.Attachments()).To(HaveLen(1))
			Expect(me.Writes()).To(BeZero())
		})

		It("survives store failures", func(ctx context.Context) {
			me.Fail(doh)
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeTrue())
			Expect(me.Keys()).To(BeEmpty())
		})

		It("ignores groups unless group membership is enabled", func(ctx context.Context) {
			Expect(me.Set(ctx, store.GroupPath("g1")+"/name", "web", nil)).Error().NotTo(HaveOccurred())
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeTrue())
			Expect(me.Has(store.GroupMemberPath("g1", testEndpoint))).To(BeFalse())
		})

		It("adds containers to their groups", func(ctx context.Context) {
			calico = New(calico.engine, st, attacher,
				WithHostname(testHost), WithGroupMembership(st))
			Expect(me.Set(ctx, store.GroupPath("g1")+"/name", "web", nil)).Error().NotTo(HaveOccurred())
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeTrue())
			Expect(me.Has(store.GroupMemberPath("g1", testEndpoint))).To(BeTrue())
		})

		It("provisions even when the group is unknown", func(ctx context.Context) {
			calico = New(calico.engine, st, attacher,
				WithHostname(testHost), WithGroupMembership(st))
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeTrue())
			Expect(me.Keys()).To(HaveLen(3))
		})

	})

	Context("patching inspection results", func() {

		const inspection = `{"Id":"6666666666","State":{"Pid":666},"NetworkSettings":{"IPAddress":"","Ports":null}}`

		It("patches the endpoint address", func(ctx context.Context) {
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeTrue())
			body, patched := calico.Inspected(ctx, furiousFuruncle.ID, inspection)
			Expect(patched).To(BeTrue())
			Expect(body).To(MatchJSON(`{"Id":"6666666666","State":{"Pid":666},"NetworkSettings":{"IPAddress":"10.0.0.66","Ports":null}}`))
		})

		It("passes through containers without endpoints", func(ctx context.Context) {
			Expect(calico.Inspected(ctx, loneLamprey.ID, inspection)).To(Equal(inspection))
			_, patched := calico.Inspected(ctx, loneLamprey.ID, inspection)
			Expect(patched).To(BeFalse())
		})

		It("passes through when the store fails", func(ctx context.Context) {
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeTrue())
			me.Fail(doh)
			body, patched := calico.Inspected(ctx, furiousFuruncle.ID, inspection)
			Expect(patched).To(BeFalse())
			Expect(body).To(Equal(inspection))
		})

		It("passes through malformed inspection results", func(ctx context.Context) {
			Expect(calico.Started(ctx, furiousFuruncle.ID)).To(BeTrue())
			body, patched := calico.Inspected(ctx, furiousFuruncle.ID, `[1, 2, 3]`)
			Expect(patched).To(BeFalse())
			Expect(body).To(Equal(`[1, 2, 3]`))
		})

	})

})

var _ = Describe("attacher functions", func() {

	It("adapts functions", func(ctx context.Context) {
		var f Attacher = AttacherFunc(func(ctx context.Context, ip netip.Addr, pid int) (whalestrip.Endpoint, error) {
			return whalestrip.Endpoint{ID: "42", Addrs: []whalestrip.Address{{Addr: ip}}}, nil
		})
		ep, err := f.Attach(ctx, netip.MustParseAddr("fd00::42"), 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(ep).To(And(HaveID("42"), HaveAddress("fd00::42")))
	})

})
