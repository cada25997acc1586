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

package mocketcd

import (
	"context"
	"errors"

	etcd "go.etcd.io/etcd/client/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("mocking etcd", func() {

	var me *MockingEtcd
	ctx := context.Background()

	BeforeEach(func() {
		me = NewMockingEtcd()
	})

	It("normalizes keys", func() {
		Expect(normalize("")).To(Equal("/"))
		Expect(normalize("/")).To(Equal("/"))
		Expect(normalize("foo/bar/")).To(Equal("/foo/bar"))
		Expect(normalize("//foo//bar")).To(Equal("/foo/bar"))
	})

	It("sets and gets leaves", func() {
		Expect(me.Get(ctx, "/calico/foo", nil)).Error().To(Satisfy(etcd.IsKeyNotFound))

		resp := Successful(me.Set(ctx, "/calico/foo", "bar", nil))
		Expect(resp.Node.Value).To(Equal("bar"))
		Expect(resp.PrevNode).To(BeNil())
		resp = Successful(me.Set(ctx, "/calico/foo", "baz", nil))
		Expect(resp.PrevNode.Value).To(Equal("bar"))

		resp = Successful(me.Get(ctx, "/calico/foo", nil))
		Expect(resp.Node.Dir).To(BeFalse())
		Expect(resp.Node.Value).To(Equal("baz"))
		Expect(me.Writes()).To(Equal(2))
		Expect(me.Keys()).To(ConsistOf("/calico/foo"))
		Expect(me.Value("calico/foo/")).To(Equal("baz"))
		Expect(me.Has("/calico/foo")).To(BeTrue())
		Expect(me.Has("/calico/bar")).To(BeFalse())
		Expect(me.Value("/calico/bar")).To(BeEmpty())
	})

	It("reads directories", func() {
		Expect(me.Set(ctx, "/a/b/c", "1", nil)).Error().NotTo(HaveOccurred())
		Expect(me.Set(ctx, "/a/b/d", "2", nil)).Error().NotTo(HaveOccurred())
		Expect(me.Set(ctx, "/a/e", "3", nil)).Error().NotTo(HaveOccurred())

		resp := Successful(me.Get(ctx, "/a", nil))
		Expect(resp.Node.Dir).To(BeTrue())
		Expect(resp.Node.Nodes).To(HaveLen(2))
		Expect(resp.Node.Nodes[0].Key).To(Equal("/a/b"))
		Expect(resp.Node.Nodes[0].Dir).To(BeTrue())
		Expect(resp.Node.Nodes[0].Nodes).To(BeEmpty())
		Expect(resp.Node.Nodes[1].Key).To(Equal("/a/e"))
		Expect(resp.Node.Nodes[1].Value).To(Equal("3"))

		resp = Successful(me.Get(ctx, "/a/", &etcd.GetOptions{Recursive: true}))
		Expect(resp.Node.Nodes[0].Nodes).To(HaveLen(2))
		Expect(resp.Node.Nodes[0].Nodes[1].Key).To(Equal("/a/b/d"))
		Expect(resp.Node.Nodes[0].Nodes[1].Value).To(Equal("2"))
	})

	It("refuses to overwrite directories", func() {
		Expect(me.Set(ctx, "/a/b", "1", nil)).Error().NotTo(HaveOccurred())
		Expect(me.Set(ctx, "/a", "1", nil)).Error().To(HaveOccurred())
	})

	It("creates, updates, and deletes", func() {
		Expect(me.Update(ctx, "/a", "1")).Error().To(Satisfy(etcd.IsKeyNotFound))
		Expect(me.Create(ctx, "/a", "1")).Error().NotTo(HaveOccurred())
		Expect(me.Create(ctx, "/a", "2")).Error().To(HaveOccurred())
		Expect(me.Update(ctx, "/a", "2")).Error().NotTo(HaveOccurred())
		Expect(me.Value("/a")).To(Equal("2"))

		Expect(me.Set(ctx, "/d/x", "1", nil)).Error().NotTo(HaveOccurred())
		Expect(me.Delete(ctx, "/d", nil)).Error().To(HaveOccurred())
		Expect(me.Delete(ctx, "/d", &etcd.DeleteOptions{Recursive: true})).Error().NotTo(HaveOccurred())
		Expect(me.Delete(ctx, "/a", nil)).Error().NotTo(HaveOccurred())
		Expect(me.Delete(ctx, "/a", nil)).Error().To(Satisfy(etcd.IsKeyNotFound))
		Expect(me.Keys()).To(BeEmpty())
	})

	It("fails on demand", func() {
		doh := errors.New("doh!")
		me.Fail(doh)
		Expect(me.Set(ctx, "/a", "1", nil)).Error().To(MatchError(doh))
		Expect(me.Get(ctx, "/a", nil)).Error().To(MatchError(doh))
		me.Fail(nil)
		Expect(me.Set(ctx, "/a", "1", nil)).Error().NotTo(HaveOccurred())

		me.FailAfterWrites(1, doh)
		Expect(me.Set(ctx, "/b", "1", nil)).Error().NotTo(HaveOccurred())
		Expect(me.Set(ctx, "/c", "1", nil)).Error().To(MatchError(doh))
		Expect(me.Get(ctx, "/a", nil)).Error().To(MatchError(doh))
		Expect(me.Keys()).To(ConsistOf("/a", "/b"))
	})

	It("recognizes cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		Expect(me.Get(cctx, "/a", nil)).Error().To(MatchError(context.Canceled))
		Expect(me.Set(cctx, "/a", "1", nil)).Error().To(MatchError(context.Canceled))
	})

	It("doesn't watch", func() {
		Expect(me.Watcher("/a", nil).Next(ctx)).Error().To(HaveOccurred())
		Expect(me.CreateInOrder(ctx, "/a", "1", nil)).Error().To(HaveOccurred())
	})

})
