// Copyright 2022 Harald Albrecht.
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

package matcher

import (
	"net/netip"

	"github.com/thediveo/whalestrip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HaveID and HaveName matchers", func() {

	It("matches", func() {
		type T struct {
			ID   string
			Name string
		}
		type K struct {
			Foo string
		}

		t := T{ID: "FOO", Name: "foo_bar"}
		Expect(t).To(HaveID(t.ID))
		Expect(t).NotTo(HaveID("BAR"))
		Expect(&t).To(HaveName("foo_bar"))

		k := K{Foo: "FOO"}
		Expect(HaveID(k.Foo).Match(k)).Error().To(HaveOccurred())
	})

})

var _ = Describe("HaveAddress matcher", func() {

	It("matches endpoint addresses", func() {
		ep := whalestrip.Endpoint{
			ID: "deadbeef",
			Addrs: []whalestrip.Address{
				{Addr: netip.MustParseAddr("10.0.0.2")},
				{Addr: netip.MustParseAddr("fd00::2")},
			},
		}
		Expect(ep).To(HaveAddress("10.0.0.2"))
		Expect(&ep).To(HaveAddress("fd00::2"))
		Expect(ep).NotTo(HaveAddress("10.0.0.3"))
		Expect(whalestrip.Endpoint{}).NotTo(HaveAddress("10.0.0.2"))
	})

})
