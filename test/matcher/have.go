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

package matcher

import (
	"net/netip"

	o "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
)

// HaveID succeeds if the actual value has an "ID" field with the specified
// value.
func HaveID(id string) types.GomegaMatcher {
	return o.HaveField("ID", id)
}

// HaveName succeeds if the actual value has a "Name" field with the specified
// value.
func HaveName(name string) types.GomegaMatcher {
	return o.HaveField("Name", name)
}

// HaveAddress succeeds if the actual value is an Endpoint (or a pointer to
// one) that lists the specified IP address in its Addrs.
func HaveAddress(addr string) types.GomegaMatcher {
	return o.HaveField("Addrs", o.ContainElement(
		o.HaveField("Addr", netip.MustParseAddr(addr))))
}
