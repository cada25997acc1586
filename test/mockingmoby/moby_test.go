// Copyright 2021 Harald Albrecht.
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

package mockingmoby

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var (
	mockingMoby = MockedContainer{
		ID:     "1234567890",
		Name:   "mocking_moby",
		Status: MockedCreated,
		PID:    0,
		Env:    []string{"MOTTO=I'm not dead yet"},
	}

	furiousFuruncle = MockedContainer{
		ID:     "6666666666",
		Name:   "furious_furuncle",
		Status: MockedRunning,
		PID:    666,
		Env:    []string{"CALICO_IP=10.0.0.66", "PATH=/bin"},
	}

	pausingPm = MockedContainer{
		ID:     "10",
		Name:   "pausing_pm",
		Status: MockedPaused,
		PID:    10,
	}
)

var _ = Describe("mockingmoby", func() {

	It("looks up container by name or ID", func() {
		mm := NewMockingMoby()
		Expect(mm.DaemonHost()).NotTo(BeEmpty())

		defer mm.Close()
		mm.AddContainer(mockingMoby)

		_, ok := mm.lookup("foo")
		Expect(ok).To(BeFalse())

		c, ok := mm.lookup(mockingMoby.ID)
		Expect(ok).To(BeTrue())
		Expect(c.ID).To(Equal(mockingMoby.ID))

		c, ok = mm.lookup(mockingMoby.Name)
		Expect(ok).To(BeTrue())
		Expect(c.ID).To(Equal(mockingMoby.ID))
	})

	It("replaces and removes containers", func() {
		mm := NewMockingMoby()
		mm.AddContainer(mockingMoby)
		renamed := mockingMoby
		renamed.Name = "mocked_moby"
		mm.AddContainer(renamed)
		_, ok := mm.lookup(mockingMoby.Name)
		Expect(ok).To(BeFalse())
		_, ok = mm.lookup(renamed.Name)
		Expect(ok).To(BeTrue())

		mm.RemoveContainer(renamed.Name)
		_, ok = mm.lookup(renamed.ID)
		Expect(ok).To(BeFalse())
	})

	It("tracks being closed", func() {
		mm := NewMockingMoby()
		Expect(mm.Closed()).To(BeFalse())
		Expect(mm.Close()).To(Succeed())
		Expect(mm.Closed()).To(BeTrue())
	})

})
