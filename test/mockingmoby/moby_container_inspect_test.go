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
	"context"
	"errors"

	"github.com/docker/docker/errdefs"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	. "github.com/thediveo/success"
)

var _ = Describe("inspects mocked containers", func() {

	It("inspects containers by ID and name", func(ctx context.Context) {
		mm := NewMockingMoby()
		defer mm.Close()

		_, err := mm.ContainerInspect(ctx, "foo")
		Expect(err).To(HaveOccurred())
		Expect(errdefs.IsNotFound(err)).To(BeTrue())

		mm.AddContainer(furiousFuruncle)
		details := Successful(mm.ContainerInspect(ctx, furiousFuruncle.ID))
		cmatcher := MatchFields(IgnoreExtras, Fields{
			"ContainerJSONBase": PointTo(MatchFields(IgnoreExtras, Fields{
				"ID":   Equal(furiousFuruncle.ID),
				"Name": Equal("/" + furiousFuruncle.Name),
				"State": PointTo(MatchFields(IgnoreExtras, Fields{
					"Status":  Equal(MockedStatus[furiousFuruncle.Status]),
					"Running": BeTrue(),
					"Paused":  BeFalse(),
					"Pid":     Equal(furiousFuruncle.PID),
				})),
			})),
			"Config": PointTo(MatchFields(IgnoreExtras, Fields{
				"Env": Equal(furiousFuruncle.Env),
			})),
		})
		Expect(details).To(cmatcher)

		details = Successful(mm.ContainerInspect(ctx, furiousFuruncle.Name))
		Expect(details).To(cmatcher)
	})

	It("inspects status correctly", func(ctx context.Context) {
		mm := NewMockingMoby()
		defer mm.Close()
		mm.AddContainer(furiousFuruncle)
		mm.StopContainer(furiousFuruncle.Name)
		details := Successful(mm.ContainerInspect(ctx, furiousFuruncle.Name))
		Expect(details).To(MatchFields(IgnoreExtras, Fields{
			"ContainerJSONBase": PointTo(MatchFields(IgnoreExtras, Fields{
				"ID": Equal(furiousFuruncle.ID),
				"State": PointTo(MatchFields(IgnoreExtras, Fields{
					"Status":  Equal(MockedStatus[MockedExited]),
					"Running": BeFalse(),
					"Paused":  BeFalse(),
					"Pid":     BeZero(),
				})),
			})),
		}))

		mm.AddContainer(pausingPm)
		details = Successful(mm.ContainerInspect(ctx, pausingPm.Name))
		Expect(details).To(MatchFields(IgnoreExtras, Fields{
			"ContainerJSONBase": PointTo(MatchFields(IgnoreExtras, Fields{
				"ID": Equal(pausingPm.ID),
				"State": PointTo(MatchFields(IgnoreExtras, Fields{
					"Status":  Equal(MockedStatus[pausingPm.Status]),
					"Running": BeTrue(),
					"Paused":  BeTrue(),
				})),
			})),
			"Config": PointTo(MatchFields(IgnoreExtras, Fields{
				"Env": BeNil(),
			})),
		}))
	})

	It("recognizes cancelled context", func(ctx context.Context) {
		mm := NewMockingMoby()
		defer mm.Close()

		ctx, cancel := context.WithCancel(ctx)
		cancel()

		Expect(mm.ContainerInspect(ctx, "foo")).Error().To(MatchError(context.Canceled))
	})

	It("registers and calls hooks", func(ctx context.Context) {
		mm := NewMockingMoby()
		defer mm.Close()
		mm.AddContainer(furiousFuruncle)
		doh := errors.New("doh!")

		_, err := mm.ContainerInspect(
			WithHook(ctx, ContainerInspectPost, func(key HookKey, ref string) error {
				Expect(key).To(Equal(ContainerInspectPost))
				Expect(ref).To(Equal(furiousFuruncle.ID))
				return doh
			}), furiousFuruncle.ID)
		Expect(err).To(Equal(doh))

		_, err = mm.ContainerInspect(
			WithHook(ctx, ContainerInspectPre, func(HookKey, string) error {
				return doh
			}), furiousFuruncle.ID)
		Expect(err).To(Equal(doh))
	})

	It("fails only the hooked container", func(ctx context.Context) {
		mm := NewMockingMoby()
		defer mm.Close()
		mm.AddContainer(furiousFuruncle)
		mm.AddContainer(pausingPm)
		doh := errors.New("doh!")

		ctx = WithHook(ctx, ContainerInspectPre, FailFor(furiousFuruncle.ID, doh))
		Expect(mm.ContainerInspect(ctx, furiousFuruncle.ID)).Error().To(MatchError(doh))
		Expect(mm.ContainerInspect(ctx, pausingPm.ID)).Error().NotTo(HaveOccurred())
	})

})
