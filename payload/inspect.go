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

package payload

import (
	"net/netip"

	"github.com/pkg/errors"
)

// PatchInspectResponse sets the IP address in a container inspection
// response body to the specified address, as Docker doesn't know about the
// addresses of containers it didn't network itself. The patched body is
// serialized compactly; its field order may differ from the original body.
func PatchInspectResponse(body string, addr netip.Addr) Result {
	if !addr.IsValid() {
		return unchanged(body, errors.New("invalid IP address"))
	}
	details, err := decodeObject([]byte(body))
	if err != nil {
		return unchanged(body, err)
	}
	netsettings, err := subObject(details, "NetworkSettings",
		func() map[string]any { return map[string]any{} })
	if err != nil {
		return unchanged(body, err)
	}
	netsettings["IPAddress"] = addr.String()
	patched, err := encodeCompact(details)
	if err != nil {
		return unchanged(body, errors.Wrap(err, "cannot reserialize response"))
	}
	return Result{Body: patched, Changed: true}
}
