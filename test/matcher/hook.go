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
	"encoding/json"

	o "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
)

// BeAHookResponse succeeds when the actual value is a JSON-encoded Powerstrip
// hook response with protocol version 1, and additionally all passed matchers
// succeed on the decoded response object.
func BeAHookResponse(matchers ...types.GomegaMatcher) types.GomegaMatcher {
	return o.WithTransform(func(body []byte) (map[string]any, error) {
		var resp map[string]any
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, err
		}
		return resp, nil
	}, o.SatisfyAll(append([]types.GomegaMatcher{
		o.HaveKeyWithValue("PowerstripProtocolVersion", o.BeEquivalentTo(1)),
	}, matchers...)...))
}

// HaveModifiedClientRequestBody succeeds if the actual decoded hook response
// carries a modified client request with a body satisfying the specified
// matcher (or value).
func HaveModifiedClientRequestBody(body any) types.GomegaMatcher {
	return o.HaveKeyWithValue("ModifiedClientRequest",
		o.HaveKeyWithValue("Body", body))
}

// HaveModifiedServerResponseBody succeeds if the actual decoded hook response
// carries a modified server response with a body satisfying the specified
// matcher (or value).
func HaveModifiedServerResponseBody(body any) types.GomegaMatcher {
	return o.HaveKeyWithValue("ModifiedServerResponse",
		o.HaveKeyWithValue("Body", body))
}
