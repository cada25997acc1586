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
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Result of a best-effort body transformation. Body is always usable: it is
// either the transformed body (Changed is true), or the unmodified original
// body, in which case Reason optionally tells why the transformation was
// skipped.
type Result struct {
	Body    string
	Changed bool
	Reason  error
}

// unchanged returns a Result for an untouched body, with the reason why.
func unchanged(body string, reason error) Result {
	return Result{Body: body, Reason: reason}
}

// decodeObject decodes a single JSON object, keeping numbers as json.Number so
// that they survive a round trip without getting mangled into float64s. Any
// data following the object, other than whitespace, is an error.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, errors.Wrap(err, "body is not a JSON object")
	}
	if obj == nil {
		return nil, errors.New("body is not a JSON object")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	return obj, nil
}

// encodeCompact serializes the specified value using compact separators and
// without escaping HTML-relevant characters.
func encodeCompact(v any) (string, error) {
	var buff bytes.Buffer
	enc := json.NewEncoder(&buff)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buff.Bytes(), "\n")), nil
}

// subObject returns the named JSON object member of obj. If the member is
// absent and create is non-nil, then the object returned by create gets
// inserted and returned.
func subObject(obj map[string]any, name string, create func() map[string]any) (map[string]any, error) {
	member, ok := obj[name]
	if !ok || member == nil {
		if create == nil {
			return nil, errors.Errorf("missing %s", name)
		}
		sub := create()
		obj[name] = sub
		return sub, nil
	}
	sub, ok := member.(map[string]any)
	if !ok {
		return nil, errors.Errorf("%s is not a JSON object", name)
	}
	return sub, nil
}
