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

package powerstrip

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// ProtocolVersion is the version of the Powerstrip hook protocol we speak.
const ProtocolVersion = 1

// Hook types.
const (
	PreHook  = "pre-hook"
	PostHook = "post-hook"
)

// Envelope is a hook request as sent by Powerstrip. ServerResponse is only
// present in post-hooks.
type Envelope struct {
	Type           string          `json:"Type"`
	ClientRequest  *ClientRequest  `json:"ClientRequest"`
	ServerResponse *ServerResponse `json:"ServerResponse,omitempty"`
}

// Response is the answer to a hook request, carrying either the (possibly)
// modified client request for pre-hooks or the (possibly) modified server
// response for post-hooks.
type Response struct {
	PowerstripProtocolVersion int             `json:"PowerstripProtocolVersion"`
	ModifiedClientRequest     *ClientRequest  `json:"ModifiedClientRequest,omitempty"`
	ModifiedServerResponse    *ServerResponse `json:"ModifiedServerResponse,omitempty"`
}

// ClientRequest is the Docker API request of a client.
type ClientRequest struct {
	Method  string
	Request string // request URI, including any query.
	Body    string

	orig clientRequest
	raw  json.RawMessage
}

type clientRequest struct {
	Method  string
	Request string
	Body    string
}

// ServerResponse is the Docker engine's response to a client request.
type ServerResponse struct {
	ContentType string
	Body        string
	Code        int

	orig serverResponse
	raw  json.RawMessage
}

type serverResponse struct {
	ContentType string
	Body        string
	Code        int
}

// UnmarshalJSON decodes a client request object, keeping the original
// encoding for passing the request on unmodified.
func (r *ClientRequest) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return errors.Wrap(err, "invalid ClientRequest")
	}
	for name, v := range map[string]*string{
		"Method":  &r.orig.Method,
		"Request": &r.orig.Request,
		"Body":    &r.orig.Body,
	} {
		if err := decodeField(fields, name, v); err != nil {
			return errors.Wrap(err, "invalid ClientRequest")
		}
	}
	r.Method, r.Request, r.Body = r.orig.Method, r.orig.Request, r.orig.Body
	r.raw = append(json.RawMessage{}, data...)
	return nil
}

// MarshalJSON encodes a client request, returning the original encoding if
// the request hasn't been modified.
func (r ClientRequest) MarshalJSON() ([]byte, error) {
	if r.raw != nil && (clientRequest{r.Method, r.Request, r.Body}) == r.orig {
		return r.raw, nil
	}
	fields, err := decodeFields(r.raw)
	if err != nil {
		return nil, err
	}
	setField(fields, "Method", r.Method, r.Method == "")
	setField(fields, "Request", r.Request, r.Request == "")
	setField(fields, "Body", r.Body, r.Body == "")
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a server response object, keeping the original
// encoding for passing the response on unmodified.
func (r *ServerResponse) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return errors.Wrap(err, "invalid ServerResponse")
	}
	if err := decodeField(fields, "ContentType", &r.orig.ContentType); err != nil {
		return errors.Wrap(err, "invalid ServerResponse")
	}
	if err := decodeField(fields, "Body", &r.orig.Body); err != nil {
		return errors.Wrap(err, "invalid ServerResponse")
	}
	if err := decodeField(fields, "Code", &r.orig.Code); err != nil {
		return errors.Wrap(err, "invalid ServerResponse")
	}
	r.ContentType, r.Body, r.Code = r.orig.ContentType, r.orig.Body, r.orig.Code
	r.raw = append(json.RawMessage{}, data...)
	return nil
}

// MarshalJSON encodes a server response, returning the original encoding if
// the response hasn't been modified.
func (r ServerResponse) MarshalJSON() ([]byte, error) {
	if r.raw != nil && (serverResponse{r.ContentType, r.Body, r.Code}) == r.orig {
		return r.raw, nil
	}
	fields, err := decodeFields(r.raw)
	if err != nil {
		return nil, err
	}
	setField(fields, "ContentType", r.ContentType, r.ContentType == "")
	setField(fields, "Body", r.Body, r.Body == "")
	setField(fields, "Code", r.Code, r.Code == 0)
	return json.Marshal(fields)
}

// decodeFields decodes a JSON object into its individual raw fields. Empty
// data decodes into an empty set of fields.
func decodeFields(data []byte) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("not a JSON object")
	}
	return fields, nil
}

// decodeField decodes the named field, if present and not null.
func decodeField(fields map[string]json.RawMessage, name string, v any) error {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(raw, v), "field %s", name)
}

// setField sets the named field to the specified value, unless the value is
// zero and the field is either missing or null.
func setField(fields map[string]json.RawMessage, name string, value any, zero bool) {
	if raw, ok := fields[name]; zero && (!ok || isNull(raw)) {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	fields[name] = b
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
