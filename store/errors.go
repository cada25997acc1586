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

package store

import (
	"fmt"

	"github.com/pkg/errors"
	etcd "go.etcd.io/etcd/client/v2"
)

// ErrorKind enumerates the few kinds of errors store operations can fail
// with.
type ErrorKind int

// The kinds of store errors.
const (
	// NotFound signals that the requested information doesn't exist, such as
	// a container without any endpoint, or a group name without any group.
	NotFound ErrorKind = iota + 1
	// Unavailable signals a failure to talk to the store.
	Unavailable
	// Malformed signals stored data that cannot be decoded, or keys that
	// would break the key layout.
	Malformed
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Unavailable:
		return "store unavailable"
	case Malformed:
		return "malformed"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the error returned by store operations, telling what kind of
// error happened for which key.
type Error struct {
	Kind ErrorKind // what went wrong.
	Key  string    // store key involved.
	Err  error     // optional underlying cause.
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Key)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Key, e.Err.Error())
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a store error, or zero if the error isn't a
// store error (or nil).
func KindOf(err error) ErrorKind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return 0
}

// IsNotFound returns true if the error signals a domain "not found"
// condition.
func IsNotFound(err error) bool { return KindOf(err) == NotFound }

// IsUnavailable returns true if the error signals a failure in talking to
// the store.
func IsUnavailable(err error) bool { return KindOf(err) == Unavailable }

// fromEtcd classifies an error returned by the etcd keys API.
func fromEtcd(key string, err error) error {
	if etcd.IsKeyNotFound(err) {
		return &Error{Kind: NotFound, Key: key, Err: err}
	}
	return &Error{Kind: Unavailable, Key: key, Err: err}
}
