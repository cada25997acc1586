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
	"sort"
	"strings"
	"sync"

	etcd "go.etcd.io/etcd/client/v2"
)

var errNotImplemented = errors.New("not implemented")

// MockingEtcd is a mock etcd v2 keys API client, keeping all keys in memory.
type MockingEtcd struct {
	mux        sync.RWMutex
	leaves     map[string]string // values by normalized key.
	index      uint64            // fake etcd index, incremented on each write.
	fail       error             // if non-nil, fail all requests with this error.
	writesLeft int               // successful writes left before failing; <0 for unlimited.
	writes     int               // number of successful writes so far.
}

// Ensure that all needed keys API methods have been implemented.
var _ etcd.KeysAPI = (*MockingEtcd)(nil)

// NewMockingEtcd returns a new, empty instance of a mock etcd keys API.
func NewMockingEtcd() *MockingEtcd {
	return &MockingEtcd{
		leaves:     map[string]string{},
		writesLeft: -1,
	}
}

// Fail makes all further requests fail with the specified error, or succeed
// again when err is nil.
func (me *MockingEtcd) Fail(err error) {
	me.mux.Lock()
	defer me.mux.Unlock()
	me.fail = err
	me.writesLeft = -1
}

// FailAfterWrites lets the specified number of further writes succeed, but
// then fails all further requests with the specified error.
func (me *MockingEtcd) FailAfterWrites(n int, err error) {
	me.mux.Lock()
	defer me.mux.Unlock()
	me.fail = err
	me.writesLeft = n
}

// Writes returns the number of successful writes so far.
func (me *MockingEtcd) Writes() int {
	me.mux.RLock()
	defer me.mux.RUnlock()
	return me.writes
}

// Keys returns the sorted keys of all leaves.
func (me *MockingEtcd) Keys() []string {
	me.mux.RLock()
	defer me.mux.RUnlock()
	keys := make([]string, 0, len(me.leaves))
	for key := range me.leaves {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the value of the leaf with the specified key, or "" if there
// is no such leaf.
func (me *MockingEtcd) Value(key string) string {
	me.mux.RLock()
	defer me.mux.RUnlock()
	return me.leaves[normalize(key)]
}

// Has returns true if there is a leaf with the specified key.
func (me *MockingEtcd) Has(key string) bool {
	me.mux.RLock()
	defer me.mux.RUnlock()
	_, ok := me.leaves[normalize(key)]
	return ok
}

// normalize a key so that it always starts with a single "/" and never ends
// in a "/", with the exception of the root key.
func normalize(key string) string {
	elems := strings.FieldsFunc(key, func(r rune) bool { return r == '/' })
	return "/" + strings.Join(elems, "/")
}

// isCtxCancelled returns an error if the specified Context is done, either
// having been cancelled our reached its deadline. Otherwise, returns nil.
func isCtxCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// readable checks that a read request may proceed, returning an error
// otherwise. It must be called with at least the read lock held.
func (me *MockingEtcd) readable(ctx context.Context) error {
	if err := isCtxCancelled(ctx); err != nil {
		return err
	}
	if me.fail != nil && me.writesLeft <= 0 {
		return me.fail
	}
	return nil
}

// writable checks that a write request may proceed, returning an error
// otherwise. It must be called with the write lock held.
func (me *MockingEtcd) writable(ctx context.Context) error {
	if err := isCtxCancelled(ctx); err != nil {
		return err
	}
	if me.fail == nil {
		return nil
	}
	if me.writesLeft > 0 {
		me.writesLeft--
		return nil
	}
	me.writesLeft = -1
	return me.fail
}

// keyNotFound returns the etcd error for a missing key.
func (me *MockingEtcd) keyNotFound(key string) error {
	return etcd.Error{
		Code:    etcd.ErrorCodeKeyNotFound,
		Message: "Key not found",
		Cause:   key,
		Index:   me.index,
	}
}

// isDir returns true if there are any leaves below the specified key. It must
// be called with at least the read lock held.
func (me *MockingEtcd) isDir(key string) bool {
	prefix := key + "/"
	if key == "/" {
		prefix = "/"
	}
	for leaf := range me.leaves {
		if strings.HasPrefix(leaf, prefix) {
			return true
		}
	}
	return false
}

// node returns the node for the specified key, either a leaf or a
// directory. Directories are only expanded when recursive is true, or for the
// top-level directory one level deep. It must be called with at least the
// read lock held.
func (me *MockingEtcd) node(key string, recursive bool, depth int) *etcd.Node {
	if value, ok := me.leaves[key]; ok {
		return &etcd.Node{Key: key, Value: value}
	}
	n := &etcd.Node{Key: key, Dir: true}
	if !recursive && depth > 0 {
		return n
	}
	prefix := key + "/"
	if key == "/" {
		prefix = "/"
	}
	children := map[string]struct{}{}
	for leaf := range me.leaves {
		if !strings.HasPrefix(leaf, prefix) {
			continue
		}
		child, _, _ := strings.Cut(strings.TrimPrefix(leaf, prefix), "/")
		children[prefix+child] = struct{}{}
	}
	childkeys := make([]string, 0, len(children))
	for child := range children {
		childkeys = append(childkeys, child)
	}
	sort.Strings(childkeys)
	for _, child := range childkeys {
		n.Nodes = append(n.Nodes, me.node(child, recursive, depth+1))
	}
	return n
}

// Get the node with the specified key, optionally recursively including all
// nodes below a directory node. Child nodes are always sorted by key.
func (me *MockingEtcd) Get(ctx context.Context, key string, opts *etcd.GetOptions) (*etcd.Response, error) {
	me.mux.RLock()
	defer me.mux.RUnlock()
	if err := me.readable(ctx); err != nil {
		return nil, err
	}
	key = normalize(key)
	if _, ok := me.leaves[key]; !ok && !me.isDir(key) {
		return nil, me.keyNotFound(key)
	}
	recursive := opts != nil && opts.Recursive
	return &etcd.Response{
		Action: "get",
		Node:   me.node(key, recursive, 0),
		Index:  me.index,
	}, nil
}

// set unconditionally writes a leaf. It must be called with the write lock
// held.
func (me *MockingEtcd) set(action, key, value string) (*etcd.Response, error) {
	if me.isDir(key) {
		return nil, etcd.Error{
			Code:    etcd.ErrorCodeNotFile,
			Message: "Not a file",
			Cause:   key,
			Index:   me.index,
		}
	}
	var prev *etcd.Node
	if old, ok := me.leaves[key]; ok {
		prev = &etcd.Node{Key: key, Value: old}
	}
	me.index++
	me.writes++
	me.leaves[key] = value
	return &etcd.Response{
		Action:   action,
		Node:     &etcd.Node{Key: key, Value: value, CreatedIndex: me.index, ModifiedIndex: me.index},
		PrevNode: prev,
		Index:    me.index,
	}, nil
}

// Set the value of the leaf with the specified key, creating it (and any
// missing parent directories) when necessary. Options are ignored.
func (me *MockingEtcd) Set(ctx context.Context, key, value string, opts *etcd.SetOptions) (*etcd.Response, error) {
	me.mux.Lock()
	defer me.mux.Unlock()
	if err := me.writable(ctx); err != nil {
		return nil, err
	}
	return me.set("set", normalize(key), value)
}

// Create a new leaf, failing if the key already exists.
func (me *MockingEtcd) Create(ctx context.Context, key, value string) (*etcd.Response, error) {
	me.mux.Lock()
	defer me.mux.Unlock()
	if err := me.writable(ctx); err != nil {
		return nil, err
	}
	key = normalize(key)
	if _, ok := me.leaves[key]; ok {
		return nil, etcd.Error{
			Code:    etcd.ErrorCodeNodeExist,
			Message: "Key already exists",
			Cause:   key,
			Index:   me.index,
		}
	}
	return me.set("create", key, value)
}

// Update an existing leaf, failing if the key doesn't exist yet.
func (me *MockingEtcd) Update(ctx context.Context, key, value string) (*etcd.Response, error) {
	me.mux.Lock()
	defer me.mux.Unlock()
	if err := me.writable(ctx); err != nil {
		return nil, err
	}
	key = normalize(key)
	if _, ok := me.leaves[key]; !ok {
		return nil, me.keyNotFound(key)
	}
	return me.set("update", key, value)
}

// Delete a leaf or, when opts.Recursive is set, a whole directory.
func (me *MockingEtcd) Delete(ctx context.Context, key string, opts *etcd.DeleteOptions) (*etcd.Response, error) {
	me.mux.Lock()
	defer me.mux.Unlock()
	if err := me.writable(ctx); err != nil {
		return nil, err
	}
	key = normalize(key)
	if old, ok := me.leaves[key]; ok {
		delete(me.leaves, key)
		me.index++
		me.writes++
		return &etcd.Response{
			Action:   "delete",
			Node:     &etcd.Node{Key: key},
			PrevNode: &etcd.Node{Key: key, Value: old},
			Index:    me.index,
		}, nil
	}
	if !me.isDir(key) {
		return nil, me.keyNotFound(key)
	}
	if opts == nil || !opts.Recursive {
		return nil, etcd.Error{
			Code:    etcd.ErrorCodeNotFile,
			Message: "Not a file",
			Cause:   key,
			Index:   me.index,
		}
	}
	prefix := key + "/"
	for leaf := range me.leaves {
		if strings.HasPrefix(leaf, prefix) || key == "/" {
			delete(me.leaves, leaf)
		}
	}
	me.index++
	me.writes++
	return &etcd.Response{
		Action: "delete",
		Node:   &etcd.Node{Key: key, Dir: true},
		Index:  me.index,
	}, nil
}

// CreateInOrder is not implemented.
func (me *MockingEtcd) CreateInOrder(ctx context.Context, dir, value string, opts *etcd.CreateInOrderOptions) (*etcd.Response, error) {
	return nil, errNotImplemented
}

// Watcher returns a watcher that immediately fails, as watching isn't
// implemented.
func (me *MockingEtcd) Watcher(key string, opts *etcd.WatcherOptions) etcd.Watcher {
	return notImplementedWatcher{}
}

type notImplementedWatcher struct{}

func (notImplementedWatcher) Next(context.Context) (*etcd.Response, error) {
	return nil, errNotImplemented
}
