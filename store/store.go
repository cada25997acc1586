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
	"context"
	"net"
	"os"
	"strconv"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	etcd "go.etcd.io/etcd/client/v2"

	"github.com/thediveo/whalestrip/log"
)

// Client gives typed access to the Calico key namespace in an etcd store.
// A Client is safe for concurrent use.
type Client struct {
	keys       etcd.KeysAPI
	hostname   string                 // our own host, for container lookups.
	newBackOff func() backoff.BackOff // write retry policy.
}

// NewOption represents options to New when creating new store clients.
type NewOption func(*Client)

// WithHostname sets the name of the host whose containers are looked up by
// those operations that don't get passed a hostname explicitly. It defaults
// to the OS hostname.
func WithHostname(hostname string) NewOption {
	return func(c *Client) {
		c.hostname = hostname
	}
}

// WithBackOff sets the retry policy for writes, as a function returning a
// fresh backoff for each write. If not set or nil, failed writes are never
// retried.
func WithBackOff(newBackOff func() backoff.BackOff) NewOption {
	return func(c *Client) {
		if newBackOff != nil {
			c.newBackOff = newBackOff
		}
	}
}

// New returns a new store client using the specified etcd keys API client;
// typically, you would want to use this lower-level constructor only in unit
// tests and instead use Dial in most use cases.
func New(keys etcd.KeysAPI, opts ...NewOption) *Client {
	hostname, _ := os.Hostname()
	c := &Client{
		keys:       keys,
		hostname:   hostname,
		newBackOff: func() backoff.BackOff { return &backoff.StopBackOff{} },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial returns a new store client for the etcd service at the specified
// authority in "host:port" form. Dial doesn't contact the etcd service yet.
func Dial(authority string, opts ...NewOption) (*Client, error) {
	host, port, err := ParseAuthority(authority)
	if err != nil {
		return nil, err
	}
	cl, err := etcd.New(etcd.Config{
		Endpoints: []string{"http://" + net.JoinHostPort(host, strconv.Itoa(port))},
		Transport: etcd.DefaultTransport,
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot create etcd client")
	}
	return New(etcd.NewKeysAPI(cl), opts...), nil
}

// Hostname returns the name of the host this client looks up containers on,
// unless told otherwise.
func (c *Client) Hostname() string { return c.hostname }

// logger returns the logger for store operations.
func logger(ctx context.Context) *logrus.Entry {
	return log.G(log.WithModule(ctx, "store"))
}

// write unconditionally sets the value of the leaf with the specified key,
// retrying according to our backoff policy.
func (c *Client) write(ctx context.Context, key, value string) error {
	err := backoff.Retry(func() error {
		_, err := c.keys.Set(ctx, key, value, nil)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(c.newBackOff(), ctx))
	if err != nil {
		return fromEtcd(key, err)
	}
	return nil
}

// leaves returns all leaf nodes below (and including) the specified node in
// depth-first order.
func leaves(node *etcd.Node) []*etcd.Node {
	if node == nil {
		return nil
	}
	if !node.Dir {
		return []*etcd.Node{node}
	}
	var ls []*etcd.Node
	for _, child := range node.Nodes {
		ls = append(ls, leaves(child)...)
	}
	return ls
}
