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
	"net"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// AuthorityEnv is the name of the environment variable locating the etcd
// service in "host:port" form.
const AuthorityEnv = "ETCD_AUTHORITY"

// DefaultAuthority is the etcd service authority used when AuthorityEnv
// isn't set.
const DefaultAuthority = "127.0.0.1:4001"

// AuthorityFromEnv returns the etcd service authority from the environment,
// falling back to the DefaultAuthority.
func AuthorityFromEnv() string {
	if authority := os.Getenv(AuthorityEnv); authority != "" {
		return authority
	}
	return DefaultAuthority
}

// ParseAuthority splits an etcd authority into its host and port parts,
// rejecting anything that isn't "host:port" with a numeric port.
func ParseAuthority(authority string) (host string, port int, err error) {
	h, p, err := net.SplitHostPort(authority)
	if err != nil {
		return "", 0, errors.Wrapf(err, "invalid etcd authority %q, expected host:port", authority)
	}
	if h == "" {
		return "", 0, errors.Errorf("invalid etcd authority %q, missing host", authority)
	}
	port, err = strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, errors.Errorf("invalid etcd authority %q, invalid port %q", authority, p)
	}
	return h, port, nil
}
