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
	"github.com/pkg/errors"
)

// NetworkModeNone is the Docker network mode of containers without any
// Docker-managed networking.
const NetworkModeNone = "none"

// DefaultHostConfig returns the host configuration Docker assumes for
// container creation requests that come without any HostConfig.
func DefaultHostConfig() map[string]any {
	return map[string]any{
		"Binds":           nil,
		"ContainerIDFile": "",
		"LxcConf":         []any{},
		"Privileged":      false,
		"PortBindings":    map[string]any{},
		"Links":           nil,
		"PublishAllPorts": false,
		"Dns":             nil,
		"DnsSearch":       nil,
		"ExtraHosts":      nil,
		"VolumesFrom":     nil,
		"Devices":         []any{},
		"NetworkMode":     "",
		"IpcMode":         "",
		"CapAdd":          nil,
		"CapDrop":         nil,
		"RestartPolicy": map[string]any{
			"Name":              "",
			"MaximumRetryCount": 0,
		},
		"SecurityOpt": nil,
	}
}

// ExtractHostConfig returns the HostConfig object of a container creation
// request body. Minimal requests might come without any HostConfig, so in
// this case DefaultHostConfig is returned instead of failing.
func ExtractHostConfig(body []byte) (map[string]any, error) {
	req, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	return subObject(req, "HostConfig", DefaultHostConfig)
}

// SetNetworkModeNone sets the network mode of a container creation request
// body to "none", so that Docker leaves networking to us. If the body cannot
// be rewritten, the original body is returned unmodified together with the
// reason.
func SetNetworkModeNone(body string) Result {
	req, err := decodeObject([]byte(body))
	if err != nil {
		return unchanged(body, err)
	}
	hostconfig, err := subObject(req, "HostConfig", DefaultHostConfig)
	if err != nil {
		return unchanged(body, err)
	}
	hostconfig["NetworkMode"] = NetworkModeNone
	rewritten, err := encodeCompact(req)
	if err != nil {
		return unchanged(body, errors.Wrap(err, "cannot reserialize request"))
	}
	return Result{Body: rewritten, Changed: true}
}
