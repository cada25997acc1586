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

package netns

import (
	"context"
	"encoding/hex"
	"net"
	"net/netip"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/thediveo/whalestrip"
	"github.com/thediveo/whalestrip/log"
	"github.com/vishvananda/netlink"
	vns "github.com/vishvananda/netns"
)

// Interface naming; Linux limits interface names to 15 characters.
const (
	HostInterfacePrefix = "cali"
	TempInterfacePrefix = "tmp"
	DefaultInterface    = "eth1"

	idPrefixLen = 11
)

// VethAttacher attaches containers to the host by veth pairs.
type VethAttacher struct {
	ifname string        // interface name inside the container.
	newID  func() string // endpoint ID generator.
}

// NewOption represents options to NewVethAttacher.
type NewOption func(*VethAttacher)

// WithInterfaceName sets the name of the container-side interface, defaulting
// to "eth1".
func WithInterfaceName(name string) NewOption {
	return func(a *VethAttacher) {
		a.ifname = name
	}
}

// WithIDGenerator sets the generator for endpoint IDs, defaulting to random
// UUIDs in hex notation without dashes.
func WithIDGenerator(gen func() string) NewOption {
	return func(a *VethAttacher) {
		a.newID = gen
	}
}

// NewVethAttacher returns a new VethAttacher, configured using the specified
// options.
func NewVethAttacher(opts ...NewOption) *VethAttacher {
	a := &VethAttacher{
		ifname: DefaultInterface,
		newID:  NewEndpointID,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewEndpointID returns a new random endpoint ID, consisting of 32 hex digits.
func NewEndpointID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// InterfaceNames returns the names of the host-side veth interface as well as
// the temporary name of the container-side peer for the specified endpoint ID.
func InterfaceNames(endpointID string) (host, temp string) {
	prefix := endpointID
	if len(prefix) > idPrefixLen {
		prefix = prefix[:idPrefixLen]
	}
	return HostInterfacePrefix + prefix, TempInterfacePrefix + prefix
}

// Attach the container with the specified initial process to the host, using
// the specified IP address for the container. On success, it returns the
// active endpoint describing the container's network identity. On failure,
// the host-side veth interface gets removed, which takes its peer with it.
func (a *VethAttacher) Attach(ctx context.Context, ip netip.Addr, pid int) (whalestrip.Endpoint, error) {
	if !ip.IsValid() {
		return whalestrip.Endpoint{}, errors.New("cannot attach container without a valid IP address")
	}
	if pid <= 0 {
		return whalestrip.Endpoint{}, errors.Errorf("cannot attach container with invalid PID %d", pid)
	}
	ip = ip.Unmap()
	id := a.newID()
	hostname, tempname := InterfaceNames(id)
	logger := log.G(ctx).WithField("interface", hostname)

	ns, err := vns.GetFromPid(pid)
	if err != nil {
		return whalestrip.Endpoint{}, errors.Wrapf(err, "cannot reference network namespace of PID %d", pid)
	}
	defer ns.Close()

	veth := &netlink.Veth{
		LinkAttrs: netlink.LinkAttrs{Name: hostname},
		PeerName:  tempname,
	}
	if err := netlink.LinkAdd(veth); err != nil {
		return whalestrip.Endpoint{}, errors.Wrapf(err, "cannot create veth pair %s/%s", hostname, tempname)
	}
	mac, err := a.configure(ns, hostname, tempname, ip)
	if err != nil {
		if delerr := netlink.LinkDel(veth); delerr != nil {
			logger.Warnf("cannot remove veth pair: %s", delerr)
		}
		return whalestrip.Endpoint{}, err
	}
	logger.Debugf("attached PID %d with address %s and MAC %s", pid, ip, mac)
	return whalestrip.Endpoint{
		ID:    id,
		Addrs: []whalestrip.Address{{Addr: ip}},
		MAC:   mac,
		State: whalestrip.EndpointStateActive,
	}, nil
}

// configure the freshly created veth pair: moves the peer into the specified
// network namespace and sets it up there, and finally brings up the host side
// with a route to the container's address. Returns the MAC of the container's
// interface.
func (a *VethAttacher) configure(ns vns.NsHandle, hostname, tempname string, ip netip.Addr) (string, error) {
	peer, err := netlink.LinkByName(tempname)
	if err != nil {
		return "", errors.Wrapf(err, "cannot find veth peer %s", tempname)
	}
	if err := netlink.LinkSetNsFd(peer, int(ns)); err != nil {
		return "", errors.Wrapf(err, "cannot move veth peer %s into container", tempname)
	}

	h, err := netlink.NewHandleAt(ns)
	if err != nil {
		return "", errors.Wrap(err, "cannot open netlink in container")
	}
	defer h.Delete()
	if peer, err = h.LinkByName(tempname); err != nil {
		return "", errors.Wrapf(err, "cannot find veth peer %s in container", tempname)
	}
	if err := h.LinkSetName(peer, a.ifname); err != nil {
		return "", errors.Wrapf(err, "cannot rename veth peer to %s", a.ifname)
	}
	if err := h.AddrAdd(peer, &netlink.Addr{IPNet: HostPrefix(ip)}); err != nil {
		return "", errors.Wrapf(err, "cannot assign address %s", ip)
	}
	if err := h.LinkSetUp(peer); err != nil {
		return "", errors.Wrapf(err, "cannot bring up %s", a.ifname)
	}
	if err := h.RouteAdd(&netlink.Route{
		LinkIndex: peer.Attrs().Index,
		Scope:     netlink.SCOPE_LINK,
		Dst:       DefaultPrefix(ip),
	}); err != nil {
		return "", errors.Wrapf(err, "cannot add default route via %s", a.ifname)
	}
	if peer, err = h.LinkByName(a.ifname); err != nil {
		return "", errors.Wrapf(err, "cannot find %s in container", a.ifname)
	}
	mac := peer.Attrs().HardwareAddr.String()

	host, err := netlink.LinkByName(hostname)
	if err != nil {
		return "", errors.Wrapf(err, "cannot find host interface %s", hostname)
	}
	if err := netlink.LinkSetUp(host); err != nil {
		return "", errors.Wrapf(err, "cannot bring up %s", hostname)
	}
	if err := netlink.RouteAdd(&netlink.Route{
		LinkIndex: host.Attrs().Index,
		Scope:     netlink.SCOPE_LINK,
		Dst:       HostPrefix(ip),
	}); err != nil {
		return "", errors.Wrapf(err, "cannot route %s to %s", ip, hostname)
	}
	return mac, nil
}

// HostPrefix returns the /32 or /128 prefix of the specified address.
func HostPrefix(ip netip.Addr) *net.IPNet {
	return &net.IPNet{
		IP:   net.IP(ip.AsSlice()),
		Mask: net.CIDRMask(ip.BitLen(), ip.BitLen()),
	}
}

// DefaultPrefix returns the default route prefix (0.0.0.0/0 or ::/0) of the
// address family of the specified address.
func DefaultPrefix(ip netip.Addr) *net.IPNet {
	if ip.Is4() {
		return &net.IPNet{IP: net.IPv4zero.To4(), Mask: net.CIDRMask(0, 32)}
	}
	return &net.IPNet{IP: net.IPv6zero, Mask: net.CIDRMask(0, 128)}
}
