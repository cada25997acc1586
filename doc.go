/*
Package whalestrip attaches Docker containers to a Calico-style network
without Docker knowing about it. It plugs into a Powerstrip hook proxy that
sits in front of the Docker engine API: the proxy passes the API requests and
responses of interest to whalestrip which then may rewrite them and, more
importantly, provisions a virtual network interface for each freshly started
container. The network identity of each such container then gets recorded in
a shared etcd coordination store, so that routing daemons, command line
tools, and peer hosts can discover it.

# Hooks

Powerstrip calls whalestrip twice per intercepted API call: once before it
forwards the client's request to the Docker engine ("pre-hook"), and once
after the engine has answered ("post-hook"). Whalestrip understands only two
kinds of post-hooks:

  - "containers/{id}/start": whalestrip inspects the container, picks up the
    IP address from the container's CALICO_IP environment variable, creates a
    veth pair with one end inside the container's network namespace, and then
    writes the resulting [Endpoint] into the coordination store.
  - "containers/{id}/json": whalestrip looks up the container's endpoint
    address in the coordination store and patches it into the inspection
    result, as Docker itself doesn't know about it.

All other hooks pass through untouched. Whalestrip never fails a Docker API
call that is unrelated to its job: any error other than a malformed hook
envelope gets logged and the original request or response returned.

# Information Model

  - A host, identified by its hostname, carries zero or more containers.
  - A container, identified by its Docker container ID, carries at most one
    [Endpoint] (the store layout would support more).
  - An [Endpoint] is the network identity of a container: its addresses, MAC
    address, and state.
  - A group is a named tag with a generated ID that has endpoints as its
    members.

The etcd key layout is:

	/calico/host/{hostname}/bird_ip
	/calico/host/{hostname}/bird6_ip
	/calico/host/{hostname}/workload/docker/{containerId}/endpoint/{endpointId}/addrs
	/calico/host/{hostname}/workload/docker/{containerId}/endpoint/{endpointId}/mac
	/calico/host/{hostname}/workload/docker/{containerId}/endpoint/{endpointId}/state
	/calico/network/group/{groupId}/name
	/calico/network/group/{groupId}/member/{endpointId}
*/
package whalestrip
