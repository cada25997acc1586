/*
Package netns attaches containers to the host network using veth pairs: one end
of the pair stays in the host's network namespace (named "cali" plus a short
endpoint ID prefix), while the other end gets moved into the network namespace
of the container's initial process. There, it gets renamed (to "eth1" by
default), configured with the container's address as a host prefix, and
becomes the container's default route device.

Attaching requires the CAP_NET_ADMIN and CAP_SYS_ADMIN capabilities.
*/
package netns
