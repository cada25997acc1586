/*
Package store is the coordination store client of whalestrip. It gives typed
access to the hierarchical Calico key namespace in an etcd store (v2 keys
API), where whalestrip records the endpoints of the containers it attached,
and where it looks up host facts and groups.

The store client is constructed once per process and then shared by all
concurrently running hook handlers; it doesn't carry any mutable state after
construction. It doesn't use transactions: an endpoint gets written as three
independent leaves, so a crash in between leaves a partially written
endpoint behind. As each write is an unconditional overwrite, simply
creating the endpoint again is safe.

# Errors

Operations that return errors return a [*Error] with a closed set of error
kinds, so that callers can tell a container that never got attached
([NotFound]) from an unreachable store ([Unavailable]) or corrupt data
([Malformed]), without any error string sniffing. Use [IsNotFound] and
[IsUnavailable] for convenience.
*/
package store
