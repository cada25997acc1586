/*
Package mocketcd is a very minimalist in-memory fake of the etcd v2 keys API,
designed for simple unit tests of the whalestrip coordination store client.
Keys are kept as a flat set of leaves; directories exist only implicitly as
the path prefixes of leaves, which is all the hierarchical Calico key layout
needs.

Getting, setting, creating, updating and deleting keys is supported, as well
as recursive and sorted reads. Watching is not supported.

In contrast to a real etcd, tests can make the fake fail all requests using
[MockingEtcd.Fail], or fail only after a certain number of successful writes
using [MockingEtcd.FailAfterWrites], in order to simulate store outages and
partial writes.
*/
package mocketcd
