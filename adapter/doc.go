/*
Package adapter reacts to containers having been started or inspected, as
reported by Powerstrip post-hooks.

When a container has been started, [Calico.Started] inspects it for its initial
process and its environment. If the container's environment carries a
CALICO_IP variable, the container gets attached to the host network using an
[Attacher], and the resulting endpoint is then written into the coordination
store. An optional CALICO_GROUP variable additionally names the group the
container should become a member of.

When a container has been inspected, [Calico.Inspected] patches the endpoint
address from the coordination store into the inspection result.

Both operations never fail their callers: problems get logged and the
containers are left alone.
*/
package adapter
