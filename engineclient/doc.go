/*
Package engineclient defines the EngineClient interface between concrete
container engine adaptor implementations and the endpoint provisioning, which
only needs to know a few details about a freshly started container.

Sub-packages implement specific container engines adaptors.
*/
package engineclient
