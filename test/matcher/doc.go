/*
Package matcher provides Gomega matchers for container workloads, network
endpoints, and Powerstrip hook responses.
*/
package matcher
