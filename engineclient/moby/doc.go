/*
Package moby implements the Docker/Moby engine client. It inspects freshly
started containers for their initial process and their environment.
*/
package moby
