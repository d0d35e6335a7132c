// Package memory holds in-process implementations of the offer, action and
// buyer stores. They back the memory deployment mode and the service tests.
package memory
