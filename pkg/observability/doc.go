/*
Package observability provides tools for monitoring navigation lifecycles.

It includes hook composition, so several consumers can observe one router,
and a Prometheus metrics collector wired through the same hook surface.
*/
package observability
