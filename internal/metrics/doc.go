// Package metrics records run measurements in a Prometheus registry and
// reads runtime memory statistics.
package metrics
