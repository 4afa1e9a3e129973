// Package infra contains technical adapters: the model artifact store, route
// history sources, metrics sinks, the MQTT publisher and the zerolog logger.
// These packages depend only on the interfaces defined in the core packages.
package infra
