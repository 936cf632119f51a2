// Command outputd runs the output channel service.
//
// Configuration comes from environment variables (see internal/config),
// optionally overlaid by a YAML file via -config. SIGINT/SIGTERM trigger a
// graceful shutdown that persists the locked-channel set.
package main
