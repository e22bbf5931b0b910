// Package notifications delivers enrichment-batch events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Batch code depends only on the simple Service interface, so alternative
// transports can be added without touching callers.
package notifications
