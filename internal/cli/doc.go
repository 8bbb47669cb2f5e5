// Package cli implements the sportscal command line: one-shot generation,
// cron-driven watch mode with an optional HTTP feed, calendar checking and
// config scaffolding.
package cli
