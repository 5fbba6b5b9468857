// Package version holds the application version string.
package version

// Version is the application version, overridden at build time via
// -ldflags "-X mapdesk/pkg/version.Version=...".
var Version = "0.4.0-dev"
