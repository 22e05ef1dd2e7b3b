// Package version holds the build version string.
package version

// Version is the current cqb version. Overridden at build time via
// -ldflags "-X cqb/internal/version.Version=x.y.z".
var Version = "1.2.0"
