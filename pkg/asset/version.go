package asset

import "slices"

// VersionUnknown labels packages whose engine version was not recorded.
const VersionUnknown = "unknown"

// Versions lists the engine version labels a package document may carry,
// oldest first.
var Versions = []string{
	VersionUnknown,
	"oldest",
	"4.0", "4.1", "4.2", "4.3", "4.4", "4.5", "4.6", "4.7", "4.8", "4.9",
	"4.10", "4.11", "4.12", "4.13", "4.14", "4.15", "4.16", "4.17", "4.18", "4.19",
	"4.20", "4.21", "4.22", "4.23", "4.24", "4.25", "4.26", "4.27",
	"5.0", "5.1", "5.2",
}

// KnownVersion reports whether v is one of [Versions]. The empty string is
// treated as [VersionUnknown].
func KnownVersion(v string) bool {
	return v == "" || slices.Contains(Versions, v)
}
