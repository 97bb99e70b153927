// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

import (
	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
)

// Version returns the version of the converter and its command line tool.
func Version() semver.Version {
	return version
}
