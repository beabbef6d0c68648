package cli

import (
	"github.com/Masterminds/semver/v3"
)

// ConfigFormatVersion is the format version written into new config files.
const ConfigFormatVersion = "0.1.0"

// configConstraint accepts files of the same minor format version.
var configConstraint *semver.Constraints

func init() {
	var err error
	configConstraint, err = semver.NewConstraint("~" + ConfigFormatVersion)
	if err != nil {
		panic(err)
	}
}

// IsConfigVersionCompatible reports whether a config file written with the
// given format version can be read. Invalid version strings are rejected.
func IsConfigVersionCompatible(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return configConstraint.Check(v)
}
