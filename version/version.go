package version

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var version = "unknown"
var commit = ""
var date = "unknown"

// GetVersion returns current application version
func GetVersion() string {
	return version
}

// GetDevVersion returns current app version plus commit
func GetDevVersion() string {
	if commit != "" {
		return fmt.Sprintf("%v-%v", GetVersion(), commit[:6])
	}
	return GetVersion()
}

// GetFullBuildName returns current app version, commit and build time
func GetFullBuildName() string {
	return fmt.Sprintf("%v, commit %v, built at %v", GetVersion(), commit, date)
}

// BuildInfo returns version and build details as log fields
func BuildInfo() logrus.Fields {
	return logrus.Fields{
		"version":    GetVersion(),
		"build_date": date,
	}
}
