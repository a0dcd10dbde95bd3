// Package misc holds build time information shared by all parts of the program.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set by linker: -ldflags "-X qrender/misc.version=... -X qrender/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
	appName = ""
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git hash of the build.
func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name, derived from executable unless set at build time.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	if strings.HasSuffix(name, ".test") {
		return "qrender"
	}
	if name = strings.TrimSuffix(name, filepath.Ext(name)); len(name) == 0 {
		return "qrender"
	}
	return name
}
