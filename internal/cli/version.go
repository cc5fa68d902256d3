package cli

import (
	"fmt"
	"io"

	"github.com/blang/semver"
)

const AppName = "go-ismingest"

var appVersion = "dev"

func SetVersion(version string) {
	if version != "" {
		appVersion = version
	}
}

func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "%s, %s\n", AppName, FormatVersion(appVersion))
}

// FormatVersion prefixes a parseable semantic version with "v" and returns
// anything else unchanged.
func FormatVersion(version string) string {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return version
	}
	return "v" + v.String()
}
