package formix

import (
	_ "embed"
	"strings"
)

//go:embed version
var appVersion string

func AppVersion() string {
	return strings.TrimSpace(appVersion)
}
