package config

import (
	"fmt"
	"slices"
	"strings"
)

// CurrentConfigVersion is written by tooling that generates helper configs.
const CurrentConfigVersion = "1"

var supportedConfigVersions = []string{CurrentConfigVersion}

// checkConfigVersion accepts an absent version as the current one.
func checkConfigVersion(v string) error {
	if v == "" || slices.Contains(supportedConfigVersions, v) {
		return nil
	}
	return fmt.Errorf("unsupported configVersion: %q (supported: %s)", v, strings.Join(supportedConfigVersions, ", "))
}
