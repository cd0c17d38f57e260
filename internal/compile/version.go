// Package compile deterministically assembles validated rules into the
// compiled reference document.
package compile

import (
	"fmt"
	"strconv"
	"strings"
)

// BumpPatch increments the patch component of a semantic version string.
func BumpPatch(version string) (string, error) {
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) != 3 {
		return "", &VersionError{Version: version, Message: "expected major.minor.patch"}
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return "", &VersionError{Version: version, Message: fmt.Sprintf("component %q is not a non-negative integer", part)}
		}
		nums[i] = n
	}

	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]+1), nil
}

// UpgradeVersion bumps the patch version in the metadata file and persists
// it. The current value is re-read from disk immediately before the bump
// so repeated invocations never act on a stale version.
func UpgradeVersion(metaPath string) (string, error) {
	meta, err := LoadMeta(metaPath)
	if err != nil {
		return "", err
	}

	next, err := BumpPatch(meta.Version)
	if err != nil {
		return "", err
	}

	meta.Version = next
	if err := SaveMeta(metaPath, meta); err != nil {
		return "", err
	}
	return next, nil
}
