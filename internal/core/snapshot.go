package core

import (
	"regexp"
	"strings"
)

const snapshotSuffix = "-SNAPSHOT"

// timestampedSnapshot matches a deployed snapshot qualifier such as
// 1.2.3-20221104.072032-1. The base group is optional.
var timestampedSnapshot = regexp.MustCompile(`^(?:(.*)-)?[0-9]{8}\.[0-9]{6}-[0-9]+$`)

// StripSnapshot removes a trailing -SNAPSHOT or a deployed-snapshot
// timestamp qualifier. Other versions are returned unchanged.
func StripSnapshot(version string) string {
	if strings.HasSuffix(version, snapshotSuffix) {
		return strings.TrimSuffix(version, snapshotSuffix)
	}
	if match := timestampedSnapshot.FindStringSubmatch(version); match != nil {
		return match[1]
	}
	return version
}

// SnapshotMatch reports whether two versions are equal verbatim or after
// snapshot normalization.
func SnapshotMatch(left string, right string) bool {
	if left == right {
		return true
	}
	return StripSnapshot(left) == StripSnapshot(right)
}
