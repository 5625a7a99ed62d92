package core

import (
	"context"
	"fmt"
	"strings"

	"buildlock/internal/types"
)

// DiffParents compares two ancestor chains position by position, nearest
// parent first. Identity may legitimately differ between aligned parents, so
// groupId and artifactId are compared as fields. Once the shorter chain is
// exhausted the rest of the longer one is missing (locked side) or
// extraneous (actual side).
func (d Differ) DiffParents(ctx context.Context, locked []types.Parent, actual []types.Parent) types.DiffReport {
	report := types.DiffReport{}
	shared := min(len(locked), len(actual))
	for i := 0; i < shared; i++ {
		expected := locked[i].Artifact
		found := actual[i].Artifact
		var fields []string
		if expected.ID.GroupID != found.ID.GroupID {
			fields = append(fields, FieldGroupID)
		}
		if expected.ID.ArtifactID != found.ID.ArtifactID {
			fields = append(fields, FieldArtifactID)
		}
		updated, versionFields := d.compareVersion(ctx, expected, found)
		fields = append(fields, versionFields...)
		updated, integrityFields := d.compareIntegrity(ctx, updated, found)
		fields = append(fields, integrityFields...)
		if len(fields) > 0 {
			report.Different = append(report.Different, fmt.Sprintf(
				differentMessageTemplate,
				updated.StringWithoutIntegrity(),
				found.StringWithoutIntegrity(),
				strings.Join(fields, ", "),
			))
		}
	}
	for _, parent := range locked[shared:] {
		report.Missing = append(report.Missing, parent.StringWithoutIntegrity())
	}
	for _, parent := range actual[shared:] {
		report.Extraneous = append(report.Extraneous, parent.StringWithoutIntegrity())
	}
	return report
}
