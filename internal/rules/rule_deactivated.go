package rules

import (
	"fmt"
	"strings"
)

const IDDeactivatedMetadata = "METADATA-DEACTIVATED"

// DeactivatedMetadataRule fires when the active flag is absent: metadata
// without it is treated as a deactivated definition that should not be
// committed.
type DeactivatedMetadataRule struct {
	base
	activeFlag string
}

func NewDeactivatedMetadataRule(activeFlag string, opts ...Option) (*DeactivatedMetadataRule, error) {
	if activeFlag == "" {
		return nil, fmt.Errorf("deactivated metadata: %w", ErrEmptyMarker)
	}
	r := &DeactivatedMetadataRule{
		base: base{
			id:       IDDeactivatedMetadata,
			summary:  "Deactivated metadata should not be committed.",
			severity: Moderate,
			message:  "Deactivated metadata should not be included in source control, please consider removing from the source",
		},
		activeFlag: activeFlag,
	}
	r.apply(opts)
	return r, nil
}

func (r *DeactivatedMetadataRule) ActiveFlag() string { return r.activeFlag }

func (r *DeactivatedMetadataRule) Evaluate(md Metadata) (Violation, bool) {
	if strings.Contains(md.RawContents(), r.activeFlag) {
		return Violation{}, false
	}
	return r.violation(md, nil), true
}
