package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyWaivers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []Violation{
		{RuleID: IDNamingConvention, Path: "objects/legacy.object-meta.xml", Message: "bad name"},
		{RuleID: IDNamingConvention, Path: "objects/other.object-meta.xml", Message: "bad name"},
		{RuleID: IDIncludesEqualsBoolean, Path: "fields/F.field-meta.xml", Location: &Location{Text: "Legacy__c = true"}},
		{RuleID: IDSkipAutomation, Path: "triggers/T.trigger-meta.xml"},
	}
	revoked := now.Add(-time.Hour)
	waivers := []Waiver{
		{RuleID: "naming-convention", PathSub: "LEGACY"},
		{RuleID: IDIncludesEqualsBoolean, PatternSub: "legacy__c"},
		{RuleID: IDSkipAutomation, ExpiresAt: now.Add(-time.Minute)},
		{RuleID: IDNamingConvention, RevokedAt: &revoked},
	}

	kept, waived := ApplyWaivers(in, waivers, now)
	assert.Equal(t, 2, waived)
	assert.Equal(t, []Violation{in[1], in[3]}, kept)
}

func TestApplyWaivers_Empty(t *testing.T) {
	in := []Violation{{RuleID: "X"}}
	kept, waived := ApplyWaivers(in, nil, time.Now())
	assert.Equal(t, in, kept)
	assert.Zero(t, waived)
}
