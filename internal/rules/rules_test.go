package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objectWithDescription = `<?xml version="1.0" encoding="UTF-8"?>
<CustomObject xmlns="http://soap.sforce.com/2006/04/metadata">
    <description>Tracks
    invoices</description>
    <label>Invoice</label>
</CustomObject>
`

const objectWithoutDescription = `<?xml version="1.0" encoding="UTF-8"?>
<CustomObject xmlns="http://soap.sforce.com/2006/04/metadata">
    <label>Invoice</label>
</CustomObject>
`

func TestIncludesDescription_ManagedNeverViolates(t *testing.T) {
	r := NewIncludesDescriptionRule()
	for _, contents := range []string{objectWithDescription, objectWithoutDescription, ""} {
		_, ok := r.Evaluate(NewMetadata("objects/ns__Invoice__c.object-meta.xml", contents, true))
		assert.False(t, ok, "managed metadata must be exempt: %q", contents)
	}
}

func TestIncludesDescription_Presence(t *testing.T) {
	r := NewIncludesDescriptionRule()

	_, ok := r.Evaluate(NewMetadata("objects/Invoice__c.object-meta.xml", objectWithDescription, false))
	assert.False(t, ok)

	v, ok := r.Evaluate(NewMetadata("objects/Invoice__c.object-meta.xml", objectWithoutDescription, false))
	require.True(t, ok)
	assert.Equal(t, IDIncludesDescription, v.RuleID)
	assert.Equal(t, Moderate, v.Severity)
	assert.Equal(t, "The metadata does not include a description", v.Message)
	assert.Equal(t, "objects/Invoice__c.object-meta.xml", v.Path)
	assert.Nil(t, v.Location)
}

func TestIncludesEqualsBoolean_DefaultTemplate(t *testing.T) {
	r, err := NewIncludesEqualsBooleanRule("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFormulaTemplate, r.Template().String())

	cases := []struct {
		name     string
		contents string
		want     bool
	}{
		{"equals true", "<formula>IF(Checkbox__c = true, 1, 0)</formula>", true},
		{"upper case", "<formula>IF(Checkbox__c = TRUE, 1, 0)</formula>", true},
		{"equals false no space", "<formula>Checkbox__c=false</formula>", true},
		{"boolean used directly", "<formula>IF(Checkbox__c, 1, 0)</formula>", false},
		{"outside formula", "<description>Checkbox__c = true</description>", false},
		{"spans lines", "<formula>IF(\n  Checkbox__c =\n  true, 1, 0)</formula>", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := r.Evaluate(NewMetadata("fields/X.field-meta.xml", tc.contents, false))
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestIncludesEqualsBoolean_Location(t *testing.T) {
	r, err := NewIncludesEqualsBooleanRule("")
	require.NoError(t, err)

	contents := "<field>\n<formula>IF(Checkbox__c = true, 1, 0)</formula>\n</field>"
	v, ok := r.Evaluate(NewMetadata("fields/X.field-meta.xml", contents, false))
	require.True(t, ok)
	require.NotNil(t, v.Location)
	assert.Equal(t, 8, v.Location.Offset)
	assert.Equal(t, "IF(Checkbox__c = true, 1, 0)", v.Location.Text)
	assert.Equal(t, Minor, v.Severity)
}

func TestIncludesEqualsBoolean_CustomTemplate(t *testing.T) {
	r, err := NewIncludesEqualsBooleanRule("<custom>{innerText}</custom>")
	require.NoError(t, err)

	_, ok := r.Evaluate(NewMetadata("x.xml", "<custom>Checkbox__c = true</custom>", false))
	assert.True(t, ok)

	_, ok = r.Evaluate(NewMetadata("x.xml", "<formula>Checkbox__c = true</formula>", false))
	assert.False(t, ok)
}

func TestIncludesEqualsBoolean_GroupedTemplate(t *testing.T) {
	r, err := NewIncludesEqualsBooleanRule("<(formula|errorConditionFormula)>{innerText}</(formula|errorConditionFormula)>")
	require.NoError(t, err)

	v, ok := r.Evaluate(NewMetadata("x.xml", "<formula>IF(A__c = true, 1, 0)</formula>", false))
	require.True(t, ok)
	require.NotNil(t, v.Location)
	assert.Equal(t, "IF(A__c = true, 1, 0)", v.Location.Text)
	assert.Equal(t, 0, v.Location.Offset)

	v, ok = r.Evaluate(NewMetadata("x.xml", "<errorConditionFormula>Paid__c = FALSE</errorConditionFormula>", false))
	require.True(t, ok)
	assert.Equal(t, "Paid__c = FALSE", v.Location.Text)
}

func TestIncludesEqualsBoolean_BadTemplate(t *testing.T) {
	for _, tmpl := range []string{
		"<formula></formula>",
		"<a>{innerText}</a><b>{innerText}</b>",
		"<a>({innerText}</a>",
	} {
		_, err := NewIncludesEqualsBooleanRule(tmpl)
		require.Error(t, err, tmpl)
		assert.True(t, errors.Is(err, ErrInvalidTemplate), tmpl)
	}
}

func TestSkipAutomation(t *testing.T) {
	r, err := NewSkipAutomationRule("Skip.Automation=true")
	require.NoError(t, err)

	_, ok := r.Evaluate(NewMetadata("a.xml", "first\nSkip.Automation=true\nlast", false))
	assert.False(t, ok)

	for _, contents := range []string{"", "skip.automation=true", "Skip.Automation=", "Skip.Automation = true"} {
		v, ok := r.Evaluate(NewMetadata("a.xml", contents, false))
		require.True(t, ok, contents)
		assert.Equal(t, "The file does not include the line Skip.Automation=true", v.Message)
		assert.Nil(t, v.Location)
	}

	_, err = NewSkipAutomationRule("")
	assert.ErrorIs(t, err, ErrEmptyMarker)
}

func TestDeactivatedMetadata(t *testing.T) {
	r, err := NewDeactivatedMetadataRule("active")
	require.NoError(t, err)

	_, ok := r.Evaluate(NewMetadata("flows/F.flow-meta.xml", "<status>active</status>", false))
	assert.False(t, ok)

	v, ok := r.Evaluate(NewMetadata("flows/F.flow-meta.xml", "<status>Obsolete</status>", false))
	require.True(t, ok)
	assert.Equal(t, Moderate, v.Severity)
	assert.Equal(t, IDDeactivatedMetadata, v.RuleID)

	_, err = NewDeactivatedMetadataRule("")
	assert.ErrorIs(t, err, ErrEmptyMarker)
}

func TestNamingConvention(t *testing.T) {
	r, err := NewNamingConventionRule(`^[A-Z][A-Za-z0-9_]*$`)
	require.NoError(t, err)

	_, ok := r.Evaluate(NewMetadata("objects/My_Object.object-meta.xml", "", false))
	assert.False(t, ok)

	v, ok := r.Evaluate(NewMetadata("objects/myObject.object-meta.xml", "", false))
	require.True(t, ok)
	assert.Equal(t, High, v.Severity)

	_, err = NewNamingConventionRule(`^[A-Z(`)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestMetadataName(t *testing.T) {
	cases := map[string]string{
		"objects/My_Object.object-meta.xml": "My_Object",
		"a/b/c/Name.x.y.z":                  "Name",
		`win\dir\Flow.flow-meta.xml`:        "Flow",
		"NoDir.xml":                         "NoDir",
		"dir.v2/NoExtension":                "NoExtension",
	}
	for path, want := range cases {
		assert.Equal(t, want, NewMetadata(path, "", false).Name(), path)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	eq, err := NewIncludesEqualsBooleanRule("")
	require.NoError(t, err)
	md := NewMetadata("fields/X.field-meta.xml", "<formula>A__c = false</formula>", false)

	first, ok1 := eq.Evaluate(md)
	second, ok2 := eq.Evaluate(md)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestWithIDAndSummary(t *testing.T) {
	r, err := NewNamingConventionRule(`^[A-Z]`, WithID("FLOW-NAMING"), WithSummary("Flows start upper case."))
	require.NoError(t, err)
	assert.Equal(t, "FLOW-NAMING", r.ID())
	assert.Equal(t, "Flows start upper case.", r.Summary())

	v, ok := r.Evaluate(NewMetadata("flows/lower.flow-meta.xml", "", false))
	require.True(t, ok)
	assert.Equal(t, "FLOW-NAMING", v.RuleID)
}
