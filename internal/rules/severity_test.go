package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrder(t *testing.T) {
	assert.True(t, Minor < Moderate)
	assert.True(t, Moderate < High)
	assert.True(t, High.AtLeast(Moderate))
	assert.False(t, Minor.AtLeast(Moderate))
	assert.True(t, Minor.AtLeast(0))
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{
		"minor": Minor, " MODERATE ": Moderate, "High": High, "low": Minor, "medium": Moderate,
	} {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSeverity("critical")
	assert.Error(t, err)
}

func TestSeverityJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		S Severity `json:"s"`
	}{High})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"HIGH"}`, string(b))

	var out struct {
		S Severity `json:"s"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"s":"moderate"}`), &out))
	assert.Equal(t, Moderate, out.S)
}
