package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/metalint/internal/rules"
)

func openTestDB(t *testing.T, now time.Time) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "waivers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.now = func() time.Time { return now }
	require.NoError(t, db.CreateSchema())
	return db
}

func TestWaivers_Lifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db := openTestDB(t, now)

	keep, err := db.CreateWaiver(rules.Waiver{
		RuleID: "OBJECT-NAMING-CONVENTION", PathSub: "legacy", Reason: "migration",
		CreatedBy: "ops", ExpiresAt: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	_, err = db.CreateWaiver(rules.Waiver{
		RuleID: "FLOW-DEACTIVATED", Reason: "expired", CreatedBy: "ops", ExpiresAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	never, err := db.CreateWaiver(rules.Waiver{RuleID: "FIELD-FORMULA-EQUALS-BOOLEAN", Reason: "open ended", CreatedBy: "ops"})
	require.NoError(t, err)

	all, err := db.ListWaivers(false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, never, all[0].ID)
	assert.True(t, all[0].ExpiresAt.IsZero())

	active, err := db.ListWaivers(true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "legacy", active[1].PathSub)
	assert.True(t, now.Equal(active[1].CreatedAt))

	require.NoError(t, db.RevokeWaiver(keep))
	assert.ErrorIs(t, db.RevokeWaiver(keep), ErrWaiverNotFound)

	active, err = db.ListWaivers(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, never, active[0].ID)

	all, err = db.ListWaivers(false)
	require.NoError(t, err)
	require.NotNil(t, all[2].RevokedAt)
	assert.False(t, all[2].Active(now))
}

func TestWaivers_Validation(t *testing.T) {
	db := openTestDB(t, time.Now())
	_, err := db.CreateWaiver(rules.Waiver{RuleID: "X"})
	assert.Error(t, err)
	require.NoError(t, db.LogAudit("ops", "waiver:create", "", map[string]any{"id": 1}))
}
