package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codewithboateng/metalint/internal/rules"
)

// ErrWaiverNotFound is returned when revoking an unknown or already revoked
// waiver.
var ErrWaiverNotFound = errors.New("waiver not found or already revoked")

func (db *DB) CreateWaiver(w rules.Waiver) (int64, error) {
	if w.RuleID == "" || w.Reason == "" || w.CreatedBy == "" {
		return 0, fmt.Errorf("waiver: rule_id, reason and created_by are required")
	}
	now := db.now().UTC().Format(timeLayout)
	res, err := db.conn.Exec(`
INSERT INTO waivers(rule_id, path_sub, pattern_sub, reason, expires_at, created_by, created_at)
VALUES(?,?,?,?,?,?,?)`,
		w.RuleID, nz(w.PathSub), nz(w.PatternSub), w.Reason, nzTime(w.ExpiresAt), w.CreatedBy, now)
	if err != nil {
		return 0, fmt.Errorf("insert waiver: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) RevokeWaiver(id int64) error {
	res, err := db.conn.Exec(`UPDATE waivers SET revoked_at=? WHERE id=? AND revoked_at IS NULL`,
		db.now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("revoke waiver %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("revoke waiver %d: %w", id, ErrWaiverNotFound)
	}
	return nil
}

// ListWaivers returns waivers newest first. activeOnly drops revoked and
// expired ones.
func (db *DB) ListWaivers(activeOnly bool) ([]rules.Waiver, error) {
	q := `
SELECT id, rule_id, COALESCE(path_sub,''), COALESCE(pattern_sub,''),
       reason, expires_at, created_by, created_at, revoked_at
FROM waivers`
	args := []any{}
	if activeOnly {
		q += ` WHERE (revoked_at IS NULL) AND (expires_at IS NULL OR expires_at > ?)`
		args = append(args, db.now().UTC().Format(timeLayout))
	}
	q += ` ORDER BY id DESC`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list waivers: %w", err)
	}
	defer rows.Close()

	var out []rules.Waiver
	for rows.Next() {
		var (
			w           rules.Waiver
			exp, ca, ra sql.NullString
		)
		if err := rows.Scan(&w.ID, &w.RuleID, &w.PathSub, &w.PatternSub, &w.Reason, &exp, &w.CreatedBy, &ca, &ra); err != nil {
			return nil, err
		}
		if t, ok := parseTime(exp); ok {
			w.ExpiresAt = t
		}
		if t, ok := parseTime(ca); ok {
			w.CreatedAt = t
		}
		if t, ok := parseTime(ra); ok {
			w.RevokedAt = &t
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func parseTime(s sql.NullString) (time.Time, bool) {
	if !s.Valid {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	return t, err == nil
}

func nz(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nzTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
