package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createProfileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		owner_user_id TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		approval_status TEXT NOT NULL,
		rejection_reason TEXT,
		action_required_notes TEXT,
		approved_by_id TEXT,
		approved_by_name TEXT,
		approved_at DATETIME,
		rejected_by_id TEXT,
		rejected_by_name TEXT,
		rejected_at DATETIME,
		suspended BOOLEAN NOT NULL DEFAULT 0,
		suspension_reason TEXT,
		appeal_status TEXT NOT NULL DEFAULT 'NONE',
		appeal_message TEXT,
		appeal_submitted_at DATETIME,
		appeal_denial_reason TEXT,
		needs_risk_review BOOLEAN NOT NULL DEFAULT 0,
		risk_assessment TEXT,
		risk_assessed_at DATETIME,
		approval_owner_id TEXT,
		approval_owner_name TEXT,
		risk_owner_id TEXT,
		risk_owner_name TEXT,
		escalated_to TEXT,
		escalated_category TEXT,
		escalated_by_id TEXT,
		escalated_by_name TEXT,
		escalation_reason TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createAuditEntryTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_entries (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		actor_name TEXT NOT NULL,
		action TEXT NOT NULL,
		target_id TEXT NOT NULL,
		target_name TEXT NOT NULL,
		notes TEXT,
		from_risk_review BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
}

func createVerificationRequestTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE verification_requests (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		requested_by_id TEXT NOT NULL,
		request_message TEXT NOT NULL,
		status TEXT NOT NULL,
		user_response TEXT,
		user_files TEXT,
		responded_at DATETIME,
		created_at DATETIME
	);`)
}

func createNotificationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		reference_id TEXT,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		delivered_at DATETIME,
		read_at DATETIME,
		updated_at DATETIME,
		created_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
