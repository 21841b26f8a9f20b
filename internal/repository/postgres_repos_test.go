package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/caretrack/internal/model"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresAuthSessionRepoはAuthSessionRepositoryインターフェースを満たすことを検証
func TestPostgresAuthSessionRepo_ImplementsInterface(t *testing.T) {
	var _ AuthSessionRepository = (*PostgresAuthSessionRepo)(nil)
}

// PostgresCampaignRepoはCampaignRepositoryインターフェースを満たすことを検証
func TestPostgresCampaignRepo_ImplementsInterface(t *testing.T) {
	var _ CampaignRepository = (*PostgresCampaignRepo)(nil)
}

// PostgresPlaySessionRepoはPlaySessionRepositoryインターフェースを満たすことを検証
func TestPostgresPlaySessionRepo_ImplementsInterface(t *testing.T) {
	var _ PlaySessionRepository = (*PostgresPlaySessionRepo)(nil)
}

// PostgresCareLedgerはCareLedgerインターフェースを満たすことを検証
func TestPostgresCareLedger_ImplementsInterface(t *testing.T) {
	var _ CareLedger = (*PostgresCareLedger)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresAuthSessionRepoが正しく初期化されることを検証
func TestNewPostgresAuthSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresAuthSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCampaignRepoが正しく初期化されることを検証
func TestNewPostgresCampaignRepo_Initializes(t *testing.T) {
	repo := NewPostgresCampaignRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresPlaySessionRepoが正しく初期化されることを検証
func TestNewPostgresPlaySessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresPlaySessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCareLedgerが正しく初期化されることを検証
func TestNewPostgresCareLedger_Initializes(t *testing.T) {
	ledger := NewPostgresCareLedger(nil)
	if ledger == nil {
		t.Fatal("expected non-nil ledger")
	}
}

// AuthSessionRepoのFindByIDが期限切れセッションを返さないことの期待動作
func TestAuthSession_ExpiredSession_Concept(t *testing.T) {
	// このテストはDB接続なしでコンセプトを検証する
	session := &model.AuthSession{
		ID:        "session-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}

	// 期限切れの判定: expires_at < now()
	if !session.ExpiresAt.Before(time.Now()) {
		t.Error("session should be expired")
	}
}

// エッグ進行レコードの初期値の期待動作
func TestUser_DefaultEggProgress_Concept(t *testing.T) {
	user := &model.User{
		ID:                   "user-1",
		EggStatus:            model.EggStatusNone,
		EggSessionsRemaining: model.DefaultEggSessions,
	}

	if user.EggStatus != model.EggStatusNone {
		t.Errorf("EggStatus = %q, want %q", user.EggStatus, model.EggStatusNone)
	}
	if user.EggSessionsRemaining != 10 {
		t.Errorf("EggSessionsRemaining = %d, want 10", user.EggSessionsRemaining)
	}
}
