package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/caretrack/internal/model"
)

// PostgresPlaySessionRepo はPostgreSQLを使用したプレイセッションリポジトリ。
// 書き込みはPostgresCareLedger経由でのみ行われる（追記専用）。
type PostgresPlaySessionRepo struct {
	db *sql.DB
}

// NewPostgresPlaySessionRepo はPostgresPlaySessionRepoを生成する。
func NewPostgresPlaySessionRepo(db *sql.DB) *PostgresPlaySessionRepo {
	return &PostgresPlaySessionRepo{db: db}
}

// ListByCampaignID はキャンペーンのセッション一覧をsession_date降順で返す。
// 該当なしの場合は空スライスを返す。
func (r *PostgresPlaySessionRepo) ListByCampaignID(ctx context.Context, campaignID string) ([]*model.PlaySession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, campaign_id, session_date, recap, care_earned, actions, created_at
		 FROM play_sessions
		 WHERE campaign_id = $1
		 ORDER BY session_date DESC, created_at DESC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list play sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*model.PlaySession{}
	for rows.Next() {
		session := &model.PlaySession{}
		if err := rows.Scan(&session.ID, &session.UserID, &session.CampaignID,
			&session.SessionDate, &session.Recap, &session.CareEarned,
			pq.Array(&session.Actions), &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate play sessions: %w", err)
	}

	return sessions, nil
}

// CountByCampaignID はキャンペーンのセッション数を返す。
func (r *PostgresPlaySessionRepo) CountByCampaignID(ctx context.Context, campaignID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM play_sessions WHERE campaign_id = $1`, campaignID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count play sessions: %w", err)
	}
	return count, nil
}

// DeleteByUserID はユーザーの全プレイセッションを削除する。
func (r *PostgresPlaySessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM play_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user play sessions: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PlaySessionRepository = (*PostgresPlaySessionRepo)(nil)
