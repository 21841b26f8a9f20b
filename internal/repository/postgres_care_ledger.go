package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/caretrack/internal/model"
)

// PostgresCareLedger はセッションログの複数レコード更新をPostgreSQLの
// 単一トランザクションで適用するリポジトリ。
//
// 適用内容:
//  1. play_sessionsへのINSERT
//  2. users.care_balanceの加算
//  3. campaigns.care_earnedの加算とlast_sessionの更新
//  4. egg_status = incubating の場合のカウントダウンと孵化遷移
//
// いずれかが失敗した場合は全体がロールバックされ、部分適用は発生しない。
type PostgresCareLedger struct {
	db *sql.DB
}

// NewPostgresCareLedger はPostgresCareLedgerを生成する。
func NewPostgresCareLedger(db *sql.DB) *PostgresCareLedger {
	return &PostgresCareLedger{db: db}
}

// ApplySession はプレイセッションを記録し、関連レコードを原子的に更新する。
func (l *PostgresCareLedger) ApplySession(ctx context.Context, session *model.PlaySession) (*LedgerResult, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. セッションを記録
	_, err = tx.ExecContext(ctx,
		`INSERT INTO play_sessions (id, user_id, campaign_id, session_date, recap, care_earned, actions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		session.ID, session.UserID, session.CampaignID, session.SessionDate,
		session.Recap, session.CareEarned, pq.Array(session.Actions), session.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert play session: %w", err)
	}

	// 2. ユーザー残高を加算し、エッグ状態を取得
	var eggStatus model.EggStatus
	var remaining int
	err = tx.QueryRowContext(ctx,
		`UPDATE users
		 SET care_balance = care_balance + $2
		 WHERE id = $1
		 RETURNING egg_status, egg_sessions_remaining`,
		session.UserID, session.CareEarned,
	).Scan(&eggStatus, &remaining)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %s", session.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment care balance: %w", err)
	}

	// 3. キャンペーン集計を更新
	result, err := tx.ExecContext(ctx,
		`UPDATE campaigns
		 SET care_earned = care_earned + $2, last_session = now()
		 WHERE id = $1`,
		session.CampaignID, session.CareEarned,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign totals: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("campaign not found: %s", session.CampaignID)
	}

	ledgerResult := &LedgerResult{}

	// 4. エッグカウントダウン
	if eggStatus == model.EggStatusIncubating {
		remaining--
		if remaining <= 0 {
			// 孵化: カウンタを0に固定し、ドラゴンIDを払い出す
			dragonID := fmt.Sprintf("dragon_%d", time.Now().UnixMilli())
			_, err = tx.ExecContext(ctx,
				`UPDATE users
				 SET egg_sessions_remaining = 0,
				     egg_status = $2,
				     dragon_id = $3,
				     dragon_hatched_at = now()
				 WHERE id = $1`,
				session.UserID, model.EggStatusHatched, dragonID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to hatch egg: %w", err)
			}
			ledgerResult.EggHatched = true
			ledgerResult.EggSessionsRemaining = 0
			ledgerResult.DragonID = dragonID
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET egg_sessions_remaining = $2 WHERE id = $1`,
				session.UserID, remaining,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to decrement egg counter: %w", err)
			}
			ledgerResult.EggSessionsRemaining = remaining
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ledgerResult, nil
}

// compile-time interface check
var _ CareLedger = (*PostgresCareLedger)(nil)
