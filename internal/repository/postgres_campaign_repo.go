package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/caretrack/internal/model"
)

// PostgresCampaignRepo はPostgreSQLを使用したキャンペーンリポジトリ。
type PostgresCampaignRepo struct {
	db *sql.DB
}

// NewPostgresCampaignRepo はPostgresCampaignRepoを生成する。
func NewPostgresCampaignRepo(db *sql.DB) *PostgresCampaignRepo {
	return &PostgresCampaignRepo{db: db}
}

const campaignColumns = `id, user_id, name, system, description, care_earned, last_session, created_at`

// FindByID は指定IDのキャンペーンを取得する。見つからない場合はnilを返す。
func (r *PostgresCampaignRepo) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	campaign := &model.Campaign{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`,
		id,
	).Scan(&campaign.ID, &campaign.UserID, &campaign.Name, &campaign.System,
		&campaign.Description, &campaign.CareEarned, &campaign.LastSession, &campaign.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign by ID: %w", err)
	}

	return campaign, nil
}

// Create はキャンペーンを作成する。
func (r *PostgresCampaignRepo) Create(ctx context.Context, campaign *model.Campaign) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO campaigns (id, user_id, name, system, description, care_earned, last_session, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		campaign.ID, campaign.UserID, campaign.Name, campaign.System,
		campaign.Description, campaign.CareEarned, campaign.LastSession, campaign.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

// ListByUserID はユーザーのキャンペーン一覧を作成日時降順で返す。
func (r *PostgresCampaignRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		campaign := &model.Campaign{}
		if err := rows.Scan(&campaign.ID, &campaign.UserID, &campaign.Name, &campaign.System,
			&campaign.Description, &campaign.CareEarned, &campaign.LastSession, &campaign.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}

	return campaigns, nil
}

// CountByUserID はユーザーのキャンペーン数を返す。
func (r *PostgresCampaignRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	return count, nil
}

// DeleteByUserID はユーザーの全キャンペーンを削除する。
func (r *PostgresCampaignRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM campaigns WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user campaigns: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CampaignRepository = (*PostgresCampaignRepo)(nil)
