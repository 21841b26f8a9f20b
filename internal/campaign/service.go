// Package campaign はキャンペーン管理のドメインロジックを提供する。
package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/caretrack/internal/model"
	"github.com/hitoshi/caretrack/internal/repository"
)

// Sanitizer はユーザー入力の自由テキストをサニタイズするインターフェース。
type Sanitizer interface {
	Sanitize(raw string) string
}

// MetricsCollector はキャンペーンイベントのメトリクス収集インターフェース。
// nilの場合は記録しない。
type MetricsCollector interface {
	RecordCampaignCreated()
}

// CreateInput はキャンペーン作成の入力。
type CreateInput struct {
	Name        string
	System      string
	Description string
}

// Service はキャンペーンに関するビジネスロジックを提供する。
type Service struct {
	campaignRepo repository.CampaignRepository
	sanitizer    Sanitizer
	metrics      MetricsCollector
}

// NewService はServiceを生成する。
func NewService(campaignRepo repository.CampaignRepository, sanitizer Sanitizer, metrics MetricsCollector) *Service {
	return &Service{
		campaignRepo: campaignRepo,
		sanitizer:    sanitizer,
		metrics:      metrics,
	}
}

// Create は新しいキャンペーンを作成する。
// CARE集計は0、最終セッション日時は未設定で初期化される。
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*model.Campaign, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("campaign name is required")
	}
	if !model.IsValidGameSystem(input.System) {
		return nil, model.NewInvalidSystemError(input.System)
	}

	description := strings.TrimSpace(input.Description)
	if s.sanitizer != nil {
		name = s.sanitizer.Sanitize(name)
		description = s.sanitizer.Sanitize(description)
	}

	campaign := &model.Campaign{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		System:      input.System,
		Description: description,
		CareEarned:  0,
		CreatedAt:   time.Now(),
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("キャンペーンの作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCampaignCreated()
	}

	slog.Info("campaign created",
		slog.String("user_id", userID),
		slog.String("campaign_id", campaign.ID),
		slog.String("system", campaign.System),
	)

	return campaign, nil
}

// Get はキャンペーンを取得する。
// 存在しないか他ユーザー所有の場合はCAMPAIGN_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, userID, campaignID string) (*model.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("キャンペーンの取得に失敗しました: %w", err)
	}
	if campaign == nil || campaign.UserID != userID {
		return nil, model.NewCampaignNotFoundError(campaignID)
	}
	return campaign, nil
}

// List はユーザーのキャンペーン一覧を作成日時降順で返す。
// 1件もない場合は空スライスを返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Campaign, error) {
	campaigns, err := s.campaignRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("キャンペーン一覧の取得に失敗しました: %w", err)
	}
	return campaigns, nil
}
