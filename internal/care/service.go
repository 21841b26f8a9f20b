// Package care はCARE獲得ワークフローのドメインロジックを提供する。
//
// セッションログ1回のフロー:
//  1. 選択アクションからポイント合計を算出（レキャップボーナスは文字数条件付き）
//  2. 合計0なら何も書き込まず拒否
//  3. キャンペーンの所有権を確認
//  4. CareLedgerがセッション記録・残高加算・キャンペーン集計・エッグ遷移を
//     単一トランザクションで適用
package care

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/caretrack/internal/model"
	"github.com/hitoshi/caretrack/internal/repository"
)

// Sanitizer はユーザー入力の自由テキストをサニタイズするインターフェース。
type Sanitizer interface {
	Sanitize(raw string) string
}

// MetricsCollector はCARE獲得イベントのメトリクス収集インターフェース。
// nilの場合は記録しない。
type MetricsCollector interface {
	RecordSessionLogged()
	RecordCareEarned(points int)
	RecordEggHatched()
}

// LogSessionInput はセッションログ1回分の入力。
type LogSessionInput struct {
	CampaignID  string
	SessionDate time.Time
	Recap       string
	Actions     []string // 選択されたアクションコード
}

// LogSessionResult はセッションログの結果。
// ページ側はこの値から成功画面（獲得CARE、エッグ進行）を描画する。
type LogSessionResult struct {
	SessionID            string
	CareEarned           int
	Actions              []string // 実際に記録されたアクションコード（カタログ順）
	EggHatched           bool
	EggIncubating        bool
	EggSessionsRemaining int
	DragonID             string
}

// Service はCARE獲得ワークフローのサービス層。
type Service struct {
	userRepo     repository.UserRepository
	campaignRepo repository.CampaignRepository
	sessionRepo  repository.PlaySessionRepository
	ledger       repository.CareLedger
	sanitizer    Sanitizer
	metrics      MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	campaignRepo repository.CampaignRepository,
	sessionRepo repository.PlaySessionRepository,
	ledger repository.CareLedger,
	sanitizer Sanitizer,
	metrics MetricsCollector,
) *Service {
	return &Service{
		userRepo:     userRepo,
		campaignRepo: campaignRepo,
		sessionRepo:  sessionRepo,
		ledger:       ledger,
		sanitizer:    sanitizer,
		metrics:      metrics,
	}
}

// ComputeEarned は選択アクションからポイント合計と記録対象アクションを算出する。
// レキャップボーナスはrecapがMinRecapLength文字以上の場合のみ有効で、
// 条件未達の場合は選択されていても合計と記録の両方から除外する。
// 未定義のアクションコードはINVALID_ACTIONエラーになる。
// 戻り値のアクションはカタログ順に正規化され、重複は1回のみ数える。
func ComputeEarned(recap string, actionCodes []string) (int, []string, error) {
	selected := make(map[string]bool, len(actionCodes))
	for _, code := range actionCodes {
		if _, ok := model.FindCareAction(code); !ok {
			return 0, nil, model.NewInvalidActionError(code)
		}
		selected[code] = true
	}

	total := 0
	actions := []string{}
	for _, a := range model.CareCatalog {
		if !selected[a.Code] {
			continue
		}
		if a.Code == model.RecapBonusCode && len([]rune(recap)) < model.MinRecapLength {
			// ボーナス条件未達: 入力時に外し損ねていてもここで落とす
			continue
		}
		total += a.Points
		actions = append(actions, a.Code)
	}

	return total, actions, nil
}

// LogSession はプレイセッションを記録し、CARE残高とエッグ進行を更新する。
// 合計ポイントが0の場合は何も書き込まずNO_ACTIONS_SELECTEDを返す。
// 他ユーザーのキャンペーンを指定した場合はCAMPAIGN_NOT_FOUNDを返す。
func (s *Service) LogSession(ctx context.Context, userID string, input LogSessionInput) (*LogSessionResult, error) {
	recap := input.Recap
	if s.sanitizer != nil {
		recap = s.sanitizer.Sanitize(recap)
	}

	total, actions, err := ComputeEarned(recap, input.Actions)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, model.NewNoActionsSelectedError()
	}

	campaign, err := s.campaignRepo.FindByID(ctx, input.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("キャンペーンの取得に失敗しました: %w", err)
	}
	if campaign == nil || campaign.UserID != userID {
		return nil, model.NewCampaignNotFoundError(input.CampaignID)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	session := &model.PlaySession{
		ID:          uuid.New().String(),
		UserID:      userID,
		CampaignID:  campaign.ID,
		SessionDate: input.SessionDate,
		Recap:       recap,
		CareEarned:  total,
		Actions:     actions,
		CreatedAt:   time.Now(),
	}

	ledgerResult, err := s.ledger.ApplySession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("セッションの記録に失敗しました: %w", err)
	}

	result := &LogSessionResult{
		SessionID:            session.ID,
		CareEarned:           total,
		Actions:              actions,
		EggHatched:           ledgerResult.EggHatched,
		EggIncubating:        user.EggStatus == model.EggStatusIncubating && !ledgerResult.EggHatched,
		EggSessionsRemaining: ledgerResult.EggSessionsRemaining,
		DragonID:             ledgerResult.DragonID,
	}

	if s.metrics != nil {
		s.metrics.RecordSessionLogged()
		s.metrics.RecordCareEarned(total)
		if result.EggHatched {
			s.metrics.RecordEggHatched()
		}
	}

	slog.Info("play session logged",
		slog.String("user_id", userID),
		slog.String("campaign_id", campaign.ID),
		slog.String("session_id", session.ID),
		slog.Int("care_earned", total),
		slog.Bool("egg_hatched", result.EggHatched),
	)

	return result, nil
}

// ListSessions はキャンペーンのセッション一覧をsession_date降順で返す。
// キャンペーンが存在しないか他ユーザー所有の場合はCAMPAIGN_NOT_FOUNDを返す。
// セッションが1件もない場合は空スライスを返す。
func (s *Service) ListSessions(ctx context.Context, userID, campaignID string) ([]*model.PlaySession, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("キャンペーンの取得に失敗しました: %w", err)
	}
	if campaign == nil || campaign.UserID != userID {
		return nil, model.NewCampaignNotFoundError(campaignID)
	}

	sessions, err := s.sessionRepo.ListByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("セッション一覧の取得に失敗しました: %w", err)
	}

	return sessions, nil
}
