// Package user はユーザー管理のドメインロジックを提供する。
// ダッシュボード表示、エッグ開始、ドラゴン命名、公開ポータル、退会処理を扱う。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/caretrack/internal/cache"
	"github.com/hitoshi/caretrack/internal/model"
	"github.com/hitoshi/caretrack/internal/repository"
)

// maxDragonNameLength はドラゴン名の最大文字数。
const maxDragonNameLength = 50

// ProfileCache は公開ポータルプロフィールの読み取りキャッシュインターフェース。
// nilの場合はキャッシュを使用しない。
type ProfileCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// Summary はダッシュボード表示用のユーザーサマリー。
type Summary struct {
	User          *model.User
	CampaignCount int
}

// PortalProfile は共有URL経由で誰でも閲覧できる公開プロフィール。
// メールアドレス等の非公開情報は含めない。
type PortalProfile struct {
	PortalHash           string     `json:"portal_hash"`
	CareBalance          int        `json:"care_balance"`
	EggStatus            string     `json:"egg_status"`
	EggSessionsRemaining int        `json:"egg_sessions_remaining"`
	DragonName           *string    `json:"dragon_name"`
	DragonHatchedAt      *time.Time `json:"dragon_hatched_at"`
	CampaignCount        int        `json:"campaign_count"`
	MemberSince          time.Time  `json:"member_since"`
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.AuthSessionRepository
	campaignRepo repository.CampaignRepository
	playRepo     repository.PlaySessionRepository
	profileCache ProfileCache
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.AuthSessionRepository,
	campaignRepo repository.CampaignRepository,
	playRepo repository.PlaySessionRepository,
	profileCache ProfileCache,
) *Service {
	return &Service{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		campaignRepo: campaignRepo,
		playRepo:     playRepo,
		profileCache: profileCache,
	}
}

// GetSummary はダッシュボード表示用のサマリーを返す。
func (s *Service) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	count, err := s.campaignRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("キャンペーン数の取得に失敗しました: %w", err)
	}

	return &Summary{User: user, CampaignCount: count}, nil
}

// StartIncubation はドラゴンエッグの孵化を開始する。
// 既に孵化中または孵化済みの場合はEGG_ALREADY_ACTIVEを返す。
func (s *Service) StartIncubation(ctx context.Context, userID string) (*model.User, error) {
	started, err := s.userRepo.StartIncubation(ctx, userID, model.DefaultEggSessions)
	if err != nil {
		return nil, fmt.Errorf("エッグ開始の更新に失敗しました: %w", err)
	}
	if !started {
		return nil, model.NewEggAlreadyActiveError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	s.invalidateProfileCache(ctx, user.PortalHash)

	slog.Info("egg incubation started", slog.String("user_id", userID))
	return user, nil
}

// NameDragon は孵化済みドラゴンに名前を付ける。
// 未孵化の場合はEGG_NOT_HATCHEDを返す。名前は何度でも変更できる。
func (s *Service) NameDragon(ctx context.Context, userID, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("dragon name is required")
	}
	if len([]rune(name)) > maxDragonNameLength {
		name = string([]rune(name)[:maxDragonNameLength])
	}

	updated, err := s.userRepo.UpdateDragonName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("ドラゴン名の更新に失敗しました: %w", err)
	}
	if !updated {
		return nil, model.NewEggNotHatchedError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	s.invalidateProfileCache(ctx, user.PortalHash)

	slog.Info("dragon named",
		slog.String("user_id", userID),
		slog.String("dragon_name", name),
	)
	return user, nil
}

// GetPortalProfile はポータルハッシュから公開プロフィールを取得する。
// 認証不要のエンドポイントから呼ばれるためキャッシュを前置する。
// 見つからない場合はPROFILE_NOT_FOUNDを返す。
func (s *Service) GetPortalProfile(ctx context.Context, portalHash string) (*PortalProfile, error) {
	key := profileCacheKey(portalHash)

	if s.profileCache != nil {
		var cached PortalProfile
		err := s.profileCache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("profile cache read failed", slog.String("error", err.Error()))
		}
	}

	user, err := s.userRepo.FindByPortalHash(ctx, portalHash)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewProfileNotFoundError(portalHash)
	}

	count, err := s.campaignRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("キャンペーン数の取得に失敗しました: %w", err)
	}

	profile := &PortalProfile{
		PortalHash:           user.PortalHash,
		CareBalance:          user.CareBalance,
		EggStatus:            string(user.EggStatus),
		EggSessionsRemaining: user.EggSessionsRemaining,
		DragonName:           user.DragonName,
		DragonHatchedAt:      user.DragonHatchedAt,
		CampaignCount:        count,
		MemberSince:          user.CreatedAt,
	}

	if s.profileCache != nil {
		if err := s.profileCache.Set(ctx, key, profile); err != nil {
			slog.Warn("profile cache write failed", slog.String("error", err.Error()))
		}
	}

	return profile, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: play_sessions → campaigns → auth_sessions → user
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. プレイセッションを削除
	if s.playRepo != nil {
		if err := s.playRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("プレイセッションの削除に失敗しました: %w", err)
		}
	}

	// 2. キャンペーンを削除
	if s.campaignRepo != nil {
		if err := s.campaignRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("キャンペーンの削除に失敗しました: %w", err)
		}
	}

	// 3. ログインセッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 4. ユーザーを削除
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	s.invalidateProfileCache(ctx, user.PortalHash)

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}

// invalidateProfileCache は公開プロフィールのキャッシュを破棄する。
// 失敗してもTTLで解消されるためエラーにはしない。
func (s *Service) invalidateProfileCache(ctx context.Context, portalHash string) {
	if s.profileCache == nil || portalHash == "" {
		return
	}
	if err := s.profileCache.Delete(ctx, profileCacheKey(portalHash)); err != nil {
		slog.Warn("profile cache invalidation failed", slog.String("error", err.Error()))
	}
}

func profileCacheKey(portalHash string) string {
	return "portal_profile:" + portalHash
}
