// Package auth はメール/パスワード認証とセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/caretrack/internal/model"
	"github.com/hitoshi/caretrack/internal/repository"
)

// minPasswordLength はサインアップ時に要求するパスワードの最小文字数。
const minPasswordLength = 6

// MetricsCollector は認証イベントのメトリクス収集インターフェース。
// nilの場合は記録しない。
type MetricsCollector interface {
	RecordSignup()
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	hasher      PasswordHasher
	userRepo    repository.UserRepository
	sessionRepo repository.AuthSessionRepository
	metrics     MetricsCollector
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	hasher PasswordHasher,
	userRepo repository.UserRepository,
	sessionRepo repository.AuthSessionRepository,
	metrics MetricsCollector,
	config ServiceConfig,
) *Service {
	return &Service{
		hasher:      hasher,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		metrics:     metrics,
		config:      config,
	}
}

// Signup は新規アカウントとユーザープロフィールを作成し、セッションを発行する。
// プロフィールはCARE残高0、エッグ未開始、カウンタ初期値で初期化される。
// メールアドレス重複時はDUPLICATE_EMAIL、パスワード強度不足時はWEAK_PASSWORDを返す。
func (s *Service) Signup(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if len(password) < minPasswordLength {
		return nil, nil, model.NewWeakPasswordError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.New().String()

	user := &model.User{
		ID:                   userID,
		Email:                email,
		PasswordHash:         hash,
		PortalHash:           derivePortalHash(email, userID),
		CareBalance:          0,
		EggStatus:            model.EggStatusNone,
		EggSessionsRemaining: model.DefaultEggSessions,
		CreatedAt:            now,
		LastLoginAt:          now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, model.NewDuplicateEmailError()
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.createSession(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSignup()
	}

	slog.Info("new user signed up",
		slog.String("user_id", userID),
		slog.String("portal_hash", user.PortalHash),
	)

	return user, session, nil
}

// Login はメールアドレスとパスワードで認証し、セッションを発行する。
// 認証失敗の理由（メール不明・パスワード誤り）は区別せずINVALID_CREDENTIALSを返す。
// 成功時は最終ログイン日時を更新する。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLoginAt = now

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return user, session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or expired")
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.AuthSession, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.AuthSession{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// derivePortalHash は共有プロフィールURL用の表示トークンを導出する。
// ユーザーID先頭8文字 + メールアドレス先頭4文字の小文字連結。
// 暗号学的な意味は持たない（衝突耐性は保証されない）。
func derivePortalHash(email, userID string) string {
	idPart := userID
	if len(idPart) > 8 {
		idPart = idPart[:8]
	}
	emailPart := email
	if len(emailPart) > 4 {
		emailPart = emailPart[:4]
	}
	return strings.ToLower(idPart + emailPart)
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
