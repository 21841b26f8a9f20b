// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hitoshi/caretrack/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByPortalHash はポータルハッシュでユーザーを検索する。見つからない場合はnilを返す。
	FindByPortalHash(ctx context.Context, hash string) (*model.User, error)

	// Create はユーザーを作成する。メールアドレス重複時はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateLastLogin は最終ログイン日時を更新する。
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// StartIncubation はegg_statusをnoneからincubatingに遷移させ、
	// カウンタを初期値に戻す。遷移できた場合はtrueを返す。
	StartIncubation(ctx context.Context, id string, sessions int) (bool, error)

	// UpdateDragonName は孵化済みドラゴンの名前を更新する。
	// 未孵化の場合は更新せずfalseを返す。
	UpdateDragonName(ctx context.Context, id, name string) (bool, error)

	// DeleteByID は指定IDのユーザーを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// AuthSessionRepository はログインセッションの永続化インターフェース。
type AuthSessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.AuthSession) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.AuthSession, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// CampaignRepository はキャンペーンデータの永続化インターフェース。
type CampaignRepository interface {
	// FindByID は指定IDのキャンペーンを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Campaign, error)

	// Create はキャンペーンを作成する。
	Create(ctx context.Context, campaign *model.Campaign) error

	// ListByUserID はユーザーのキャンペーン一覧を作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Campaign, error)

	// CountByUserID はユーザーのキャンペーン数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)

	// DeleteByUserID はユーザーの全キャンペーンを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// PlaySessionRepository はプレイセッションデータの永続化インターフェース。
// レコードは追記専用で、書き込みはCareLedger経由でのみ行われる。
type PlaySessionRepository interface {
	// ListByCampaignID はキャンペーンのセッション一覧をsession_date降順で返す。
	// 該当なしの場合は空スライスを返す。
	ListByCampaignID(ctx context.Context, campaignID string) ([]*model.PlaySession, error)

	// CountByCampaignID はキャンペーンのセッション数を返す。
	CountByCampaignID(ctx context.Context, campaignID string) (int, error)

	// DeleteByUserID はユーザーの全プレイセッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// LedgerResult はCareLedger.ApplySessionの適用結果。
type LedgerResult struct {
	EggHatched           bool
	EggSessionsRemaining int
	DragonID             string // 今回の適用で孵化した場合のみ設定される
}

// CareLedger はセッションログに伴う複数レコード更新の永続化インターフェース。
// セッション挿入、ユーザー残高加算、キャンペーン集計更新、エッグカウントダウンを
// 単一トランザクションで適用する。
type CareLedger interface {
	// ApplySession はプレイセッションを記録し、関連レコードを原子的に更新する。
	// 途中で失敗した場合はすべての書き込みがロールバックされる。
	ApplySession(ctx context.Context, session *model.PlaySession) (*LedgerResult, error)
}

// TxBeginner はトランザクション開始用のインターフェース。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
