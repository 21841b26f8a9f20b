// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// CARE残高とドラゴンエッグの進行状態を1ユーザー1レコードで保持する。
type User struct {
	ID                   string
	Email                string
	PasswordHash         string
	PortalHash           string
	CareBalance          int
	EggStatus            EggStatus
	EggSessionsRemaining int
	DragonID             *string
	DragonName           *string
	DragonHatchedAt      *time.Time
	CreatedAt            time.Time
	LastLoginAt          time.Time
}

// EggStatus はドラゴンエッグの進行状態を表す。
type EggStatus string

const (
	// EggStatusNone はエッグ未開始の状態。
	EggStatusNone EggStatus = "none"
	// EggStatusIncubating はエッグ孵化中の状態。
	EggStatusIncubating EggStatus = "incubating"
	// EggStatusHatched はエッグ孵化完了の状態。
	EggStatusHatched EggStatus = "hatched"
)

// DefaultEggSessions はエッグ孵化までに必要なセッション数の初期値。
const DefaultEggSessions = 10

// AuthSession はユーザーのログインセッションを表す。
type AuthSession struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
