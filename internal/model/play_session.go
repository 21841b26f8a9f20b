// Package model はドメインモデルを定義する。
package model

import "time"

// PlaySession はログされたプレイセッションを表す。
// 作成後は変更されない追記専用のレコード。
type PlaySession struct {
	ID          string
	UserID      string
	CampaignID  string
	SessionDate time.Time
	Recap       string
	CareEarned  int
	Actions     []string // 選択されたアクションコード（カタログ順）
	CreatedAt   time.Time
}
