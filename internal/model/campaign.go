// Package model はドメインモデルを定義する。
package model

import "time"

// Campaign はユーザーが所有するキャンペーン（セッションの入れ物）を表す。
type Campaign struct {
	ID          string
	UserID      string
	Name        string
	System      string
	Description string
	CareEarned  int
	LastSession *time.Time
	CreatedAt   time.Time
}

// GameSystems はキャンペーン作成時に選択可能なゲームシステムの一覧。
var GameSystems = []string{
	"Fantasy",
	"Sci-Fi",
	"Cyberpunk",
	"Horror",
	"Cozy",
	"Custom",
}

// IsValidGameSystem はsystemが選択肢に含まれるかを判定する。
func IsValidGameSystem(system string) bool {
	for _, s := range GameSystems {
		if s == system {
			return true
		}
	}
	return false
}
