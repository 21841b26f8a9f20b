// Package model はドメインモデルを定義する。
package model

// CareAction はCAREポイントを獲得できるアクションの定義。
type CareAction struct {
	Code   string
	Label  string
	Points int
}

// RecapBonusCode はレキャップボーナスのアクションコード。
// レキャップ本文が MinRecapLength 文字以上の場合のみ有効になる。
const RecapBonusCode = "care_recap"

// MinRecapLength はレキャップボーナスに必要な最小文字数。
const MinRecapLength = 50

// CareCatalog は選択可能なアクションの順序付きカタログ。
// ポイント値はセッションログフォームの固定値。
var CareCatalog = []CareAction{
	{Code: "care_attend", Label: "Showed Up & Played", Points: 10},
	{Code: "care_host", Label: "Hosted the Session", Points: 10},
	{Code: "care_snacks", Label: "Brought Snacks", Points: 5},
	{Code: "care_safety", Label: "Used Safety Tools", Points: 5},
	{Code: RecapBonusCode, Label: "Wrote a Session Recap", Points: 15},
}

// FindCareAction はコードからアクション定義を検索する。
// 見つからない場合は第2戻り値がfalseになる。
func FindCareAction(code string) (CareAction, bool) {
	for _, a := range CareCatalog {
		if a.Code == code {
			return a, true
		}
	}
	return CareAction{}, false
}
