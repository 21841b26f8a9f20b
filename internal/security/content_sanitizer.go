// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はレキャップやキャンペーン説明などの
// ユーザー入力自由テキストをサニタイズし、XSS攻撃からユーザーを保護する。
// これらのフィールドはプレーンテキストとして扱うため、
// bluemondayのStrictPolicyですべてのHTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はテキストコンテンツのサニタイズ機能のインターフェースを定義する。
// レキャップとキャンペーン説明の保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力テキストからすべてのHTMLタグを除去して返す。
	// script, iframe等の危険なタグはタグと内容の両方が除去される。
	// 前後の空白はトリムされる。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグを一切許可しない。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからすべてのHTMLタグを除去して返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
