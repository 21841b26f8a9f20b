// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, campaign, care, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeWeakPassword       = "WEAK_PASSWORD"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodePasswordMismatch   = "PASSWORD_MISMATCH"
	ErrCodeNoActionsSelected  = "NO_ACTIONS_SELECTED"
	ErrCodeInvalidAction      = "INVALID_ACTION"
	ErrCodeInvalidSessionDate = "INVALID_SESSION_DATE"
	ErrCodeCampaignNotFound   = "CAMPAIGN_NOT_FOUND"
	ErrCodeInvalidSystem      = "INVALID_SYSTEM"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeProfileNotFound    = "PROFILE_NOT_FOUND"
	ErrCodeEggAlreadyActive   = "EGG_ALREADY_ACTIVE"
	ErrCodeEggNotHatched      = "EGG_NOT_HATCHED"
)

// NewDuplicateEmailError は登録済みメールアドレスでのサインアップエラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewWeakPasswordError は強度不足パスワードのエラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "パスワードが短すぎます。",
		Category: "auth",
		Action:   "6文字以上のパスワードを設定してください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// メールアドレス不明とパスワード誤りを区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewPasswordMismatchError は確認用パスワード不一致エラーを生成する。
func NewPasswordMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordMismatch,
		Message:  "パスワードと確認用パスワードが一致しません。",
		Category: "validation",
		Action:   "同じパスワードを2回入力してください。",
	}
}

// NewNoActionsSelectedError はアクション未選択エラーを生成する。
func NewNoActionsSelectedError() *APIError {
	return &APIError{
		Code:     ErrCodeNoActionsSelected,
		Message:  "CAREを獲得できるアクションが選択されていません。",
		Category: "care",
		Action:   "少なくとも1つのアクションを選択してください。",
	}
}

// NewInvalidActionError は未定義アクションコードのエラーを生成する。
func NewInvalidActionError(code string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAction,
		Message:  fmt.Sprintf("未定義のアクションです: %s", code),
		Category: "validation",
		Action:   "アクションはカタログに定義されたコードから選択してください。",
	}
}

// NewInvalidSessionDateError はセッション日付の形式エラーを生成する。
func NewInvalidSessionDateError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSessionDate,
		Message:  fmt.Sprintf("セッション日付の形式が正しくありません: %s", value),
		Category: "validation",
		Action:   "日付はYYYY-MM-DD形式で指定してください。",
	}
}

// NewCampaignNotFoundError はキャンペーン未検出エラーを生成する。
// 他ユーザーのキャンペーンへのアクセスも同じエラーにする（所有情報を漏らさない）。
func NewCampaignNotFoundError(campaignID string) *APIError {
	return &APIError{
		Code:     ErrCodeCampaignNotFound,
		Message:  fmt.Sprintf("指定されたキャンペーンが見つかりません: %s", campaignID),
		Category: "campaign",
		Action:   "キャンペーンIDを確認してください。",
	}
}

// NewInvalidSystemError は未定義ゲームシステムのエラーを生成する。
func NewInvalidSystemError(system string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSystem,
		Message:  fmt.Sprintf("未定義のゲームシステムです: %s", system),
		Category: "validation",
		Action:   "Fantasy、Sci-Fi、Cyberpunk、Horror、Cozy、Customのいずれかを指定してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewProfileNotFoundError はポータルハッシュに対応するプロフィールが
// 見つからない場合のエラーを生成する。
func NewProfileNotFoundError(hash string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  fmt.Sprintf("指定されたプロフィールが見つかりません: %s", hash),
		Category: "campaign",
		Action:   "プロフィールURLを確認してください。",
	}
}

// NewEggAlreadyActiveError はエッグが既に開始済みの場合のエラーを生成する。
func NewEggAlreadyActiveError() *APIError {
	return &APIError{
		Code:     ErrCodeEggAlreadyActive,
		Message:  "エッグは既に孵化中または孵化済みです。",
		Category: "care",
		Action:   "現在のエッグの状態はダッシュボードで確認できます。",
	}
}

// NewEggNotHatchedError は未孵化ドラゴンへの命名エラーを生成する。
func NewEggNotHatchedError() *APIError {
	return &APIError{
		Code:     ErrCodeEggNotHatched,
		Message:  "ドラゴンはまだ孵化していません。",
		Category: "care",
		Action:   "セッションをログしてエッグを孵化させてから名前を付けてください。",
	}
}
