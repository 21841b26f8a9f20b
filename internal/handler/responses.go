package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/caretrack/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	PortalHash           string     `json:"portal_hash"`
	CareBalance          int        `json:"care_balance"`
	EggStatus            string     `json:"egg_status"`
	EggSessionsRemaining int        `json:"egg_sessions_remaining"`
	DragonID             *string    `json:"dragon_id"`
	DragonName           *string    `json:"dragon_name"`
	DragonHatchedAt      *time.Time `json:"dragon_hatched_at"`
	CreatedAt            time.Time  `json:"created_at"`
	LastLoginAt          time.Time  `json:"last_login_at"`
}

// campaignResponse はキャンペーン情報のAPIレスポンス。
type campaignResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	System      string     `json:"system"`
	Description string     `json:"description"`
	CareEarned  int        `json:"care_earned"`
	LastSession *time.Time `json:"last_session"`
	CreatedAt   time.Time  `json:"created_at"`
}

// playSessionResponse はプレイセッション情報のAPIレスポンス。
type playSessionResponse struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	SessionDate string    `json:"session_date"`
	Recap       string    `json:"recap"`
	CareEarned  int       `json:"care_earned"`
	Actions     []string  `json:"actions"`
	CreatedAt   time.Time `json:"created_at"`
}

// sessionDateFormat はAPI上のセッション日付の形式。
const sessionDateFormat = "2006-01-02"

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:                   user.ID,
		Email:                user.Email,
		PortalHash:           user.PortalHash,
		CareBalance:          user.CareBalance,
		EggStatus:            string(user.EggStatus),
		EggSessionsRemaining: user.EggSessionsRemaining,
		DragonID:             user.DragonID,
		DragonName:           user.DragonName,
		DragonHatchedAt:      user.DragonHatchedAt,
		CreatedAt:            user.CreatedAt,
		LastLoginAt:          user.LastLoginAt,
	}
}

// toCampaignResponse はmodel.CampaignからAPIレスポンスに変換する。
func toCampaignResponse(campaign *model.Campaign) campaignResponse {
	return campaignResponse{
		ID:          campaign.ID,
		Name:        campaign.Name,
		System:      campaign.System,
		Description: campaign.Description,
		CareEarned:  campaign.CareEarned,
		LastSession: campaign.LastSession,
		CreatedAt:   campaign.CreatedAt,
	}
}

// toPlaySessionResponse はmodel.PlaySessionからAPIレスポンスに変換する。
func toPlaySessionResponse(session *model.PlaySession) playSessionResponse {
	return playSessionResponse{
		ID:          session.ID,
		CampaignID:  session.CampaignID,
		SessionDate: session.SessionDate.Format(sessionDateFormat),
		Recap:       session.Recap,
		CareEarned:  session.CareEarned,
		Actions:     session.Actions,
		CreatedAt:   session.CreatedAt,
	}
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeUnauthorizedResponse は未認証エラーレスポンスを書き込む。
func writeUnauthorizedResponse(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	})
}

// writeInvalidRequestResponse はリクエストボディ解析失敗のレスポンスを書き込む。
func writeInvalidRequestResponse(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodeWeakPassword, model.ErrCodePasswordMismatch:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeNoActionsSelected, model.ErrCodeInvalidAction, model.ErrCodeInvalidSessionDate, model.ErrCodeInvalidSystem:
		return http.StatusBadRequest
	case model.ErrCodeCampaignNotFound, model.ErrCodeUserNotFound, model.ErrCodeProfileNotFound:
		return http.StatusNotFound
	case model.ErrCodeEggAlreadyActive, model.ErrCodeEggNotHatched:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
