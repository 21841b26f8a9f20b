package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/caretrack/internal/care"
	"github.com/hitoshi/caretrack/internal/middleware"
	"github.com/hitoshi/caretrack/internal/model"
)

// CareServiceInterface はセッションログハンドラーが必要とするサービスインターフェース。
type CareServiceInterface interface {
	// LogSession はプレイセッションを記録し、CARE残高とエッグ進行を更新する。
	LogSession(ctx context.Context, userID string, input care.LogSessionInput) (*care.LogSessionResult, error)
}

// SessionHandler はセッションログのHTTPハンドラー。
type SessionHandler struct {
	service CareServiceInterface
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(service CareServiceInterface) *SessionHandler {
	return &SessionHandler{
		service: service,
	}
}

// logSessionRequest はセッションログリクエストのボディ。
type logSessionRequest struct {
	CampaignID  string   `json:"campaign_id" validate:"required"`
	SessionDate string   `json:"session_date" validate:"required"`
	Recap       string   `json:"recap"`
	Actions     []string `json:"actions"`
}

// logSessionEggResponse はセッションログ結果のエッグ進行部分。
type logSessionEggResponse struct {
	Hatched           bool   `json:"hatched"`
	Incubating        bool   `json:"incubating"`
	SessionsRemaining int    `json:"sessions_remaining"`
	DragonID          string `json:"dragon_id,omitempty"`
}

// logSessionResponse はセッションログ結果のAPIレスポンス。
type logSessionResponse struct {
	SessionID  string                `json:"session_id"`
	CareEarned int                   `json:"care_earned"`
	Actions    []string              `json:"actions"`
	Egg        logSessionEggResponse `json:"egg"`
}

// LogSession はプレイセッションの記録を処理する。
// POST /api/sessions
func (h *SessionHandler) LogSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req logSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "キャンペーンとセッション日付を指定してください。",
			Category: "validation",
			Action:   "入力内容を確認してください。",
		})
		return
	}

	sessionDate, err := time.Parse(sessionDateFormat, req.SessionDate)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidSessionDateError(req.SessionDate))
		return
	}

	result, err := h.service.LogSession(r.Context(), userID, care.LogSessionInput{
		CampaignID:  req.CampaignID,
		SessionDate: sessionDate,
		Recap:       req.Recap,
		Actions:     req.Actions,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, logSessionResponse{
		SessionID:  result.SessionID,
		CareEarned: result.CareEarned,
		Actions:    result.Actions,
		Egg: logSessionEggResponse{
			Hatched:           result.EggHatched,
			Incubating:        result.EggIncubating,
			SessionsRemaining: result.EggSessionsRemaining,
			DragonID:          result.DragonID,
		},
	})
}
