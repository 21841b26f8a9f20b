package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/caretrack/internal/middleware"
	"github.com/hitoshi/caretrack/internal/model"
	"github.com/hitoshi/caretrack/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetSummary はダッシュボード表示用のサマリーを返す。
	GetSummary(ctx context.Context, userID string) (*user.Summary, error)
	// StartIncubation はドラゴンエッグの孵化を開始する。
	StartIncubation(ctx context.Context, userID string) (*model.User, error)
	// NameDragon は孵化済みドラゴンに名前を付ける。
	NameDragon(ctx context.Context, userID, name string) (*model.User, error)
	// GetPortalProfile はポータルハッシュから公開プロフィールを取得する。
	GetPortalProfile(ctx context.Context, portalHash string) (*user.PortalProfile, error)
	// Withdraw はユーザーの退会処理を実行する。
	Withdraw(ctx context.Context, userID string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// summaryResponse はダッシュボードサマリーのAPIレスポンス。
type summaryResponse struct {
	User          userResponse `json:"user"`
	CampaignCount int          `json:"campaign_count"`
}

// nameDragonRequest はドラゴン命名リクエストのボディ。
type nameDragonRequest struct {
	Name string `json:"name" validate:"required"`
}

// Summary はダッシュボード表示用のサマリーを返す。
// GET /api/users/me
func (h *UserHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, summaryResponse{
		User:          toUserResponse(summary.User),
		CampaignCount: summary.CampaignCount,
	})
}

// StartIncubation はドラゴンエッグの孵化開始を処理する。
// POST /api/users/me/egg
func (h *UserHandler) StartIncubation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	updated, err := h.service.StartIncubation(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(updated))
}

// NameDragon は孵化済みドラゴンへの命名を処理する。
// PUT /api/users/me/dragon
func (h *UserHandler) NameDragon(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req nameDragonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "ドラゴンの名前を入力してください。",
			Category: "validation",
			Action:   "入力内容を確認してください。",
		})
		return
	}

	updated, err := h.service.NameDragon(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(updated))
}

// Portal は公開ポータルプロフィールを返す。認証不要。
// GET /api/portal/{hash}
func (h *UserHandler) Portal(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	profile, err := h.service.GetPortalProfile(r.Context(), hash)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, profile)
}

// Withdraw はユーザーの退会処理を実行する。
// DELETE /api/users/me
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// clearSessionCookie は退会後にセッションCookieをクリアする。
func (h *UserHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
