package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/caretrack/internal/campaign"
	"github.com/hitoshi/caretrack/internal/middleware"
	"github.com/hitoshi/caretrack/internal/model"
)

// CampaignServiceInterface はキャンペーンハンドラーが必要とするサービスインターフェース。
type CampaignServiceInterface interface {
	// Create は新しいキャンペーンを作成する。
	Create(ctx context.Context, userID string, input campaign.CreateInput) (*model.Campaign, error)
	// Get はキャンペーンを取得する。
	Get(ctx context.Context, userID, campaignID string) (*model.Campaign, error)
	// List はユーザーのキャンペーン一覧を作成日時降順で返す。
	List(ctx context.Context, userID string) ([]*model.Campaign, error)
}

// SessionListerInterface はキャンペーン配下のセッション一覧取得インターフェース。
type SessionListerInterface interface {
	ListSessions(ctx context.Context, userID, campaignID string) ([]*model.PlaySession, error)
}

// CampaignHandler はキャンペーン管理のHTTPハンドラー。
type CampaignHandler struct {
	service       CampaignServiceInterface
	sessionLister SessionListerInterface
}

// NewCampaignHandler はCampaignHandlerを生成する。
func NewCampaignHandler(service CampaignServiceInterface, sessionLister SessionListerInterface) *CampaignHandler {
	return &CampaignHandler{
		service:       service,
		sessionLister: sessionLister,
	}
}

// createCampaignRequest はキャンペーン作成リクエストのボディ。
type createCampaignRequest struct {
	Name        string `json:"name" validate:"required"`
	System      string `json:"system" validate:"required"`
	Description string `json:"description"`
}

// Create はキャンペーン作成を処理する。
// POST /api/campaigns
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "キャンペーン名とゲームシステムを入力してください。",
			Category: "validation",
			Action:   "入力内容を確認してください。",
		})
		return
	}

	created, err := h.service.Create(r.Context(), userID, campaign.CreateInput{
		Name:        req.Name,
		System:      req.System,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toCampaignResponse(created))
}

// List はユーザーのキャンペーン一覧を返す。
// GET /api/campaigns
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	campaigns, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]campaignResponse, len(campaigns))
	for i, c := range campaigns {
		responses[i] = toCampaignResponse(c)
	}

	writeJSONResponse(w, http.StatusOK, responses)
}

// Get はキャンペーン詳細を返す。
// GET /api/campaigns/{id}
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	campaignID := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), userID, campaignID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toCampaignResponse(found))
}

// ListSessions はキャンペーンのセッション一覧をsession_date降順で返す。
// GET /api/campaigns/{id}/sessions
func (h *CampaignHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	campaignID := chi.URLParam(r, "id")

	sessions, err := h.sessionLister.ListSessions(r.Context(), userID, campaignID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]playSessionResponse, len(sessions))
	for i, s := range sessions {
		responses[i] = toPlaySessionResponse(s)
	}

	writeJSONResponse(w, http.StatusOK, responses)
}
