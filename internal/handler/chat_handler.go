package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/marketzone/marketzone-backend/internal/common"
	"github.com/marketzone/marketzone-backend/internal/domain"
	"github.com/marketzone/marketzone-backend/internal/middleware"
	"github.com/marketzone/marketzone-backend/internal/service"
)

// ChatHandler handles conversation HTTP requests
type ChatHandler struct {
	chats  service.ChatService
	images service.ImageService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chats service.ChatService, images service.ImageService) *ChatHandler {
	return &ChatHandler{chats: chats, images: images}
}

// GetChat handles GET /chats/:ad_id?other_user_id=
// @Summary Resolve a conversation and its transcript
// @Tags chats
// @Produce json
// @Param ad_id path int true "Ad ID"
// @Param other_user_id query string true "Counterparty user ID"
// @Success 200 {object} common.APIResponse{data=domain.ChatView}
// @Router /chats/{ad_id} [get]
func (h *ChatHandler) GetChat(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	adID, err := strconv.Atoi(c.Param("ad_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid ad id", err)
		return
	}

	otherUserID := c.Query("other_user_id")

	view, err := h.chats.GetChat(adID, userID, otherUserID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	common.SuccessResponse(c, view, nil)
}

// GetInbox handles GET /inbox?mode=buying|selling
// @Summary Conversation summaries for the current user
// @Tags chats
// @Produce json
// @Param mode query string false "buying (default) or selling"
// @Success 200 {object} common.APIResponse{data=domain.InboxView}
// @Router /inbox [get]
func (h *ChatHandler) GetInbox(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	mode := domain.ParseInboxMode(c.Query("mode"))

	view, err := h.chats.GetInbox(userID, mode)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load inbox", err)
		return
	}

	common.SuccessResponse(c, view, nil)
}

// UploadChatImage handles POST /chats/images (multipart field "image").
// Clients upload attachments here first, then pass the returned URLs in
// the realtime send event.
// @Summary Upload a chat image attachment
// @Tags chats
// @Accept mpfd
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} common.APIResponse
// @Router /chats/images [post]
func (h *ChatHandler) UploadChatImage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Image file is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Failed to read image file", err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.images.UploadChatImage(c.Request.Context(), file, fileHeader.Filename, contentType, fileHeader.Size)
	if err != nil {
		respondChatError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"image_url": url}, nil)
}

// respondChatError maps messaging errors onto HTTP status codes
func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrAdNotFound), errors.Is(err, common.ErrUserNotFound):
		common.ErrorResponse(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, common.ErrInvalidParticipants),
		errors.Is(err, common.ErrEmptyMessage),
		errors.Is(err, common.ErrInvalidImage):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, common.ErrImageUpload):
		common.ErrorResponse(c, http.StatusBadGateway, err.Error(), err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
