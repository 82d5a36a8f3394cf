package handlers

import (
	"context"
	"net/http"
	"strconv"

	"teamhub/internal/dto"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Capture Handler
// Workflow tạo note từ ảnh ghi chú viết tay:
//   input (nhập tay / đính kèm ảnh) -> parse -> review -> save
// Draft được giữ theo user, không cần client gửi lại toàn bộ state
// ===========================================================================

// CaptureHandler xử lý các endpoint capture
type CaptureHandler struct {
	captureService services.CaptureService
	logger         *zap.Logger
}

// NewCaptureHandler tạo handler mới
func NewCaptureHandler(captureService services.CaptureService, logger *zap.Logger) *CaptureHandler {
	return &CaptureHandler{
		captureService: captureService,
		logger:         logger,
	}
}

func toCaptureInput(req dto.CaptureInputRequest) services.CaptureInput {
	input := services.CaptureInput{
		Title:      req.Title,
		Content:    req.Content,
		EventID:    req.EventID,
		ClearEvent: req.ClearEvent,
	}
	if req.NoteType != nil {
		t := models.NoteType(*req.NoteType)
		input.NoteType = &t
	}
	if req.Visibility != nil {
		v := models.Visibility(*req.Visibility)
		input.Visibility = &v
	}
	return input
}

// hasInputFields review edit có đổi field của input không
func hasInputFields(req dto.CaptureInputRequest) bool {
	return req.NoteType != nil || req.Title != nil || req.Content != nil ||
		req.Visibility != nil || req.EventID != nil || req.ClearEvent
}

// Get draft hiện tại
// GET /api/v1/capture
func (h *CaptureHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	c.JSON(http.StatusOK, dto.Success(h.captureService.View(c.Request.Context(), userID)))
}

// UpdateInput cập nhật type, title, content, visibility, event
// PUT /api/v1/capture
func (h *CaptureHandler) UpdateInput(c *gin.Context) {
	var req dto.CaptureInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	draft, err := h.captureService.UpdateInput(c.Request.Context(), userID, toCaptureInput(req))
	if err != nil {
		handleError(c, h.logger, err, "draft")
		return
	}

	c.JSON(http.StatusOK, dto.Success(draft))
}

// AttachImages đính kèm ảnh, phần vượt quá giới hạn bị bỏ qua
// POST /api/v1/capture/images
func (h *CaptureHandler) AttachImages(c *gin.Context) {
	var req dto.AttachImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	draft, added, err := h.captureService.AttachImages(c.Request.Context(), userID, req.Images)
	if err != nil {
		handleError(c, h.logger, err, "draft")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{
		"draft":   draft,
		"added":   added,
		"ignored": len(req.Images) - added,
	}))
}

// RemoveImage bỏ một ảnh theo index
// DELETE /api/v1/capture/images/:index
func (h *CaptureHandler) RemoveImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("INVALID_REQUEST", "Invalid index"))
		return
	}

	userID, _ := middleware.GetUserID(c)
	draft, err := h.captureService.RemoveImage(c.Request.Context(), userID, index)
	if err != nil {
		handleError(c, h.logger, err, "draft")
		return
	}

	c.JSON(http.StatusOK, dto.Success(draft))
}

// Parse gửi ảnh cho model, chuyển draft sang review.
// Lỗi parse trả 502 với message chung, draft giữ nguyên ở input.
// Client ngắt kết nối không hủy parse đang chạy.
// POST /api/v1/capture/parse
func (h *CaptureHandler) Parse(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	draft, err := h.captureService.Parse(context.WithoutCancel(c.Request.Context()), userID)
	if err != nil {
		handleError(c, h.logger, err, "draft")
		return
	}

	c.JSON(http.StatusOK, dto.Success(draft))
}

// EditReview sửa transcript, key points, players, và field input ở step review
// PATCH /api/v1/capture/review
func (h *CaptureHandler) EditReview(c *gin.Context) {
	var req dto.ReviewEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	edit := services.ReviewEdit{
		Transcript:     req.Transcript,
		AddKeyPoint:    req.AddKeyPoint,
		RemoveKeyPoint: req.RemoveKeyPoint,
		TogglePlayerID: req.TogglePlayerID,
	}
	if req.SetKeyPoint != nil {
		edit.SetKeyPoint = &services.KeyPointEdit{Index: req.SetKeyPoint.Index, Text: req.SetKeyPoint.Text}
	}
	if hasInputFields(req.CaptureInputRequest) {
		input := toCaptureInput(req.CaptureInputRequest)
		edit.Input = &input
	}

	draft, err := h.captureService.EditReview(c.Request.Context(), userID, edit)
	if err != nil {
		handleError(c, h.logger, err, "draft")
		return
	}

	c.JSON(http.StatusOK, dto.Success(draft))
}

// Back quay lại input, bỏ kết quả parse và chỉnh sửa
// POST /api/v1/capture/back
func (h *CaptureHandler) Back(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	draft, err := h.captureService.Back(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err, "draft")
		return
	}

	c.JSON(http.StatusOK, dto.Success(draft))
}

// Save lưu note từ step hiện tại
// POST /api/v1/capture/save
func (h *CaptureHandler) Save(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	note, err := h.captureService.Save(context.WithoutCancel(c.Request.Context()), userID)
	if err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusCreated, dto.Success(note))
}

// Discard xóa draft
// DELETE /api/v1/capture
func (h *CaptureHandler) Discard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	if err := h.captureService.Discard(c.Request.Context(), userID); err != nil {
		handleError(c, h.logger, err, "draft")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"message": "Draft discarded"}))
}

// RegisterRoutes đăng ký routes cho capture (coach only)
func (h *CaptureHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	capture := rg.Group("/capture", authMiddleware, middleware.RequireCoach())
	{
		capture.GET("", h.Get)
		capture.PUT("", h.UpdateInput)
		capture.DELETE("", h.Discard)
		capture.POST("/images", h.AttachImages)
		capture.DELETE("/images/:index", h.RemoveImage)
		capture.POST("/parse", h.Parse)
		capture.PATCH("/review", h.EditReview)
		capture.POST("/back", h.Back)
		capture.POST("/save", h.Save)
	}
}
