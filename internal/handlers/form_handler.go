package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"teamhub/internal/dto"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Form Handler
// Form khảo sát cho player (travel, availability, ...)
// Response key là question id dạng string, mỗi player một response
// ===========================================================================

// FormHandler xử lý các endpoint form
type FormHandler struct {
	formRepo repositories.FormRepository
	logger   *zap.Logger
}

// NewFormHandler tạo handler mới
func NewFormHandler(formRepo repositories.FormRepository, logger *zap.Logger) *FormHandler {
	return &FormHandler{
		formRepo: formRepo,
		logger:   logger,
	}
}

// answered kiểm tra câu trả lời khác rỗng
func answered(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []interface{}:
		return len(val) > 0
	default:
		return true
	}
}

// missingRequired trả về các câu hỏi bắt buộc chưa trả lời
func missingRequired(form *models.Form, responses map[string]interface{}) []string {
	var missing []string
	for _, q := range form.Questions {
		if !q.IsRequired {
			continue
		}
		if !answered(responses[strconv.FormatInt(q.ID, 10)]) {
			missing = append(missing, q.QuestionText)
		}
	}
	return missing
}

// List forms đang mở, hạn gần nhất trước
// GET /api/v1/forms
func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.formRepo.List(c.Request.Context(), true)
	if err != nil {
		handleError(c, h.logger, err, "form")
		return
	}
	c.JSON(http.StatusOK, dto.Success(forms))
}

// Get form kèm questions theo sort_order
// GET /api/v1/forms/:id
func (h *FormHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := h.formRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err, "form")
		return
	}
	c.JSON(http.StatusOK, dto.Success(form))
}

// Create tạo form, sort_order của question = vị trí trong request
// POST /api/v1/forms
func (h *FormHandler) Create(c *gin.Context) {
	var req dto.FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	form := &models.Form{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsActive:    true,
		ForMens:     boolOr(req.ForMens, true),
		ForWomens:   boolOr(req.ForWomens, true),
		TargetTags:  models.Int64List(req.TargetTags),
		CreatedBy:   &userID,
	}
	if form.TargetTags == nil {
		form.TargetTags = models.Int64List{}
	}
	for i, q := range req.Questions {
		options := models.StringList(q.Options)
		if options == nil {
			options = models.StringList{}
		}
		form.Questions = append(form.Questions, models.FormQuestion{
			QuestionText: q.QuestionText,
			QuestionType: models.QuestionType(q.QuestionType),
			Options:      options,
			IsRequired:   q.IsRequired,
			SortOrder:    i,
		})
	}

	if err := h.formRepo.Create(c.Request.Context(), form); err != nil {
		handleError(c, h.logger, err, "form")
		return
	}

	c.JSON(http.StatusCreated, dto.Success(form))
}

// Delete xóa form và responses
// DELETE /api/v1/forms/:id
func (h *FormHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.formRepo.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.logger, err, "form")
		return
	}
	c.JSON(http.StatusOK, dto.Success(gin.H{"id": id}))
}

// Responses tất cả responses của form
// GET /api/v1/forms/:id/responses
func (h *FormHandler) Responses(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	responses, err := h.formRepo.ListResponses(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err, "form response")
		return
	}
	c.JSON(http.StatusOK, dto.Success(responses))
}

// callerPlayerID player liên kết với người gọi, 403 nếu không phải player
func callerPlayerID(c *gin.Context) (int64, bool) {
	state, ok := middleware.GetSession(c)
	if !ok || state.PlayerID() == nil {
		c.JSON(http.StatusForbidden, dto.Error("FORBIDDEN", "Only players can respond"))
		return 0, false
	}
	return *state.PlayerID(), true
}

// MyResponse response của player hiện tại
// GET /api/v1/forms/:id/response
func (h *FormHandler) MyResponse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pid, ok := callerPlayerID(c)
	if !ok {
		return
	}

	resp, err := h.formRepo.FindResponse(c.Request.Context(), id, pid)
	if err != nil {
		handleError(c, h.logger, err, "form response")
		return
	}
	c.JSON(http.StatusOK, dto.Success(resp))
}

// Submit ghi (hoặc ghi đè) response của player
// PUT /api/v1/forms/:id/response
func (h *FormHandler) Submit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pid, ok := callerPlayerID(c)
	if !ok {
		return
	}

	var req dto.FormResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	form, err := h.formRepo.FindByID(ctx, id)
	if err != nil {
		handleError(c, h.logger, err, "form")
		return
	}
	if !form.IsActive {
		c.JSON(http.StatusConflict, dto.Error("FORM_CLOSED", "This form is no longer accepting responses"))
		return
	}
	if missing := missingRequired(form, req.Responses); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, dto.Error("INVALID_INPUT",
			"Required questions not answered: "+strings.Join(missing, ", ")))
		return
	}

	resp := &models.FormResponse{
		FormID:      id,
		PlayerID:    pid,
		Responses:   models.JSONMap(req.Responses),
		SubmittedAt: time.Now(),
	}
	if err := h.formRepo.UpsertResponse(ctx, resp); err != nil {
		handleError(c, h.logger, err, "form response")
		return
	}

	c.JSON(http.StatusOK, dto.Success(resp))
}

// RegisterRoutes đăng ký routes cho forms
func (h *FormHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	coach := middleware.RequireCoach()

	forms := rg.Group("/forms", authMiddleware)
	{
		forms.GET("", h.List)
		forms.GET("/:id", h.Get)
		forms.POST("", coach, h.Create)
		forms.DELETE("/:id", coach, h.Delete)
		forms.GET("/:id/responses", coach, h.Responses)
		forms.GET("/:id/response", h.MyResponse)
		forms.PUT("/:id/response", h.Submit)
	}
}
