package handlers

import (
	"context"
	"net/http"
	"time"

	"teamhub/internal/dto"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/realtime"
	"teamhub/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Announcement Handler
// Thông báo cho đội, hiển thị trong khoảng publish_at .. expires_at
// Tạo mới thì đẩy realtime event cho client đang online
// ===========================================================================

// AnnouncementHandler xử lý các endpoint announcement
type AnnouncementHandler struct {
	announcementRepo repositories.AnnouncementRepository
	publisher        realtime.Publisher
	logger           *zap.Logger
}

// NewAnnouncementHandler tạo handler mới
func NewAnnouncementHandler(
	announcementRepo repositories.AnnouncementRepository,
	publisher realtime.Publisher,
	logger *zap.Logger,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementRepo: announcementRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// List announcements đang hiển thị, urgent trước
// GET /api/v1/announcements?gender=&limit=
func (h *AnnouncementHandler) List(c *gin.Context) {
	var query dto.ListAnnouncementsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	items, err := h.announcementRepo.ListActive(c.Request.Context(), time.Now())
	if err != nil {
		handleError(c, h.logger, err, "announcement")
		return
	}

	out := make([]models.Announcement, 0, len(items))
	for _, a := range items {
		if query.Gender == string(models.GenderMale) && !a.ForMens {
			continue
		}
		if query.Gender == string(models.GenderFemale) && !a.ForWomens {
			continue
		}
		out = append(out, a)
		if query.Limit > 0 && len(out) == query.Limit {
			break
		}
	}

	c.JSON(http.StatusOK, dto.Success(out))
}

// ListAll tất cả announcements kể cả chưa publish/đã hết hạn
// GET /api/v1/announcements/all
func (h *AnnouncementHandler) ListAll(c *gin.Context) {
	items, err := h.announcementRepo.ListAll(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err, "announcement")
		return
	}
	c.JSON(http.StatusOK, dto.Success(items))
}

// Create tạo announcement và publish realtime
// POST /api/v1/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	a := &models.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		Priority:  models.Priority(req.Priority),
		ForMens:   boolOr(req.ForMens, true),
		ForWomens: boolOr(req.ForWomens, true),
		PublishAt: time.Now(),
		ExpiresAt: req.ExpiresAt,
		CreatedBy: &userID,
	}
	if a.Priority == "" {
		a.Priority = models.PriorityNormal
	}
	if req.PublishAt != nil {
		a.PublishAt = *req.PublishAt
	}

	if err := h.announcementRepo.Create(c.Request.Context(), a); err != nil {
		handleError(c, h.logger, err, "announcement")
		return
	}

	event := &realtime.AnnouncementEvent{
		AnnouncementID: a.ID,
		Title:          a.Title,
		Priority:       string(a.Priority),
		ForMens:        a.ForMens,
		ForWomens:      a.ForWomens,
		PublishAt:      a.PublishAt,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.publisher.PublishAnnouncement(ctx, event); err != nil {
			h.logger.Warn("failed to publish announcement", zap.Int64("announcement_id", event.AnnouncementID), zap.Error(err))
		}
	}()

	c.JSON(http.StatusCreated, dto.Success(a))
}

// Update cập nhật announcement
// PATCH /api/v1/announcements/:id
func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	a, err := h.announcementRepo.FindByID(ctx, id)
	if err != nil {
		handleError(c, h.logger, err, "announcement")
		return
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.Priority != nil {
		a.Priority = models.Priority(*req.Priority)
	}
	if req.ForMens != nil {
		a.ForMens = *req.ForMens
	}
	if req.ForWomens != nil {
		a.ForWomens = *req.ForWomens
	}
	if req.PublishAt != nil {
		a.PublishAt = *req.PublishAt
	}
	if req.ExpiresAt != nil {
		a.ExpiresAt = req.ExpiresAt
	}

	if err := h.announcementRepo.Update(ctx, a); err != nil {
		handleError(c, h.logger, err, "announcement")
		return
	}

	c.JSON(http.StatusOK, dto.Success(a))
}

// Delete xóa announcement
// DELETE /api/v1/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.announcementRepo.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.logger, err, "announcement")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"id": id}))
}

// RegisterRoutes đăng ký routes cho announcements
func (h *AnnouncementHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	coach := middleware.RequireCoach()

	announcements := rg.Group("/announcements", authMiddleware)
	{
		announcements.GET("", h.List)
		announcements.GET("/all", coach, h.ListAll)
		announcements.POST("", coach, h.Create)
		announcements.PATCH("/:id", coach, h.Update)
		announcements.DELETE("/:id", coach, h.Delete)
	}
}
