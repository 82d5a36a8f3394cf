package handlers

import (
	"net/http"
	"strconv"
	"time"

	"teamhub/internal/dto"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Event Handler
// Lịch tập, trận đấu và match details
// ===========================================================================

// EventHandler xử lý các endpoint event
type EventHandler struct {
	eventRepo repositories.EventRepository
	logger    *zap.Logger
}

// NewEventHandler tạo handler mới
func NewEventHandler(eventRepo repositories.EventRepository, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// forGender lọc events theo đội nam/nữ
func forGender(events []models.Event, gender string) []models.Event {
	if gender == "" {
		return events
	}
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if (gender == string(models.GenderMale) && e.ForMens) ||
			(gender == string(models.GenderFemale) && e.ForWomens) {
			out = append(out, e)
		}
	}
	return out
}

func toMatchDetails(req *dto.MatchDetailsRequest) *models.MatchDetails {
	if req == nil {
		return nil
	}
	details := &models.MatchDetails{
		Opponent:    req.Opponent,
		HomeAway:    models.HomeAway(req.HomeAway),
		MensScore:   req.MensScore,
		WomensScore: req.WomensScore,
	}
	if req.Result != nil {
		r := models.MatchResult(*req.Result)
		details.Result = &r
	}
	return details
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// List lấy events theo khoảng ngày
// GET /api/v1/events?start=2025-01-01&end=2025-01-31&gender=female
func (h *EventHandler) List(c *gin.Context) {
	var query dto.ListEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	var filter repositories.EventFilter
	if query.Start != "" {
		start, _ := parseDate(query.Start)
		filter.From = &start
	}
	if query.End != "" {
		end, _ := parseDate(query.End)
		filter.To = &end
	}

	events, err := h.eventRepo.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, h.logger, err, "event")
		return
	}

	c.JSON(http.StatusOK, dto.Success(forGender(events, query.Gender)))
}

// Upcoming events từ hôm nay
// GET /api/v1/events/upcoming?limit=5
func (h *EventHandler) Upcoming(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 || limit > 100 {
		c.JSON(http.StatusBadRequest, dto.Error("INVALID_REQUEST", "Invalid limit"))
		return
	}

	today := models.DateOf(time.Now())
	events, err := h.eventRepo.List(c.Request.Context(), repositories.EventFilter{From: &today, Limit: limit})
	if err != nil {
		handleError(c, h.logger, err, "event")
		return
	}

	c.JSON(http.StatusOK, dto.Success(events))
}

// Get chi tiết event
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.eventRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err, "event")
		return
	}

	c.JSON(http.StatusOK, dto.Success(event))
}

// Create tạo event, match details (nếu có) tạo sau event
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	date, _ := parseDate(req.EventDate)
	userID, _ := middleware.GetUserID(c)

	event := &models.Event{
		Title:        req.Title,
		EventType:    models.EventType(req.EventType),
		EventDate:    date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		ForMens:      boolOr(req.ForMens, true),
		ForWomens:    boolOr(req.ForWomens, true),
		Notes:        req.Notes,
		MeetingNotes: req.MeetingNotes,
		CreatedBy:    &userID,
		MatchDetails: toMatchDetails(req.MatchDetails),
	}

	if err := h.eventRepo.Create(c.Request.Context(), event); err != nil {
		handleError(c, h.logger, err, "event")
		return
	}

	c.JSON(http.StatusCreated, dto.Success(event))
}

// Update cập nhật event, match details được upsert
// PATCH /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	event, err := h.eventRepo.FindByID(ctx, id)
	if err != nil {
		handleError(c, h.logger, err, "event")
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.EventType != nil {
		event.EventType = models.EventType(*req.EventType)
	}
	if req.EventDate != nil {
		event.EventDate, _ = parseDate(*req.EventDate)
	}
	if req.StartTime != nil {
		event.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.ForMens != nil {
		event.ForMens = *req.ForMens
	}
	if req.ForWomens != nil {
		event.ForWomens = *req.ForWomens
	}
	if req.Notes != nil {
		event.Notes = req.Notes
	}
	if req.MeetingNotes != nil {
		event.MeetingNotes = req.MeetingNotes
	}

	if err := h.eventRepo.Update(ctx, event); err != nil {
		handleError(c, h.logger, err, "event")
		return
	}

	if details := toMatchDetails(req.MatchDetails); details != nil {
		details.EventID = event.ID
		if err := h.eventRepo.UpsertMatchDetails(ctx, details); err != nil {
			handleError(c, h.logger, err, "match details")
			return
		}
		event.MatchDetails = details
	}

	c.JSON(http.StatusOK, dto.Success(event))
}

// Delete xóa event
// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.eventRepo.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.logger, err, "event")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"id": id}))
}

// RegisterRoutes đăng ký routes cho events
func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	coach := middleware.RequireCoach()

	events := rg.Group("/events", authMiddleware)
	{
		events.GET("", h.List)
		events.GET("/upcoming", h.Upcoming)
		events.GET("/:id", h.Get)
		events.POST("", coach, h.Create)
		events.PATCH("/:id", coach, h.Update)
		events.DELETE("/:id", coach, h.Delete)
	}
}
