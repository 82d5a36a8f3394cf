package handlers

import (
	"net/http"
	"time"

	"teamhub/internal/dto"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Trip Handler
// Chuyến đi thi đấu và roster (pending / confirmed / declined)
// Player tự xác nhận tham gia, coach quản lý toàn bộ roster
// ===========================================================================

// TripHandler xử lý các endpoint trip
type TripHandler struct {
	tripRepo repositories.TripRepository
	logger   *zap.Logger
}

// NewTripHandler tạo handler mới
func NewTripHandler(tripRepo repositories.TripRepository, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		tripRepo: tripRepo,
		logger:   logger,
	}
}

// TripResponse trip kèm số lượng roster
type TripResponse struct {
	models.Trip
	Counts models.RosterCounts `json:"counts"`
}

func newTripResponse(t models.Trip) TripResponse {
	return TripResponse{Trip: t, Counts: t.Counts()}
}

// List trips chưa kết thúc, khởi hành sớm nhất trước
// GET /api/v1/trips
func (h *TripHandler) List(c *gin.Context) {
	today := models.DateOf(time.Now())
	trips, err := h.tripRepo.List(c.Request.Context(), &today)
	if err != nil {
		handleError(c, h.logger, err, "trip")
		return
	}

	out := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, newTripResponse(t))
	}
	c.JSON(http.StatusOK, dto.Success(out))
}

// Get chi tiết trip kèm roster
// GET /api/v1/trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err, "trip")
		return
	}
	c.JSON(http.StatusOK, dto.Success(newTripResponse(*trip)))
}

// Create tạo trip
// POST /api/v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req dto.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	departure, _ := parseDate(req.DepartureDate)
	ret, _ := parseDate(req.ReturnDate)
	if ret.Before(departure) {
		c.JSON(http.StatusBadRequest, dto.Error("INVALID_INPUT", "Return date must not be before departure date"))
		return
	}

	trip := &models.Trip{
		Name:          req.Name,
		Destination:   req.Destination,
		DepartureDate: departure,
		ReturnDate:    ret,
		MaxMen:        req.MaxMen,
		MaxWomen:      req.MaxWomen,
		Notes:         req.Notes,
		FlightInfo:    req.FlightInfo,
	}
	if err := h.tripRepo.Create(c.Request.Context(), trip); err != nil {
		handleError(c, h.logger, err, "trip")
		return
	}

	c.JSON(http.StatusCreated, dto.Success(trip))
}

// Delete xóa trip
// DELETE /api/v1/trips/:id
func (h *TripHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tripRepo.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.logger, err, "trip")
		return
	}
	c.JSON(http.StatusOK, dto.Success(gin.H{"id": id}))
}

// AddToRoster thêm player vào trip với status pending
// POST /api/v1/trips/:id/roster/:player_id
func (h *TripHandler) AddToRoster(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pid, ok := parseIDParam(c, "player_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.tripRepo.FindByID(ctx, tripID); err != nil {
		handleError(c, h.logger, err, "trip")
		return
	}
	if err := h.tripRepo.SetRosterStatus(ctx, tripID, pid, models.TripPending); err != nil {
		handleError(c, h.logger, err, "trip roster")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"trip_id": tripID, "player_id": pid, "status": models.TripPending}))
}

// RemoveFromRoster bỏ player khỏi trip
// DELETE /api/v1/trips/:id/roster/:player_id
func (h *TripHandler) RemoveFromRoster(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pid, ok := parseIDParam(c, "player_id")
	if !ok {
		return
	}

	if err := h.tripRepo.RemoveFromRoster(c.Request.Context(), tripID, pid); err != nil {
		handleError(c, h.logger, err, "trip roster")
		return
	}
	c.JSON(http.StatusOK, dto.Success(gin.H{"trip_id": tripID, "player_id": pid}))
}

// SetStatus đổi status trong roster.
// Coach đổi cho bất kỳ ai, player chỉ đổi của chính mình.
// PUT /api/v1/trips/:id/roster/:player_id
func (h *TripHandler) SetStatus(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pid, ok := parseIDParam(c, "player_id")
	if !ok {
		return
	}

	var req dto.TripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	state, _ := middleware.GetSession(c)
	if state == nil || !state.Capabilities.IsCoach {
		own := state.PlayerID()
		if own == nil || *own != pid {
			c.JSON(http.StatusForbidden, dto.Error("FORBIDDEN", "You can only update your own trip status"))
			return
		}
	}

	ctx := c.Request.Context()
	if _, err := h.tripRepo.FindByID(ctx, tripID); err != nil {
		handleError(c, h.logger, err, "trip")
		return
	}

	status := models.TripStatus(req.Status)
	if err := h.tripRepo.SetRosterStatus(ctx, tripID, pid, status); err != nil {
		handleError(c, h.logger, err, "trip roster")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"trip_id": tripID, "player_id": pid, "status": status}))
}

// RegisterRoutes đăng ký routes cho trips
func (h *TripHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	coach := middleware.RequireCoach()

	trips := rg.Group("/trips", authMiddleware)
	{
		trips.GET("", h.List)
		trips.GET("/:id", h.Get)
		trips.POST("", coach, h.Create)
		trips.DELETE("/:id", coach, h.Delete)
		trips.POST("/:id/roster/:player_id", coach, h.AddToRoster)
		trips.DELETE("/:id/roster/:player_id", coach, h.RemoveFromRoster)
		trips.PUT("/:id/roster/:player_id", h.SetStatus)
	}
}
