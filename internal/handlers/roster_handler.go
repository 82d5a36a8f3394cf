package handlers

import (
	"net/http"

	"teamhub/internal/dto"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Roster Handler
// Players, staff và tags. Đọc: mọi thành viên; ghi: admin
// Email trên roster chính là whitelist cho signup
// ===========================================================================

// RosterHandler xử lý các endpoint roster
type RosterHandler struct {
	playerRepo repositories.PlayerRepository
	staffRepo  repositories.StaffRepository
	tagRepo    repositories.TagRepository
	logger     *zap.Logger
}

// NewRosterHandler tạo handler mới
func NewRosterHandler(
	playerRepo repositories.PlayerRepository,
	staffRepo repositories.StaffRepository,
	tagRepo repositories.TagRepository,
	logger *zap.Logger,
) *RosterHandler {
	return &RosterHandler{
		playerRepo: playerRepo,
		staffRepo:  staffRepo,
		tagRepo:    tagRepo,
		logger:     logger,
	}
}

// ===========================================================================
// Players
// ===========================================================================

// ListPlayers roster active theo last name, kèm tags
// GET /api/v1/players?gender=&tag_id=
func (h *RosterHandler) ListPlayers(c *gin.Context) {
	var query dto.ListPlayersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	players, err := h.playerRepo.List(c.Request.Context(), repositories.PlayerFilter{
		Gender:          models.Gender(query.Gender),
		TagID:           query.TagID,
		IncludeInactive: query.IncludeInactive,
	})
	if err != nil {
		handleError(c, h.logger, err, "player")
		return
	}

	c.JSON(http.StatusOK, dto.Success(players))
}

// GetPlayer chi tiết player
// GET /api/v1/players/:id
func (h *RosterHandler) GetPlayer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	player, err := h.playerRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err, "player")
		return
	}

	c.JSON(http.StatusOK, dto.Success(player))
}

// CreatePlayer thêm player vào roster
// POST /api/v1/players
func (h *RosterHandler) CreatePlayer(c *gin.Context) {
	var req dto.PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	player := &models.Player{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Gender:    models.Gender(req.Gender),
		IsCaptain: req.IsCaptain,
		IsActive:  true,
	}
	if req.ClassYear != nil {
		cy := models.ClassYear(*req.ClassYear)
		player.ClassYear = &cy
	}

	if err := h.playerRepo.Create(c.Request.Context(), player); err != nil {
		handleError(c, h.logger, err, "player")
		return
	}

	h.logger.Info("player added",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Int64("player_id", player.ID),
	)
	c.JSON(http.StatusCreated, dto.Success(player))
}

// UpdatePlayer cập nhật player
// PATCH /api/v1/players/:id
func (h *RosterHandler) UpdatePlayer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	player, err := h.playerRepo.FindByID(ctx, id)
	if err != nil {
		handleError(c, h.logger, err, "player")
		return
	}

	if req.FirstName != nil {
		player.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		player.LastName = *req.LastName
	}
	if req.Email != nil {
		player.Email = *req.Email
	}
	if req.Gender != nil {
		player.Gender = models.Gender(*req.Gender)
	}
	if req.ClassYear != nil {
		cy := models.ClassYear(*req.ClassYear)
		player.ClassYear = &cy
	}
	if req.IsCaptain != nil {
		player.IsCaptain = *req.IsCaptain
	}
	if req.IsActive != nil {
		player.IsActive = *req.IsActive
	}

	if err := h.playerRepo.Update(ctx, player); err != nil {
		handleError(c, h.logger, err, "player")
		return
	}

	c.JSON(http.StatusOK, dto.Success(player))
}

// AddPlayerTag gán tag cho player
// POST /api/v1/players/:id/tags/:tag_id
func (h *RosterHandler) AddPlayerTag(c *gin.Context) {
	playerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.playerRepo.FindByID(ctx, playerID); err != nil {
		handleError(c, h.logger, err, "player")
		return
	}
	if _, err := h.tagRepo.FindByID(ctx, tagID); err != nil {
		handleError(c, h.logger, err, "tag")
		return
	}

	if err := h.playerRepo.AddTag(ctx, playerID, tagID); err != nil {
		handleError(c, h.logger, err, "tag")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"player_id": playerID, "tag_id": tagID}))
}

// RemovePlayerTag bỏ tag khỏi player
// DELETE /api/v1/players/:id/tags/:tag_id
func (h *RosterHandler) RemovePlayerTag(c *gin.Context) {
	playerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id")
	if !ok {
		return
	}

	if err := h.playerRepo.RemoveTag(c.Request.Context(), playerID, tagID); err != nil {
		handleError(c, h.logger, err, "tag")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"player_id": playerID, "tag_id": tagID}))
}

// ===========================================================================
// Staff & Tags
// ===========================================================================

// ListStaff danh sách staff
// GET /api/v1/staff
func (h *RosterHandler) ListStaff(c *gin.Context) {
	staff, err := h.staffRepo.List(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err, "staff")
		return
	}
	c.JSON(http.StatusOK, dto.Success(staff))
}

// CreateStaff thêm staff
// POST /api/v1/staff
func (h *RosterHandler) CreateStaff(c *gin.Context) {
	var req dto.StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	staff := &models.Staff{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Title:     req.Title,
		Role:      models.StaffRole(req.Role),
	}
	if err := h.staffRepo.Create(c.Request.Context(), staff); err != nil {
		handleError(c, h.logger, err, "staff")
		return
	}

	c.JSON(http.StatusCreated, dto.Success(staff))
}

// ListTags danh sách tags
// GET /api/v1/tags
func (h *RosterHandler) ListTags(c *gin.Context) {
	tags, err := h.tagRepo.List(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err, "tag")
		return
	}
	c.JSON(http.StatusOK, dto.Success(tags))
}

// CreateTag tạo tag
// POST /api/v1/tags
func (h *RosterHandler) CreateTag(c *gin.Context) {
	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tag := &models.Tag{Name: req.Name, Color: req.Color}
	if tag.Color == "" {
		tag.Color = "#6366f1"
	}
	if err := h.tagRepo.Create(c.Request.Context(), tag); err != nil {
		handleError(c, h.logger, err, "tag")
		return
	}

	c.JSON(http.StatusCreated, dto.Success(tag))
}

// DeleteTag xóa tag
// DELETE /api/v1/tags/:id
func (h *RosterHandler) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tagRepo.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.logger, err, "tag")
		return
	}
	c.JSON(http.StatusOK, dto.Success(gin.H{"id": id}))
}

// RegisterRoutes đăng ký routes cho roster
func (h *RosterHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	admin := middleware.RequireAdmin()

	players := rg.Group("/players", authMiddleware)
	{
		players.GET("", h.ListPlayers)
		players.GET("/:id", h.GetPlayer)
		players.POST("", admin, h.CreatePlayer)
		players.PATCH("/:id", admin, h.UpdatePlayer)
		players.POST("/:id/tags/:tag_id", admin, h.AddPlayerTag)
		players.DELETE("/:id/tags/:tag_id", admin, h.RemovePlayerTag)
	}

	staff := rg.Group("/staff", authMiddleware)
	{
		staff.GET("", h.ListStaff)
		staff.POST("", admin, h.CreateStaff)
	}

	tags := rg.Group("/tags", authMiddleware)
	{
		tags.GET("", h.ListTags)
		tags.POST("", admin, h.CreateTag)
		tags.DELETE("/:id", admin, h.DeleteTag)
	}
}
