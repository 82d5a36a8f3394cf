package handlers

import (
	"net/http"

	"teamhub/internal/dto"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
	"teamhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Note Handler
// CRUD cho coaching notes, share và notes theo player
// Mọi query đều lọc theo quyền xem của người gọi
// ===========================================================================

// defaultNoteLimit số note mặc định mỗi trang
const defaultNoteLimit = 50

// NoteHandler xử lý các endpoint note
type NoteHandler struct {
	noteService services.NoteService
	logger      *zap.Logger
}

// NewNoteHandler tạo handler mới
func NewNoteHandler(noteService services.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// List lấy danh sách notes
// GET /api/v1/notes?note_type=&event_id=&author_id=&player_id=&q=&limit=
func (h *NoteHandler) List(c *gin.Context) {
	var query dto.ListNotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}
	query.SetDefaults(defaultNoteLimit)

	filter := repositories.NoteFilter{
		Viewer:   middleware.GetViewer(c),
		NoteType: models.NoteType(query.NoteType),
		EventID:  query.EventID,
		PlayerID: query.PlayerID,
		Search:   query.Search,
		FindOptions: repositories.FindOptions{
			Limit:  query.Limit,
			Offset: query.Offset(),
		},
	}
	if query.AuthorID != "" {
		filter.AuthorID = uuid.MustParse(query.AuthorID)
	}

	notes, total, err := h.noteService.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessWithMeta(notes, dto.NewMeta(query.Page, query.Limit, total)))
}

// Get chi tiết note
// GET /api/v1/notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	note, err := h.noteService.Get(c.Request.Context(), id, middleware.GetViewer(c))
	if err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusOK, dto.Success(note))
}

// Create tạo note trực tiếp (không qua capture)
// POST /api/v1/notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	note := &models.Note{
		AuthorID:       userID,
		NoteType:       models.NoteType(req.NoteType),
		Title:          req.Title,
		Content:        req.Content,
		EventID:        req.EventID,
		Visibility:     models.Visibility(req.Visibility),
		PlayerMentions: models.Int64List(req.PlayerMentions),
		KeyPoints:      models.StringList(req.KeyPoints),
	}

	if err := h.noteService.Create(c.Request.Context(), note); err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusCreated, dto.Success(note))
}

// Update cập nhật note (author hoặc admin)
// PATCH /api/v1/notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := services.NoteUpdate{
		Title:          req.Title,
		Content:        req.Content,
		EventID:        req.EventID,
		ClearEvent:     req.ClearEvent,
		PlayerMentions: req.PlayerMentions,
		KeyPoints:      req.KeyPoints,
	}
	if req.NoteType != nil {
		t := models.NoteType(*req.NoteType)
		input.NoteType = &t
	}
	if req.Visibility != nil {
		v := models.Visibility(*req.Visibility)
		input.Visibility = &v
	}

	note, err := h.noteService.Update(c.Request.Context(), id, middleware.GetViewer(c), input)
	if err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusOK, dto.Success(note))
}

// Delete xóa note (author hoặc admin)
// DELETE /api/v1/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), id, middleware.GetViewer(c)); err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"id": id}))
}

// ReplaceShares thay danh sách player được share
// PUT /api/v1/notes/:id/shares
func (h *NoteHandler) ReplaceShares(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReplaceSharesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.noteService.ReplaceShares(c.Request.Context(), id, middleware.GetViewer(c), req.PlayerIDs); err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"id": id, "player_ids": req.PlayerIDs}))
}

// PlayerNotes notes nhắc tới player
// GET /api/v1/players/:id/notes
func (h *NoteHandler) PlayerNotes(c *gin.Context) {
	playerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	notes, total, err := h.noteService.List(c.Request.Context(), repositories.NoteFilter{
		Viewer:      middleware.GetViewer(c),
		PlayerID:    playerID,
		FindOptions: repositories.FindOptions{Limit: defaultNoteLimit},
	})
	if err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessWithMeta(notes, dto.NewMeta(1, defaultNoteLimit, total)))
}

// PlayerNoteCount số note nhắc tới player
// GET /api/v1/players/:id/notes/count
func (h *NoteHandler) PlayerNoteCount(c *gin.Context) {
	playerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	count, err := h.noteService.CountMentioning(c.Request.Context(), playerID, middleware.GetViewer(c))
	if err != nil {
		handleError(c, h.logger, err, "note")
		return
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"player_id": playerID, "count": count}))
}

// RegisterRoutes đăng ký routes cho notes
func (h *NoteHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	notes := rg.Group("/notes", authMiddleware)
	{
		notes.GET("", h.List)
		notes.GET("/:id", h.Get)
		notes.POST("", middleware.RequireCoach(), h.Create)
		notes.PATCH("/:id", h.Update)
		notes.DELETE("/:id", h.Delete)
		notes.PUT("/:id/shares", h.ReplaceShares)
	}

	players := rg.Group("/players", authMiddleware)
	{
		players.GET("/:id/notes", h.PlayerNotes)
		players.GET("/:id/notes/count", h.PlayerNoteCount)
	}
}
