package api

import (
	"net/http"

	"hotel-booking/internal/domain/event"
	reqdto "hotel-booking/internal/handler/dto/request"
	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomHandler struct {
	cmds commands.RoomCommands
	q    queries.RoomQueries
}

func NewRoomHandler(cmds commands.RoomCommands, q queries.RoomQueries) *RoomHandler {
	return &RoomHandler{cmds: cmds, q: q}
}

// @Summary List rooms
// @Description List every room. Guest names are hidden.
// @Tags rooms
// @Produce json
// @Success 200 {object} resdto.RoomListResponse
// @Router /api/rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	h.list(c, event.AudiencePublic)
}

// @Summary List rooms (admin)
// @Description List every room including the current occupant
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.RoomListResponse
// @Failure 401 {object} httperr.Response
// @Router /api/admin/rooms [get]
func (h *RoomHandler) AdminList(c *gin.Context) {
	h.list(c, event.AudienceAdmin)
}

func (h *RoomHandler) list(c *gin.Context, audience event.Audience) {
	views, err := h.q.ListRooms(c.Request.Context(), audience)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromRoomViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.q.GetRoom(c.Request.Context(), id, event.AudiencePublic)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	respondRoom(c, http.StatusOK, view)
}

// @Summary Create room
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRoomRequest true "Create room request"
// @Success 201 {object} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/admin/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req reqdto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.CreateRoom(c.Request.Context(), req.ToInput())
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	respondRoom(c, http.StatusCreated, view)
}

// @Summary Update room details
// @Description Change number, category or price. State cannot be set here.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param request body reqdto.UpdateRoomRequest true "Update room request"
// @Success 200 {object} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/admin/rooms/{id} [patch]
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req reqdto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.UpdateRoom(c.Request.Context(), id, req.ToInput())
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	respondRoom(c, http.StatusOK, view)
}

// @Summary Delete room
// @Description Deletes the room and cancels its active booking
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Router /api/admin/rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.cmds.DeleteRoom(c.Request.Context(), id); err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Toggle maintenance
// @Description Entering maintenance cancels the active booking
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param request body reqdto.MaintenanceRequest true "Maintenance flag"
// @Success 200 {object} resdto.RoomResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/admin/rooms/{id}/maintenance [patch]
func (h *RoomHandler) SetMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req reqdto.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.SetMaintenance(c.Request.Context(), id, *req.Maintenance)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	respondRoom(c, http.StatusOK, view)
}

// @Summary Unbook room
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} resdto.RoomResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/admin/rooms/{id}/unbook [post]
func (h *RoomHandler) Unbook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.cmds.UnbookRoom(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	respondRoom(c, http.StatusOK, view)
}

// @Summary Reset all rooms
// @Description Makes every room available and cancels every active booking
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ResetResponse
// @Router /api/admin/reset [post]
func (h *RoomHandler) Reset(c *gin.Context) {
	result, err := h.cmds.ResetAll(c.Request.Context())
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResetResult(result))
}

func respondRoom(c *gin.Context, status int, view *queries.RoomView) {
	res, err := resdto.FromRoomView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(status, res)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
