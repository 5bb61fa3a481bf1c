package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/chat"
)

// RoomHandlers provides HTTP handlers for room management endpoints. They
// are a thin CRUD facade over the room directory.
type RoomHandlers struct {
	dir *chat.Directory
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(dir *chat.Directory, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		dir: dir,
		log: logger,
	}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// RoomInfo represents a room in API responses.
type RoomInfo struct {
	RoomID    string `json:"roomId"`
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
}

// RoomListResponse wraps the room listing.
type RoomListResponse struct {
	Rooms []RoomInfo `json:"rooms"`
}

// ErrorResponse is the error body for API failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

func roomInfo(room *chat.Room) RoomInfo {
	return RoomInfo{
		RoomID:    room.ID,
		Name:      room.Name,
		UserCount: room.Len(),
	}
}

// ListRooms handles listing all rooms.
// GET /chat/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms := h.dir.All()

	response := RoomListResponse{Rooms: make([]RoomInfo, 0, len(rooms))}
	for _, room := range rooms {
		response.Rooms = append(response.Rooms, roomInfo(room))
	}

	h.log.Debug().Int("room_count", len(rooms)).Msg("rooms listed")
	c.JSON(http.StatusOK, response)
}

// CreateRoom handles explicit room creation with a directory-assigned id.
// POST /chat/room
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room name is required"})
		return
	}

	room := h.dir.Create(name)
	c.JSON(http.StatusCreated, roomInfo(room))
}

// GetRoom handles fetching one room.
// GET /chat/room/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	room, ok := h.dir.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	c.JSON(http.StatusOK, roomInfo(room))
}

// DeleteRoom handles removing one room.
// DELETE /chat/room/:id
func (h *RoomHandlers) DeleteRoom(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.dir.Find(id); !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	h.dir.Delete(id)
	c.Status(http.StatusNoContent)
}
