package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ezlevup/chatsocket/internal/chat"
	"github.com/ezlevup/chatsocket/internal/config"
	"github.com/ezlevup/chatsocket/internal/metrics"
)

// NewServer builds the HTTP server: health and metrics endpoints, the
// websocket entry point, and the room CRUD facade over the directory.
func NewServer(handler *chat.Handler, dir *chat.Directory, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/healthz", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws", gin.WrapH(NewWSHandler(handler, logger)))

	rooms := NewRoomHandlers(dir, logger)
	chatGroup := router.Group("/chat")
	chatGroup.GET("/rooms", rooms.ListRooms)
	chatGroup.POST("/room", rooms.CreateRoom)
	chatGroup.GET("/room/:id", rooms.GetRoom)
	chatGroup.DELETE("/room/:id", rooms.DeleteRoom)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
