package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"lessons-api/internal/service"
	"lessons-api/internal/ws"
)

// WSHandler maneja el ciclo de vida de las conexiones websocket.
type WSHandler struct {
	logger     *zap.Logger
	jwtServ    *service.JWTService
	registry   *ws.Registry
	dispatcher *ws.Dispatcher
	upgrader   websocket.Upgrader
}

func NewWSHandler(logger *zap.Logger, jwtServ *service.JWTService, registry *ws.Registry, dispatcher *ws.Dispatcher) *WSHandler {
	return &WSHandler{
		logger:     logger,
		jwtServ:    jwtServ,
		registry:   registry,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				// Misma política permisiva que el CORS del resto del API.
				return true
			},
		},
	}
}

// Connect maneja GET /ws. Acepta el access token por header o, porque los
// browsers no permiten headers en el handshake, por query string.
func (h *WSHandler) Connect(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	claims, err := h.jwtServ.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	session := ws.NewSession(claims.UserID, conn)
	h.registry.Register(claims.UserID, session)
	h.logger.Info("session opened",
		zap.String("user_id", claims.UserID),
		zap.String("session_id", session.ID),
	)

	go session.WritePump()
	session.ReadLoop(c.Request.Context(), h.registry, h.dispatcher, h.logger)

	h.logger.Info("session closed",
		zap.String("user_id", claims.UserID),
		zap.String("session_id", session.ID),
	)
}
