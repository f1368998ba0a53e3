package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtMiddleware gin.HandlerFunc,
	userH *UserHandler,
	lessonH *LessonHandler,
	projectH *ProjectHandler,
	subCategoryH *SubCategoryHandler,
	documentH *DocumentHandler,
	auditLogH *AuditLogHandler,
	messageH *MessageHandler,
	wsH *WSHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y CORS.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware())

	auth := r.Group("/auth")
	auth.POST("/register", userH.Register)
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.Refresh)
	auth.POST("/logout", userH.Logout)

	// El handshake websocket valida el token por su cuenta (los browsers no
	// mandan headers en el upgrade).
	r.GET("/ws", wsH.Connect)

	api := r.Group("/", jwtMiddleware)

	users := api.Group("/users")
	users.POST("", userH.Create)
	users.GET("", userH.List)
	users.GET("/:id", userH.Get)

	lessons := api.Group("/lessons")
	lessons.POST("", lessonH.Create)
	lessons.GET("", lessonH.List)
	lessons.GET("/:id", lessonH.Get)
	lessons.PUT("/:id", lessonH.Update)

	projects := api.Group("/projects")
	projects.POST("", projectH.Create)
	projects.GET("", projectH.List)
	projects.GET("/:id", projectH.Get)
	projects.PUT("/:id", projectH.Update)
	projects.DELETE("/:id", projectH.Delete)
	projects.GET("/admin/:id", projectH.ListByAdmin)

	subcategories := api.Group("/subcategories")
	subcategories.POST("", subCategoryH.Create)
	subcategories.GET("", subCategoryH.List)
	subcategories.GET("/category/:main", subCategoryH.ListByCategory)

	documents := api.Group("/documents")
	documents.POST("", documentH.Create)
	documents.GET("/:id", documentH.Get)
	documents.GET("/lesson/:lessonId", documentH.ListByLesson)
	documents.DELETE("/:id", documentH.Delete)

	auditLogs := api.Group("/audit-logs")
	auditLogs.POST("", auditLogH.Create)
	auditLogs.GET("", auditLogH.List)
	auditLogs.GET("/lesson/:lessonId", auditLogH.ListByLesson)

	messages := api.Group("/messages")
	messages.POST("", messageH.Send)
	messages.GET("/inbox/:userId", messageH.Inbox)
	messages.PATCH("/read/:messageId", messageH.MarkRead)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware replica la política permisiva del frontend actual.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
