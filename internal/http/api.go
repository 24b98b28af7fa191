package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eventmate/internal/auth"
	"eventmate/internal/service"
)

// Options carries the collaborators of a Handler. Cache and AuthLimiter are optional.
type Options struct {
	Users         service.UserService
	Events        service.EventService
	Registrations service.RegistrationService
	Rosters       service.RosterService
	Tokens        *auth.TokenManager
	Cache         *ResponseCache
	AuthLimiter   *RateLimiter
	Logger        *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users         service.UserService
	events        service.EventService
	registrations service.RegistrationService
	rosters       service.RosterService
	tokens        *auth.TokenManager
	cache         *ResponseCache
	authLimiter   *RateLimiter
	logger        *logrus.Logger
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		users:         opts.Users,
		events:        opts.Events,
		registrations: opts.Registrations,
		rosters:       opts.Rosters,
		tokens:        opts.Tokens,
		cache:         opts.Cache,
		authLimiter:   opts.AuthLimiter,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestLogger(h.logger))

	api := router.Group("/api")
	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.rateLimit("register"), h.signUp)
		authGroup.POST("/login", h.rateLimit("login"), h.login)
		authGroup.GET("/me", h.requireAuth(), h.me)
		authGroup.PUT("/me", h.requireAuth(), h.updateMe)
	}

	events := api.Group("/events")
	{
		// specific routes first
		events.GET("/user/my-events", h.requireAuth(), h.myEvents)
		events.POST("/:id/register", h.requireAuth(), h.registerForEvent)
		events.DELETE("/:id/cancel", h.requireAuth(), h.cancelRegistration)

		admin := events.Group("", h.requireAuth(), requireAdmin())
		admin.GET("/:id/registrations", h.eventRegistrations)
		admin.POST("/:id/registrations/export", h.exportRoster)
		admin.GET("/:id/registrations/exports", h.listRosterExports)
		admin.POST("", h.createEvent)
		admin.PUT("/:id", h.updateEvent)
		admin.DELETE("/:id", h.deleteEvent)

		events.GET("", h.cacheResponses(), h.listEvents)
		events.GET("/:id", h.cacheResponses(), h.getEvent)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// eventID parses the :id path parameter, answering 400 when it is not a positive integer.
func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidEventID})
		return 0, false
	}
	return id, true
}
