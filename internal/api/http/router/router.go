package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dtroode/cride-server/internal/api/http/handler"
	"github.com/dtroode/cride-server/internal/api/http/middleware"
	"github.com/dtroode/cride-server/internal/logger"
	"github.com/dtroode/cride-server/internal/model"
)

// AuthService is everything the router needs from the auth service.
type AuthService interface {
	handler.AuthService
	middleware.Authenticator
}

// Router wires handlers and middleware into a gin engine.
type Router struct {
	authService    AuthService
	profileService handler.ProfileService
	db             handler.Pinger
	contextManager model.ContextManager
	allowOrigins   []string
	logger         *logger.Logger
}

func New(
	authService AuthService,
	profileService handler.ProfileService,
	db handler.Pinger,
	contextManager model.ContextManager,
	allowOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		profileService: profileService,
		db:             db,
		contextManager: contextManager,
		allowOrigins:   allowOrigins,
		logger:         logger,
	}
}

// Register builds the engine with every route.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.NewLogging(r.logger).Handle)
	engine.Use(cors.New(r.corsConfig()))

	engine.GET("/health", handler.NewHealth(r.db, r.logger).Handle)

	users := handler.NewUsers(r.authService, r.profileService, r.contextManager, r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	g := engine.Group("/users")
	g.POST("/login", users.Login)
	g.POST("/signup", users.SignUp)
	g.POST("/verify", users.Verify)
	g.GET("/verify", users.VerifyLink)

	me := g.Group("/me", authenticate.Handle)
	me.GET("", users.Me)
	me.PUT("/picture", users.UpdatePicture)

	return engine
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(r.allowOrigins) == 0 || (len(r.allowOrigins) == 1 && r.allowOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = r.allowOrigins
	}
	return cfg
}
