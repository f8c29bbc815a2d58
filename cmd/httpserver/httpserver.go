// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/internal/accountdelivery"
	"github.com/mkovtun/minibank/internal/accountrepo"
	"github.com/mkovtun/minibank/internal/accountservice"
	"github.com/mkovtun/minibank/internal/entryrepo"
	"github.com/mkovtun/minibank/internal/metrics"
	"github.com/mkovtun/minibank/internal/middleware"
	"github.com/mkovtun/minibank/internal/otprepo"
	"github.com/mkovtun/minibank/internal/sms"
	"github.com/mkovtun/minibank/internal/transferdelivery"
	"github.com/mkovtun/minibank/internal/transferrepo"
	"github.com/mkovtun/minibank/internal/transferservice"
	"github.com/mkovtun/minibank/internal/userdelivery"
	"github.com/mkovtun/minibank/internal/userrepo"
	"github.com/mkovtun/minibank/internal/userservice"
	"github.com/mkovtun/minibank/pkg/configpkg"
	"github.com/mkovtun/minibank/pkg/tokenpkg"
	"github.com/mkovtun/minibank/pkg/web"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, redisClient *redis.Client, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	entryRepo := entryrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)
	otpRepo := otprepo.NewRepoRedis(redisClient)

	tokenMaker, err := tokenpkg.NewJWTMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	collector := metrics.NewCollector()

	userService := userservice.New(userRepo, otpRepo, sms.NewLogSender(), config.OTPDuration, config.InitialBalance)
	accountService := accountservice.New(accountRepo, entryRepo)
	transferService := transferservice.New(transferRepo, accountService)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService, collector)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(collector.Middleware())
	engine.Use(gin.Recovery())

	engine.POST("/login", userHandler.Login)
	engine.POST("/register", userHandler.Register)
	engine.POST("/register/otp_validator", userHandler.ValidateOTP)
	engine.DELETE("/register", userHandler.Delete)

	engine.GET("/metrics", collector.Handler())

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/", func(gctx *gin.Context) {
		gctx.JSON(http.StatusOK, web.Msg("Authenticated"))
	})
	authRoutes.GET("/dashboard", accountHandler.Dashboard)
	authRoutes.POST("/transfer", transferHandler.Create)
	authRoutes.GET("/register", userHandler.GetName)
	authRoutes.PUT("/register/reset_balance", accountHandler.ResetBalance)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("phone", userdelivery.ValidPhone); err != nil {
			return nil, errors.New("cannot register phone validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
