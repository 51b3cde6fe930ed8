package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/dollarblog/config"
	"github.com/cppla/dollarblog/controllers"
	"github.com/cppla/dollarblog/middleware"
	"github.com/cppla/dollarblog/services"
	"github.com/cppla/dollarblog/utils"
)

// Dependencies is everything the router needs. Zero-value optional fields
// fall back to in-process defaults.
type Dependencies struct {
	Config config.AppConfig
	DB     *gorm.DB
	Logger *zap.Logger
	// AccessLogger receives one line per request; defaults to Logger.
	AccessLogger *zap.Logger
	Tokens       *utils.TokenManager
	Blacklist    *utils.TokenBlacklist
	Cache        *utils.Cache
	Storage      utils.CoverStorage
	Gateway      services.PaymentGateway
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	accessLog := deps.AccessLogger
	if accessLog == nil {
		accessLog = log
	}
	if deps.Blacklist == nil {
		deps.Blacklist = utils.NewTokenBlacklist(nil)
	}
	if deps.Cache == nil {
		deps.Cache = utils.NewCache(nil, log)
	}
	if deps.Gateway == nil {
		deps.Gateway = services.NewStripeGateway(cfg.StripeSecretKey)
	}

	r := gin.New()
	r.MaxMultipartMemory = int64(max(cfg.MaxUploadMB, 1)) << 20
	r.Use(ginzap.Ginzap(accessLog, time.RFC3339, true))
	r.Use(ginzap.CustomRecoveryWithZap(accessLog, true, func(ctx *gin.Context, rec any) {
		utils.RespondError(ctx, nil, fmt.Errorf("panic: %v", rec))
	}))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	corsCfg.AllowOrigins = cfg.AllowedOrigins
	r.Use(cors.New(corsCfg))

	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	userService := services.NewUserService(deps.DB, log)
	postService := services.NewPostService(deps.DB, log)
	ledger := services.NewLedger(deps.DB, log)
	checkout := services.NewCheckoutService(deps.Gateway, services.DefaultCatalog(), cfg.Currency, cfg.ServerURL, log)

	authController := controllers.NewAuthController(userService, deps.Tokens, deps.Blacklist, cfg.CookieSecure, log)
	postController := controllers.NewPostController(postService, deps.Storage, deps.Cache, int64(max(cfg.MaxUploadMB, 1))<<20, log)
	commentController := controllers.NewCommentController(ledger, deps.Cache, log)
	clapController := controllers.NewClapController(ledger, deps.Cache, log)
	paymentController := controllers.NewPaymentController(checkout, log)
	statsController := controllers.NewStatsController(userService.Count, postService.Count, ledger.TotalComments, ledger.TotalClaps, log)

	authRequired := middleware.AuthRequired(deps.Tokens, deps.Blacklist)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware()

	r.POST("/register", limiter, authController.Register)
	r.POST("/login", limiter, authController.Login)
	r.POST("/logout", authRequired, authController.Logout)
	r.GET("/profile", authRequired, authController.Profile)

	r.GET("/published-posts", postController.ListPosts)
	r.POST("/published-posts", authRequired, postController.CreatePost)

	r.POST("/comments", authRequired, commentController.CreateComment)
	r.GET("/comments/:blogId", commentController.ListComments)
	r.GET("/comments/:blogId/count", commentController.CountComments)

	r.POST("/claps", authRequired, clapController.AddClap)
	r.DELETE("/claps", authRequired, clapController.RemoveClap)
	r.GET("/claps/user", authRequired, clapController.ListUserClaps)
	r.GET("/claps/:blogId", clapController.CountClaps)

	r.POST("/payment-checkout", limiter, paymentController.Checkout)
	r.GET("/plans", paymentController.Plans)

	r.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "route not found")
	})

	return r
}

// registerValidators adds "notblank" to gin's validator.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	}
}
