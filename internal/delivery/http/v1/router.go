package v1

import (
	"net/http"

	"cvchef-backend/config"
	"cvchef-backend/internal/delivery/http/middleware"
	"cvchef-backend/internal/delivery/http/response"
	"cvchef-backend/internal/domain"
	"cvchef-backend/internal/usecase"
	"cvchef-backend/pkg/auth"
	"cvchef-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ResumeUC     domain.ResumeUsecase
	EditorUC     domain.EditorUsecase
	ATSUC        domain.ATSUsecase
	ExportUC     domain.ExportUsecase
	HealthUC     usecase.HealthUsecase
	JWKSProvider *auth.Provider
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()
	cfg := deps.Config
	window := cfg.RateLimitWindow()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins)) // CORS must be first!
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	aiLimit := middleware.RateLimitMiddleware(middleware.AIRateLimitConfig(cfg.RateLimitAIThreshold, window))
	exportLimit := middleware.RateLimitMiddleware(middleware.ExportRateLimitConfig(cfg.RateLimitExportThreshold, window))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, ok := deps.HealthUC.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	optional := v1.Group("")
	optional.Use(middleware.OptionalAuthMiddleware(deps.JWKSProvider, cfg))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, cfg))
	{
		NewResumeHandler(optional, protected, deps.ResumeUC, deps.ExportUC, exportLimit)
		NewEditorHandler(protected, deps.EditorUC, aiLimit)
		NewATSHandler(protected, deps.ATSUC, aiLimit)
	}

	return r
}
