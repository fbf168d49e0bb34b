package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mamosta-app/api/config"
	"github.com/mamosta-app/api/database"
	"github.com/mamosta-app/api/handlers"
	admin_handlers "github.com/mamosta-app/api/handlers/admin"
	auth_handlers "github.com/mamosta-app/api/handlers/auth"
	review_handlers "github.com/mamosta-app/api/handlers/review"
	school_handlers "github.com/mamosta-app/api/handlers/school"
	teacher_handlers "github.com/mamosta-app/api/handlers/teacher"
	"github.com/mamosta-app/api/services"
	"github.com/mamosta-app/api/services/storage"
	"github.com/mamosta-app/api/utils/auth"
	"github.com/mamosta-app/api/utils/cache"
	"github.com/mamosta-app/api/utils/device"
	"github.com/mamosta-app/api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnvironmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "mamosta-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the view cache and brute force protection. Both degrade to
	// no-ops when it is unreachable; the API itself keeps serving.
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. View caching and brute force protection are disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	var views *cache.ViewCache
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
		views = cache.NewViewCache(redisCache)
	}

	// Object storage for teacher portraits; optional
	var spaces *storage.SpacesClient
	if env.SPACES_ACCESS_KEY != "" {
		spaces, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: env.SPACES_ACCESS_KEY,
			SecretKey: env.SPACES_SECRET_KEY,
			Bucket:    env.SPACES_BUCKET,
			Region:    env.SPACES_REGION,
			Endpoint:  env.SPACES_ENDPOINT,
			CDNURL:    env.SPACES_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v. Image upload is disabled.", err)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	devices := device.NewProvider(env.DEVICE_ID_MODE)

	// Services
	reviewStore := database.NewReviewStore(db)
	reviewService := services.NewReviewService(reviewStore, views)
	moderationService := services.NewModerationService(reviewStore, views)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	reviewHandler := review_handlers.NewReviewHandler(reviewService, devices)
	teacherHandler := teacher_handlers.NewTeacherHandler(db, views, auditService, spaces)
	schoolHandler := school_handlers.NewSchoolHandler(db, auditService)
	adminHandler := admin_handlers.NewAdminHandler(db, moderationService, reviewService, auditService, views)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	// API v1 group
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	// Auth routes
	authGroup := api.Group("/auth")

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/logout-all", authMiddleware.Required(), authHandler.LogoutAll)
	authGroup.Get("/session", authMiddleware.Required(), authHandler.Session)

	// Public directory routes
	teachers := api.Group("/teachers")
	teachers.Get("/", teacherHandler.ListTeachers)            // Public: List teachers with search and pagination
	teachers.Get("/:id", teacherHandler.GetTeacher)           // Public: Teacher page with visible reviews
	teachers.Post("/:id/reviews", reviewHandler.SubmitReview) // Public: Submit a review (one per device)

	schools := api.Group("/schools")
	schools.Get("/", schoolHandler.ListSchools) // Public: List schools

	// Public review actions (one per device each)
	reviews := api.Group("/reviews")
	reviews.Post("/:id/report", reviewHandler.ReportReview)
	reviews.Post("/:id/helpful", reviewHandler.MarkHelpful)

	// Admin routes
	admin := api.Group("/admin", authMiddleware.RequireAdmin())

	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/audit-logs", adminHandler.ListAuditLogs)

	admin.Post("/teachers", teacherHandler.CreateTeacher)
	admin.Put("/teachers/:id", teacherHandler.UpdateTeacher)
	admin.Delete("/teachers/:id", teacherHandler.DeleteTeacher)
	admin.Post("/teachers/:id/image", teacherHandler.UploadImage)

	admin.Post("/schools", schoolHandler.CreateSchool)

	admin.Get("/reviews", adminHandler.ListReviews)
	admin.Get("/reviews/reported", adminHandler.ListReportedReviews)
	admin.Post("/reviews", adminHandler.CreateReview)
	admin.Patch("/reviews/:id/visibility", adminHandler.SetReviewVisibility)
	admin.Patch("/reviews/:id", adminHandler.EditReview)
	admin.Delete("/reviews/:id", adminHandler.DeleteReview)
}
