package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/syllabuser/baire-backend/internal/config"
	"github.com/syllabuser/baire-backend/internal/handler"
	"github.com/syllabuser/baire-backend/internal/middleware"
	"github.com/syllabuser/baire-backend/internal/response"
	"github.com/syllabuser/baire-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Course     *handler.CourseHandler
	ExamPortal *handler.ExamPortalHandler
	Admin      *handler.AdminHandler
	Exam       *handler.ExamHandler
	Watch      *handler.WatchHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.StudentLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireStudentJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireStudentJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Catalog Group (Public, Cacheable) ──────────────────────────
	catalog := router.Group("/api/v1")
	catalog.Use(middleware.CacheControl(60))
	{
		catalog.GET("/categories", handlers.Course.ListCategories)
		catalog.GET("/courses", handlers.Course.ListCourses)
		catalog.GET("/courses/:id", handlers.Course.GetCourse)
	}

	// ─── 3. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(middleware.RequireStudentJWT(authService))
	{
		studentAPI.POST("/courses/:id/enroll", handlers.Course.Enroll)
		studentAPI.GET("/enrollments", handlers.Course.MyEnrollments)
		studentAPI.GET("/routines", handlers.Course.MyRoutines)

		studentAPI.GET("/exams/:id", handlers.Course.ExamPreview)
		studentAPI.POST("/exams/:id/start", handlers.ExamPortal.Start)
		studentAPI.GET("/exams/:id/attempt", handlers.ExamPortal.State)
		studentAPI.POST("/exams/:id/answer", handlers.ExamPortal.Answer)
		studentAPI.POST("/exams/:id/navigate", handlers.ExamPortal.Navigate)
		studentAPI.POST("/exams/:id/submit", handlers.ExamPortal.Submit)
		studentAPI.POST("/exams/:id/integrity", handlers.ExamPortal.ReportIntegrity)
		studentAPI.GET("/exams/:id/result", handlers.ExamPortal.MyResult)
		studentAPI.GET("/exams/:id/review", handlers.ExamPortal.Review)
		studentAPI.GET("/results", handlers.ExamPortal.MyResults)

		studentAPI.GET("/watch/:collection", handlers.Watch.Stream)
	}

	// ─── 4. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/exams/:id/stream", handlers.WS.AttemptStream)
	}

	// ─── 5. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/categories", handlers.Admin.CreateCategory)
		adminAPI.DELETE("/categories/:id", handlers.Admin.DeleteCategory)

		adminAPI.POST("/courses", handlers.Admin.CreateCourse)
		adminAPI.PUT("/courses/:id", handlers.Admin.UpdateCourse)
		adminAPI.DELETE("/courses/:id", handlers.Admin.DeleteCourse)

		adminAPI.POST("/routines", handlers.Admin.CreateRoutine)
		adminAPI.PUT("/routines/:id", handlers.Admin.UpdateRoutine)
		adminAPI.DELETE("/routines/:id", handlers.Admin.DeleteRoutine)

		adminAPI.POST("/exams", handlers.Exam.CreateExam)
		adminAPI.GET("/exams", handlers.Exam.ListExams)
		adminAPI.GET("/exams/:id", handlers.Exam.GetExam)
		adminAPI.DELETE("/exams/:id", handlers.Exam.DeleteExam)
		adminAPI.GET("/exams/:id/results", handlers.Exam.ExamResults)

		adminAPI.GET("/students", handlers.Admin.ListStudents)
		adminAPI.DELETE("/students/:id", handlers.Admin.DeleteStudent)

		adminAPI.GET("/watch/:collection", handlers.Watch.Stream)
	}

	return router
}
