package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/syllabuser/baire-backend/internal/attempt"
	"github.com/syllabuser/baire-backend/internal/config"
	"github.com/syllabuser/baire-backend/internal/database"
	"github.com/syllabuser/baire-backend/internal/handler"
	"github.com/syllabuser/baire-backend/internal/integrity"
	"github.com/syllabuser/baire-backend/internal/logger"
	"github.com/syllabuser/baire-backend/internal/repository"
	"github.com/syllabuser/baire-backend/internal/router"
	"github.com/syllabuser/baire-backend/internal/service"
	"github.com/syllabuser/baire-backend/internal/validator"
	"github.com/syllabuser/baire-backend/internal/watch"
	"github.com/syllabuser/baire-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Syllabuser Baire Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	routineRepo := repository.NewRoutineRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	notifier := watch.NewNotifier(rdb, log)
	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService)
	adminService := service.NewAdminService(adminRepo, authService)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, notifier)
	examService := service.NewExamService(examRepo, questionRepo, courseRepo, rdb, notifier, log)
	resultService := service.NewResultService(resultRepo, questionRepo)
	routineService := service.NewRoutineService(routineRepo, courseRepo, enrollmentRepo, notifier)

	// ─── Attempt Engine ───────────────────────────────────────────────
	loader := attempt.NewLoader(examRepo, questionRepo, enrollmentRepo)
	manager := attempt.NewManager(loader, resultRepo, log,
		attempt.WithSubmitHook(service.SubmitHook(rdb, notifier, log)),
	)
	recorder := integrity.NewRecorder(rdb)
	attemptService := service.NewAttemptService(manager, rdb, recorder, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, studentService, adminService),
		Course:     handler.NewCourseHandler(courseService, examService, routineService),
		ExamPortal: handler.NewExamPortalHandler(attemptService, resultService),
		Admin:      handler.NewAdminHandler(courseService, routineService, studentService),
		Exam:       handler.NewExamHandler(examService, resultService),
		Watch:      handler.NewWatchHandler(notifier, log),
		WS:         handler.NewWSHandler(attemptService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	integrityWorker := worker.NewIntegrityWorker(pool, rdb, log)
	go integrityWorker.Start(workerCtx)

	// The attempt reaper auto-submits expired attempts once per second.
	go manager.Run(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all exam payloads into Redis BEFORE accepting traffic so lazy
	// loading never races under a thundering herd.
	if err := examService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
