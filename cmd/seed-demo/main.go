package main

import (
	"context"
	"fmt"
	"time"

	"github.com/syllabuser/baire-backend/internal/config"
	"github.com/syllabuser/baire-backend/internal/database"
	"github.com/syllabuser/baire-backend/internal/logger"
	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/repository"
	"github.com/syllabuser/baire-backend/internal/service"
	"github.com/syllabuser/baire-backend/internal/watch"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	studentRepo := repository.NewStudentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	routineRepo := repository.NewRoutineRepository(pool)

	notifier := watch.NewNotifier(rdb, log)
	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, notifier)
	examService := service.NewExamService(examRepo, questionRepo, courseRepo, rdb, notifier, log)
	routineService := service.NewRoutineService(routineRepo, courseRepo, enrollmentRepo, notifier)

	fmt.Println("=== Seeding Demo Data ===")

	category, err := courseService.CreateCategory(ctx, &model.CreateCategoryRequest{
		Name: "University Admission",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create category")
	}
	fmt.Printf("Category: %s (%s)\n", category.Name, category.ID)

	course, err := courseService.Create(ctx, &model.CreateCourseRequest{
		Name:        "Physics 1st Paper",
		CategoryID:  &category.ID,
		Description: "Full syllabus preparation with weekly model tests.",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	fmt.Printf("Course: %s (%s)\n", course.Name, course.ID)

	now := time.Now()
	exam, err := examService.Create(ctx, &model.CreateExamRequest{
		Title:           "Weekly Model Test 1",
		CourseID:        course.ID,
		DurationMinutes: 30,
		StartTime:       now,
		EndTime:         now.Add(7 * 24 * time.Hour),
		NegativeMark:    0.25,
		Questions: []model.QuestionUpload{
			{
				Question:    "What is the SI unit of force?",
				Options:     []string{"Newton", "Joule", "Watt", "Pascal"},
				Answer:      "Option A",
				Explanation: "Force is measured in newtons (kg·m/s²).",
			},
			{
				Question: "Which quantity is a vector?",
				Options:  []string{"Speed", "Distance", "Velocity", "Mass"},
				Answer:   "Velocity",
			},
			{
				Question:    "The acceleration due to gravity near Earth's surface is approximately:",
				Options:     []string{"8.9 m/s²", "9.8 m/s²", "10.8 m/s²", "11.2 m/s²"},
				Answer:      "B",
				Explanation: "g is roughly 9.8 m/s² at sea level.",
			},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exam")
	}
	fmt.Printf("Exam: %s (%s) with %d questions\n", exam.Title, exam.ID, exam.TotalQuestions)

	scheduled := now.Add(48 * time.Hour)
	routine, err := routineService.Create(ctx, &model.CreateRoutineRequest{
		CourseID:    course.ID,
		Title:       "Live class: Newtonian mechanics recap",
		ScheduledAt: scheduled,
		Note:        "Bring last week's problem set.",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create routine")
	}
	fmt.Printf("Routine: %s (%s)\n", routine.Title, routine.ID)

	student, err := studentService.Register(ctx, &model.RegisterRequest{
		Name:     "Demo Student",
		Email:    "demo@example.com",
		Phone:    "01700000000",
		Password: "demo-password",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo student")
	}
	if _, err := courseService.Enroll(ctx, student.ID, course.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to enroll demo student")
	}
	fmt.Printf("Student: %s (%s), enrolled in %s\n", student.Email, student.ID, course.Name)

	fmt.Println("Done.")
}
