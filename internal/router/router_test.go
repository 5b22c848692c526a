package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/config"
	"github.com/noah-isme/lingua-go-api/internal/database"
	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/handler"
	"github.com/noah-isme/lingua-go-api/internal/middleware"
	"github.com/noah-isme/lingua-go-api/internal/models"
	"github.com/noah-isme/lingua-go-api/internal/repository"
	"github.com/noah-isme/lingua-go-api/internal/router"
	"github.com/noah-isme/lingua-go-api/internal/service"
)

const jwtSecret = "router-secret"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:router_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	logger := zerolog.Nop()
	validate := validator.New()
	lessons := repository.NewLessonRepository(db)
	tasks := repository.NewTaskRepository(db)
	quizzes := repository.NewQuizRepository(db)
	users := repository.NewUserRepository(db)

	progress := service.NewProgressService(service.ProgressDeps{
		Lessons:    lessons,
		Activities: repository.NewActivityRepository(db),
		Progress:   repository.NewProgressRepository(db),
		Users:      users,
	}, validate, logger)
	lessonService := service.NewLessonService(lessons, tasks, quizzes, users, progress, validate, logger, service.LessonServiceConfig{EvaluationWorkers: 2})
	catalog := service.NewTaskCatalogService(lessons, tasks, quizzes, logger)
	levelCheck := service.NewLevelCheckService(repository.NewLevelCheckRepository(db), nil, validate, time.Second, logger)
	seed := service.NewSeedService(repository.NewCourseRepository(db), validate, true, "seed-token", logger)

	cfg := config.Config{AppName: "Lingua API", AppEnv: "test", LevelCheckRateLimit: 5}
	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		LessonHandler:     handler.NewLessonHandler(lessonService, catalog, logger),
		ProgressHandler:   handler.NewProgressHandler(progress, logger),
		LevelCheckHandler: handler.NewLevelCheckHandler(levelCheck, logger),
		AdminTaskHandler:  handler.NewAdminTaskHandler(catalog, logger),
		SeedHandler:       handler.NewSeedHandler(seed, logger),
		JWTMiddleware:     middleware.JWTProtected(jwtSecret),
	})
	return app, db
}

func bearer(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func do(t *testing.T, app *fiber.App, method, target, auth string, payload interface{}, headers map[string]string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	envelope := map[string]json.RawMessage{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &envelope))
	}
	return resp, envelope
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, http.MethodGet, "/api/v1/health", "", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Lingua API", resp.Header.Get("X-Application"))

	resp, _ = do(t, app, http.MethodGet, "/metrics", "", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSeedSubmitAndReadProgress(t *testing.T) {
	app, db := newTestApp(t)

	course := dto.SeedCourseRequest{
		Title: "Everyday English",
		Units: []dto.SeedUnit{{
			Title: "Travel",
			Sections: []dto.SeedSection{{
				Title: "At the airport",
				Lessons: []dto.SeedLesson{
					{
						Title: "Check in",
						Kind:  models.LessonKindTasks,
						Tasks: []dto.SeedTask{
							{Title: "Pick the phrase", Type: "multiple_choice", AnswerKey: json.RawMessage(`{"correct_option_index": 2}`)},
							{Title: "Say it", Type: "recording"},
						},
					},
					{Title: "Boarding", Kind: models.LessonKindContent},
				},
			}},
		}},
	}

	resp, _ := do(t, app, http.MethodPost, "/api/v2/admin/seed/courses", "", course, map[string]string{"X-Seed-Token": "wrong"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, envelope := do(t, app, http.MethodPost, "/api/v2/admin/seed/courses", "", course, map[string]string{"X-Seed-Token": "seed-token"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var seeded dto.SeedCourseResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &seeded))

	var lesson models.Lesson
	require.NoError(t, db.Where("title = ?", "Check in").First(&lesson).Error)
	var taskRows []models.Task
	require.NoError(t, db.Where("lesson_id = ?", lesson.ID).Order("position").Find(&taskRows).Error)
	require.Len(t, taskRows, 2)

	learner := models.User{Name: "Ana", Email: "ana@example.com", Role: "student"}
	require.NoError(t, db.Create(&learner).Error)
	student := bearer(t, learner.ID, "student")

	resp, _ = do(t, app, http.MethodGet, fmt.Sprintf("/api/v2/admin/lessons/%d/tasks", lesson.ID), student, nil, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, envelope = do(t, app, http.MethodGet, fmt.Sprintf("/api/v2/admin/lessons/%d/tasks", lesson.ID), bearer(t, 99, "teacher"), nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, string(envelope["data"]), "correct_option_index")

	resp, _ = do(t, app, http.MethodPost, fmt.Sprintf("/api/v2/lessons/%d/tasks/submit", lesson.ID), "", nil, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	submission := map[string]interface{}{
		"submissions": []map[string]interface{}{
			{"task_id": taskRows[0].ID, "submission": map[string]int{"selected_option": 2}},
			{"task_id": taskRows[1].ID, "submission": map[string]string{"audio_url": "https://cdn.example/a.webm"}},
		},
	}
	resp, envelope = do(t, app, http.MethodPost, fmt.Sprintf("/api/v2/lessons/%d/tasks/submit", lesson.ID), student, submission, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var graded dto.TaskSubmissionResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &graded))
	require.NotNil(t, graded.OverallScore)
	require.Equal(t, 100, *graded.OverallScore)
	require.Equal(t, 1, graded.TotalQuestions)

	resp, _ = do(t, app, http.MethodPost, fmt.Sprintf("/api/v2/lessons/%d/complete", lesson.ID), student, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, envelope = do(t, app, http.MethodGet, fmt.Sprintf("/api/v2/progress/courses/%d", seeded.CourseID), student, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var progress dto.ProgressResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &progress))
	require.Equal(t, 1, progress.CompletedLessons)
	require.Equal(t, 2, progress.TotalLessons)
	require.Equal(t, 50, progress.ProgressPercentage)

	resp, envelope = do(t, app, http.MethodGet, "/api/v2/progress/streak", student, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, string(envelope["data"]), `"current_streak":1`)
}

func TestLevelCheckWithoutProviderIsUnavailable(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/api/v2/level-check/writing", bearer(t, 1, "student"), dto.WritingCheckRequest{
		Part:     "task1",
		Prompt:   "Summarise the chart.",
		Response: "The chart shows a steady rise in rail travel over the decade.",
	}, nil)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
