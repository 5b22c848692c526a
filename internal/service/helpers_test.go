package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/models"
	"github.com/noah-isme/lingua-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func rawJSON(t *testing.T, value interface{}) datatypes.JSON {
	t.Helper()
	payload, err := json.Marshal(value)
	require.NoError(t, err)
	return datatypes.JSON(payload)
}

// courseFixture is a three lesson course: a task lesson, a ten question quiz
// and a paid content lesson.
type courseFixture struct {
	course      models.Course
	taskLesson  models.Lesson
	quizLesson  models.Lesson
	paidLesson  models.Lesson
	freeUser    models.User
	paidUser    models.User
	quizAnswers []int
}

func seedCourseFixture(t *testing.T, db *gorm.DB) courseFixture {
	t.Helper()

	questions := make([]models.QuizQuestion, 10)
	answers := make([]int, 10)
	for i := range questions {
		questions[i] = models.QuizQuestion{
			Prompt:             fmt.Sprintf("Question %d", i+1),
			Order:              i,
			Options:            datatypes.JSONSlice[string]{"a", "b", "c", "d"},
			CorrectOptionIndex: i % 4,
		}
		answers[i] = i % 4
	}

	course := models.Course{
		Title: "Academic Writing",
		Units: []models.Unit{{
			Title: "Unit 1",
			Sections: []models.Section{{
				Title: "Section 1",
				Lessons: []models.Lesson{
					{
						Title: "Tasks",
						Kind:  models.LessonKindTasks,
						Order: 1,
						Tasks: []models.Task{
							{Title: "Warm up", Type: "lead_in", Order: 1},
							{Title: "Choose", Type: "multiple_choice", Order: 2, AnswerKey: rawJSON(t, map[string]int{"correct_option_index": 1})},
							{Title: "Match", Type: "matching", Order: 3, AnswerKey: rawJSON(t, map[string][][2]int{"correct_pairs": {{0, 0}, {1, 1}, {2, 2}, {3, 3}}})},
						},
					},
					{Title: "Quiz", Kind: models.LessonKindQuiz, Order: 2, Questions: questions},
					{Title: "Premium", Kind: models.LessonKindContent, Order: 3, RequiresPayment: true},
				},
			}},
		}},
	}
	require.NoError(t, repository.NewCourseRepository(db).CreateTree(context.Background(), &course))

	freeUser := models.User{Name: "Free", Email: "free@example.com", Role: "student"}
	paidUser := models.User{Name: "Paid", Email: "paid@example.com", Role: "student", IsPaid: true}
	require.NoError(t, db.Create(&freeUser).Error)
	require.NoError(t, db.Create(&paidUser).Error)

	lessons := course.Units[0].Sections[0].Lessons
	return courseFixture{
		course:      course,
		taskLesson:  lessons[0],
		quizLesson:  lessons[1],
		paidLesson:  lessons[2],
		freeUser:    freeUser,
		paidUser:    paidUser,
		quizAnswers: answers,
	}
}

type serviceStack struct {
	progress ProgressService
	lessons  LessonService
	catalog  TaskCatalogService
}

func newServiceStack(db *gorm.DB, deps ProgressDeps) serviceStack {
	validate := validator.New()
	lessonRepo := repository.NewLessonRepository(db)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	deps.Lessons = lessonRepo
	deps.Activities = repository.NewActivityRepository(db)
	deps.Progress = repository.NewProgressRepository(db)
	deps.Users = userRepo

	progress := NewProgressService(deps, validate, testLogger())
	return serviceStack{
		progress: progress,
		lessons:  NewLessonService(lessonRepo, taskRepo, quizRepo, userRepo, progress, validate, testLogger(), LessonServiceConfig{EvaluationWorkers: 2}),
		catalog:  NewTaskCatalogService(lessonRepo, taskRepo, quizRepo, testLogger()),
	}
}
