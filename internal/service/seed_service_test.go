package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/models"
	"github.com/noah-isme/lingua-go-api/internal/repository"
)

func seedPayload() dto.SeedCourseRequest {
	return dto.SeedCourseRequest{
		Title:    "General English A2",
		Language: "en",
		Units: []dto.SeedUnit{{
			Title: "Daily life",
			Sections: []dto.SeedSection{{
				Title: "Routines",
				Lessons: []dto.SeedLesson{
					{
						Title: "Morning routine",
						Kind:  models.LessonKindTasks,
						Tasks: []dto.SeedTask{
							{Title: "Order the day", Type: "sentence_reordering", AnswerKey: json.RawMessage(`{"correct_order": [2, 0, 1]}`)},
							{Title: "Talk about it", Type: "recording"},
						},
					},
					{
						Title: "Check",
						Kind:  models.LessonKindQuiz,
						Questions: []dto.SeedQuestion{
							{Prompt: "I ___ up at seven.", Options: []string{"get", "gets"}, CorrectOptionIndex: 0},
						},
					},
				},
			}},
		}},
	}
}

func TestSeedServiceTokenGuard(t *testing.T) {
	db := setupServiceDB(t)
	repo := repository.NewCourseRepository(db)

	disabled := NewSeedService(repo, validator.New(), false, "secret", testLogger())
	_, err := disabled.SeedCourse(context.Background(), "secret", seedPayload())
	require.ErrorIs(t, err, ErrSeedDisabled)

	svc := NewSeedService(repo, validator.New(), true, "secret", testLogger())
	_, err = svc.SeedCourse(context.Background(), "wrong", seedPayload())
	require.ErrorIs(t, err, ErrSeedUnauthorized)

	unset := NewSeedService(repo, validator.New(), true, "", testLogger())
	_, err = unset.SeedCourse(context.Background(), "", seedPayload())
	require.ErrorIs(t, err, ErrSeedUnauthorized)
}

func TestSeedServiceCreatesTreeOnce(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSeedService(repository.NewCourseRepository(db), validator.New(), true, "secret", testLogger())
	ctx := context.Background()

	created, err := svc.SeedCourse(ctx, " secret ", seedPayload())
	require.NoError(t, err)
	require.True(t, created.Created)
	require.Equal(t, 1, created.Units)
	require.Equal(t, 2, created.Lessons)
	require.Equal(t, 2, created.Tasks)
	require.Equal(t, 1, created.Questions)

	again, err := svc.SeedCourse(ctx, "secret", seedPayload())
	require.NoError(t, err)
	require.False(t, again.Created)
	require.Equal(t, created.CourseID, again.CourseID)

	var lessons int64
	require.NoError(t, db.Model(&models.Lesson{}).Count(&lessons).Error)
	require.Equal(t, int64(2), lessons)
}

func TestSeedServiceRejectsUnusableContent(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSeedService(repository.NewCourseRepository(db), validator.New(), true, "secret", testLogger())

	unknownType := seedPayload()
	unknownType.Units[0].Sections[0].Lessons[0].Tasks[1].Type = "essay"
	_, err := svc.SeedCourse(context.Background(), "secret", unknownType)
	require.ErrorIs(t, err, ErrValidation)

	missingKey := seedPayload()
	missingKey.Units[0].Sections[0].Lessons[0].Tasks[0].AnswerKey = nil
	_, err = svc.SeedCourse(context.Background(), "secret", missingKey)
	require.ErrorIs(t, err, ErrValidation)

	badAnswer := seedPayload()
	badAnswer.Units[0].Sections[0].Lessons[1].Questions[0].CorrectOptionIndex = 5
	_, err = svc.SeedCourse(context.Background(), "secret", badAnswer)
	require.ErrorIs(t, err, ErrValidation)
}
