package dto

import (
	"encoding/json"

	"github.com/noah-isme/lingua-go-api/internal/grading"
	"github.com/noah-isme/lingua-go-api/internal/models"
)

// TaskSubmissionItem carries the learner's answer for one task. The shape of
// Submission depends on the task type.
type TaskSubmissionItem struct {
	TaskID     uint            `json:"task_id" validate:"required,gt=0"`
	Submission json.RawMessage `json:"submission"`
}

// TaskSubmissionRequest is the body of a task batch submission.
type TaskSubmissionRequest struct {
	Submissions []TaskSubmissionItem `json:"submissions" validate:"dive"`
}

// TaskSubmissionResponse reports the outcome of a task batch.
type TaskSubmissionResponse struct {
	LessonID       uint              `json:"lesson_id"`
	OverallScore   *int              `json:"overall_score"`
	CorrectAnswers int               `json:"correct_answers"`
	TotalQuestions int               `json:"total_questions"`
	Results        []grading.Result  `json:"results"`
	Message        string            `json:"message"`
	Progress       *ProgressResponse `json:"progress,omitempty"`
}

// NewTaskSubmissionResponse maps an aggregate summary to the API shape.
func NewTaskSubmissionResponse(lessonID uint, summary grading.Summary, results []grading.Result) TaskSubmissionResponse {
	if results == nil {
		results = []grading.Result{}
	}
	return TaskSubmissionResponse{
		LessonID:       lessonID,
		OverallScore:   summary.OverallScore,
		CorrectAnswers: summary.TotalCorrect,
		TotalQuestions: summary.TotalQuestions,
		Results:        results,
		Message:        summary.Message,
	}
}

// QuizSubmissionRequest holds one selected option index per question, in
// question order.
type QuizSubmissionRequest struct {
	Answers []int `json:"answers" validate:"required,dive,gte=0"`
}

// QuizSubmissionResponse reports the outcome of a quiz attempt.
type QuizSubmissionResponse struct {
	LessonID       uint                 `json:"lesson_id"`
	Score          int                  `json:"score"`
	CorrectAnswers int                  `json:"correct_answers"`
	TotalQuestions int                  `json:"total_questions"`
	Results        []grading.QuizResult `json:"results"`
	Message        string               `json:"message"`
	Progress       *ProgressResponse    `json:"progress,omitempty"`
}

// NewQuizSubmissionResponse maps a quiz summary to the API shape.
func NewQuizSubmissionResponse(lessonID uint, summary grading.QuizSummary) QuizSubmissionResponse {
	return QuizSubmissionResponse{
		LessonID:       lessonID,
		Score:          summary.Score,
		CorrectAnswers: summary.CorrectAnswers,
		TotalQuestions: summary.TotalQuestions,
		Results:        summary.Results,
		Message:        summary.Message,
	}
}

// LessonActivityResponse is returned by the start and complete endpoints.
type LessonActivityResponse struct {
	Activity ActivityResponse  `json:"activity"`
	Progress *ProgressResponse `json:"progress,omitempty"`
	Streak   *StreakResponse   `json:"streak,omitempty"`
}

// TaskResponse is the learner-facing view of a task. The answer key is never
// included.
type TaskResponse struct {
	ID          uint            `json:"id"`
	LessonID    uint            `json:"lesson_id"`
	Order       int             `json:"order"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Content     json.RawMessage `json:"content,omitempty"`
}

// NewTaskResponse builds a learner task view from a model.
func NewTaskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		LessonID:    task.LessonID,
		Order:       task.Order,
		Title:       task.Title,
		Description: task.Description,
		Type:        task.Type,
	}
	if len(task.Content) > 0 {
		response.Content = json.RawMessage(task.Content)
	}
	return response
}

// AdminTaskResponse exposes the stored answer key to staff.
type AdminTaskResponse struct {
	TaskResponse
	Gradable  bool            `json:"gradable"`
	AnswerKey json.RawMessage `json:"answer_key,omitempty"`
}

// NewAdminTaskResponse builds a staff task view from a model.
func NewAdminTaskResponse(task models.Task) AdminTaskResponse {
	response := AdminTaskResponse{
		TaskResponse: NewTaskResponse(task),
		Gradable:     grading.TaskType(task.Type).Gradable(),
	}
	if len(task.AnswerKey) > 0 {
		response.AnswerKey = json.RawMessage(task.AnswerKey)
	}
	return response
}

// QuizQuestionResponse is the learner-facing view of a quiz question.
type QuizQuestionResponse struct {
	ID      uint     `json:"id"`
	Order   int      `json:"order"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// NewQuizQuestionResponse builds a quiz question view from a model.
func NewQuizQuestionResponse(question models.QuizQuestion) QuizQuestionResponse {
	options := []string(question.Options)
	if options == nil {
		options = []string{}
	}
	return QuizQuestionResponse{
		ID:      question.ID,
		Order:   question.Order,
		Prompt:  question.Prompt,
		Options: options,
	}
}
