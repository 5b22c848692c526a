package service

import (
	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/grading"
	"github.com/noah-isme/lingua-go-api/internal/models"
)

// PairSubmissions matches every task of a lesson with exactly one submission.
// The batch must contain as many items as the lesson has tasks. When several
// items carry the same task id the first one wins, which leaves another task
// without a submission.
func PairSubmissions(tasks []models.Task, items []dto.TaskSubmissionItem) ([]grading.Pair, error) {
	if len(items) != len(tasks) {
		return nil, validationErrorf("invalid submission count")
	}

	byTask := make(map[uint]dto.TaskSubmissionItem, len(items))
	for _, item := range items {
		if _, exists := byTask[item.TaskID]; !exists {
			byTask[item.TaskID] = item
		}
	}

	pairs := make([]grading.Pair, 0, len(tasks))
	for _, task := range tasks {
		item, ok := byTask[task.ID]
		if !ok {
			return nil, validationErrorf("missing submission for task %d", task.ID)
		}

		gradingTask := toGradingTask(task)
		submission, err := grading.DecodeSubmission(gradingTask.Type, item.Submission)
		if err != nil {
			return nil, validationErrorf("invalid submission for task %d", task.ID)
		}

		pairs = append(pairs, grading.Pair{Task: gradingTask, Submission: submission})
	}

	return pairs, nil
}

func toGradingTask(task models.Task) grading.Task {
	taskType := grading.TaskType(task.Type)
	return grading.Task{
		ID:   task.ID,
		Type: taskType,
		Key:  grading.ParseKey(taskType, task.AnswerKey),
	}
}
