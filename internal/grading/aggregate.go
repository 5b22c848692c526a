package grading

import "fmt"

// MessageTasksSubmitted is returned when a lesson has no auto-graded tasks.
const MessageTasksSubmitted = "Tasks submitted successfully"

// Summary is the aggregate outcome of a task batch.
type Summary struct {
	// OverallScore is nil when no task in the batch is auto-graded.
	OverallScore   *int
	TotalCorrect   int
	TotalQuestions int
	Message        string
}

// Aggregate combines per-task results into an overall score. Ungraded results
// are excluded from both the numerator and the denominator.
func Aggregate(results []Result) Summary {
	summary := Summary{}
	for _, result := range results {
		if !result.HasScore {
			continue
		}
		summary.TotalQuestions++
		if result.IsCorrect {
			summary.TotalCorrect++
		}
	}

	if summary.TotalQuestions == 0 {
		summary.Message = MessageTasksSubmitted
		return summary
	}

	score := Percentage(summary.TotalCorrect, summary.TotalQuestions)
	summary.OverallScore = &score
	summary.Message = scoreMessage(score, summary.TotalCorrect, summary.TotalQuestions)
	return summary
}

// QuizKey identifies a quiz question and its correct option.
type QuizKey struct {
	QuestionID         uint
	CorrectOptionIndex int
}

// QuizResult is the per-question outcome of a quiz attempt.
type QuizResult struct {
	QuestionID     uint `json:"question_id"`
	SelectedOption *int `json:"selected_option"`
	IsCorrect      bool `json:"is_correct"`
}

// QuizSummary is the outcome of a quiz attempt. Every quiz yields a numeric score.
type QuizSummary struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Results        []QuizResult
	Message        string
}

// ScoreQuiz compares answers positionally against the quiz keys. Questions
// without a corresponding answer count as incorrect.
func ScoreQuiz(keys []QuizKey, answers []int) QuizSummary {
	summary := QuizSummary{
		TotalQuestions: len(keys),
		Results:        make([]QuizResult, 0, len(keys)),
	}

	for i, key := range keys {
		result := QuizResult{QuestionID: key.QuestionID}
		if i < len(answers) {
			selected := answers[i]
			result.SelectedOption = &selected
			result.IsCorrect = selected == key.CorrectOptionIndex
		}
		if result.IsCorrect {
			summary.CorrectAnswers++
		}
		summary.Results = append(summary.Results, result)
	}

	summary.Score = Percentage(summary.CorrectAnswers, summary.TotalQuestions)
	summary.Message = scoreMessage(summary.Score, summary.CorrectAnswers, summary.TotalQuestions)
	return summary
}

func scoreMessage(score, correct, total int) string {
	return fmt.Sprintf("You scored %d%% (%d/%d)", score, correct, total)
}
