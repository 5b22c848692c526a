package grading

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

const (
	feedbackCorrect   = "Correct answer"
	feedbackIncorrect = "Incorrect answer"
)

// Evaluate scores a single submission against the task's answer key. It never
// fails: task types without an answer key, unknown types and submissions whose
// shape does not match the key fall back to a defined result.
func Evaluate(task Task, sub Submission) Result {
	switch key := task.Key.(type) {
	case SingleChoiceKey:
		choice, ok := sub.(ChoiceSubmission)
		if !ok {
			return mismatched(task)
		}
		correct := choice.SelectedOption != nil && *choice.SelectedOption == key.CorrectOptionIndex
		return binary(task, correct)
	case MultiChoiceKey:
		choice, ok := sub.(ChoiceSubmission)
		if !ok {
			return mismatched(task)
		}
		// Order-sensitive on purpose: [1,0] does not match a [0,1] key.
		return binary(task, slices.Equal(choice.SelectedOptions, key.CorrectOptionIndices))
	case MatchingKey:
		matching, ok := sub.(MatchingSubmission)
		if !ok {
			return mismatched(task)
		}
		return evaluateMatching(task, key, matching)
	case OrderKey:
		order, ok := sub.(OrderSubmission)
		if !ok {
			return mismatched(task)
		}
		return binary(task, slices.Equal(order.Order, key.CorrectOrder))
	case BlankKey:
		blanks, ok := sub.(BlankSubmission)
		if !ok {
			return mismatched(task)
		}
		return evaluateBlanks(task, key, blanks)
	case TrueFalseKey:
		flags, ok := sub.(TrueFalseSubmission)
		if !ok {
			return mismatched(task)
		}
		return evaluateTrueFalse(task, key, flags)
	case DragDropKey:
		mapping, ok := sub.(DragDropSubmission)
		if !ok {
			return mismatched(task)
		}
		return evaluateDragDrop(task, key, mapping)
	case ReviewKey:
		return ungraded(task, FeedbackSubmittedForReview)
	case ParticipationKey:
		return ungraded(task, FeedbackTaskCompleted)
	default:
		return ungraded(task, FeedbackTaskCompleted)
	}
}

// Duplicate submitted pairs each count as a match; the score is capped at 100.
func evaluateMatching(task Task, key MatchingKey, sub MatchingSubmission) Result {
	matched := 0
	for _, pair := range sub.Pairs {
		if slices.Contains(key.CorrectPairs, pair) {
			matched++
		}
	}

	total := len(key.CorrectPairs)
	return partial(task, matched, total, fmt.Sprintf("%d of %d pairs matched", matched, total))
}

func evaluateBlanks(task Task, key BlankKey, sub BlankSubmission) Result {
	correct := 0
	for label, expected := range key.CorrectAnswers {
		given, ok := sub.Answers[label]
		if ok && strings.ToLower(given) == strings.ToLower(expected) {
			correct++
		}
	}

	total := len(key.CorrectAnswers)
	return partial(task, correct, total, fmt.Sprintf("%d of %d blanks correct", correct, total))
}

// Shorter submissions earn partial credit against the full key length.
func evaluateTrueFalse(task Task, key TrueFalseKey, sub TrueFalseSubmission) Result {
	limit := min(len(key.CorrectFlags), len(sub.Answers))
	correct := 0
	for i := 0; i < limit; i++ {
		if sub.Answers[i] == key.CorrectFlags[i] {
			correct++
		}
	}

	total := len(key.CorrectFlags)
	return partial(task, correct, total, fmt.Sprintf("%d of %d statements correct", correct, total))
}

// Items dropped into categories absent from the key are ignored.
func evaluateDragDrop(task Task, key DragDropKey, sub DragDropSubmission) Result {
	total := 0
	correct := 0
	for category, expected := range key.CorrectMapping {
		total += len(expected)
		for _, item := range sub.Mapping[category] {
			if slices.Contains(expected, item) {
				correct++
			}
		}
	}

	return partial(task, correct, total, fmt.Sprintf("%d of %d items placed correctly", correct, total))
}

func binary(task Task, correct bool) Result {
	result := Result{
		TaskID:    task.ID,
		Type:      task.Type,
		IsCorrect: correct,
		HasScore:  true,
		Feedback:  feedbackIncorrect,
	}
	if correct {
		result.Score = 100
		result.Feedback = feedbackCorrect
	}
	return result
}

func partial(task Task, correct, total int, feedback string) Result {
	return Result{
		TaskID:    task.ID,
		Type:      task.Type,
		IsCorrect: correct == total,
		Score:     Percentage(correct, total),
		Feedback:  feedback,
		HasScore:  true,
	}
}

func mismatched(task Task) Result {
	return Result{
		TaskID:   task.ID,
		Type:     task.Type,
		Feedback: feedbackIncorrect,
		HasScore: true,
	}
}

func ungraded(task Task, feedback string) Result {
	return Result{
		TaskID:    task.ID,
		Type:      task.Type,
		IsCorrect: true,
		Score:     100,
		Feedback:  feedback,
		HasScore:  false,
	}
}

// Percentage returns round(part/total*100) clamped to [0, 100], or 0 when
// total is not positive.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	value := int(math.Round(float64(part) / float64(total) * 100))
	return max(0, min(100, value))
}
