package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, taskType TaskType, payload string) Submission {
	t.Helper()
	sub, err := DecodeSubmission(taskType, json.RawMessage(payload))
	require.NoError(t, err)
	return sub
}

func taskWithKey(t *testing.T, id uint, taskType TaskType, key string) Task {
	t.Helper()
	return Task{ID: id, Type: taskType, Key: ParseKey(taskType, []byte(key))}
}

func TestEvaluateSingleChoice(t *testing.T) {
	task := taskWithKey(t, 1, TypeMultipleChoice, `{"correct_option_index": 2}`)

	correct := Evaluate(task, mustDecode(t, TypeMultipleChoice, `{"selected_option": 2}`))
	require.True(t, correct.IsCorrect)
	require.Equal(t, 100, correct.Score)
	require.True(t, correct.HasScore)
	require.Equal(t, uint(1), correct.TaskID)

	wrong := Evaluate(task, mustDecode(t, TypeMultipleChoice, `{"selected_option": 0}`))
	require.False(t, wrong.IsCorrect)
	require.Equal(t, 0, wrong.Score)

	missing := Evaluate(task, mustDecode(t, TypeMultipleChoice, `{}`))
	require.False(t, missing.IsCorrect)
	require.Equal(t, 0, missing.Score)
}

func TestEvaluateListeningMCQ(t *testing.T) {
	task := taskWithKey(t, 7, TypeListeningMCQ, `{"correct_option_index": 0}`)

	result := Evaluate(task, mustDecode(t, TypeListeningMCQ, `{"selected_option": 0}`))
	require.True(t, result.IsCorrect)
	require.Equal(t, 100, result.Score)
	require.Equal(t, TypeListeningMCQ, result.Type)
}

func TestEvaluateMultiChoiceIsOrderSensitive(t *testing.T) {
	task := taskWithKey(t, 2, TypeMultipleChoice, `{"correct_option_indices": [0, 1]}`)

	same := Evaluate(task, mustDecode(t, TypeMultipleChoice, `{"selected_options": [0, 1]}`))
	require.True(t, same.IsCorrect)
	require.Equal(t, 100, same.Score)

	reordered := Evaluate(task, mustDecode(t, TypeMultipleChoice, `{"selected_options": [1, 0]}`))
	require.False(t, reordered.IsCorrect)
	require.Equal(t, 0, reordered.Score)

	subset := Evaluate(task, mustDecode(t, TypeMultipleChoice, `{"selected_options": [0]}`))
	require.False(t, subset.IsCorrect)
}

func TestEvaluateMatchingPartialCredit(t *testing.T) {
	task := taskWithKey(t, 3, TypeMatching, `{"correct_pairs": [[0,1],[1,0],[2,3],[3,2]]}`)

	result := Evaluate(task, mustDecode(t, TypeMatching, `{"pairs": [[0,1],[1,0],[2,2]]}`))
	require.False(t, result.IsCorrect)
	require.Equal(t, 50, result.Score)
	require.True(t, result.HasScore)
	require.Equal(t, "2 of 4 pairs matched", result.Feedback)

	full := Evaluate(task, mustDecode(t, TypeMatching, `{"pairs": [[3,2],[2,3],[1,0],[0,1]]}`))
	require.True(t, full.IsCorrect)
	require.Equal(t, 100, full.Score)
}

func TestEvaluateMatchingCountsDuplicatePairs(t *testing.T) {
	task := taskWithKey(t, 3, TypeMatching, `{"correct_pairs": [[0,1],[1,0]]}`)

	result := Evaluate(task, mustDecode(t, TypeMatching, `{"pairs": [[0,1],[0,1]]}`))
	require.True(t, result.IsCorrect)
	require.Equal(t, 100, result.Score)

	inflated := Evaluate(task, mustDecode(t, TypeMatching, `{"pairs": [[0,1],[0,1],[1,0]]}`))
	require.False(t, inflated.IsCorrect)
	require.Equal(t, 100, inflated.Score)
}

func TestEvaluateOrderTasks(t *testing.T) {
	for _, taskType := range []TaskType{TypeRanking, TypeSentenceReordering} {
		t.Run(string(taskType), func(t *testing.T) {
			task := taskWithKey(t, 4, taskType, `{"correct_order": [2, 0, 1]}`)

			exact := Evaluate(task, mustDecode(t, taskType, `{"order": [2, 0, 1]}`))
			require.True(t, exact.IsCorrect)
			require.Equal(t, 100, exact.Score)

			swapped := Evaluate(task, mustDecode(t, taskType, `{"order": [0, 2, 1]}`))
			require.False(t, swapped.IsCorrect)
			require.Equal(t, 0, swapped.Score)

			short := Evaluate(task, mustDecode(t, taskType, `{"order": [2, 0]}`))
			require.False(t, short.IsCorrect)
		})
	}
}

func TestEvaluateFillInBlankIsCaseInsensitive(t *testing.T) {
	task := taskWithKey(t, 5, TypeFillInBlank, `{"correct_answers": {"1": "weather", "2": "forecast"}}`)

	result := Evaluate(task, mustDecode(t, TypeFillInBlank, `{"answers": {"1": "Weather", "2": "FORECAST"}}`))
	require.True(t, result.IsCorrect)
	require.Equal(t, 100, result.Score)

	half := Evaluate(task, mustDecode(t, TypeFillInBlank, `{"answers": {"1": "Weather", "2": "rain"}}`))
	require.False(t, half.IsCorrect)
	require.Equal(t, 50, half.Score)

	padded := Evaluate(task, mustDecode(t, TypeFillInBlank, `{"answers": {"1": " weather", "2": "forecast"}}`))
	require.False(t, padded.IsCorrect, "answers are not trimmed")
}

func TestEvaluateSummaryCompletionRounds(t *testing.T) {
	task := taskWithKey(t, 6, TypeSummaryCompletion, `{"correct_answers": {"a": "x", "b": "y", "c": "z"}}`)

	result := Evaluate(task, mustDecode(t, TypeSummaryCompletion, `{"answers": {"a": "X", "b": "Y"}}`))
	require.False(t, result.IsCorrect)
	require.Equal(t, 67, result.Score)
}

func TestEvaluateTrueFalsePartialCredit(t *testing.T) {
	task := taskWithKey(t, 8, TypeTrueFalse, `{"correct_flags": [true, false, true, true]}`)

	full := Evaluate(task, mustDecode(t, TypeTrueFalse, `{"answers": [true, false, true, true]}`))
	require.True(t, full.IsCorrect)
	require.Equal(t, 100, full.Score)

	short := Evaluate(task, mustDecode(t, TypeTrueFalse, `{"answers": [true, false]}`))
	require.False(t, short.IsCorrect)
	require.Equal(t, 50, short.Score)

	long := Evaluate(task, mustDecode(t, TypeTrueFalse, `{"answers": [true, true, true, true, false]}`))
	require.False(t, long.IsCorrect)
	require.Equal(t, 75, long.Score)
}

func TestEvaluateDragDrop(t *testing.T) {
	task := taskWithKey(t, 9, TypeDragDrop, `{"correct_mapping": {"fruit": ["apple", "pear"], "veg": ["leek"]}}`)

	full := Evaluate(task, mustDecode(t, TypeDragDrop, `{"mapping": {"fruit": ["pear", "apple"], "veg": ["leek"]}}`))
	require.True(t, full.IsCorrect)
	require.Equal(t, 100, full.Score)

	partialResult := Evaluate(task, mustDecode(t, TypeDragDrop, `{"mapping": {"fruit": ["apple", "leek"], "other": ["pear"]}}`))
	require.False(t, partialResult.IsCorrect)
	require.Equal(t, 33, partialResult.Score)
	require.Equal(t, "1 of 3 items placed correctly", partialResult.Feedback)
}

func TestEvaluateUngradedTypes(t *testing.T) {
	paraphrase := taskWithKey(t, 10, TypeParaphrase, ``)
	result := Evaluate(paraphrase, mustDecode(t, TypeParaphrase, `{"text": "The weather is nice."}`))
	require.True(t, result.IsCorrect)
	require.Equal(t, 100, result.Score)
	require.False(t, result.HasScore)
	require.Equal(t, FeedbackSubmittedForReview, result.Feedback)

	for _, taskType := range []TaskType{TypeLeadIn, TypeRecording, TypeSpeakingPart2, TypeSpeakingPart3, TaskType("crossword")} {
		t.Run(string(taskType), func(t *testing.T) {
			task := taskWithKey(t, 11, taskType, `{"anything": true}`)
			result := Evaluate(task, mustDecode(t, taskType, `{"audio_url": "https://cdn.test/a.mp3"}`))
			require.True(t, result.IsCorrect)
			require.Equal(t, 100, result.Score)
			require.False(t, result.HasScore)
			require.Equal(t, FeedbackTaskCompleted, result.Feedback)
		})
	}
}

func TestEvaluateMalformedKeyFallsBackToUngraded(t *testing.T) {
	task := taskWithKey(t, 12, TypeMatching, `{"correct_pairs": "oops"}`)
	require.IsType(t, ParticipationKey{}, task.Key)

	result := Evaluate(task, mustDecode(t, TypeMatching, `{"pairs": [[0,1]]}`))
	require.False(t, result.HasScore)
	require.Equal(t, FeedbackTaskCompleted, result.Feedback)
}

func TestEvaluateZeroDenominators(t *testing.T) {
	cases := []struct {
		name     string
		taskType TaskType
		key      string
		payload  string
	}{
		{"matching", TypeMatching, `{"correct_pairs": []}`, `{"pairs": [[0,0]]}`},
		{"blanks", TypeFillInBlank, `{"correct_answers": {}}`, `{"answers": {"1": "a"}}`},
		{"true false", TypeTrueFalse, `{"correct_flags": []}`, `{"answers": [true]}`},
		{"drag drop", TypeDragDrop, `{"correct_mapping": {}}`, `{"mapping": {"a": ["b"]}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := taskWithKey(t, 13, tc.taskType, tc.key)
			result := Evaluate(task, mustDecode(t, tc.taskType, tc.payload))
			require.Equal(t, 0, result.Score)
			require.True(t, result.HasScore)
		})
	}
}

func TestEvaluateScoresStayInRange(t *testing.T) {
	cases := []struct {
		taskType TaskType
		key      string
		payloads []string
	}{
		{TypeMultipleChoice, `{"correct_option_index": 1}`, []string{`{"selected_option": 1}`, `{"selected_option": 3}`, `{}`}},
		{TypeRanking, `{"correct_order": [1, 0]}`, []string{`{"order": [1, 0]}`, `{"order": [0, 1]}`, `{}`}},
		{TypeSentenceReordering, `{"correct_order": [0]}`, []string{`{"order": [0]}`, `{"order": []}`}},
		{TypeMatching, `{"correct_pairs": [[0,0]]}`, []string{`{"pairs": [[0,0],[0,0],[0,0]]}`, `{"pairs": []}`}},
		{TypeDragDrop, `{"correct_mapping": {"a": ["x"]}}`, []string{`{"mapping": {"a": ["x", "x", "x"]}}`}},
	}

	for _, tc := range cases {
		task := taskWithKey(t, 1, tc.taskType, tc.key)
		for _, payload := range tc.payloads {
			result := Evaluate(task, mustDecode(t, tc.taskType, payload))
			require.True(t, result.HasScore)
			require.GreaterOrEqual(t, result.Score, 0)
			require.LessOrEqual(t, result.Score, 100)
			if tc.taskType == TypeMultipleChoice || tc.taskType == TypeRanking || tc.taskType == TypeSentenceReordering {
				require.Equal(t, result.IsCorrect, result.Score == 100)
			}
		}
	}
}

func TestDecodeSubmissionRejectsMalformedShape(t *testing.T) {
	_, err := DecodeSubmission(TypeMultipleChoice, json.RawMessage(`{"selected_option": "two"}`))
	require.Error(t, err)

	_, err = DecodeSubmission(TypeTrueFalse, json.RawMessage(`[true, false]`))
	require.Error(t, err)

	sub, err := DecodeSubmission(TypeRecording, json.RawMessage(`"free form"`))
	require.NoError(t, err)
	require.IsType(t, OpenSubmission{}, sub)

	empty, err := DecodeSubmission(TypeRanking, nil)
	require.NoError(t, err)
	require.Equal(t, OrderSubmission{}, empty)
}
