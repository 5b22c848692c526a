// Package grading scores learner submissions for interactive lesson tasks.
//
// The package is pure: it performs no I/O and holds no state, so evaluations
// of different tasks can run concurrently.
package grading

// TaskType discriminates the interactive exercise variants a lesson can hold.
type TaskType string

// Supported task types.
const (
	TypeMultipleChoice     TaskType = "multiple_choice"
	TypeListeningMCQ       TaskType = "listening_mcq"
	TypeMatching           TaskType = "matching"
	TypeRanking            TaskType = "ranking"
	TypeSentenceReordering TaskType = "sentence_reordering"
	TypeFillInBlank        TaskType = "fill_in_blank"
	TypeSummaryCompletion  TaskType = "summary_completion"
	TypeTrueFalse          TaskType = "true_false"
	TypeDragDrop           TaskType = "drag_drop"
	TypeParaphrase         TaskType = "paraphrase"
	TypeLeadIn             TaskType = "lead_in"
	TypeRecording          TaskType = "recording"
	TypeSpeakingPart2      TaskType = "speaking_part2"
	TypeSpeakingPart3      TaskType = "speaking_part3"
)

// Feedback messages for tasks that are not auto-graded.
const (
	FeedbackSubmittedForReview = "submitted for review"
	FeedbackTaskCompleted      = "Task completed"
)

var knownTypes = map[TaskType]bool{
	TypeMultipleChoice:     true,
	TypeListeningMCQ:       true,
	TypeMatching:           true,
	TypeRanking:            true,
	TypeSentenceReordering: true,
	TypeFillInBlank:        true,
	TypeSummaryCompletion:  true,
	TypeTrueFalse:          true,
	TypeDragDrop:           true,
	TypeParaphrase:         false,
	TypeLeadIn:             false,
	TypeRecording:          false,
	TypeSpeakingPart2:      false,
	TypeSpeakingPart3:      false,
}

// Known reports whether t is one of the supported task types.
func (t TaskType) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// Gradable reports whether tasks of this type carry an answer key and
// contribute to the aggregate score.
func (t TaskType) Gradable() bool {
	return knownTypes[t]
}

// Task is the evaluator's view of a stored task: its identity, type tag and
// decoded answer key.
type Task struct {
	ID   uint
	Type TaskType
	Key  AnswerKey
}

// Pair couples a stored task with the learner's decoded submission for it.
type Pair struct {
	Task       Task
	Submission Submission
}

// Result is the per-task evaluation outcome.
type Result struct {
	TaskID    uint     `json:"task_id"`
	Type      TaskType `json:"type"`
	IsCorrect bool     `json:"is_correct"`
	Score     int      `json:"score"`
	Feedback  string   `json:"feedback"`
	HasScore  bool     `json:"has_score"`
}
