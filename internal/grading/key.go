package grading

import (
	"bytes"
	"encoding/json"
)

// AnswerKey is the sealed set of answer-key variants. Only types declared in
// this package satisfy it.
type AnswerKey interface {
	answerKey()
}

// SingleChoiceKey grades single-select multiple choice and listening MCQ tasks.
type SingleChoiceKey struct {
	CorrectOptionIndex int `json:"correct_option_index"`
}

// MultiChoiceKey grades multi-select multiple choice tasks.
type MultiChoiceKey struct {
	CorrectOptionIndices []int `json:"correct_option_indices"`
}

// MatchingKey lists the (left, right) index pairs that are correct.
type MatchingKey struct {
	CorrectPairs [][2]int `json:"correct_pairs"`
}

// OrderKey is the expected permutation for ranking and reordering tasks.
type OrderKey struct {
	CorrectOrder []int `json:"correct_order"`
}

// BlankKey maps blank labels to the expected word.
type BlankKey struct {
	CorrectAnswers map[string]string `json:"correct_answers"`
}

// TrueFalseKey holds the expected flag for each statement, positionally.
type TrueFalseKey struct {
	CorrectFlags []bool `json:"correct_flags"`
}

// DragDropKey maps each category to the item labels that belong in it.
type DragDropKey struct {
	CorrectMapping map[string][]string `json:"correct_mapping"`
}

// ReviewKey marks free-text tasks that are queued for human or AI review.
type ReviewKey struct{}

// ParticipationKey marks tasks that only require participation.
type ParticipationKey struct{}

func (SingleChoiceKey) answerKey()  {}
func (MultiChoiceKey) answerKey()   {}
func (MatchingKey) answerKey()      {}
func (OrderKey) answerKey()         {}
func (BlankKey) answerKey()         {}
func (TrueFalseKey) answerKey()     {}
func (DragDropKey) answerKey()      {}
func (ReviewKey) answerKey()        {}
func (ParticipationKey) answerKey() {}

// ParseKey decodes the stored answer key for a task type. It never fails:
// unknown types and malformed keys degrade to ParticipationKey so that one
// broken task cannot fail a whole lesson submission.
func ParseKey(t TaskType, raw []byte) AnswerKey {
	switch t {
	case TypeMultipleChoice:
		var payload struct {
			CorrectOptionIndex   *int  `json:"correct_option_index"`
			CorrectOptionIndices []int `json:"correct_option_indices"`
		}
		if !decodeKey(raw, &payload) {
			return ParticipationKey{}
		}
		if payload.CorrectOptionIndices != nil {
			return MultiChoiceKey{CorrectOptionIndices: payload.CorrectOptionIndices}
		}
		if payload.CorrectOptionIndex != nil {
			return SingleChoiceKey{CorrectOptionIndex: *payload.CorrectOptionIndex}
		}
		return ParticipationKey{}
	case TypeListeningMCQ:
		var payload struct {
			CorrectOptionIndex *int `json:"correct_option_index"`
		}
		if !decodeKey(raw, &payload) || payload.CorrectOptionIndex == nil {
			return ParticipationKey{}
		}
		return SingleChoiceKey{CorrectOptionIndex: *payload.CorrectOptionIndex}
	case TypeMatching:
		var key MatchingKey
		if !decodeKey(raw, &key) || key.CorrectPairs == nil {
			return ParticipationKey{}
		}
		return key
	case TypeRanking, TypeSentenceReordering:
		var key OrderKey
		if !decodeKey(raw, &key) || key.CorrectOrder == nil {
			return ParticipationKey{}
		}
		return key
	case TypeFillInBlank, TypeSummaryCompletion:
		var key BlankKey
		if !decodeKey(raw, &key) || key.CorrectAnswers == nil {
			return ParticipationKey{}
		}
		return key
	case TypeTrueFalse:
		var key TrueFalseKey
		if !decodeKey(raw, &key) || key.CorrectFlags == nil {
			return ParticipationKey{}
		}
		return key
	case TypeDragDrop:
		var key DragDropKey
		if !decodeKey(raw, &key) || key.CorrectMapping == nil {
			return ParticipationKey{}
		}
		return key
	case TypeParaphrase:
		return ReviewKey{}
	default:
		return ParticipationKey{}
	}
}

func decodeKey(raw []byte, target interface{}) bool {
	if isEmptyJSON(raw) {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}

func isEmptyJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
