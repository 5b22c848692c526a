package grading

import (
	"encoding/json"
	"fmt"
)

// Submission is the sealed set of decoded learner payloads.
type Submission interface {
	submission()
}

// ChoiceSubmission answers single- or multi-select multiple choice tasks.
type ChoiceSubmission struct {
	SelectedOption  *int  `json:"selected_option"`
	SelectedOptions []int `json:"selected_options"`
}

// MatchingSubmission lists the (left, right) pairs chosen by the learner.
type MatchingSubmission struct {
	Pairs [][2]int `json:"pairs"`
}

// OrderSubmission is the learner's permutation for ranking and reordering tasks.
type OrderSubmission struct {
	Order []int `json:"order"`
}

// BlankSubmission maps blank labels to the learner's words.
type BlankSubmission struct {
	Answers map[string]string `json:"answers"`
}

// TrueFalseSubmission holds one flag per statement.
type TrueFalseSubmission struct {
	Answers []bool `json:"answers"`
}

// DragDropSubmission maps categories to the items the learner dropped in them.
type DragDropSubmission struct {
	Mapping map[string][]string `json:"mapping"`
}

// TextSubmission carries free text such as a paraphrase.
type TextSubmission struct {
	Text string `json:"text"`
}

// OpenSubmission carries payloads of participation-only tasks untouched.
type OpenSubmission struct {
	Raw json.RawMessage
}

func (ChoiceSubmission) submission()    {}
func (MatchingSubmission) submission()  {}
func (OrderSubmission) submission()     {}
func (BlankSubmission) submission()     {}
func (TrueFalseSubmission) submission() {}
func (DragDropSubmission) submission()  {}
func (TextSubmission) submission()      {}
func (OpenSubmission) submission()      {}

// DecodeSubmission decodes a raw payload into the shape expected by the task
// type. An absent payload decodes to the zero value of that shape; a payload
// whose JSON shape does not match returns an error.
func DecodeSubmission(t TaskType, raw json.RawMessage) (Submission, error) {
	switch t {
	case TypeMultipleChoice, TypeListeningMCQ:
		var sub ChoiceSubmission
		if err := decodePayload(raw, &sub); err != nil {
			return nil, err
		}
		return sub, nil
	case TypeMatching:
		var sub MatchingSubmission
		if err := decodePayload(raw, &sub); err != nil {
			return nil, err
		}
		return sub, nil
	case TypeRanking, TypeSentenceReordering:
		var sub OrderSubmission
		if err := decodePayload(raw, &sub); err != nil {
			return nil, err
		}
		return sub, nil
	case TypeFillInBlank, TypeSummaryCompletion:
		var sub BlankSubmission
		if err := decodePayload(raw, &sub); err != nil {
			return nil, err
		}
		return sub, nil
	case TypeTrueFalse:
		var sub TrueFalseSubmission
		if err := decodePayload(raw, &sub); err != nil {
			return nil, err
		}
		return sub, nil
	case TypeDragDrop:
		var sub DragDropSubmission
		if err := decodePayload(raw, &sub); err != nil {
			return nil, err
		}
		return sub, nil
	case TypeParaphrase:
		var sub TextSubmission
		if err := decodePayload(raw, &sub); err != nil {
			return nil, err
		}
		return sub, nil
	default:
		return OpenSubmission{Raw: raw}, nil
	}
}

func decodePayload(raw json.RawMessage, target interface{}) error {
	if isEmptyJSON(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode submission: %w", err)
	}
	return nil
}
