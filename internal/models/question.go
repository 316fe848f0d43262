package models

import (
	"strings"

	json "github.com/goccy/go-json"
)

// HideValue is either a string or a boolean in the document shape.
type HideValue struct {
	IsBool bool
	Bool   bool
	Str    string
}

func (h *HideValue) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "true" || trimmed == "false" {
		h.IsBool = true
		h.Bool = trimmed == "true"
		return nil
	}
	h.IsBool = false
	return json.Unmarshal(b, &h.Str)
}

func (h HideValue) MarshalJSON() ([]byte, error) {
	if h.IsBool {
		return json.Marshal(h.Bool)
	}
	return json.Marshal(h.Str)
}

// QuestionBase carries the fields shared by every question subtype.
type QuestionBase struct {
	Type         string     `json:"_type"`
	QuestionType string     `json:"type"`
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Required     bool       `json:"required"`
	RandGroup    *string    `json:"rand_group,omitempty"`
	HideID       *string    `json:"hide_id,omitempty"`
	HideValue    *HideValue `json:"hide_value,omitempty"`
	HideIf       *bool      `json:"hide_if,omitempty"`
}

// Question is the tagged union over the eight question subtypes,
// discriminated by the payload's "type" field. Unknown tags are a hard
// parse failure.
type Question interface {
	Base() *QuestionBase
}

type TextQuestion struct {
	QuestionBase
	Subtype  string   `json:"subtype"`
	MinValue *float64 `json:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty"`
}

type DateTimeQuestion struct {
	QuestionBase
	Subtype string `json:"subtype"`
}

type YesNoQuestion struct {
	QuestionBase
	YesText string `json:"yes_text"`
	NoText  string `json:"no_text"`
}

type SliderQuestion struct {
	QuestionBase
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	HintLeft  string `json:"hint_left"`
	HintRight string `json:"hint_right"`
}

type MultiQuestion struct {
	QuestionBase
	Radio   bool     `json:"radio"`
	Modal   bool     `json:"modal"`
	Options []string `json:"options"`
	Shuffle bool     `json:"shuffle"`
}

type MediaQuestion struct {
	QuestionBase
	Subtype string  `json:"subtype"`
	Src     string  `json:"src"`
	Thumb   *string `json:"thumb,omitempty"`
}

type InstructionQuestion struct {
	QuestionBase
}

type PhotoQuestion struct {
	QuestionBase
}

func (q *TextQuestion) Base() *QuestionBase        { return &q.QuestionBase }
func (q *DateTimeQuestion) Base() *QuestionBase    { return &q.QuestionBase }
func (q *YesNoQuestion) Base() *QuestionBase       { return &q.QuestionBase }
func (q *SliderQuestion) Base() *QuestionBase      { return &q.QuestionBase }
func (q *MultiQuestion) Base() *QuestionBase       { return &q.QuestionBase }
func (q *MediaQuestion) Base() *QuestionBase       { return &q.QuestionBase }
func (q *InstructionQuestion) Base() *QuestionBase { return &q.QuestionBase }
func (q *PhotoQuestion) Base() *QuestionBase       { return &q.QuestionBase }

func decodeQuestion(raw json.RawMessage) (Question, error) {
	var probe struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	var q Question
	switch probe.Type {
	case "text":
		q = &TextQuestion{}
	case "datetime":
		q = &DateTimeQuestion{}
	case "yesno":
		q = &YesNoQuestion{}
	case "slider":
		q = &SliderQuestion{}
	case "multi":
		q = &MultiQuestion{}
	case "media":
		q = &MediaQuestion{}
	case "instruction":
		q = &InstructionQuestion{}
	case "photo":
		q = &PhotoQuestion{}
	default:
		return nil, validationErr("questions."+probe.ID, "unknown question type '"+probe.Type+"'")
	}

	if err := json.Unmarshal(raw, q); err != nil {
		return nil, err
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func validateQuestion(q Question) error {
	base := q.Base()
	if base.ID == "" {
		return validationErr("questions", "question id is required")
	}

	if tq, ok := q.(*TextQuestion); ok && tq.Subtype == "numeric" {
		if tq.MinValue != nil && tq.MaxValue != nil && *tq.MaxValue <= *tq.MinValue {
			return validationErr("questions."+base.ID, "max_value must be > min_value")
		}
	}
	return nil
}
