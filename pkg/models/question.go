package models

import (
	"encoding/json"
	"fmt"
)

// Response is the way a question is answered
type Response interface {
	responseKind() string
}

// MultipleChoice questions are answered by picking one of the options.
// Options include the correct answer.
type MultipleChoice struct {
	Options []string
}

// TextInput questions are answered by typing the word
type TextInput struct{}

func (MultipleChoice) responseKind() string { return ResponseMultipleChoice }
func (TextInput) responseKind() string      { return ResponseTextInput }

const (
	ResponseMultipleChoice = "multiple-choice"
	ResponseTextInput      = "text-input"
)

// ResponseKind returns the wire name of r ("multiple-choice" or "text-input")
func ResponseKind(r Response) string {
	if r == nil {
		return ""
	}
	return r.responseKind()
}

// QuizQuestion is one evaluable unit drawn from the question bank
type QuizQuestion struct {
	ID            string
	Text          string
	Response      Response
	CorrectAnswer string
	Explanation   string
	Difficulty    Difficulty
	Emoji         string
}

// Options returns the choices of a multiple-choice question, nil otherwise
func (q QuizQuestion) Options() []string {
	if mc, ok := q.Response.(MultipleChoice); ok {
		return mc.Options
	}
	return nil
}

type questionJSON struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Type          string     `json:"type"`
	Options       []string   `json:"options,omitempty"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
	Emoji         string     `json:"emoji,omitempty"`
}

// MarshalJSON encodes the question in the generator's output format
func (q QuizQuestion) MarshalJSON() ([]byte, error) {
	raw := questionJSON{
		ID:            q.ID,
		Text:          q.Text,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		Emoji:         q.Emoji,
	}

	switch r := q.Response.(type) {
	case MultipleChoice:
		raw.Type = ResponseMultipleChoice
		raw.Options = r.Options
	case TextInput:
		raw.Type = ResponseTextInput
	default:
		return nil, fmt.Errorf("question %s: unsupported response %T", q.ID, q.Response)
	}

	return json.Marshal(raw)
}

// UnmarshalJSON decodes the generator's output format
func (q *QuizQuestion) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	response, err := NewResponse(raw.Type, raw.Options)
	if err != nil {
		return fmt.Errorf("question %s: %w", raw.ID, err)
	}

	*q = QuizQuestion{
		ID:            raw.ID,
		Text:          raw.Text,
		Response:      response,
		CorrectAnswer: raw.CorrectAnswer,
		Explanation:   raw.Explanation,
		Difficulty:    raw.Difficulty,
		Emoji:         raw.Emoji,
	}
	return nil
}

// NewResponse builds a Response from its wire name. A multiple-choice
// response needs at least two options.
func NewResponse(kind string, options []string) (Response, error) {
	switch kind {
	case ResponseMultipleChoice:
		if len(options) < 2 {
			return nil, fmt.Errorf("multiple-choice question needs at least 2 options, got %d", len(options))
		}
		return MultipleChoice{Options: options}, nil
	case ResponseTextInput:
		return TextInput{}, nil
	}
	return nil, fmt.Errorf("unknown question type %q", kind)
}
