package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VocabItem is a term/translation pair shown on a flashcard
type VocabItem struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Emoji       string `json:"emoji,omitempty"`
}

// Content is what a lesson teaches: either a fixed vocabulary list
// or a topic descriptor used when the bank was generated.
type Content interface {
	contentKind() string
}

// VocabList is lesson content made of fixed vocabulary items
type VocabList struct {
	Items []VocabItem
}

// TopicPrompt is lesson content described by an opaque topic text
type TopicPrompt struct {
	Prompt string
}

func (VocabList) contentKind() string   { return contentVocabulary }
func (TopicPrompt) contentKind() string { return contentGenerative }

const (
	contentVocabulary = "vocabulary"
	contentGenerative = "generative"
)

// Lesson is a static catalog entry
type Lesson struct {
	ID          string
	Course      CourseLevel
	Title       string
	Description string
	Icon        string
	Emoji       string
	Content     Content
}

// Vocabulary returns the lesson's items when the content is a vocabulary list
func (l Lesson) Vocabulary() ([]VocabItem, bool) {
	list, ok := l.Content.(VocabList)
	if !ok {
		return nil, false
	}
	return list.Items, true
}

// IsUnit reports whether the lesson belongs to the "units" tab rather than "topics"
func (l Lesson) IsUnit() bool {
	return strings.Contains(l.Title, "Unit")
}

type lessonJSON struct {
	ID          string          `json:"id"`
	Course      CourseLevel     `json:"course"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Emoji       string          `json:"emoji,omitempty"`
	Type        string          `json:"type"`
	Content     json.RawMessage `json:"content"`
}

// MarshalJSON encodes the lesson in the catalog wire format
func (l Lesson) MarshalJSON() ([]byte, error) {
	raw := lessonJSON{
		ID:          l.ID,
		Course:      l.Course,
		Title:       l.Title,
		Description: l.Description,
		Icon:        l.Icon,
		Emoji:       l.Emoji,
	}

	var (
		content []byte
		err     error
	)
	switch c := l.Content.(type) {
	case VocabList:
		raw.Type = contentVocabulary
		items := c.Items
		if items == nil {
			items = []VocabItem{}
		}
		content, err = json.Marshal(items)
	case TopicPrompt:
		raw.Type = contentGenerative
		content, err = json.Marshal(c.Prompt)
	default:
		return nil, fmt.Errorf("lesson %s: unsupported content %T", l.ID, l.Content)
	}
	if err != nil {
		return nil, err
	}
	raw.Content = content

	return json.Marshal(raw)
}

// UnmarshalJSON decodes the catalog wire format. Content is decoded
// according to the "type" discriminator.
func (l *Lesson) UnmarshalJSON(data []byte) error {
	var raw lessonJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var content Content
	switch raw.Type {
	case contentVocabulary:
		var items []VocabItem
		if err := json.Unmarshal(raw.Content, &items); err != nil {
			return fmt.Errorf("lesson %s: invalid vocabulary content: %w", raw.ID, err)
		}
		content = VocabList{Items: items}
	case contentGenerative:
		var prompt string
		if err := json.Unmarshal(raw.Content, &prompt); err != nil {
			return fmt.Errorf("lesson %s: invalid generative content: %w", raw.ID, err)
		}
		content = TopicPrompt{Prompt: prompt}
	default:
		return fmt.Errorf("lesson %s: unknown lesson type %q", raw.ID, raw.Type)
	}

	*l = Lesson{
		ID:          raw.ID,
		Course:      raw.Course,
		Title:       raw.Title,
		Description: raw.Description,
		Icon:        raw.Icon,
		Emoji:       raw.Emoji,
		Content:     content,
	}
	return nil
}
