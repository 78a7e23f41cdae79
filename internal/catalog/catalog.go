// Package catalog holds the static, ordered list of lessons.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/wordquest/pkg/models"
)

// Catalog is the immutable lesson list loaded at startup
type Catalog struct {
	lessons []models.Lesson
	byID    map[string]int
}

// New validates the lessons and builds a catalog. IDs must be unique
// and every lesson needs a known course.
func New(lessons []models.Lesson) (*Catalog, error) {
	c := &Catalog{
		lessons: make([]models.Lesson, len(lessons)),
		byID:    make(map[string]int, len(lessons)),
	}
	copy(c.lessons, lessons)

	for i, l := range c.lessons {
		if l.ID == "" {
			return nil, fmt.Errorf("lesson at position %d has no ID", i)
		}
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate lesson ID %s", l.ID)
		}
		if !l.Course.Valid() {
			return nil, fmt.Errorf("lesson %s: unknown course %q", l.ID, l.Course)
		}
		c.byID[l.ID] = i
	}

	return c, nil
}

// Load reads a catalog from a JSON array of lessons
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson catalog: %w", err)
	}

	var lessons []models.Lesson
	if err := json.Unmarshal(data, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode lesson catalog: %w", err)
	}

	return New(lessons)
}

// Lessons returns every lesson in catalog order
func (c *Catalog) Lessons() []models.Lesson {
	out := make([]models.Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

// Lesson looks a lesson up by ID
func (c *Catalog) Lesson(id string) (models.Lesson, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Lesson{}, false
	}
	return c.lessons[i], true
}

// ByCourse returns the lessons of one course in catalog order
func (c *Catalog) ByCourse(course models.CourseLevel) []models.Lesson {
	var out []models.Lesson
	for _, l := range c.lessons {
		if l.Course == course {
			out = append(out, l)
		}
	}
	return out
}

// Split partitions a course into its "units" and "topics" tabs
func (c *Catalog) Split(course models.CourseLevel) (units, topics []models.Lesson) {
	for _, l := range c.ByCourse(course) {
		if l.IsUnit() {
			units = append(units, l)
		} else {
			topics = append(topics, l)
		}
	}
	return units, topics
}
