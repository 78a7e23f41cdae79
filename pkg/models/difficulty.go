package models

import "fmt"

// Difficulty is the difficulty tag a question pool is keyed by. Mixed
// pools combine multiple-choice and typed questions.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Mixed  Difficulty = "mixed"
)

// Difficulties returns all difficulty tags in display order
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard, Mixed}
}

// Valid reports whether d is one of the four known tags
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard, Mixed:
		return true
	}
	return false
}

// ParseDifficulty converts a raw tag into a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// CourseLevel groups lessons into courses
type CourseLevel string

const (
	Elementary      CourseLevel = "elementary"
	PreIntermediate CourseLevel = "pre-intermediate"
)

// Courses returns the known course levels
func Courses() []CourseLevel {
	return []CourseLevel{Elementary, PreIntermediate}
}

// Valid reports whether c is a known course level
func (c CourseLevel) Valid() bool {
	return c == Elementary || c == PreIntermediate
}
