package models

import "time"

// Scores holds the best-ever star rating (0-3) for each difficulty
type Scores struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
	Mixed  int `json:"mixed"`
}

// Get returns the stars stored for d
func (s Scores) Get(d Difficulty) int {
	switch d {
	case Easy:
		return s.Easy
	case Medium:
		return s.Medium
	case Hard:
		return s.Hard
	case Mixed:
		return s.Mixed
	}
	return 0
}

// With returns a copy of s with the stars for d replaced
func (s Scores) With(d Difficulty, stars int) Scores {
	switch d {
	case Easy:
		s.Easy = stars
	case Medium:
		s.Medium = stars
	case Hard:
		s.Hard = stars
	case Mixed:
		s.Mixed = stars
	}
	return s
}

// LessonProgress tracks a learner's best results for one lesson.
// LastUpdated is in epoch milliseconds, 0 if never updated.
type LessonProgress struct {
	Scores      Scores `json:"scores"`
	LastUpdated int64  `json:"lastUpdated"`
}

// UpdatedAt converts LastUpdated into a time, zero if never updated
func (p LessonProgress) UpdatedAt() time.Time {
	if p.LastUpdated == 0 {
		return time.Time{}
	}
	return time.UnixMilli(p.LastUpdated)
}
