package models

// PlayerStats is the running tally of the active session. Streak counts
// consecutive correct answers and resets on a miss.
type PlayerStats struct {
	Score          int `json:"score"`
	Streak         int `json:"streak"`
	TotalQuestions int `json:"totalQuestions"`
	CorrectAnswers int `json:"correctAnswers"`
}
