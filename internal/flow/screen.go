package flow

// Screen is a top-level screen of the application
type Screen int

const (
	CourseSelect Screen = iota
	LessonSelect
	ModeSelect
	Flashcards
	DifficultySelect
	Loading
	Playing
	GameOver
	Error
)

var screenNames = map[Screen]string{
	CourseSelect:     "course_select",
	LessonSelect:     "lesson_select",
	ModeSelect:       "mode_select",
	Flashcards:       "flashcards",
	DifficultySelect: "difficulty_select",
	Loading:          "loading",
	Playing:          "playing",
	GameOver:         "game_over",
	Error:            "error",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "unknown"
}

// forward lists the screens reachable from each screen by a user action.
// Back navigation is not part of the table, see Controller.Back.
var forward = map[Screen][]Screen{
	CourseSelect:     {LessonSelect},
	LessonSelect:     {ModeSelect},
	ModeSelect:       {Flashcards, DifficultySelect},
	DifficultySelect: {Loading},
	Loading:          {Playing, Error},
	Playing:          {GameOver},
	GameOver:         {Playing},
}

// CanTransition reports whether to is a legal forward step from from
func CanTransition(from, to Screen) bool {
	for _, s := range forward[from] {
		if s == to {
			return true
		}
	}
	return false
}

// backTarget is the fixed "up one level" screen for each screen
func backTarget(s Screen) (Screen, bool) {
	switch s {
	case CourseSelect:
		return CourseSelect, false
	case LessonSelect:
		return CourseSelect, true
	}
	return LessonSelect, true
}

// Mode is the study mode picked on ModeSelect
type Mode string

const (
	Learn Mode = "learn"
	Test  Mode = "test"
)
