package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/wordquest/internal/flow"
	"github.com/example/wordquest/internal/scoring"
	"github.com/example/wordquest/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Constants for callback data
const (
	callbackMenu     = "menu"
	callbackBack     = "back"
	callbackReview   = "review"
	callbackNextCard = "card:next"
	callbackPrevCard = "card:prev"

	prefixCourse = "course:"
	prefixLesson = "lesson:"
	prefixMode   = "mode:"
	prefixDiff   = "diff:"
	prefixAnswer = "answer:"
)

var courseTitles = map[models.CourseLevel]string{
	models.Elementary:      "🌱 Elementary",
	models.PreIntermediate: "🌿 Pre-Intermediate",
}

var difficultyTitles = map[models.Difficulty]string{
	models.Easy:   "🟢 Easy",
	models.Medium: "🟡 Medium",
	models.Hard:   "🔴 Hard",
	models.Mixed:  "🎲 Mixed",
}

// accept binds the bot to its learner chat and reports whether chatID is it
func (b *Bot) accept(chatID int64) bool {
	if b.chatID == 0 {
		b.chatID = chatID
		b.logger.Printf("Bound to learner chat %d", chatID)
	}
	return b.chatID == chatID
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if !b.accept(update.Message.Chat.ID) {
			b.sendMessage(tgbotapi.NewMessage(update.Message.Chat.ID, "Sorry, this bot already has a learner."))
			return
		}
		if update.Message.IsCommand() {
			b.handleCommand(update.Message)
			return
		}
		b.handleText(update.Message)
	case update.CallbackQuery != nil:
		callback := update.CallbackQuery
		if callback.Message == nil || !b.accept(callback.Message.Chat.ID) {
			return
		}
		b.handleCallback(callback)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start", "menu":
		b.render()
	case "progress":
		b.sendMessage(tgbotapi.NewMessage(b.chatID, b.progressText()))
	case "report":
		if err := b.exportReport(b.ctx); err != nil {
			b.logger.Printf("Error exporting progress report: %v", err)
			b.sendMessage(tgbotapi.NewMessage(b.chatID, "❌ Could not build the report. Please try again later."))
		}
	case "help":
		b.sendMessage(tgbotapi.NewMessage(b.chatID, helpText))
	default:
		b.sendMessage(tgbotapi.NewMessage(b.chatID, "Unknown command. Use /menu to show the current screen."))
	}
}

const helpText = "📖 English Quest\n\n" +
	"/menu - Show the current screen\n" +
	"/progress - Show your stars for every lesson\n" +
	"/report - Get your progress as an Excel file\n\n" +
	"Pick a course and a lesson, then study the flashcards or take a quiz. " +
	"Each correct answer is worth 100 points plus 10 for every answer in your streak."

// handleText treats plain messages as answers to typed questions
func (b *Bot) handleText(message *tgbotapi.Message) {
	view := b.controller.View()
	q := view.Session.Question
	if view.Screen != flow.Playing || q == nil || view.Session.Answered {
		b.sendMessage(tgbotapi.NewMessage(b.chatID, "Use the buttons to continue, or /menu to show the current screen."))
		return
	}
	if models.ResponseKind(q.Response) != models.ResponseTextInput {
		b.sendMessage(tgbotapi.NewMessage(b.chatID, "Please choose one of the options."))
		return
	}
	b.answer(message.Text)
}

// handleCallback handles callback queries from buttons
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	// Always send an answer to the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Printf("Warning: Failed to answer callback: %v", err)
	}

	data := callback.Data
	var err error

	switch {
	case data == callbackMenu:
	case data == callbackBack:
		err = b.controller.Back()
	case data == callbackReview:
		err = b.controller.StartReview()
	case data == callbackNextCard:
		b.controller.NextCard()
	case data == callbackPrevCard:
		b.controller.PrevCard()
	case strings.HasPrefix(data, prefixCourse):
		err = b.controller.SelectCourse(models.CourseLevel(strings.TrimPrefix(data, prefixCourse)))
	case strings.HasPrefix(data, prefixLesson):
		err = b.controller.SelectLesson(strings.TrimPrefix(data, prefixLesson))
	case strings.HasPrefix(data, prefixMode):
		err = b.controller.ChooseMode(flow.Mode(strings.TrimPrefix(data, prefixMode)))
	case strings.HasPrefix(data, prefixDiff):
		var d models.Difficulty
		if d, err = models.ParseDifficulty(strings.TrimPrefix(data, prefixDiff)); err == nil {
			err = b.controller.StartQuiz(d)
		}
	case strings.HasPrefix(data, prefixAnswer):
		b.handleOptionAnswer(strings.TrimPrefix(data, prefixAnswer))
		return
	default:
		b.sendMessage(tgbotapi.NewMessage(b.chatID, "⚠️ Unknown action"))
		return
	}

	if err != nil {
		// stale buttons from an older screen end up here
		b.logger.Printf("Ignoring %q on %s: %v", data, b.controller.Screen(), err)
	}
	b.render()
}

// handleOptionAnswer decodes "<question index>:<option index>". Buttons of
// an earlier question are ignored.
func (b *Bot) handleOptionAnswer(payload string) {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return
	}
	index, err1 := strconv.Atoi(parts[0])
	option, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}

	view := b.controller.View()
	q := view.Session.Question
	if view.Screen != flow.Playing || q == nil || view.Session.Index != index {
		return
	}
	options := q.Options()
	if option < 0 || option >= len(options) {
		return
	}
	b.answer(options[option])
}

// answer submits raw, shows the feedback and schedules the settle step
func (b *Bot) answer(raw string) {
	res, err := b.controller.SubmitAnswer(raw)
	if err != nil {
		b.logger.Printf("Answer rejected: %v", err)
		return
	}

	var text string
	if res.Correct {
		text = fmt.Sprintf("✅ Correct! +%d", res.Delta)
	} else {
		text = fmt.Sprintf("❌ Not quite. The answer is: %s", res.CorrectAnswer)
	}
	if res.Explanation != "" {
		text += "\n💡 " + res.Explanation
	}
	if res.Perfect {
		text += "\n\n🎉 Perfect run!"
	}
	b.sendMessage(tgbotapi.NewMessage(b.chatID, text))

	b.scheduleSettle(b.controller.SessionID())
}

// handleSettle moves on after the feedback pause
func (b *Bot) handleSettle(sessionID string) {
	if sessionID != b.controller.SessionID() || b.controller.Screen() != flow.Playing {
		return
	}
	if err := b.controller.Advance(b.ctx, sessionID); err != nil {
		b.logger.Printf("Failed to advance session %s: %v", sessionID, err)
		return
	}
	b.render()
}

// render sends the current screen
func (b *Bot) render() {
	text, buttons := b.screen(b.controller.View())
	msg := tgbotapi.NewMessage(b.chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = createKeyboard(buttons)
	}
	b.sendMessage(msg)
}

var backRow = []MenuButton{{Text: "⬅️ Back", CallbackData: callbackBack}}

func (b *Bot) screen(v flow.View) (string, [][]MenuButton) {
	switch v.Screen {
	case flow.CourseSelect:
		var rows [][]MenuButton
		for _, c := range models.Courses() {
			rows = append(rows, []MenuButton{{Text: courseTitles[c], CallbackData: prefixCourse + string(c)}})
		}
		return "👋 Welcome to English Quest!\n\nChoose your course:", rows

	case flow.LessonSelect:
		var rows [][]MenuButton
		for _, e := range append(v.Units, v.Topics...) {
			rows = append(rows, []MenuButton{{Text: lessonLabel(e), CallbackData: prefixLesson + e.Lesson.ID}})
		}
		rows = append(rows, backRow)
		text := fmt.Sprintf("%s\n\n📘 %d units, 🧩 %d topics. Pick a lesson:", courseTitles[v.Course], len(v.Units), len(v.Topics))
		return text, rows

	case flow.ModeSelect:
		var row []MenuButton
		if _, ok := v.Lesson.Vocabulary(); ok {
			row = append(row, MenuButton{Text: "📖 Learn", CallbackData: prefixMode + string(flow.Learn)})
		}
		row = append(row, MenuButton{Text: "✏️ Test", CallbackData: prefixMode + string(flow.Test)})
		text := fmt.Sprintf("%s %s\n%s", v.Lesson.Icon, v.Lesson.Title, v.Lesson.Description)
		return strings.TrimSpace(text), [][]MenuButton{row, backRow}

	case flow.Flashcards:
		if v.Card == nil {
			return "This lesson has no cards yet.", [][]MenuButton{backRow}
		}
		var nav []MenuButton
		if v.Card.HasPrev {
			nav = append(nav, MenuButton{Text: "◀️", CallbackData: callbackPrevCard})
		}
		if v.Card.HasNext {
			nav = append(nav, MenuButton{Text: "▶️", CallbackData: callbackNextCard})
		}
		card := v.Card.Card
		text := fmt.Sprintf("🃏 %d/%d\n\n%s %s\n→ %s", v.Card.Index+1, v.Card.Total, card.Emoji, card.Term, card.Translation)
		rows := [][]MenuButton{}
		if len(nav) > 0 {
			rows = append(rows, nav)
		}
		return text, append(rows, backRow)

	case flow.DifficultySelect:
		var rows [][]MenuButton
		for _, d := range models.Difficulties() {
			label := difficultyTitles[d]
			if d == v.Difficulty {
				label += " ✓"
			}
			rows = append(rows, []MenuButton{{Text: label, CallbackData: prefixDiff + string(d)}})
		}
		return "Choose a difficulty:", append(rows, backRow)

	case flow.Loading:
		return "⏳ Loading questions...", nil

	case flow.Playing:
		return b.questionScreen(v)

	case flow.GameOver:
		return resultScreen(v)

	case flow.Error:
		return "😕 Could not load questions for this lesson.\n" + v.Failure, [][]MenuButton{backRow}
	}
	return "Unknown screen", [][]MenuButton{backRow}
}

func (b *Bot) questionScreen(v flow.View) (string, [][]MenuButton) {
	s := v.Session
	q := s.Question
	if q == nil {
		return "No question", [][]MenuButton{backRow}
	}

	header := fmt.Sprintf("❓ Question %d/%d", s.Index+1, s.Length)
	if s.Review {
		header = "🔁 Review " + header
	}
	text := fmt.Sprintf("%s   ⭐ %d   🔥 %d\n\n%s %s", header, s.Stats.Score, s.Stats.Streak, q.Emoji, q.Text)

	var rows [][]MenuButton
	for i, opt := range q.Options() {
		rows = append(rows, []MenuButton{{Text: opt, CallbackData: fmt.Sprintf("%s%d:%d", prefixAnswer, s.Index, i)}})
	}
	if models.ResponseKind(q.Response) == models.ResponseTextInput {
		text += "\n\n⌨️ Type your answer."
	}
	return strings.TrimSpace(text), append(rows, backRow)
}

func resultScreen(v flow.View) (string, [][]MenuButton) {
	s := v.Session
	stars := 0
	if s.Stats.TotalQuestions > 0 {
		stars = scoring.StarRating(s.Stats.CorrectAnswers, s.Stats.TotalQuestions)
	}

	var sb strings.Builder
	sb.WriteString("🏁 Finished!\n\n")
	fmt.Fprintf(&sb, "%s\n", starString(stars))
	fmt.Fprintf(&sb, "Correct: %d/%d\nScore: %d\n", s.Stats.CorrectAnswers, s.Stats.TotalQuestions, s.Stats.Score)
	if s.Stats.CorrectAnswers == s.Stats.TotalQuestions && s.Stats.TotalQuestions > 0 {
		sb.WriteString("\n🎉 Perfect run!")
	}

	var rows [][]MenuButton
	if s.Mistakes > 0 {
		rows = append(rows, []MenuButton{{Text: fmt.Sprintf("🔁 Review %d mistakes", s.Mistakes), CallbackData: callbackReview}})
	}
	rows = append(rows, []MenuButton{{Text: "📚 Lessons", CallbackData: callbackBack}})
	return strings.TrimSpace(sb.String()), rows
}

func lessonLabel(e flow.LessonEntry) string {
	var badges strings.Builder
	for _, badge := range e.Badges {
		if badge.Lit {
			badges.WriteString("★")
		} else {
			badges.WriteString("☆")
		}
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", e.Lesson.Icon, e.Lesson.Title, badges.String()))
}

func starString(stars int) string {
	return strings.Repeat("⭐", stars) + strings.Repeat("☆", scoring.MaxStars-stars)
}

// progressText summarizes the stored ratings of every lesson ever played
func (b *Bot) progressText() string {
	var sb strings.Builder
	sb.WriteString("📊 Your progress\n")

	played := 0
	for _, l := range b.catalog.Lessons() {
		p := b.progress.Lesson(l.ID)
		if p.LastUpdated == 0 {
			continue
		}
		played++
		fmt.Fprintf(&sb, "\n%s", l.Title)
		for _, d := range models.Difficulties() {
			fmt.Fprintf(&sb, "\n  %s %s", difficultyTitles[d], starString(p.Scores.Get(d)))
		}
	}
	if played == 0 {
		sb.WriteString("\nNo lessons played yet.")
	}
	return sb.String()
}
