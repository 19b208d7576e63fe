package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smohan/deckard/internal/quiz"
)

var (
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	optionLabels = []string{"A", "B", "C", "D"}
)

// QuizModel walks a set-up quiz.
type QuizModel struct {
	quiz     *quiz.Quiz
	progress progress.Model
	selected int
}

// NewQuizModel wraps a quiz that Setup has already been called on.
func NewQuizModel(q *quiz.Quiz) QuizModel {
	return QuizModel{
		quiz:     q,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (m QuizModel) Init() tea.Cmd { return nil }

func (m QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.quiz.State == quiz.StateFinished {
		return m, tea.Quit
	}

	q := m.quiz.Current()
	if q == nil {
		return m, tea.Quit
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if !q.Answered && m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if !q.Answered && m.selected < len(q.Options)-1 {
			m.selected++
		}
	case "a", "b", "c", "d":
		if !q.Answered {
			m.selected = int(key.String()[0] - 'a')
			m.quiz.SubmitAnswer(m.selected)
		}
	case "enter":
		if q.Answered {
			m.quiz.Advance()
			m.selected = 0
		} else {
			m.quiz.SubmitAnswer(m.selected)
		}
	case "n", "right", "tab":
		if q.Answered {
			m.quiz.Advance()
			m.selected = 0
		}
	}

	return m, nil
}

func (m QuizModel) View() string {
	if m.quiz.State == quiz.StateFinished {
		return frameStyle.Render(m.finishedView())
	}

	q := m.quiz.Current()
	if q == nil {
		return frameStyle.Render("...")
	}

	header := headerStyle.Render(fmt.Sprintf("[%d/%d]  Score: %d", m.quiz.Index()+1, m.quiz.Total(), m.quiz.Score()))
	bar := m.progress.ViewAs(float64(m.quiz.Index()) / float64(m.quiz.Total()))

	var b strings.Builder
	b.WriteString(header + "\n\n")
	b.WriteString(faceStyle.Render(q.Prompt) + "\n\n")

	for i, opt := range q.Options {
		line := fmt.Sprintf("%s) %s", optionLabels[i], opt)
		switch {
		case q.Answered && i == q.CorrectIndex:
			line = correctStyle.Render("✔ " + line)
		case q.Answered && i == q.ChosenIndex:
			line = wrongStyle.Render("✘ " + line)
		case !q.Answered && i == m.selected:
			line = cursorStyle.Render("▸ " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + bar + "\n\n")
	if q.Answered {
		b.WriteString(hintStyle.Render("(enter=next)"))
	} else {
		b.WriteString(hintStyle.Render("(a-d or ↑/↓ + enter to answer)"))
	}
	return frameStyle.Render(b.String())
}

func (m QuizModel) finishedView() string {
	total := m.quiz.Total()
	if total == 0 {
		return headerStyle.Render("No cards to quiz.") + "\n\nAdd some cards first."
	}
	percent := quiz.FinalPercent(m.quiz.Score(), total)
	out := goodStyle.Render("Quiz finished!") + "\n\n"
	out += fmt.Sprintf("%d of %d correct (%.2f%%)", m.quiz.Score(), total, percent)
	return out
}

// RunQuiz runs the quiz screen to completion.
func RunQuiz(q *quiz.Quiz) error {
	p := tea.NewProgram(NewQuizModel(q))
	_, err := p.Run()
	return err
}
