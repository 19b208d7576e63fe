// Package tui renders the interactive study and quiz screens.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smohan/deckard/internal/card"
	"github.com/smohan/deckard/internal/study"
)

var (
	frameStyle    = lipgloss.NewStyle().Margin(1, 2)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	faceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	subFaceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	goodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	badStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	masteryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).Underline(true)
	reviewBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("review")
	studyAllBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Render("study all")
)

// StudyModel walks a started study session.
type StudyModel struct {
	session  *study.Session
	progress progress.Model
	quit     bool
}

// NewStudyModel wraps a session that has already been started.
func NewStudyModel(s *study.Session) StudyModel {
	return StudyModel{
		session:  s,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (m StudyModel) Init() tea.Cmd { return nil }

func (m StudyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.session.Phase {
	case study.PhaseInProgress:
		switch key.String() {
		case "ctrl+c", "q":
			// Every outcome is already persisted; abandoning is safe.
			m.quit = true
			return m, tea.Quit
		case "enter", " ", "f":
			m.session.Flip()
		case "c", "right":
			m.session.RecordOutcome(true)
		case "x", "left":
			m.session.RecordOutcome(false)
		}
		if m.session.Phase == study.PhaseCompleted {
			return m, nil
		}

	case study.PhaseAwaitingReviewDecision:
		switch key.String() {
		case "y", "enter":
			m.session.StartLeftoverReview()
		case "n", "q", "esc":
			m.session.Finish()
		case "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}

	case study.PhaseCompleted:
		return m, tea.Quit
	}

	return m, nil
}

func (m StudyModel) View() string {
	s := m.session

	switch s.Phase {
	case study.PhaseCompleted:
		return frameStyle.Render(m.completionView())
	case study.PhaseAwaitingReviewDecision:
		n := len(s.Leftovers())
		return frameStyle.Render(
			headerStyle.Render("Session finished.") + "\n\n" +
				fmt.Sprintf("%d card(s) still need review.", n) + "\n\n" +
				hintStyle.Render("(y=review them now, n=finish)"))
	}

	c := s.Current()
	if c == nil {
		return frameStyle.Render("...")
	}

	header := headerStyle.Render(fmt.Sprintf("[%d/%d]", s.Index()+1, s.Total()))
	if s.Reviewing() {
		header += "  " + reviewBadge
	} else if s.Mode == study.ModeStudyAll {
		header += "  " + studyAllBadge
	}

	bar := m.progress.ViewAs(float64(s.Index()) / float64(s.Total()))

	var b strings.Builder
	b.WriteString(header + "\n\n")
	b.WriteString(faceLabel(s.ShowingBack()) + "\n")
	b.WriteString(renderFace(c, s.ShowingBack()) + "\n\n")
	b.WriteString(bar + "\n\n")
	if s.ShowingBack() {
		b.WriteString(hintStyle.Render("(c=correct, x=incorrect, enter=flip, q=quit)"))
	} else {
		b.WriteString(hintStyle.Render("(enter=flip, c=correct, x=incorrect, q=quit)"))
	}
	return frameStyle.Render(b.String())
}

func (m StudyModel) completionView() string {
	s := m.session
	if s.Total() == 0 {
		return headerStyle.Render("Nothing to review.") + "\n\n" +
			"Every card is in good shape. ✨"
	}
	out := goodStyle.Render("Study session complete!")
	if s.DeckMastered() {
		names := make([]string, 0, len(s.MasteredDecks()))
		for _, d := range s.MasteredDecks() {
			names = append(names, d.Name)
		}
		out += "\n\n" + masteryStyle.Render("Deck mastered: "+strings.Join(names, ", ")+" 🎉")
	}
	return out
}

func faceLabel(back bool) string {
	if back {
		return hintStyle.Render("Back")
	}
	return hintStyle.Render("Front")
}

func renderFace(c *card.Card, back bool) string {
	primary, secondary := c.FrontPrimary, c.FrontSecondary
	if back {
		primary, secondary = c.BackPrimary, c.BackSecondary
	}
	out := faceStyle.Render(primary)
	if secondary != "" {
		out += "\n" + subFaceStyle.Render(secondary)
	}
	return out
}

// RunStudy runs the study screen to completion.
func RunStudy(s *study.Session) error {
	p := tea.NewProgram(NewStudyModel(s))
	_, err := p.Run()
	return err
}
