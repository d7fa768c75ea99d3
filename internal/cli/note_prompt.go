package cli

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// shiftlogHuhTheme matches huh forms to the CLI palette.
func shiftlogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// noteForm builds the single-field note form. The input is capped at the
// stored note length.
func noteForm(pending *domain.SessionRecord, note *string) *huh.Form {
	desc := fmt.Sprintf("%sh worked. Leave blank to skip.", formatter.FormatHours(pending.Duration()))
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What did you work on?").
				Description(desc).
				Placeholder("Wrote design doc").
				CharLimit(domain.MaxNoteLength).
				Value(note).
				Validate(validateNote),
		),
	).WithTheme(shiftlogHuhTheme()).WithShowHelp(false)
}

func validateNote(s string) error {
	if utf8.RuneCountInString(s) > domain.MaxNoteLength {
		return fmt.Errorf("at most %d characters", domain.MaxNoteLength)
	}
	return nil
}

// HuhNotePrompter asks for the note on the terminal. A blank answer or an
// aborted form skips the note.
func HuhNotePrompter(ctx context.Context, pending *domain.SessionRecord) (string, bool, error) {
	var note string
	if err := noteForm(pending, &note).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", true, nil
		}
		return "", false, err
	}
	return note, note == "", nil
}
