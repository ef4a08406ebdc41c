package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/rollcall/internal/store"
)

const skipChoice = "skip"

// Prompts are variables so tests can answer them without a terminal.
var (
	confirmFunc      = confirm
	selectStatusFunc = selectStatus
)

func confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}

// selectStatus asks for the mark of one class. It returns skipChoice when
// the class should stay as it is.
func selectStatus(title string, current *store.Status) (string, error) {
	choice := skipChoice
	if current != nil {
		choice = string(*current)
	}
	options := []huh.Option[string]{huh.NewOption("Leave as is", skipChoice)}
	for _, s := range store.Statuses {
		options = append(options, huh.NewOption(string(s), string(s)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return choice, nil
}
