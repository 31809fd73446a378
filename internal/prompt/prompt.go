// Package prompt wraps the interactive confirmations the push command
// needs.
package prompt

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmManifestOverwrite asks whether a push may overwrite the remote
// manifest. Returns false without error when the user declines.
func ConfirmManifestOverwrite() (bool, error) {
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Manifest file has been updated. Push and overwrite the remote manifest?").
			Affirmative("Yes, push").
			Negative("No, abort").
			Value(&confirmed),
	))

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return confirmed, nil
}
