// Package doctor validates the environment a sync needs: settings file,
// credentials, project root, and remote connectivity.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/clasp-sub000/internal/config"
	"github.com/google/clasp-sub000/internal/remote"
	"github.com/google/clasp-sub000/internal/types"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func checkmark() string {
	return colorGreen + "✓" + colorReset
}

func crossmark() string {
	return colorRed + "✗" + colorReset
}

// Inputs carries everything the checks need. Store may be nil to skip the
// connectivity check (no credentials yet).
type Inputs struct {
	SettingsPath string
	Settings     *types.ProjectSettings
	CredsPath    string
	Store        remote.Store
}

// RunChecks performs all doctor checks, printing a report to w, and
// returns whether all of them passed.
func RunChecks(ctx context.Context, w io.Writer, in Inputs) bool {
	fmt.Fprintln(w, "clasp doctor - configuration and connectivity check")
	fmt.Fprintln(w)

	allPassed := true

	fmt.Fprintln(w, "Project:")
	fmt.Fprintf(w, "  %s Settings file loaded: %s\n", checkmark(), in.SettingsPath)

	if in.Settings.ScriptID == "" {
		fmt.Fprintf(w, "  %s scriptId not set\n", crossmark())
		fmt.Fprintf(w, "    → Edit %s and set scriptId\n", in.SettingsPath)
		allPassed = false
	} else {
		fmt.Fprintf(w, "  %s scriptId configured: %s\n", checkmark(), in.Settings.ScriptID)
	}

	root := filepath.Dir(in.SettingsPath)
	if in.Settings.RootDir != "" {
		root = filepath.Join(root, in.Settings.RootDir)
	}
	if info, err := os.Stat(root); err != nil {
		fmt.Fprintf(w, "  %s Root directory missing: %s\n", crossmark(), root)
		allPassed = false
	} else if !info.IsDir() {
		fmt.Fprintf(w, "  %s Root path is not a directory: %s\n", crossmark(), root)
		allPassed = false
	} else {
		fmt.Fprintf(w, "  %s Root directory exists: %s\n", checkmark(), root)
	}

	manifestPath := filepath.Join(root, types.ManifestFileName)
	if _, err := os.Stat(manifestPath); err != nil {
		fmt.Fprintf(w, "  %s Local manifest missing: %s\n", crossmark(), manifestPath)
		allPassed = false
	} else {
		fmt.Fprintf(w, "  %s Local manifest present: %s\n", checkmark(), manifestPath)
	}

	ignorePath := filepath.Join(filepath.Dir(in.SettingsPath), config.IgnoreFileName)
	if _, err := os.Stat(ignorePath); err == nil {
		fmt.Fprintf(w, "  %s Ignore file present: %s\n", checkmark(), ignorePath)
	} else {
		fmt.Fprintf(w, "  %s No ignore file; built-in defaults apply\n", checkmark())
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Credentials:")
	if _, err := os.Stat(in.CredsPath); err != nil {
		fmt.Fprintf(w, "  %s Credentials file missing: %s\n", crossmark(), in.CredsPath)
		allPassed = false
	} else {
		fmt.Fprintf(w, "  %s Credentials file present: %s\n", checkmark(), in.CredsPath)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Remote:")
	switch {
	case in.Store == nil:
		fmt.Fprintf(w, "  %s Connectivity check skipped (no authorized client)\n", crossmark())
		allPassed = false
	case in.Settings.ScriptID == "":
		fmt.Fprintf(w, "  %s Connectivity check skipped (no scriptId)\n", crossmark())
		allPassed = false
	default:
		files, err := in.Store.Fetch(ctx, in.Settings.ScriptID, nil)
		if err != nil {
			fmt.Fprintf(w, "  %s Fetching project content failed\n", crossmark())
			fmt.Fprintf(w, "    → Error: %v\n", err)
			allPassed = false
		} else {
			fmt.Fprintf(w, "  %s Project reachable: %d remote files\n", checkmark(), len(files))
		}
	}

	fmt.Fprintln(w)
	printSummary(w, allPassed)
	return allPassed
}

func printSummary(w io.Writer, allPassed bool) {
	if allPassed {
		fmt.Fprintf(w, "%s All checks passed\n", checkmark())
	} else {
		fmt.Fprintf(w, "%s Some checks failed\n", crossmark())
	}
}
