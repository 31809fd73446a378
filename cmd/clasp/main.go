// Command clasp synchronizes a local working directory with a remote
// script project: push uploads the planned local file set, pull
// materializes the remote file set locally, status previews the push plan,
// and doctor validates configuration and connectivity.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/clasp-sub000/internal/config"
	"github.com/google/clasp-sub000/internal/doctor"
	"github.com/google/clasp-sub000/internal/ignore"
	"github.com/google/clasp-sub000/internal/output"
	"github.com/google/clasp-sub000/internal/prompt"
	"github.com/google/clasp-sub000/internal/remote"
	"github.com/google/clasp-sub000/internal/sync"
	"github.com/google/clasp-sub000/internal/types"
	"github.com/google/clasp-sub000/internal/watch"
	"github.com/google/clasp-sub000/internal/writer"
	"github.com/spf13/cobra"
)

var (
	settingsPath string

	pushForce bool
	pushWatch bool

	pullVersion int

	statusJSON bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clasp",
	Short: "Sync a local directory with a remote script project",
	Long: `clasp keeps a local working directory in sync with a script project:
local source files (with extensions and subdirectories) are mapped to the
remote project's flat, typed, extensionless file list and back.`,
	SilenceUsage: true,
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local file set, replacing the remote project",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}

		store, err := buildStore(cmd.Context())
		if err != nil {
			return err
		}

		if err := runPush(cmd.Context(), proj, store); err != nil {
			return err
		}

		if !pushWatch {
			return nil
		}
		return watchAndPush(cmd.Context(), proj, store)
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the remote file set and materialize it locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}

		store, err := buildStore(cmd.Context())
		if err != nil {
			return err
		}

		var version *int
		if cmd.Flags().Changed("version-number") {
			version = &pullVersion
		}

		files, err := store.Fetch(cmd.Context(), proj.settings.ScriptID, version)
		if err != nil {
			return fmt.Errorf("fetching project content: %w", err)
		}

		extension := proj.settings.FileExtension
		if extension == "" {
			extension = proj.config.DefaultExtension
		}

		writes, err := proj.engine.PlanPull(files, proj.settings.RootDir, extension)
		if err != nil {
			return err
		}

		if err := writer.Apply(cmd.Context(), proj.dir, writes, proj.config.PullConcurrency); err != nil {
			return err
		}

		paths := make([]string, len(writes))
		for i, w := range writes {
			paths[i] = w.Path
		}
		output.PrintPulled(os.Stdout, paths)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which files a push would upload, ignore, or skip",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}

		plan, err := proj.engine.PlanPush(cmd.Context(), proj.dir, proj.settings)
		if err != nil {
			return err
		}

		if statusJSON {
			return output.PrintStatusJSON(os.Stdout, plan)
		}
		output.PrintStatus(os.Stdout, plan)
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate configuration, credentials, and connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}

		credsPath, err := config.CredentialsPath(proj.config)
		if err != nil {
			return err
		}

		// A missing or broken credentials file is itself a finding, not a
		// reason to stop checking.
		var store remote.Store
		if client, err := buildAuthorizedClient(cmd.Context(), credsPath); err == nil {
			store = remote.NewClient(client)
		}

		ok := doctor.RunChecks(cmd.Context(), os.Stdout, doctor.Inputs{
			SettingsPath: proj.settingsPath,
			Settings:     proj.settings,
			CredsPath:    credsPath,
			Store:        store,
		})
		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "project", "", "path to the project settings file (default: nearest "+config.SettingsFileName+")")

	pushCmd.Flags().BoolVarP(&pushForce, "force", "f", false, "skip the manifest confirmation")
	pushCmd.Flags().BoolVarP(&pushWatch, "watch", "w", false, "re-push on local file changes")

	pullCmd.Flags().IntVar(&pullVersion, "version-number", 0, "project version to pull (default: latest)")

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print status as JSON")

	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)
}

// project bundles everything a command needs about the current project.
type project struct {
	settingsPath string
	settings     *types.ProjectSettings
	dir          string // directory containing the settings file
	config       *types.Config
	rules        *ignore.RuleSet
	engine       *sync.Engine
}

// loadProject resolves the settings file, the user config and the ignore
// rules, and builds the engine.
func loadProject() (*project, error) {
	path := settingsPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path, err = config.FindSettings(cwd)
		if err != nil {
			return nil, err
		}
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadGlobal("")
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	rules, err := ignore.Load(filepath.Join(dir, config.IgnoreFileName))
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = ignore.Default()
	}

	return &project{
		settingsPath: path,
		settings:     settings,
		dir:          dir,
		config:       cfg,
		rules:        rules,
		engine:       sync.New(rules),
	}, nil
}

func buildAuthorizedClient(ctx context.Context, credsPath string) (*http.Client, error) {
	provider := &remote.CredentialProvider{Path: credsPath}
	return provider.AuthorizedClient(ctx)
}

func buildStore(ctx context.Context) (remote.Store, error) {
	cfg, err := config.LoadGlobal("")
	if err != nil {
		return nil, err
	}

	credsPath, err := config.CredentialsPath(cfg)
	if err != nil {
		return nil, err
	}

	client, err := buildAuthorizedClient(ctx, credsPath)
	if err != nil {
		return nil, err
	}

	return remote.NewClient(client), nil
}

// runPush plans and executes one push, honoring the manifest gate.
func runPush(ctx context.Context, proj *project, store remote.Store) error {
	plan, err := proj.engine.PlanPush(ctx, proj.dir, proj.settings)
	if err != nil {
		return err
	}

	if len(plan.ToUpload) == 0 {
		fmt.Println("Nothing to push.")
		return nil
	}

	localManifest, ok := findManifest(plan.ToUpload)
	if !ok {
		return fmt.Errorf("local project has no %s", types.ManifestFileName)
	}

	if !pushForce {
		remoteFiles, err := store.Fetch(ctx, proj.settings.ScriptID, nil)
		if err != nil {
			return fmt.Errorf("fetching project content: %w", err)
		}

		changed, err := sync.HasManifestChanged(localManifest, remoteFiles)
		if err != nil {
			return err
		}
		if changed {
			confirmed, err := prompt.ConfirmManifestOverwrite()
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Push aborted.")
				return nil
			}
		}
	}

	if err := store.Update(ctx, proj.settings.ScriptID, plan.ToUpload); err != nil {
		return fmt.Errorf("updating project content: %w", err)
	}

	output.PrintPushed(os.Stdout, plan)
	return nil
}

// watchAndPush re-runs push on every settled burst of local changes until
// the context is cancelled.
func watchAndPush(ctx context.Context, proj *project, store remote.Store) error {
	root := proj.dir
	if proj.settings.RootDir != "" {
		root = filepath.Join(proj.dir, proj.settings.RootDir)
	}

	w, err := watch.New(root, proj.rules, 0)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Start(); err != nil {
		return err
	}

	fmt.Println("Watching for changes. Press Ctrl-C to stop.")
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "Warning: watch error: %v\n", err)
		case <-w.Triggers():
			if err := runPush(ctx, proj, store); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				// Keep watching; a bad intermediate state (for example a
				// transient extension conflict) should not end the session.
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// findManifest returns the manifest source from the upload set.
func findManifest(files []types.RemoteFile) (string, bool) {
	for _, f := range files {
		if f.Type == types.JSON && f.Name == "appsscript" {
			return f.Source, true
		}
	}
	return "", false
}
