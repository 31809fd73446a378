// Package sync plans pushes and pulls between a local project directory and
// the flat, typed remote file list of a script project. Planning is pure:
// the engine walks, classifies, filters, conflict-checks and orders without
// touching the remote service, and the resulting plan is executed elsewhere
// as one atomic call.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/clasp-sub000/internal/discover"
	"github.com/google/clasp-sub000/internal/ignore"
	"github.com/google/clasp-sub000/internal/transform"
	"github.com/google/clasp-sub000/internal/types"
)

// Engine composes the sync components. Rules and Transpiler are fixed for
// the lifetime of one command invocation; the engine holds no other state.
type Engine struct {
	Rules      *ignore.RuleSet
	Transpiler transform.Transpiler
}

// New returns an Engine using the given ignore rules (nil means the
// built-in defaults) and a pass-through transpiler.
func New(rules *ignore.RuleSet) *Engine {
	if rules == nil {
		rules = ignore.Default()
	}
	return &Engine{
		Rules:      rules,
		Transpiler: transform.Passthrough{},
	}
}

// Plan is the complete result of planning a push: the ordered upload set
// plus everything that was excluded. Ignored and unsupported paths are kept
// distinguishable; the command layer decides how to present them.
type Plan struct {
	ToUpload    []types.RemoteFile
	Ignored     []string
	Unsupported []string
}

// PlanPush walks the local tree under projectDir (below settings.RootDir
// when set), classifies and filters candidates, fails fast on extension
// conflicts, reads and transpiles sources, and orders the upload set.
func (e *Engine) PlanPush(ctx context.Context, projectDir string, settings *types.ProjectSettings) (*Plan, error) {
	root := projectDir
	if settings.RootDir != "" {
		root = filepath.Join(projectDir, settings.RootDir)
	}

	relPaths, err := discover.Walk(root)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	var candidates []types.LocalFile

	for _, relPath := range relPaths {
		c := Classify(relPath)
		if c.Unsupported {
			plan.Unsupported = append(plan.Unsupported, relPath)
			continue
		}

		if e.Rules.IsIgnored(relPath) {
			plan.Ignored = append(plan.Ignored, relPath)
			continue
		}

		candidates = append(candidates, types.LocalFile{
			RelativePath: relPath,
			Type:         c.Type,
			TypeScript:   c.TypeScript,
		})
	}

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.RelativePath
	}
	conflicts, err := FindConflicts(paths)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("push planning cancelled: %w", err)
		}

		name, err := ToRemoteName(c.RelativePath, "")
		if err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(root, c.RelativePath))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", c.RelativePath, err)
		}
		source := string(data)

		if c.TypeScript {
			source, err = e.Transpiler.Transpile(source, transform.Options{FileName: c.RelativePath})
			if err != nil {
				return nil, fmt.Errorf("transpiling %s: %w", c.RelativePath, err)
			}
		}

		plan.ToUpload = append(plan.ToUpload, types.RemoteFile{
			Name:   name,
			Type:   c.Type,
			Source: source,
		})
	}

	plan.ToUpload = Order(plan.ToUpload, settings.FilePushOrder)

	return plan, nil
}

// PlanPull maps every remote file to a local write under rootDir. Files
// with empty source are dropped so pulls never materialize spurious empty
// files. Returns ErrEmptyRemoteFileSet when the remote project has no files
// at all.
func (e *Engine) PlanPull(remoteFiles []types.RemoteFile, rootDir, fileExtension string) ([]types.LocalFileWrite, error) {
	if len(remoteFiles) == 0 {
		return nil, ErrEmptyRemoteFileSet
	}

	var writes []types.LocalFileWrite
	for _, rf := range remoteFiles {
		if rf.Source == "" {
			continue
		}
		writes = append(writes, types.LocalFileWrite{
			Path:   ToLocalPath(rf.Name, rf.Type, rootDir, fileExtension),
			Source: rf.Source,
		})
	}

	// Sort by path for deterministic output
	sort.Slice(writes, func(i, j int) bool {
		return writes[i].Path < writes[j].Path
	})

	return writes, nil
}
