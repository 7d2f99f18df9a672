package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/config"
	"github.com/mrbooshehri/folio/internal/ingest"
	"github.com/mrbooshehri/folio/internal/logging"
	"github.com/mrbooshehri/folio/internal/storage"
)

var (
	completionInitOnce sync.Once
	completionInitErr  error
)

// ensureCompletionReady initializes what PersistentPreRun would, since
// completion requests skip the command hooks
func ensureCompletionReady(ctx context.Context) error {
	completionInitOnce.Do(func() {
		if err := config.Init(); err != nil {
			completionInitErr = err
			return
		}
		cfg := config.Get()
		if err := logging.Init(cfg.LogFile); err != nil {
			completionInitErr = err
			return
		}
		logging.SetLevel(cfg.LogLevel)
		logging.Debugf("Completion config initialized (data: %s)", cfg.DataDir)
		if err := storage.Init(); err != nil {
			completionInitErr = err
			return
		}
		if folio == nil {
			folio = newApp(ctx, cfg)
		}
	})
	return completionInitErr
}

func completeIDs(ctx context.Context, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ensureCompletionReady(ctx); err != nil {
		logging.Errorf("Project completion init failed: %v", err)
		return nil, cobra.ShellCompDirectiveError
	}

	projects, err := folio.projects(ctx, sourceFlag)
	if err != nil {
		logging.Errorf("Failed to load projects for completion: %v", err)
		return nil, cobra.ShellCompDirectiveError
	}

	filter := strings.ToLower(toComplete)
	matches := make([]string, 0, len(projects))
	for _, p := range projects {
		idMatch := toComplete == "" || strings.HasPrefix(p.ID, toComplete)
		titleMatch := filter != "" && strings.Contains(strings.ToLower(p.Title), filter)
		if idMatch || titleMatch {
			matches = append(matches, fmt.Sprintf("%s\t%s", p.ID, p.Title))
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

func projectIDArgCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeIDs(cmd.Context(), toComplete)
}

func snapshotKeyArgCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ensureCompletionReady(ctx); err != nil {
		logging.Errorf("Snapshot completion init failed: %v", err)
		return nil, cobra.ShellCompDirectiveError
	}

	store, err := folio.localStore()
	if err != nil {
		logging.Errorf("Failed to open local store for completion: %v", err)
		return nil, cobra.ShellCompDirectiveError
	}
	infos, err := store.ListSnapshots(ctx)
	if err != nil {
		logging.Errorf("Failed to list snapshots for completion: %v", err)
		return nil, cobra.ShellCompDirectiveError
	}

	matches := make([]string, 0, len(infos))
	for _, info := range infos {
		if strings.HasPrefix(info.Key, toComplete) {
			matches = append(matches, escapeCompletion(info.Key))
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeSourceNames offers the fixed sources plus file: and local: forms
func completeSourceNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if strings.HasPrefix(toComplete, "file:") {
		return nil, cobra.ShellCompDirectiveDefault
	}

	matches := make([]string, 0, len(ingest.SourceNames))
	for _, name := range ingest.SourceNames {
		name, _, _ = strings.Cut(name, "<")
		if strings.HasPrefix(name, toComplete) {
			matches = append(matches, name)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// fixedValues completes from an enum list
func fixedValues[T ~string](values []T) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return cobra.FixedCompletions(names, cobra.ShellCompDirectiveNoFileComp)
}

func escapeCompletion(value string) string {
	if value == "" {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, " ", `\ `)
	return value
}
