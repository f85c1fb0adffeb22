// Command liftlog is the local companion CLI: inspect the on-device
// workout history, import exported data, push pending sessions to the
// sync server, and serve the history to MCP clients over stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/mcp"
	liftsync "github.com/claude/liftlog/internal/sync"
	"github.com/claude/liftlog/internal/workout"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var err error
	switch os.Args[1] {
	case "history":
		err = runHistory(os.Args[2:], log)
	case "stats":
		err = runStats(os.Args[2:], log)
	case "progress":
		err = runProgress(os.Args[2:], log)
	case "volume":
		err = runVolume(os.Args[2:], log)
	case "import":
		err = runImport(os.Args[2:], log)
	case "sync":
		err = runSync(os.Args[2:], log)
	case "mcp":
		err = runMCP(os.Args[2:], log)
	case "version":
		fmt.Println("liftlog", Version)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: liftlog <command> [flags]

Commands:
  history    list completed workouts
  stats      aggregate training statistics
  progress   best-set progression for one exercise
  volume     volume per day and top exercises
  import     import workouts from a JSON export
  sync       push pending workouts to the sync server
  mcp        serve the workout history over MCP (stdio)
  version    print version and exit
`)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".liftlog"
	}
	return filepath.Join(home, ".liftlog")
}

func openRepository(dataDir string, log *slog.Logger) (*history.Repository, error) {
	repo, err := history.Open(dataDir, log)
	if err != nil {
		return nil, fmt.Errorf("opening workout history: %w", err)
	}
	return repo, nil
}

func runHistory(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dataDir := fs.String("data", defaultDataDir(), "data directory")
	user := fs.String("user", "", "filter by user ID")
	fs.Parse(args)

	repo, err := openRepository(*dataDir, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	workouts, err := repo.FetchAll(context.Background(), *user)
	if err != nil {
		return err
	}

	for _, w := range workouts {
		if !w.IsCompleted {
			continue
		}
		sets := 0
		for _, ex := range w.TrackedExercises {
			sets += len(ex.TrackedSets)
		}
		fmt.Printf("%s  %-20s  %3d sets  %8.1f volume\n",
			w.Date.Format("2006-01-02"), w.TemplateName, sets, w.Volume())
	}
	return nil
}

func runStats(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	dataDir := fs.String("data", defaultDataDir(), "data directory")
	user := fs.String("user", "", "filter by user ID")
	fs.Parse(args)

	repo, err := openRepository(*dataDir, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	stats, err := repo.AggregateStats(context.Background(), *user, true)
	if err != nil {
		return err
	}

	fmt.Println("=== Training Stats ===")
	fmt.Printf("  Workouts:     %d\n", stats.TotalWorkouts)
	fmt.Printf("  Sets:         %d\n", stats.TotalSets)
	fmt.Printf("  Reps:         %d\n", stats.TotalReps)
	fmt.Printf("  Total volume: %.1f\n", stats.TotalVolume)
	if len(stats.CountByTemplate) > 0 {
		fmt.Println("  By template:")
		for name, count := range stats.CountByTemplate {
			fmt.Printf("    %-20s %d\n", name, count)
		}
	}
	return nil
}

func runProgress(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("progress", flag.ExitOnError)
	dataDir := fs.String("data", defaultDataDir(), "data directory")
	exercise := fs.String("exercise", "", "exercise name (required)")
	fs.Parse(args)

	if *exercise == "" {
		return fmt.Errorf("-exercise is required")
	}

	repo, err := openRepository(*dataDir, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	points, err := repo.ExerciseProgress(context.Background(), *exercise)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Println("no working sets recorded for", *exercise)
		return nil
	}

	for _, p := range points {
		fmt.Printf("%s  %6.1f x %d\n", p.Date.Format("2006-01-02"), p.Weight, p.Reps)
	}
	return nil
}

func runVolume(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("volume", flag.ExitOnError)
	dataDir := fs.String("data", defaultDataDir(), "data directory")
	days := fs.Int("days", 7, "trailing window in days")
	limit := fs.Int("top", 5, "number of top exercises to show")
	fs.Parse(args)

	repo, err := openRepository(*dataDir, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	all, err := repo.FetchAll(context.Background(), "")
	if err != nil {
		return err
	}
	completed := all[:0:0]
	for _, w := range all {
		if w.IsCompleted {
			completed = append(completed, w)
		}
	}

	fmt.Printf("=== Volume, last %d days ===\n", *days)
	for _, dv := range workout.VolumeByDay(completed, *days, time.Now()) {
		fmt.Printf("  %s  %8.1f\n", dv.Date.Format("2006-01-02"), dv.Volume)
	}

	fmt.Println("=== Top exercises ===")
	for _, ev := range workout.TopExercisesByVolume(completed, *limit) {
		fmt.Printf("  %-30s %8.1f\n", ev.Name, ev.Volume)
	}
	return nil
}

func runSync(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	dataDir := fs.String("data", defaultDataDir(), "data directory")
	serverURL := fs.String("server", "", "sync server URL (e.g. https://liftlog.tail1234.ts.net)")
	env := fs.String("env", "production", "environment tag sent with each request")
	token := fs.String("token", os.Getenv("LIFTLOG_SYNC_TOKEN"), "bearer token (defaults to LIFTLOG_SYNC_TOKEN)")
	fs.Parse(args)

	if *serverURL == "" {
		return fmt.Errorf("-server is required")
	}

	repo, err := openRepository(*dataDir, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	state, err := liftsync.OpenStateDB(*dataDir)
	if err != nil {
		return err
	}
	defer state.Close()

	client, err := liftsync.NewClient(*serverURL, *env, Version, liftsync.StaticToken(*token), state, log)
	if err != nil {
		return err
	}

	n, err := client.SyncAllPending(context.Background(), repo)
	if err != nil {
		return err
	}
	fmt.Printf("synced %d workout(s)\n", n)
	return nil
}

func runImport(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dataDir := fs.String("data", defaultDataDir(), "data directory")
	path := fs.String("file", "", "path to JSON export (required)")
	dryRun := fs.Bool("dry-run", false, "parse and validate but don't store")
	fs.Parse(args)

	if *path == "" {
		return fmt.Errorf("-file is required")
	}

	repo, err := openRepository(*dataDir, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	stats, err := importWorkouts(context.Background(), repo, *path, *dryRun, log)
	if err != nil {
		return err
	}

	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Workouts total:    %d\n", stats.Total)
	fmt.Printf("  Workouts imported: %d\n", stats.Imported)
	fmt.Printf("  Workouts skipped:  %d (already stored)\n", stats.Skipped)
	return nil
}

func runMCP(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	dataDir := fs.String("data", defaultDataDir(), "data directory")
	fs.Parse(args)

	repo, err := openRepository(*dataDir, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	s := mcp.New(repo, Version, log)
	return mcpserver.ServeStdio(s)
}
