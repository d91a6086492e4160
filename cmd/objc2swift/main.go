package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dejo1307/objc2swift/internal/config"
	"github.com/dejo1307/objc2swift/internal/engine"
	"github.com/dejo1307/objc2swift/internal/server"
	"github.com/dejo1307/objc2swift/internal/watch"
)

func main() {
	// Ensure log output goes to stderr, never stdout (MCP uses stdout for
	// JSON-RPC).
	log.SetOutput(os.Stderr)

	ctx := context.Background()

	translateMode := false
	watchMode := false
	cfgPath := "objc2swift.yaml"
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--translate":
			translateMode = true
		case "--watch":
			watchMode = true
		default:
			cfgPath = arg
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	if translateMode {
		repoPath, err := filepath.Abs(cfg.Repo)
		if err != nil {
			log.Fatalf("failed to resolve repo path: %v", err)
		}
		result, err := eng.Translate(ctx, repoPath)
		if err != nil {
			log.Fatalf("translation failed: %v", err)
		}
		if err := eng.WriteOutputs(repoPath); err != nil {
			log.Fatalf("failed to write outputs: %v", err)
		}

		fmt.Fprintf(os.Stderr, "\nTranslation complete:\n")
		fmt.Fprintf(os.Stderr, "  Repository:  %s\n", result.Meta.RepoPath)
		fmt.Fprintf(os.Stderr, "  Sources:     %d\n", result.Meta.Sources)
		fmt.Fprintf(os.Stderr, "  Swift files: %d\n", result.Meta.Files)
		fmt.Fprintf(os.Stderr, "  Bodies:      %d\n", result.Meta.Bodies)
		fmt.Fprintf(os.Stderr, "  Errors:      %d\n", result.Meta.ErrorCount)
		fmt.Fprintf(os.Stderr, "  Duration:    %s\n", result.Meta.Duration)
		fmt.Fprintf(os.Stderr, "  Output:      %s\n", filepath.Join(result.Meta.RepoPath, cfg.Output.Dir))
		os.Exit(0)
	}

	if watchMode {
		if err := watch.New(eng, cfg.Repo).Run(ctx); err != nil && err != context.Canceled {
			log.Fatalf("watch error: %v", err)
		}
		return
	}

	// MCP server mode (default).
	srv, err := server.New(eng, cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
