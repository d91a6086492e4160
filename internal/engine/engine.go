// Package engine orchestrates the translation pipeline: walk the repository,
// parse sources in parallel, read intentions, run the structural passes,
// drain the body queue through the expression passes, and render Swift.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dejo1307/objc2swift/internal/bodypasses"
	"github.com/dejo1307/objc2swift/internal/config"
	"github.com/dejo1307/objc2swift/internal/diag"
	"github.com/dejo1307/objc2swift/internal/emitter"
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/parser"
	"github.com/dejo1307/objc2swift/internal/passes"
	"github.com/dejo1307/objc2swift/internal/queue"
	"github.com/dejo1307/objc2swift/internal/readers"
)

// Meta describes one translation run.
type Meta struct {
	RepoPath    string   `json:"repo_path"`
	GeneratedAt string   `json:"generated_at"`
	Duration    string   `json:"duration"`
	Sources     int      `json:"sources"`
	Files       int      `json:"files"`
	Bodies      int      `json:"bodies"`
	Passes      []string `json:"passes"`
	BodyPasses  []string `json:"body_passes"`
	ErrorCount  int      `json:"error_count"`
}

// Result holds the complete output of a translation run.
type Result struct {
	Meta        Meta
	Files       []emitter.OutputFile
	Diagnostics []diag.Diagnostic
}

// Engine runs translations for one configuration.
type Engine struct {
	cfg      *config.Config
	registry *passes.Registry
	renderer *emitter.SwiftRenderer

	result *Result
	index  *intentions.Index
}

// New creates an engine with the default pass pipeline registered.
func New(cfg *config.Config) (*Engine, error) {
	e := &Engine{
		cfg:      cfg,
		registry: passes.NewRegistry(),
		renderer: emitter.New(emitter.Options{
			OmitObjcCompatibility: cfg.Emitter.OmitObjcCompatibility,
			PrintIntentionHistory: cfg.Emitter.PrintIntentionHistory,
		}),
	}
	for _, p := range passes.DefaultPipeline() {
		e.registry.Register(p)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Result returns the last translation result, or nil.
func (e *Engine) Result() *Result { return e.result }

// Index returns the query index over the last translation, or nil.
func (e *Engine) Index() *intentions.Index { return e.index }

// Translate runs the full pipeline over the repository's .h/.m files.
func (e *Engine) Translate(ctx context.Context, repoPath string) (*Result, error) {
	if repoPath == "" {
		repoPath = e.cfg.Repo
	}
	absRepo, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolving repo path: %w", err)
	}

	files, err := e.walkRepo(absRepo)
	if err != nil {
		return nil, fmt.Errorf("walking repo: %w", err)
	}
	log.Printf("[engine] found %d Objective-C sources in %s", len(files), absRepo)

	sources := make([]parser.Source, 0, len(files))
	for _, rel := range files {
		sources = append(sources, parser.FileSource{Root: absRepo, Rel: rel})
	}
	result, err := e.TranslateSources(ctx, sources)
	if err != nil {
		return nil, err
	}
	result.Meta.RepoPath = absRepo
	return result, nil
}

// TranslateSources runs the pipeline over explicit sources. The server and
// tests use this entry point directly.
func (e *Engine) TranslateSources(ctx context.Context, sources []parser.Source) (*Result, error) {
	start := time.Now()
	bag := diag.NewBag()

	col := e.readSources(ctx, sources, bag)

	passCtx := &passes.Context{Bag: bag}
	var ranPasses []string
	for _, p := range e.registry.All() {
		if !e.cfg.IsPassEnabled(p.Name()) {
			continue
		}
		if err := p.Apply(passCtx, col); err != nil {
			log.Printf("[engine] pass %s error: %v", p.Name(), err)
			continue
		}
		ranPasses = append(ranPasses, p.Name())
	}
	log.Printf("[engine] ran %d structural passes", len(ranPasses))

	if passCtx.Graph == nil {
		passCtx.Graph = intentions.NewTypeGraph(col)
	}

	q := queue.Collect(col, bodypasses.MakeDelegate(passCtx.Graph, passCtx.Usage), e.cfg.Workers)
	bodies := q.Len()

	var bodyPipeline []bodypasses.BodyPass
	var ranBodyPasses []string
	for _, p := range bodypasses.DefaultPipeline() {
		if e.cfg.IsBodyPassEnabled(p.Name()) {
			bodyPipeline = append(bodyPipeline, p)
			ranBodyPasses = append(ranBodyPasses, p.Name())
		}
	}
	bodypasses.Run(q, bodyPipeline)
	log.Printf("[engine] rewrote %d bodies through %d body passes", bodies, len(ranBodyPasses))

	outputs := e.renderer.Render(col)

	e.index = intentions.BuildIndex(col)
	result := &Result{
		Meta: Meta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Duration:    time.Since(start).String(),
			Sources:     len(sources),
			Files:       len(outputs),
			Bodies:      bodies,
			Passes:      ranPasses,
			BodyPasses:  ranBodyPasses,
			ErrorCount:  bag.ErrorCount(),
		},
		Files:       outputs,
		Diagnostics: bag.All(),
	}
	e.result = result
	log.Printf("[engine] translated %d sources into %d files in %s", len(sources), len(outputs), result.Meta.Duration)
	return result, nil
}

// readSources parses and reads sources in parallel workers, preserving the
// input order of the resulting file intentions.
func (e *Engine) readSources(ctx context.Context, sources []parser.Source, bag *diag.Bag) *intentions.Collection {
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(sources) && len(sources) > 0 {
		workers = len(sources)
	}

	type job struct {
		idx int
		src parser.Source
	}
	results := make([]*intentions.FileIntention, len(sources))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := parser.New()
			if err != nil {
				log.Printf("[engine] parser init: %v", err)
				return
			}
			defer p.Close()
			reader := readers.NewStructuralReader(bag)
			for j := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				res, err := p.Parse(j.src, bag)
				if err != nil {
					// An unreadable file aborts that file only.
					log.Printf("[engine] %s: %v", j.src.Name(), err)
					bag.Errorf(j.src.Name(), 0, 0, "%v", err)
					continue
				}
				results[j.idx] = reader.ReadFile(res)
				res.Close()
			}
		}()
	}
	for i, src := range sources {
		jobs <- job{idx: i, src: src}
	}
	close(jobs)
	wg.Wait()

	col := intentions.NewCollection()
	for _, f := range results {
		if f != nil {
			col.AddFile(f)
		}
	}
	return col
}

// walkRepo collects .h/.m files under the repository, applying ignore
// patterns.
func (e *Engine) walkRepo(repoPath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(repoPath, path)
		if err != nil {
			return err
		}
		if e.isIgnored(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && parser.IsObjcFile(relPath) {
			files = append(files, relPath)
		}
		return nil
	})
	return files, err
}

// isIgnored checks whether a path matches any ignore pattern.
func (e *Engine) isIgnored(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range e.cfg.Ignore {
		if strings.HasSuffix(pattern, "/**") {
			dirPrefix := strings.TrimSuffix(pattern, "/**")
			if relPath == dirPrefix || strings.HasPrefix(relPath, dirPrefix+"/") {
				return true
			}
		}
		if matched, err := filepath.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, "**/") {
			subPattern := strings.TrimPrefix(pattern, "**/")
			if matched, err := filepath.Match(subPattern, filepath.Base(relPath)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// WriteOutputs writes the translated files plus diagnostics.json and
// translation.meta.json to the output directory.
func (e *Engine) WriteOutputs(repoPath string) error {
	if e.result == nil {
		return fmt.Errorf("no translation result")
	}
	outDir := filepath.Join(repoPath, e.cfg.Output.Dir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, f := range e.result.Files {
		path := filepath.Join(outDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
		log.Printf("[engine] wrote %s (%d bytes)", path, len(f.Content))
	}

	diagJSON, err := json.MarshalIndent(e.result.Diagnostics, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling diagnostics: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "diagnostics.json"), diagJSON, 0o644); err != nil {
		return fmt.Errorf("writing diagnostics.json: %w", err)
	}

	metaJSON, err := json.MarshalIndent(e.result.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "translation.meta.json"), metaJSON, 0o644); err != nil {
		return fmt.Errorf("writing translation.meta.json: %w", err)
	}
	return nil
}

// GetArtifact returns a named artifact from the last translation: a
// generated Swift file path, "diagnostics.json", or "translation.meta.json".
func (e *Engine) GetArtifact(name string) ([]byte, error) {
	if e.result == nil {
		return nil, fmt.Errorf("no translation result")
	}
	switch name {
	case "diagnostics.json":
		return json.MarshalIndent(e.result.Diagnostics, "", "  ")
	case "translation.meta.json":
		return json.MarshalIndent(e.result.Meta, "", "  ")
	default:
		for _, f := range e.result.Files {
			if f.Path == name {
				return f.Content, nil
			}
		}
		return nil, fmt.Errorf("artifact %q not found", name)
	}
}
