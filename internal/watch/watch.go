// Package watch retranslates the repository whenever its Objective-C
// sources change.
package watch

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/dejo1307/objc2swift/internal/engine"
	"github.com/dejo1307/objc2swift/internal/parser"
	"github.com/fsnotify/fsnotify"
)

// debounce is how long the watcher waits after the last event before
// retranslating, so editor save bursts collapse into one run.
const debounce = 300 * time.Millisecond

// Watcher runs translations on filesystem changes.
type Watcher struct {
	eng  *engine.Engine
	repo string
}

// New creates a watcher over the given repository root.
func New(eng *engine.Engine, repo string) *Watcher {
	return &Watcher{eng: eng, repo: repo}
}

// Run translates once, then blocks retranslating on changes until the
// context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	absRepo, err := filepath.Abs(w.repo)
	if err != nil {
		return err
	}

	w.translate(ctx, absRepo)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirs(fw, absRepo); err != nil {
		return err
	}
	log.Printf("[watch] watching %s", absRepo)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				_ = addDirs(fw, event.Name)
			}
			if !parser.IsObjcFile(event.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("[watch] error: %v", err)

		case <-fire:
			w.translate(ctx, absRepo)
		}
	}
}

func (w *Watcher) translate(ctx context.Context, absRepo string) {
	result, err := w.eng.Translate(ctx, absRepo)
	if err != nil {
		log.Printf("[watch] translation failed: %v", err)
		return
	}
	if err := w.eng.WriteOutputs(absRepo); err != nil {
		log.Printf("[watch] write failed: %v", err)
		return
	}
	log.Printf("[watch] translated %d sources (%d errors)", result.Meta.Sources, result.Meta.ErrorCount)
}

// addDirs registers path and every directory under it.
func addDirs(fw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if base := filepath.Base(p); len(base) > 1 && base[0] == '.' {
				return filepath.SkipDir
			}
			return fw.Add(p)
		}
		return nil
	})
}
