package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// reloadDebounce coalesces the burst of events editors emit for a single save.
const reloadDebounce = 150 * time.Millisecond

// Watch reloads the config file at path whenever it changes and hands the result to
// onChange. Reload failures go to onError and the previous config stays in effect.
// It blocks until ctx is done.
//
// The parent directory is watched rather than the file so atomic-rename saves and
// Kubernetes ConfigMap symlink swaps are picked up.
func Watch(ctx context.Context, path string, onChange func(Config), onError func(error)) error {
	return watch(ctx, path, os.LookupEnv, onChange, onError)
}

func watch(ctx context.Context, path string, lookup lookupFunc, onChange func(Config), onError func(error)) error {
	if path == "" {
		return errors.New("config watch requires a file path")
	}
	if onError == nil {
		onError = func(error) {}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolve config path %s", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create config watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, abs) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			cfg, err := load(abs, lookup)
			if err != nil {
				onError(errors.Wrap(err, "reload config"))
				continue
			}
			onChange(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onError(errors.Wrap(err, "config watcher"))
		}
	}
}

func relevant(ev fsnotify.Event, path string) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	if name == path {
		return true
	}
	// ConfigMap updates swap the ..data symlink rather than touching the file itself.
	return filepath.Base(name) == "..data"
}
