package registry

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mwyatt/balance/internal/logging"
)

// Watch hot-loads plugin artifacts dropped into dir until ctx is done.
// Loading happens on Create and Write events, so a type becomes usable the
// moment its artifact lands in the directory.
func (r *Registry) Watch(ctx context.Context, dir string, log *logging.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if filepath.Ext(ev.Name) != ".so" {
					continue
				}
				typ, err := r.LoadArtifactFile(ev.Name)
				if err != nil {
					log.Warnf("task type artifact failed to load: %v", err)
					continue
				}
				log.Infof("loaded task type %q from %s", typ.Name, ev.Name)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnf("type watcher: %v", err)
			}
		}
	}()
	return nil
}
