package digits

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the classifier whenever its weights file is rewritten, so a
// retrained model can be dropped in without a restart. Events are debounced:
// trainers write the file in several chunks. Returns a stop function.
func Watch(c *Classifier, path string) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	base := filepath.Base(path)
	log.Printf("watching %s for model updates", path)

	stop := make(chan struct{})
	go func() {
		var pending time.Time
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					pending = time.Now()
				}
			case <-ticker.C:
				if pending.IsZero() || time.Since(pending) < 300*time.Millisecond {
					continue
				}
				pending = time.Time{}
				if err := c.Reload(path); err != nil {
					log.Printf("model reload failed, keeping previous weights: %v", err)
				} else {
					log.Printf("model reloaded from %s", path)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("model watch error: %v", err)
			case <-stop:
				return
			}
		}
	}()

	return func() {
		close(stop)
		_ = w.Close()
	}, nil
}
