package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce swallows the burst of events editors emit for one save.
const reloadDebounce = 100 * time.Millisecond

// Watcher turns file system events under the prefab directories into prefab
// names ("ship.yaml", "scripts/wobble.tengo") ready for reload. Names and
// Errors are closed once the watcher stops.
type Watcher struct {
	fs     *fsnotify.Watcher
	Names  chan string
	Errors chan error

	done      chan struct{}
	closeOnce sync.Once
	lastSeen  map[string]time.Time
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:       fs,
		Names:    make(chan string, 16),
		Errors:   make(chan error, 1),
		done:     make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.Names)
	defer close(w.Errors)

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			name, ok := w.accept(event, time.Now())
			if !ok {
				continue
			}
			select {
			case w.Names <- name:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// keep only the first pending error; the host logs and moves on
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// accept filters event down to prefab and script edits outside the debounce
// window and maps it to a prefab name.
func (w *Watcher) accept(event fsnotify.Event, now time.Time) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	if !isSpecFile(event.Name) && !IsScript(event.Name) {
		return "", false
	}
	if last, ok := w.lastSeen[event.Name]; ok && now.Sub(last) < reloadDebounce {
		return "", false
	}
	w.lastSeen[event.Name] = now
	return PrefabName(event.Name), true
}

func isSpecFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// IsScript reports whether a path or prefab name is a behavior script.
func IsScript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}
