package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hexaforge/imwrap/internal/logging"
)

// headerWatcher implements FileWatcher for a fixed set of header files. It
// watches the parent directories rather than the files themselves, so
// editors that save through rename-and-replace still produce events.
type headerWatcher struct {
	watcher       *fsnotify.Watcher
	files         map[string]bool      // Watched files, cleaned paths
	debounceTime  time.Duration        // Quiet period before firing callback
	callback      func(files []string) // Callback to invoke with changed files
	ctx           context.Context      // Context for lifecycle management
	cancel        context.CancelFunc   // Cancel function for internal context
	paused        bool                 // Whether watching is paused
	pausedMu      sync.RWMutex         // Protects paused flag
	accumulated   map[string]bool      // Accumulated file changes
	accumulatedMu sync.Mutex           // Protects accumulated map
	debounceTimer *time.Timer          // Current debounce timer
	timerMu       sync.Mutex           // Protects debounce timer
	stopOnce      sync.Once            // Ensures Stop() is idempotent
	doneCh        chan struct{}        // Signals watch goroutine has finished
	log           *zap.SugaredLogger
}

// NewHeaderWatcher creates a watcher for the given header files.
func NewHeaderWatcher(files []string) (FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fileSet := make(map[string]bool, len(files))
	dirSet := make(map[string]bool)
	for _, f := range files {
		clean := filepath.Clean(f)
		fileSet[clean] = true
		dirSet[filepath.Dir(clean)] = true
	}

	hw := &headerWatcher{
		watcher:      fsw,
		files:        fileSet,
		debounceTime: 500 * time.Millisecond,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
		log:          logging.Named("watcher"),
	}

	for dir := range dirSet {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return hw, nil
}

// Start begins watching for file changes.
func (hw *headerWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	hw.callback = callback
	hw.ctx, hw.cancel = context.WithCancel(ctx)

	go hw.watch()
	return nil
}

// Stop stops the file watcher.
func (hw *headerWatcher) Stop() error {
	var err error
	hw.stopOnce.Do(func() {
		if hw.cancel != nil {
			hw.cancel()

			// Wait for goroutine to finish (only if Start() was called)
			<-hw.doneCh
		} else {
			// Never started, close doneCh manually
			close(hw.doneCh)
		}

		err = hw.watcher.Close()
	})
	return err
}

// Pause stops firing callbacks but continues accumulating events.
func (hw *headerWatcher) Pause() {
	hw.pausedMu.Lock()
	defer hw.pausedMu.Unlock()
	hw.paused = true
}

// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
func (hw *headerWatcher) Resume() {
	hw.pausedMu.Lock()
	wasPaused := hw.paused
	hw.paused = false
	hw.pausedMu.Unlock()

	if wasPaused {
		hw.accumulatedMu.Lock()
		if len(hw.accumulated) > 0 {
			files := make([]string, 0, len(hw.accumulated))
			for file := range hw.accumulated {
				files = append(files, file)
			}
			hw.accumulated = make(map[string]bool)
			hw.accumulatedMu.Unlock()

			if hw.callback != nil {
				hw.callback(files)
			}
		} else {
			hw.accumulatedMu.Unlock()
		}
	}
}

// watch is the main event loop.
func (hw *headerWatcher) watch() {
	defer close(hw.doneCh)

	regenCh := make(chan struct{}, 1)

	for {
		select {
		case <-hw.ctx.Done():
			hw.stopDebounceTimer()
			return

		case event, ok := <-hw.watcher.Events:
			if !ok {
				return
			}

			if !hw.shouldProcessEvent(event) {
				continue
			}

			hw.accumulatedMu.Lock()
			hw.accumulated[filepath.Clean(event.Name)] = true
			hw.accumulatedMu.Unlock()

			hw.resetDebounceTimer(regenCh)

		case <-regenCh:
			// Debounce period expired - fire callback if not paused
			hw.handleDebounceExpired()

		case err, ok := <-hw.watcher.Errors:
			if !ok {
				return
			}
			hw.log.Warnw("watch error", "error", err)
		}
	}
}

// handleDebounceExpired is called when the debounce timer expires.
func (hw *headerWatcher) handleDebounceExpired() {
	hw.pausedMu.RLock()
	paused := hw.paused
	hw.pausedMu.RUnlock()

	if paused {
		// Paused - keep accumulating, don't fire callback
		return
	}

	hw.accumulatedMu.Lock()
	if len(hw.accumulated) == 0 {
		hw.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(hw.accumulated))
	for file := range hw.accumulated {
		files = append(files, file)
	}
	hw.accumulated = make(map[string]bool)
	hw.accumulatedMu.Unlock()

	if hw.callback != nil {
		hw.callback(files)
	}
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (hw *headerWatcher) resetDebounceTimer(regenCh chan struct{}) {
	hw.timerMu.Lock()
	defer hw.timerMu.Unlock()

	if hw.debounceTimer != nil {
		if !hw.debounceTimer.Stop() {
			// Timer already fired, drain the channel
			select {
			case <-hw.debounceTimer.C:
			default:
			}
		}
	}

	hw.debounceTimer = time.AfterFunc(hw.debounceTime, func() {
		select {
		case regenCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (hw *headerWatcher) stopDebounceTimer() {
	hw.timerMu.Lock()
	defer hw.timerMu.Unlock()

	if hw.debounceTimer != nil {
		hw.debounceTimer.Stop()
		hw.debounceTimer = nil
	}
}

// shouldProcessEvent checks whether an event touches one of the watched
// files. Rename counts because atomic-save editors replace the file.
func (hw *headerWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return hw.files[filepath.Clean(event.Name)]
}
