// Package tray provides the macOS system tray interface for the Mudra
// gesture control engine.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray application: a pause/resume toggle, a mode
// submenu and quit.
type Tray struct {
	onToggle func(paused bool)
	onMode   func(key string)
	onQuit   func()
	paused   bool
	modes    []ModeEntry
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuMode   *systray.MenuItem
}

// ModeEntry is one selectable mode in the tray menu.
type ModeEntry struct {
	Key  string
	Name string
}

// New creates a Tray showing the given modes.
func New(modes []ModeEntry) *Tray {
	return &Tray{modes: modes}
}

// OnToggle sets the callback called when pause/resume is clicked.
func (t *Tray) OnToggle(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback called when a mode is selected.
func (t *Tray) OnMode(fn func(key string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnQuit sets the callback called when quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// SetMode updates the active-mode line in the menu.
func (t *Tray) SetMode(name string) {
	t.mu.RLock()
	item := t.menuMode
	t.mu.RUnlock()
	if item != nil {
		item.SetTitle("Mode: " + name)
	}
}

// Run starts the system tray application. It blocks until
// systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Control")

	t.menuToggle = systray.AddMenuItem("● Running", "Pause or resume gesture control")
	systray.AddSeparator()

	t.menuMode = systray.AddMenuItem("Mode: disabled", "Active application mode")
	t.menuMode.Disable()

	modeItems := make([]*systray.MenuItem, len(t.modes))
	for i, mode := range t.modes {
		modeItems[i] = systray.AddMenuItem(mode.Name, "Switch to "+mode.Name)
	}
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	for i, item := range modeItems {
		key := t.modes[i].Key
		go func(item *systray.MenuItem, key string) {
			for range item.ClickedCh {
				t.handleMode(key)
			}
		}(item, key)
	}

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused

	if paused {
		t.menuToggle.SetTitle("○ Paused")
	} else {
		t.menuToggle.SetTitle("● Running")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

func (t *Tray) handleMode(key string) {
	t.mu.RLock()
	callback := t.onMode
	t.mu.RUnlock()

	if callback != nil {
		callback(key)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}
