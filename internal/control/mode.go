// Package control turns classified hand regions into OS input: mode
// bindings fire discrete key and click actions, and the continuous
// cursor and scroll controllers map fingertip motion to pointer and
// wheel movement.
package control

import (
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/effector"
)

// Action says what a binding does when its gesture fires.
type Action string

const (
	ActionKeyPress   Action = "key_press"
	ActionMouseClick Action = "mouse_click"
)

// Mode keys. ModeDisabled is not a registered mode; it means no mode
// bindings fire at all.
const (
	ModeDisabled = "disabled"
	ModePPT      = "ppt_mode"
	ModeMedia    = "media_mode"
	ModeBrowser  = "browser_mode"
)

// Right-hand sub-modes inside browser mode.
const (
	RightHandCursor = "cursor"
	RightHandScroll = "scroll"
)

// Binding maps a gesture id to one effector action with its own
// cooldown. Key may be a single key name or a "+"-joined combination.
type Binding struct {
	Action          Action          `json:"action"`
	Key             string          `json:"key,omitempty"`
	Button          effector.Button `json:"button,omitempty"`
	Description     string          `json:"description,omitempty"`
	CooldownSeconds float64         `json:"cooldown"`
}

// Cooldown returns the binding cooldown as a duration.
func (b Binding) Cooldown() time.Duration {
	return time.Duration(b.CooldownSeconds * float64(time.Second))
}

// Mode is a named set of gesture bindings for one application.
type Mode struct {
	Key      string             `json:"key"`
	Name     string             `json:"name"`
	Bindings map[string]Binding `json:"bindings"`
}

// DefaultModes returns the stock ppt, media and browser modes.
func DefaultModes() []*Mode {
	return []*Mode{
		{
			Key:  ModePPT,
			Name: "PowerPoint Mode",
			Bindings: map[string]Binding{
				"right_index_bent": {Action: ActionKeyPress, Key: "right", Description: "Next slide", CooldownSeconds: 0.8},
				"left_index_bent":  {Action: ActionKeyPress, Key: "left", Description: "Previous slide", CooldownSeconds: 0.8},
				"fist_gesture":     {Action: ActionKeyPress, Key: "f5", Description: "Start slideshow", CooldownSeconds: 2.0},
			},
		},
		{
			Key:  ModeMedia,
			Name: "Media Player Mode",
			Bindings: map[string]Binding{
				"right_index_bent":        {Action: ActionKeyPress, Key: "space", Description: "Play/Pause", CooldownSeconds: 0.6},
				"right_index_middle_bent": {Action: ActionKeyPress, Key: "right", Description: "Skip forward", CooldownSeconds: 0.3},
				"left_index_middle_bent":  {Action: ActionKeyPress, Key: "left", Description: "Skip back", CooldownSeconds: 0.3},
				"left_index_bent":         {Action: ActionKeyPress, Key: "m", Description: "Mute", CooldownSeconds: 0.8},
				"fist_gesture":            {Action: ActionKeyPress, Key: "f", Description: "Fullscreen", CooldownSeconds: 1.5},
			},
		},
		{
			Key:  ModeBrowser,
			Name: "Browser Mode",
			Bindings: map[string]Binding{
				"left_index_bent":        {Action: ActionMouseClick, Button: effector.ButtonLeft, Description: "Left click", CooldownSeconds: 0.4},
				"left_index_middle_bent": {Action: ActionMouseClick, Button: effector.ButtonRight, Description: "Right click", CooldownSeconds: 0.6},
			},
		},
	}
}

// Manager tracks the active mode, the switch cooldown, and the
// browser-mode right-hand cursor/scroll toggle. It is safe for use from
// the frame loop and HTTP handlers concurrently.
type Manager struct {
	mu    sync.Mutex
	order []*Mode
	index map[string]*Mode

	current        string
	switchCooldown time.Duration
	lastSwitch     time.Time

	rightHandMode  string
	toggleCooldown time.Duration
	lastToggle     time.Time
}

// NewManager creates a Manager with the given registered modes. The
// initial mode is disabled and the right-hand sub-mode is cursor.
func NewManager(cfg config.Modes, modes []*Mode) *Manager {
	m := &Manager{
		index:          make(map[string]*Mode),
		current:        ModeDisabled,
		switchCooldown: cfg.SwitchCooldown(),
		rightHandMode:  RightHandCursor,
		toggleCooldown: cfg.ToggleCooldown(),
	}
	for _, mode := range modes {
		m.Register(mode)
	}
	return m
}

// Register adds or replaces a mode. Registration order is preserved for
// listing.
func (m *Manager) Register(mode *Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[mode.Key]; !ok {
		m.order = append(m.order, mode)
	} else {
		for i, existing := range m.order {
			if existing.Key == mode.Key {
				m.order[i] = mode
				break
			}
		}
	}
	m.index[mode.Key] = mode
}

// Modes returns the registered modes in registration order.
func (m *Manager) Modes() []*Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Mode, len(m.order))
	copy(out, m.order)
	return out
}

// CurrentKey returns the active mode key, ModeDisabled when none.
func (m *Manager) CurrentKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Current returns the active mode, nil when disabled.
func (m *Manager) Current() *Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == ModeDisabled {
		return nil
	}
	return m.index[m.current]
}

// Switch activates the named mode. It returns false when the switch
// cooldown has not elapsed or the mode is unknown; the active mode is
// unchanged in both cases.
func (m *Manager) Switch(key string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Sub(m.lastSwitch) < m.switchCooldown {
		return false
	}
	if key != ModeDisabled {
		if _, ok := m.index[key]; !ok {
			return false
		}
	}
	m.current = key
	m.lastSwitch = now
	return true
}

// RightHandMode returns the browser-mode right-hand sub-mode.
func (m *Manager) RightHandMode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rightHandMode
}

// Known reports whether a mode key is registered or "disabled".
func (m *Manager) Known(key string) bool {
	if key == ModeDisabled {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.index[key]
	return ok
}

// ToggleRightHand flips the browser right-hand sub-mode between cursor
// and scroll. Its cooldown is independent of mode switching.
func (m *Manager) ToggleRightHand(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Sub(m.lastToggle) < m.toggleCooldown {
		return false
	}
	if m.rightHandMode == RightHandCursor {
		m.rightHandMode = RightHandScroll
	} else {
		m.rightHandMode = RightHandCursor
	}
	m.lastToggle = now
	return true
}
