package renderer

import (
	"slices"
	"time"
)

// Key is a host key code.
type Key int

// KeyAction runs every tick while its key is held. A Once action runs
// on the first tick after the press only.
type KeyAction struct {
	Run  func(dt time.Duration)
	Once bool
}

// KeyListener turns key press and release events into per-tick actions,
// so several held keys act together.
type KeyListener struct {
	actions map[Key]KeyAction
	pressed map[Key]bool
}

func NewKeyListener(actions map[Key]KeyAction) *KeyListener {
	return &KeyListener{actions: actions, pressed: make(map[Key]bool)}
}

// Bind sets the action for key.
func (k *KeyListener) Bind(key Key, a KeyAction) {
	if k.actions == nil {
		k.actions = make(map[Key]KeyAction)
	}
	k.actions[key] = a
}

func (k *KeyListener) Press(key Key)   { k.pressed[key] = true }
func (k *KeyListener) Release(key Key) { delete(k.pressed, key) }

func (k *KeyListener) Pressed(key Key) bool { return k.pressed[key] }

// Task returns a loop task running the actions of held keys in key code
// order.
func (k *KeyListener) Task() *Task {
	return NewTask(k.run)
}

func (k *KeyListener) run(dt time.Duration) {
	keys := make([]Key, 0, len(k.pressed))
	for key := range k.pressed {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		a, ok := k.actions[key]
		if !ok || a.Run == nil {
			continue
		}
		a.Run(dt)
		if a.Once {
			delete(k.pressed, key)
		}
	}
}
