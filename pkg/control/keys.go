package control

import "time"

// Action is an input the front ends report. The direction and zoom actions
// are held; the rest fire once per press.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionUp
	ActionDown
	ActionZoom
	ActionToggleWireframe
	ActionToggleChecker
	ActionNextModel
	ActionReset
	ActionToggleHUD
	ActionQuit
)

const numHeld = int(ActionZoom) + 1

var actionNames = [...]string{
	"left", "right", "up", "down", "zoom",
	"wireframe", "checker", "next", "reset", "hud", "quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Held reports whether a is a held action rather than a one-shot.
func (a Action) Held() bool {
	return a >= 0 && int(a) < numHeld
}

// Sink receives actions from a front end.
type Sink interface {
	Press(a Action, now time.Time)
	Release(a Action)
}

// HeldKeys tracks which actions are held. Some front ends (terminals
// without the kitty keyboard protocol) never report releases; for those a
// non-zero Timeout releases an action that has not been pressed again
// within that window. Auto-repeat keeps a held key alive.
type HeldKeys struct {
	Timeout time.Duration

	pressed [numHeld]time.Time
}

// Press marks a as held at now. One-shot actions are ignored.
func (h *HeldKeys) Press(a Action, now time.Time) {
	if !a.Held() {
		return
	}
	h.pressed[a] = now
}

// Release marks a as no longer held.
func (h *HeldKeys) Release(a Action) {
	if !a.Held() {
		return
	}
	h.pressed[a] = time.Time{}
}

// ReleaseAll clears every held action.
func (h *HeldKeys) ReleaseAll() {
	h.pressed = [numHeld]time.Time{}
}

// Held reports whether a is held at now.
func (h *HeldKeys) Held(a Action, now time.Time) bool {
	if !a.Held() {
		return false
	}
	t := h.pressed[a]
	if t.IsZero() {
		return false
	}
	return h.Timeout <= 0 || now.Sub(t) <= h.Timeout
}

// Input returns the snapshot consumed by Controller.Step.
func (h *HeldKeys) Input(now time.Time) Input {
	return Input{
		Left:     h.Held(ActionLeft, now),
		Right:    h.Held(ActionRight, now),
		Up:       h.Held(ActionUp, now),
		Down:     h.Held(ActionDown, now),
		ZoomHeld: h.Held(ActionZoom, now),
	}
}
