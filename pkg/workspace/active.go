package workspace

import "weak"

// activeRef is the process-wide active-workspace slot. It holds a weak
// handle so the slot never keeps a workspace alive: once the active
// workspace is collected or closed, Active observes "no active workspace"
// rather than a dangling reference.
var activeRef weak.Pointer[Workspace]

// Activate makes this workspace the active one. Activating the workspace
// that is already active does not rebind the slot; activating a different
// one silently displaces it (last-activate-wins).
func (w *Workspace) Activate() {
	if w.closed {
		return
	}
	if activeRef.Value() != w {
		activeRef = weak.Make(w)
	}
}

// Deactivate clears the active slot only if it currently holds this
// workspace; a workspace cannot deactivate a different one. Deactivating a
// non-active workspace is a silent no-op.
func (w *Workspace) Deactivate() {
	if activeRef.Value() == w {
		activeRef = weak.Pointer[Workspace]{}
	}
}

// Active returns the active workspace. It fails with ErrNoActiveWorkspace
// when the slot is empty, or when its target has been collected or closed.
func Active() (*Workspace, error) {
	w := activeRef.Value()
	if w == nil || w.closed {
		return nil, ErrNoActiveWorkspace
	}
	return w, nil
}

// WithActive activates w for the duration of fn and restores whatever was
// previously active on exit, including "none", even when fn fails. This is
// the scoped counterpart to Activate/Deactivate for callers that must not
// leak an activation.
func WithActive(w *Workspace, fn func() error) error {
	previous := activeRef
	w.Activate()
	defer func() {
		w.Deactivate()
		if prev := previous.Value(); prev != nil {
			prev.Activate()
		}
	}()
	return fn()
}
