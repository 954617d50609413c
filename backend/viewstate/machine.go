package viewstate

import (
	"errors"
	"fmt"
	"sync"

	"sqlify/backend/upstream"
)

// State names follow the page lifecycle: a page mounts straight into
// loading, settles in ready or error, and passes through submitting for
// every mutation. None of the states is terminal.
type State string

const (
	Idle       State = "idle"
	Loading    State = "loading"
	Ready      State = "ready"
	Error      State = "error"
	Submitting State = "submitting"
)

var ErrBadTransition = errors.New("illegal view-state transition")

// Machine tracks the render flags of one page. formOpen is orthogonal to
// the fetch lifecycle and only ever toggled by the user.
type Machine struct {
	mu       sync.Mutex
	state    State
	errMsg   string
	banner   string
	formOpen bool
}

// Snapshot is what a page controller hands to the renderer.
type Snapshot struct {
	State    State  `json:"state"`
	Error    string `json:"error,omitempty"`
	Banner   string `json:"banner,omitempty"`
	FormOpen bool   `json:"formOpen"`
}

func NewMachine() *Machine {
	return &Machine{state: Idle}
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, Error: m.errMsg, Banner: m.banner, FormOpen: m.formOpen}
}

// BeginLoad enters loading from idle, ready or error (mount or dependency
// change). A load never interrupts an in-flight mutation.
func (m *Machine) BeginLoad() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case Idle, Ready, Error:
		m.state = Loading
		m.errMsg = ""
		return nil
	}
	return fmt.Errorf("%w: %s -> loading", ErrBadTransition, m.state)
}

// ResolveLoad settles loading into ready or error.
func (m *Machine) ResolveLoad(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Loading {
		return fmt.Errorf("%w: resolve outside loading (%s)", ErrBadTransition, m.state)
	}
	if err != nil {
		m.state = Error
		m.errMsg = err.Error()
		return nil
	}
	m.state = Ready
	return nil
}

// BeginMutation enters submitting; only a ready page can mutate.
func (m *Machine) BeginMutation() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Ready {
		return fmt.Errorf("%w: %s -> submitting", ErrBadTransition, m.state)
	}
	m.state = Submitting
	m.errMsg = ""
	m.banner = ""
	return nil
}

// MutationSucceeded returns to ready and raises the transient banner.
func (m *Machine) MutationSucceeded(banner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Submitting {
		return
	}
	m.state = Ready
	m.banner = banner
}

// MutationFailed returns to ready with the server's message: the mutation
// resolved, it just did not do what was asked.
func (m *Machine) MutationFailed(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Submitting {
		return
	}
	m.state = Ready
	m.errMsg = msg
}

// MutationRejected enters error: the mutation produced no usable envelope.
func (m *Machine) MutationRejected(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Submitting {
		return
	}
	m.state = Error
	m.errMsg = msg
}

// ToggleForm flips the form and resets transient feedback, the way the
// page clears stale banners when the form opens or closes.
func (m *Machine) ToggleForm() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formOpen = !m.formOpen
	m.banner = ""
	m.errMsg = ""
	return m.formOpen
}

// MutateThenRefetch drives one mutation and the follow-up refetch of the
// affected collection: the fire-and-refetch pattern in one place. A
// success:false reply keeps the page ready with the server's message; a
// reply-less rejection lands in error. The action error is returned either
// way so the caller can shape its response.
func (m *Machine) MutateThenRefetch(banner string, action, refetch func() error) error {
	if err := m.BeginMutation(); err != nil {
		return err
	}
	if err := action(); err != nil {
		var appErr *upstream.ApplicationError
		if errors.As(err, &appErr) {
			m.MutationFailed(appErr.Error())
		} else {
			m.MutationRejected(err.Error())
		}
		return err
	}
	m.MutationSucceeded(banner)
	if refetch == nil {
		return nil
	}
	return refetch()
}
