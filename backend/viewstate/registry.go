package viewstate

import "sync"

// Registry hands out one Machine per page key so form and banner flags
// survive across requests for the life of the page. The gateway serves a
// single signed-in client, so pages are keyed by name alone.
type Registry struct {
	mu       sync.Mutex
	machines map[string]*Machine
}

func NewRegistry() *Registry {
	return &Registry{machines: make(map[string]*Machine)}
}

// Page returns the machine for key, creating it in idle on first use.
func (r *Registry) Page(key string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.machines[key]
	if !ok {
		m = NewMachine()
		r.machines[key] = m
	}
	return m
}

// Reset drops every machine. Logout calls this so the next identity
// starts from clean pages.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines = make(map[string]*Machine)
}
