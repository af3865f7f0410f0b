package review

import "sync"

// Registry maps moderation message ids to their controls. Button presses on
// any moderation message, old or new, are dispatched through it.
type Registry struct {
	mu       sync.RWMutex
	controls map[string]*Control
}

func NewRegistry() *Registry {
	return &Registry{controls: make(map[string]*Control)}
}

// Register attaches c to its message, replacing any previous control there.
func (r *Registry) Register(c *Control) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controls[c.Message().MessageID] = c
}

func (r *Registry) Get(messageID string) (*Control, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.controls[messageID]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controls)
}
