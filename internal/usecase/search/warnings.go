package search

import "sync"

// Warnings accumulates human-readable notes across one navigation. Safe for
// concurrent use, though a single flow appends sequentially.
type Warnings struct {
	mu    sync.Mutex
	items []string
}

func (w *Warnings) Add(msg string) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.items = append(w.items, msg)
	w.mu.Unlock()
}

// List returns a copy, never nil.
func (w *Warnings) List() []string {
	if w == nil {
		return []string{}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.items))
	copy(out, w.items)
	return out
}

func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}
