package config

import "sync"

var registry = &PromptRegistry{system: make(map[Operation]string)}

// PromptRegistry holds system prompts loaded from files. It is safe for
// concurrent use; the prompt watcher replaces entries while requests read them.
type PromptRegistry struct {
	mu     sync.RWMutex
	system map[Operation]string
}

// Prompts returns the process-wide prompt registry.
func Prompts() *PromptRegistry {
	return registry
}

// System returns the loaded system prompt override for op.
func (r *PromptRegistry) System(op Operation) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.system[op]
	return p, ok && p != ""
}

// Set stores a system prompt override for op. An empty prompt removes it.
func (r *PromptRegistry) Set(op Operation, prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prompt == "" {
		delete(r.system, op)
		return
	}
	r.system[op] = prompt
}

// Len returns the number of loaded overrides.
func (r *PromptRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.system)
}

// Reset removes every override.
func (r *PromptRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.system = make(map[Operation]string)
}
