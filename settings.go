package docpager

import "sync"

// Settings is the global tier of the option cascade:
//
//	built-in defaults < Settings < call options
//
// Every Set, Get and Reset is atomic, and a paginated call reads one
// snapshot. Nothing orders a caller's Set against another caller's
// paginate call; interleaving callers observe whichever value was stored
// last.
type Settings struct {
	mu   sync.RWMutex
	opts *Options
}

var _global = NewSettings()

// Global returns the process-wide Settings used by models that were not
// given their own.
func Global() *Settings {
	return _global
}

func NewSettings() *Settings {
	return &Settings{opts: new(Options)}
}

// Set replaces the stored defaults. The argument is copied.
func (s *Settings) Set(opts *Options) {
	cloned := opts.Clone()
	if cloned == nil {
		cloned = new(Options)
	}

	s.mu.Lock()
	s.opts = cloned
	s.mu.Unlock()
}

// Update mutates the stored defaults in place under the write lock.
func (s *Settings) Update(fn func(opts *Options)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.opts)
}

// Get returns a copy of the stored defaults.
func (s *Settings) Get() *Options {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.opts.Clone()
}

// Reset clears the stored defaults so that only built-in defaults apply.
func (s *Settings) Reset() {
	s.Set(nil)
}
