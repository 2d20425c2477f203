package filter

import "sync"

// ContentFilter runs texts through a replaceable strategy. It is safe for
// concurrent use: every call observes either the old or the new strategy.
type ContentFilter struct {
	mu       sync.RWMutex
	strategy Strategy
}

// New returns a ContentFilter using strategy.
func New(strategy Strategy) *ContentFilter {
	return &ContentFilter{strategy: strategy}
}

// FilterText returns the verdict of the current strategy.
func (f *ContentFilter) FilterText(text string) bool {
	return f.Strategy().Filter(text)
}

// UpdateStrategy swaps the strategy for subsequent calls.
func (f *ContentFilter) UpdateStrategy(strategy Strategy) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.strategy = strategy
}

// Strategy returns the current strategy.
func (f *ContentFilter) Strategy() Strategy {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.strategy
}
