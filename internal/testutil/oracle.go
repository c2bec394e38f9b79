package testutil

import (
	"context"
	"sync"
)

// StubGenerator is an in-memory oracle that replays a canned reply and
// records every prompt it receives.
type StubGenerator struct {
	Reply string
	Err   error

	mu      sync.Mutex
	prompts []string
}

// Generate records the prompt and returns the canned reply or error.
func (s *StubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	return s.Reply, nil
}

// Prompts returns a copy of every prompt seen so far.
func (s *StubGenerator) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}
