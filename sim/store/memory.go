package store

import (
	"context"
	"sync"

	"github.com/hank-transition/hank-transition/sim"
)

// MemoryStore keeps encoded results in process memory. Results are stored
// as encoded payloads so callers never share slices with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	payloads    map[string][]byte
	summaries   map[string]RunSummary
	order       []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.payloads = make(map[string][]byte)
	s.summaries = make(map[string]RunSummary)
	s.order = nil
	return nil
}

func (s *MemoryStore) SaveResult(_ context.Context, res *sim.Result) error {
	payload, err := encodeResult(res)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if _, ok := s.payloads[res.RunID]; !ok {
		s.order = append(s.order, res.RunID)
	}
	s.payloads[res.RunID] = payload
	s.summaries[res.RunID] = summarize(res)
	return nil
}

func (s *MemoryStore) GetResult(_ context.Context, runID string) (*sim.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, ErrNotInitialized
	}
	payload, ok := s.payloads[runID]
	if !ok {
		return nil, false, nil
	}
	res, err := decodeResult(payload)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make([]RunSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.summaries[id])
	}
	return out, nil
}
