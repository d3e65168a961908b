package durable

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger is an in-process Ledger for tests and local development.
// It honors the same first-write-wins semantics as the Mongo ledger.
type MemoryLedger struct {
	mu        sync.Mutex
	completed map[string]bool
	results   map[string][]byte
	wakes     map[string]time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		completed: make(map[string]bool),
		results:   make(map[string][]byte),
		wakes:     make(map[string]time.Time),
	}
}

func (l *MemoryLedger) Completed(ctx context.Context, invocationID, step string) (bool, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := runID(invocationID, step)
	return l.completed[id], l.results[id], nil
}

func (l *MemoryLedger) MarkCompleted(ctx context.Context, invocationID, step string, result []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := runID(invocationID, step)
	l.completed[id] = true
	if len(result) > 0 {
		l.results[id] = result
	}
	return nil
}

func (l *MemoryLedger) RecordWake(ctx context.Context, invocationID, step string, deadline time.Time) (time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := runID(invocationID, step)
	if existing, ok := l.wakes[id]; ok {
		return existing, nil
	}
	l.wakes[id] = deadline
	return deadline, nil
}
