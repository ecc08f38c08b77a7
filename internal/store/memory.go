package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used for local development and tests.
// It mirrors the hosted store's semantics: values survive a JSON
// round-trip on write, so subscribers see plain decoded shapes
// (map[string]interface{}, []interface{}, float64) rather than the
// writer's Go types.
type MemoryStore struct {
	mu   sync.Mutex
	doc  Document
	subs []chan Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: Document{}}
}

func (m *MemoryStore) ReadAll(ctx context.Context) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *MemoryStore) ReplaceSubtree(ctx context.Context, path string, value interface{}) error {
	normalized, err := roundTrip(value)
	if err != nil {
		return fmt.Errorf("failed to encode subtree %s: %w", path, err)
	}

	m.mu.Lock()
	if normalized == nil {
		delete(m.doc, path)
	} else {
		m.doc[path] = normalized
	}
	snap, err := m.snapshot()
	subs := make([]chan Document, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if err != nil {
		return err
	}
	for _, ch := range subs {
		// A slow subscriber must not stall writers. When its buffer is
		// full, evict the oldest push and deliver this one, so even after
		// the final write every subscriber still ends on the newest
		// document.
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
	return nil
}

func (m *MemoryStore) Subscribe(ctx context.Context) (<-chan Document, error) {
	ch := make(chan Document, 16)

	m.mu.Lock()
	m.subs = append(m.subs, ch)
	snap, err := m.snapshot()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// Initial push so a new client does not wait for the next write.
	ch <- snap

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
	}()

	return ch, nil
}

// snapshot deep-copies the document. Callers must hold m.mu.
func (m *MemoryStore) snapshot() (Document, error) {
	raw, err := json.Marshal(m.doc)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot document: %w", err)
	}
	var snap Document
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode document snapshot: %w", err)
	}
	if snap == nil {
		snap = Document{}
	}
	return snap, nil
}

func roundTrip(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
