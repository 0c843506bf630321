package saves

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/clock"
)

// InMemoryRepository implements Repository using a map.
// It backs the CLI when no Redis address is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Record
	clock clock.Clock
}

// NewInMemory creates an in-memory repository; a nil clock uses real time
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		store: make(map[string]*Record),
		clock: c,
	}
}

// Save stores a record
func (r *InMemoryRepository) Save(_ context.Context, input SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	record := &Record{
		Slot:    input.Slot,
		SavedAt: r.clock.Now().UTC(),
		Version: input.Version,
		Data:    append([]byte(nil), input.Data...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[input.Slot] = record

	return &SaveOutput{Record: record.clone()}, nil
}

// Get returns a copy of the stored record
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if err := ValidateSlot(input.Slot); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.store[input.Slot]
	if !ok {
		return nil, errors.NotFoundf("save slot %s not found", input.Slot)
	}

	return &GetOutput{Record: record.clone()}, nil
}

// List returns record headers ordered by slot
func (r *InMemoryRepository) List(_ context.Context, _ ListInput) (*ListOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*Record, 0, len(r.store))
	for _, record := range r.store {
		records = append(records, record.header())
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Slot < records[j].Slot })

	return &ListOutput{Records: records}, nil
}

// Delete removes a record
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := ValidateSlot(input.Slot); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[input.Slot]; !ok {
		return nil, errors.NotFoundf("save slot %s not found", input.Slot)
	}
	delete(r.store, input.Slot)

	return &DeleteOutput{}, nil
}
