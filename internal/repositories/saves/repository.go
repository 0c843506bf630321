// Package saves provides persistence for encoded game snapshots
package saves

//go:generate mockgen -destination=mock/mock_repository.go -package=savesmock github.com/KirkDiggler/alloy-horizon/internal/repositories/saves Repository

import (
	"context"
	"strings"
	"time"

	"github.com/KirkDiggler/alloy-horizon/internal/errors"
)

const maxSlotLength = 64

// Record is one stored save. Data is an encoded snapshot document
// and is opaque to the repository.
type Record struct {
	Slot    string    `json:"slot"`
	SavedAt time.Time `json:"saved_at"`
	Version int       `json:"version"`
	Data    []byte    `json:"data"`
}

// Repository defines save slot persistence
type Repository interface {
	// Save writes the record for a slot, replacing any previous save
	// Returns errors.InvalidArgument for a bad slot name or empty data
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Get loads the record for a slot
	// Returns errors.NotFound if the slot is empty
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List returns every stored record without its data, ordered by slot
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Delete removes a slot
	// Returns errors.NotFound if the slot is empty
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// SaveInput defines the input for saving a slot
type SaveInput struct {
	Slot    string
	Version int
	Data    []byte
}

// SaveOutput defines the output for saving a slot
type SaveOutput struct {
	Record *Record
}

// GetInput defines the input for loading a slot
type GetInput struct {
	Slot string
}

// GetOutput defines the output for loading a slot
type GetOutput struct {
	Record *Record
}

// ListInput defines the input for listing slots
type ListInput struct{}

// ListOutput defines the output for listing slots
type ListOutput struct {
	Records []*Record
}

// DeleteInput defines the input for deleting a slot
type DeleteInput struct {
	Slot string
}

// DeleteOutput defines the output for deleting a slot
type DeleteOutput struct{}

// ValidateSlot checks a slot name is usable as a storage key
func ValidateSlot(slot string) error {
	switch {
	case slot == "":
		return errors.InvalidArgument("slot cannot be empty")
	case len(slot) > maxSlotLength:
		return errors.InvalidArgumentf("slot cannot be longer than %d characters", maxSlotLength)
	case strings.ContainsAny(slot, " \t\n:*?[]"):
		return errors.InvalidArgumentf("slot %q contains reserved characters", slot)
	}
	return nil
}

func validateSave(input SaveInput) error {
	if err := ValidateSlot(input.Slot); err != nil {
		return err
	}
	if len(input.Data) == 0 {
		return errors.InvalidArgument("save data cannot be empty")
	}
	return nil
}

func (r *Record) clone() *Record {
	out := *r
	out.Data = append([]byte(nil), r.Data...)
	return &out
}

func (r *Record) header() *Record {
	out := *r
	out.Data = nil
	return &out
}
