package game

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/repositories/saves"
	"github.com/KirkDiggler/alloy-horizon/internal/snapshot"
)

// Save writes the current state to a save slot
func (o *orchestrator) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var st *entities.State
	o.read(func(cur *entities.State) { st = cur.Clone() })

	data, err := snapshot.Encode(st)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}

	res, err := o.saves.Save(ctx, saves.SaveInput{
		Slot:    input.Slot,
		Version: snapshot.CurrentVersion,
		Data:    data,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save slot %s", input.Slot)
	}

	slog.Info("Game saved", "slot", res.Record.Slot, "floor", st.Tower.Floor, "level", st.Character.Level)

	return &SaveOutput{
		Slot:    res.Record.Slot,
		SavedAt: res.Record.SavedAt,
		Version: res.Record.Version,
	}, nil
}

// Load replaces the current state with a save slot, migrating old versions
func (o *orchestrator) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	res, err := o.saves.Get(ctx, saves.GetInput{Slot: input.Slot})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load slot %s", input.Slot)
	}

	restored, err := snapshot.Decode(res.Record.Data, o.cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode slot %s", input.Slot)
	}

	st, err := o.replace(ctx, restored, input.Slot)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore slot %s", input.Slot)
	}

	return &LoadOutput{State: st}, nil
}

// ListSaves lists the stored save slots
func (o *orchestrator) ListSaves(ctx context.Context, input *ListSavesInput) (*ListSavesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	res, err := o.saves.List(ctx, saves.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list saves")
	}

	out := &ListSavesOutput{Slots: make([]SaveSlot, 0, len(res.Records))}
	for _, r := range res.Records {
		out.Slots = append(out.Slots, SaveSlot{Slot: r.Slot, SavedAt: r.SavedAt, Version: r.Version})
	}
	return out, nil
}

// Export renders the state as a base64 blob
func (o *orchestrator) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var st *entities.State
	o.read(func(cur *entities.State) { st = cur.Clone() })

	blob, err := snapshot.EncodeBlob(st)
	if err != nil {
		return nil, errors.Wrap(err, "failed to export state")
	}
	return &ExportOutput{Blob: blob}, nil
}

// Import replaces the state from a base64 blob
func (o *orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	restored, err := snapshot.DecodeBlob(input.Blob, o.cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to import state")
	}

	st, err := o.replace(ctx, restored, "")
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore imported state")
	}

	return &ImportOutput{State: st}, nil
}

// replace swaps in a decoded state. A restored game never resumes auto mode.
func (o *orchestrator) replace(ctx context.Context, restored *entities.State, slot string) (*entities.State, error) {
	if restored == nil || restored.Character == nil {
		return nil, errors.DataLoss("restored state has no character")
	}
	restored.Battle.Auto = false
	o.seekIDs(restored)

	var out *entities.State
	err := o.mutate(ctx, "replace", func(st *entities.State, box *outbox) error {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "restore abandoned")
		}
		*st = *restored
		out = st.Clone()
		box.add(EventGameLoaded, st.Character.Clone(), nil, map[string]any{
			"slot":  slot,
			"floor": st.Tower.Floor,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Game restored", "slot", slot, "character_id", out.Character.ID, "floor", out.Tower.Floor)
	return out, nil
}

// seeker is implemented by ID generators that can skip past restored IDs
type seeker interface {
	Seek(n uint64)
}

// seekIDs moves a sequential generator past the highest numeric suffix in st
func (o *orchestrator) seekIDs(st *entities.State) {
	sk, ok := o.ids.(seeker)
	if !ok {
		return
	}

	var highest uint64
	note := func(id string) {
		n, err := strconv.ParseUint(id[strings.LastIndexByte(id, '_')+1:], 10, 64)
		if err == nil && n > highest {
			highest = n
		}
	}

	c := st.Character
	note(c.ID)
	for _, eq := range c.Equipped {
		if eq != nil {
			note(eq.ID)
		}
	}
	for _, eq := range c.Bag.Equipment {
		note(eq.ID)
	}
	for _, it := range c.Bag.Consumables {
		note(it.ID)
	}
	if st.Battle.Enemy != nil {
		note(st.Battle.Enemy.ID)
	}

	sk.Seek(highest)
}
