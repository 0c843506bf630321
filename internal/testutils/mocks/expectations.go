// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/repositories/saves"
	savesmock "github.com/KirkDiggler/alloy-horizon/internal/repositories/saves/mock"
)

// SavedAt is the timestamp the save expectations stamp on records
var SavedAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// ExpectSaveWrite expects one write to slot and echoes it back as stored.
// The returned call can be chained with further expectations.
func ExpectSaveWrite(ctx context.Context, mockRepo *savesmock.MockRepository, slot string) *gomock.Call {
	return mockRepo.EXPECT().
		Save(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input saves.SaveInput) (*saves.SaveOutput, error) {
			if input.Slot != slot {
				return nil, errors.InvalidArgumentf("unexpected slot %s", input.Slot)
			}
			return &saves.SaveOutput{Record: &saves.Record{
				Slot:    input.Slot,
				SavedAt: SavedAt,
				Version: input.Version,
				Data:    input.Data,
			}}, nil
		})
}

// ExpectSaveWriteError expects one write to slot that fails with err
func ExpectSaveWriteError(ctx context.Context, mockRepo *savesmock.MockRepository, err error) *gomock.Call {
	return mockRepo.EXPECT().
		Save(ctx, gomock.Any()).
		Return(nil, err)
}

// ExpectSaveGet expects a read of slot returning data, or err when set
func ExpectSaveGet(
	ctx context.Context, mockRepo *savesmock.MockRepository,
	slot string, data []byte, err error,
) *gomock.Call {
	if err != nil {
		return mockRepo.EXPECT().
			Get(ctx, saves.GetInput{Slot: slot}).
			Return(nil, err)
	}
	return mockRepo.EXPECT().
		Get(ctx, saves.GetInput{Slot: slot}).
		Return(&saves.GetOutput{Record: &saves.Record{
			Slot:    slot,
			SavedAt: SavedAt,
			Data:    data,
		}}, nil)
}

// ExpectSaveList expects a listing returning headers for slots
func ExpectSaveList(ctx context.Context, mockRepo *savesmock.MockRepository, slots ...string) *gomock.Call {
	records := make([]*saves.Record, 0, len(slots))
	for _, slot := range slots {
		records = append(records, &saves.Record{Slot: slot, SavedAt: SavedAt, Version: 3})
	}
	return mockRepo.EXPECT().
		List(ctx, saves.ListInput{}).
		Return(&saves.ListOutput{Records: records}, nil)
}
