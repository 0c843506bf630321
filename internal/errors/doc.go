// Package errors provides the coded error type used across the engine.
//
// Every command the engine exposes either succeeds or returns an *Error whose
// Code tells the caller what kind of rejection happened. Gameplay rejections
// are recoverable and never leave the state half-mutated:
//   - FailedPrecondition: no enemy present, not enough MP or resonance, the
//     action is not available in the current tower phase
//   - MaxLevelReached: enhancement or character level cap
//   - InsufficientFunds: gold or scrap shortfall (enhance, shop)
//   - InvalidReference: an item id that is not in the bag or equipment slots
//
// Faults use InvalidArgument, NotFound, DataLoss and Internal.
//
// # Basic Usage
//
//	return errors.InsufficientFundsf("enhance needs %d gold", cost.Gold).
//	    WithMeta("item_id", item.ID)
//
// Checking:
//
//	if errors.IsMaxLevelReached(err) {
//	    // show "already +10"
//	}
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save game")
//	}
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateProbability("tower.elite_chance", cfg.Tower.EliteChance, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
