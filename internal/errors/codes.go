package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeMaxLevelReached    Code = "MAX_LEVEL_REACHED"
	CodeInsufficientFunds  Code = "INSUFFICIENT_FUNDS"
	CodeInvalidReference   Code = "INVALID_REFERENCE"
	CodeDataLoss           Code = "DATA_LOSS"
	CodeInternal           Code = "INTERNAL"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Recoverable reports whether an error with this code leaves the game state
// untouched and can simply be surfaced to the player.
func (c Code) Recoverable() bool {
	switch c {
	case CodeFailedPrecondition,
		CodeMaxLevelReached,
		CodeInsufficientFunds,
		CodeInvalidReference,
		CodeInvalidArgument,
		CodeNotFound:
		return true
	default:
		return false
	}
}
