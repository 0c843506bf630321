// Package snapshot serialises the whole game state and restores it from any
// schema version, repairing whatever an old or damaged save is missing.
package snapshot

import (
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
)

// CurrentVersion is the schema version Encode writes
const CurrentVersion = 3

// Document is the current on-disk layout
type Document struct {
	Version int             `json:"version"`
	State   *entities.State `json:"state"`
}

// Encode serialises the state at the current version
func Encode(state *entities.State) ([]byte, error) {
	if state == nil {
		return nil, errors.InvalidArgument("state is required")
	}
	data, err := json.Marshal(Document{Version: CurrentVersion, State: state})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}
	return data, nil
}

// Decode restores a state from any known version. Fields with the wrong type
// are zeroed and then repaired rather than rejected; only unreadable JSON or a
// version newer than this build fails.
func Decode(data []byte, cfg *balance.Config) (*entities.State, error) {
	var doc Raw
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "snapshot is not valid JSON")
	}
	if doc == nil {
		return nil, errors.DataLoss("snapshot is empty")
	}

	version := versionOf(doc)
	if version > CurrentVersion {
		return nil, errors.InvalidArgumentf("snapshot version %d is newer than supported version %d", version, CurrentVersion).
			WithMeta("version", version)
	}
	doc = Migrate(doc, version)

	migrated, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-encode migrated snapshot")
	}

	var out Document
	if err := json.Unmarshal(migrated, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !stderrors.As(err, &typeErr) {
			return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "snapshot does not match the state layout")
		}
		slog.Warn("snapshot field has the wrong type, defaulting it",
			"field", typeErr.Field,
			"value", typeErr.Value)
	}

	state := out.State
	if state == nil {
		state = &entities.State{}
	}
	if fixes := Repair(state, cfg); len(fixes) > 0 {
		slog.Info("repaired snapshot",
			"from_version", version,
			"repairs", len(fixes),
			"details", strings.Join(fixes, "; "))
	}
	return state, nil
}

// EncodeBlob is Encode wrapped in standard base64, the export format
func EncodeBlob(state *entities.State) (string, error) {
	data, err := Encode(state)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeBlob accepts a bare base64 blob or a data URL
func DecodeBlob(blob string, cfg *balance.Config) (*entities.State, error) {
	blob = strings.TrimSpace(blob)
	if i := strings.Index(blob, ","); strings.HasPrefix(blob, "data:") && i >= 0 {
		blob = blob[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "save blob is not base64")
	}
	return Decode(data, cfg)
}

func versionOf(doc Raw) int {
	switch v := doc["version"].(type) {
	case float64:
		return max(int(v), 1)
	default:
		return 1
	}
}
