package snapshot

// Raw is a decoded save document before it is bound to typed state
type Raw = map[string]any

// Migration upgrades a raw document by exactly one version. Every migration
// is total (any input yields a document) and idempotent.
type Migration func(doc Raw) Raw

// migrations[i] upgrades version i+1 to i+2
var migrations = []Migration{
	migrateV1ToV2,
	migrateV2ToV3,
}

// Migrate runs the chain from the document's version to CurrentVersion
func Migrate(doc Raw, from int) Raw {
	for v := max(from, 1); v < CurrentVersion; v++ {
		doc = migrations[v-1](doc)
	}
	return doc
}

// v1 is the browser save: camelCase player fields, "coh" for resonance,
// "exe" for the execution gauge, flat attack stats, a slot map with camelCase
// keys, a flat bag array, and the floor as a bare number.
var v1PlayerRenames = map[string]string{
	"hpMax":  "hp_max",
	"mpMax":  "mp_max",
	"coh":    "resonance",
	"cohMax": "resonance_max",
	"exe":    "execution",
	"exeMax": "execution_max",
	"equips": "equipped",
}

var v1SlotRenames = map[string]string{
	"weaponL": "weapon_l",
	"weaponR": "weapon_r",
}

var v1ItemRenames = map[string]string{
	"basePower": "base_power",
	"enh":       "enhancement",
	"enhance":   "enhancement",
}

var v1BaseStats = map[string]string{
	"atk":  "attack",
	"def":  "defense",
	"crit": "crit",
	"hit":  "hit",
}

func migrateV1ToV2(doc Raw) Raw {
	if player, ok := doc["player"].(Raw); ok {
		renameKeys(player, v1PlayerRenames)

		base, _ := player["base"].(Raw)
		if base == nil {
			base = Raw{}
		}
		for from, to := range v1BaseStats {
			if v, ok := player[from]; ok {
				if _, exists := base[to]; !exists {
					base[to] = v
				}
				delete(player, from)
			}
		}
		if len(base) > 0 {
			player["base"] = base
		}

		if equipped, ok := player["equipped"].(Raw); ok {
			renameKeys(equipped, v1SlotRenames)
			for slot, item := range equipped {
				if it, ok := item.(Raw); ok {
					renameKeys(it, v1ItemRenames)
					if _, ok := it["slot"]; !ok {
						it["slot"] = slot
					}
					if old, ok := it["slot"].(string); ok {
						if renamed, ok := v1SlotRenames[old]; ok {
							it["slot"] = renamed
						}
					}
				}
			}
		}

		if items, ok := player["bag"].([]any); ok {
			player["bag"] = splitBag(items)
		}
	}

	if floor, ok := doc["floor"].(float64); ok {
		doc["floor"] = Raw{"floor": floor}
	}

	if battle, ok := doc["battle"].(Raw); ok {
		if burst, ok := battle["burst"].(Raw); ok {
			renameKeys(burst, map[string]string{"turns": "turns_left"})
		}
	}

	doc["version"] = float64(2)
	return doc
}

// splitBag sorts a flat v1 bag into equipment (has a slot) and consumables
func splitBag(items []any) Raw {
	equipment := []any{}
	consumables := []any{}
	for _, item := range items {
		it, ok := item.(Raw)
		if !ok {
			continue
		}
		renameKeys(it, v1ItemRenames)
		if _, ok := it["slot"]; ok {
			if slot, ok := it["slot"].(string); ok {
				if renamed, ok := v1SlotRenames[slot]; ok {
					it["slot"] = renamed
				}
			}
			equipment = append(equipment, it)
		} else {
			consumables = append(consumables, it)
		}
	}
	return Raw{"equipment": equipment, "consumables": consumables}
}

// v2 kept top-level player/floor/battle; v3 nests them under state with
// their final names and adds the scrap and execution fields.
func migrateV2ToV3(doc Raw) Raw {
	state, _ := doc["state"].(Raw)
	if state == nil {
		state = Raw{}
	}

	if player, ok := doc["player"]; ok {
		if _, exists := state["character"]; !exists {
			state["character"] = player
		}
		delete(doc, "player")
	}
	if floor, ok := doc["floor"]; ok {
		if _, exists := state["tower"]; !exists {
			state["tower"] = floor
		}
		delete(doc, "floor")
	}
	if battle, ok := doc["battle"]; ok {
		if _, exists := state["battle"]; !exists {
			state["battle"] = battle
		}
		delete(doc, "battle")
	}

	if c, ok := state["character"].(Raw); ok {
		renameKeys(c, map[string]string{"exp": "level_currency"})
		setDefault(c, "scrap", float64(0))
		setDefault(c, "execution", float64(0))
	}

	doc["state"] = state
	doc["version"] = float64(3)
	return doc
}

// renameKeys moves old keys to new names unless the new name is already set
func renameKeys(m Raw, renames map[string]string) {
	for from, to := range renames {
		v, ok := m[from]
		if !ok {
			continue
		}
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
	}
}

func setDefault(m Raw, key string, v any) {
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}
