package entities

// EntityTypeEnemy is the core.Entity type of encounter foes
const EntityTypeEnemy = "enemy"

// EncounterClass scales enemy strength, rewards and loot odds
type EncounterClass string

// Encounter classes
const (
	ClassNormal   EncounterClass = "normal"
	ClassElite    EncounterClass = "elite"
	ClassMiniBoss EncounterClass = "mini_boss"
	ClassBoss     EncounterClass = "boss"
)

// IsValid checks if the class is known
func (c EncounterClass) IsValid() bool {
	switch c {
	case ClassNormal, ClassElite, ClassMiniBoss, ClassBoss:
		return true
	default:
		return false
	}
}

// AllEncounterClasses returns every class from weakest to strongest
func AllEncounterClasses() []EncounterClass {
	return []EncounterClass{ClassNormal, ClassElite, ClassMiniBoss, ClassBoss}
}

// Enemy lives only for the duration of one encounter
type Enemy struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Class   EncounterClass `json:"class"`
	Level   int            `json:"level"`
	HP      int            `json:"hp"`
	HPMax   int            `json:"hp_max"`
	Attack  int            `json:"attack"`
	Defense int            `json:"defense"`
}

// GetID returns the enemy's ID
func (e *Enemy) GetID() string {
	return e.ID
}

// GetType returns the entity type for rpg-toolkit
func (e *Enemy) GetType() string {
	return EntityTypeEnemy
}

// Clone returns a copy
func (e *Enemy) Clone() *Enemy {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}
