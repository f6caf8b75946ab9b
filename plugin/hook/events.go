package hook

// Gameplay hook points.
const (
	BeforeDamageCalc = "before_damage_calc" // *DamagePayload, may change Amount
	AfterDamageCalc  = "after_damage_calc"  // *DamagePayload, final Amount
	AfterEnemySpawn  = "after_enemy_spawn"  // *EntityPayload
	AfterEnemyDeath  = "after_enemy_death"  // *EntityPayload
	BeforeItemUse    = "before_item_use"    // *EntityPayload, ErrInterrupt cancels pickup
	AfterItemUse     = "after_item_use"     // *EntityPayload
	OnRoundStart     = "on_round_start"     // *RoundPayload
	OnRoundEnd       = "on_round_end"       // *RoundPayload
)

// DamageSource tags who is dealing damage.
type DamageSource string

const (
	SourcePlayer  DamageSource = "player"
	SourceEnemy   DamageSource = "enemy"
	SourceContact DamageSource = "contact"
)

// DamagePayload flows through the damage hooks.
type DamagePayload struct {
	Source   DamageSource
	Base     int
	Variance int
	Amount   int
}

// EntityPayload describes an enemy or item event.
type EntityPayload struct {
	ID   int64
	Kind string
}

// RoundPayload describes a round lifecycle event.
type RoundPayload struct {
	RoundID string
	Outcome string
	Reason  string
	Score   int
}
