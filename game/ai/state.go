package ai

// State enumerates the high-level AI states of an enemy.
type State int

const (
	StatePatrolling State = iota // wander around the spawn point
	StateChasing                 // actively pursuing the player
	StateAttacking               // in range, striking on cooldown
	StateDead
)

func (s State) String() string {
	switch s {
	case StatePatrolling:
		return "patrolling"
	case StateChasing:
		return "chasing"
	case StateAttacking:
		return "attacking"
	case StateDead:
		return "dead"
	}
	return "unknown"
}
