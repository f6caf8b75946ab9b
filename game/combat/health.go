package combat

// Health is the shared hit-point model of the player and enemies.
// current stays within [0, max]; reaching 0 is terminal until Reset.
type Health struct {
	current int
	max     int
	dead    bool

	onChange func(current, max int)
	onDeath  func()
}

// NewHealth creates a full Health pool. max must be > 0; config
// validation guarantees that for every combatant the arena creates.
func NewHealth(max int) *Health {
	if max < 1 {
		max = 1
	}
	return &Health{current: max, max: max}
}

// OnChange registers the observer called after every effective change.
func (h *Health) OnChange(fn func(current, max int)) { h.onChange = fn }

// OnDeath registers the callback fired exactly once when health hits 0.
func (h *Health) OnDeath(fn func()) { h.onDeath = fn }

func (h *Health) Current() int { return h.current }
func (h *Health) Max() int     { return h.max }
func (h *Health) IsDead() bool { return h.dead }

// TakeDamage subtracts amount (negative amounts count as 0). It returns
// the health actually removed and whether this call caused death. Dead
// combatants ignore further damage, so the death callback fires once no
// matter how many hits land in the same tick.
func (h *Health) TakeDamage(amount int) (applied int, killed bool) {
	if h.dead {
		return 0, false
	}
	if amount < 0 {
		amount = 0
	}
	before := h.current
	h.current -= amount
	if h.current < 0 {
		h.current = 0
	}
	applied = before - h.current
	h.notify()
	if h.current == 0 {
		h.dead = true
		if h.onDeath != nil {
			h.onDeath()
		}
		return applied, true
	}
	return applied, false
}

// Heal adds amount up to max. Ignored when dead or amount <= 0.
func (h *Health) Heal(amount int) int {
	if h.dead || amount <= 0 {
		return 0
	}
	before := h.current
	h.current += amount
	if h.current > h.max {
		h.current = h.max
	}
	if h.current != before {
		h.notify()
	}
	return h.current - before
}

// Reset revives at full health. Only round resets may call this.
func (h *Health) Reset() {
	h.current = h.max
	h.dead = false
	h.notify()
}

func (h *Health) notify() {
	if h.onChange != nil {
		h.onChange(h.current, h.max)
	}
}
