package world

import (
	"github.com/kasuganosora/arenasurvival/game/ai"
	"github.com/kasuganosora/arenasurvival/game/item"
)

// Registry is the director-owned set of live arena entities. Iteration
// follows spawn order so a seeded simulation replays identically.
type Registry struct {
	nextID     int64
	enemies    map[int64]*ai.Enemy
	enemyOrder []int64
	items      map[int64]*item.Item
	itemOrder  []int64
}

func NewRegistry() *Registry {
	return &Registry{
		enemies: make(map[int64]*ai.Enemy),
		items:   make(map[int64]*item.Item),
	}
}

// NextID hands out entity ids, unique for the lifetime of the registry.
func (r *Registry) NextID() int64 {
	r.nextID++
	return r.nextID
}

func (r *Registry) AddEnemy(e *ai.Enemy) {
	if _, ok := r.enemies[e.ID]; ok {
		return
	}
	r.enemies[e.ID] = e
	r.enemyOrder = append(r.enemyOrder, e.ID)
}

// RemoveEnemy drops the enemy from the registry. Unknown ids are ignored.
func (r *Registry) RemoveEnemy(id int64) {
	if _, ok := r.enemies[id]; !ok {
		return
	}
	delete(r.enemies, id)
	r.enemyOrder = removeID(r.enemyOrder, id)
}

func (r *Registry) Enemy(id int64) *ai.Enemy { return r.enemies[id] }

// Enemies returns a snapshot, safe to iterate while entities are removed.
func (r *Registry) Enemies() []*ai.Enemy {
	out := make([]*ai.Enemy, 0, len(r.enemyOrder))
	for _, id := range r.enemyOrder {
		out = append(out, r.enemies[id])
	}
	return out
}

func (r *Registry) AddItem(it *item.Item) {
	if _, ok := r.items[it.ID]; ok {
		return
	}
	r.items[it.ID] = it
	r.itemOrder = append(r.itemOrder, it.ID)
}

func (r *Registry) RemoveItem(id int64) {
	if _, ok := r.items[id]; !ok {
		return
	}
	delete(r.items, id)
	r.itemOrder = removeID(r.itemOrder, id)
}

func (r *Registry) Item(id int64) *item.Item { return r.items[id] }

// Items returns a snapshot in spawn order.
func (r *Registry) Items() []*item.Item {
	out := make([]*item.Item, 0, len(r.itemOrder))
	for _, id := range r.itemOrder {
		out = append(out, r.items[id])
	}
	return out
}

func (r *Registry) EnemyCount() int { return len(r.enemies) }
func (r *Registry) ItemCount() int  { return len(r.items) }

// Clear destroys every entity (cancelling their scheduled callbacks) and
// empties the registry. Owners are not notified.
func (r *Registry) Clear() {
	for _, id := range r.enemyOrder {
		r.enemies[id].Destroy()
	}
	for _, id := range r.itemOrder {
		r.items[id].Destroy()
	}
	r.enemies = make(map[int64]*ai.Enemy)
	r.items = make(map[int64]*item.Item)
	r.enemyOrder = r.enemyOrder[:0]
	r.itemOrder = r.itemOrder[:0]
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
