package reactive

// dep is the insertion-ordered set of effects subscribed to one (target, key).
// Re-adding a removed effect appends it at the end.
type dep struct {
	effects []*Effect
	members map[*Effect]struct{}
}

func newDep() *dep {
	return &dep{members: make(map[*Effect]struct{})}
}

// add subscribes e. Returns false if e was already subscribed.
func (d *dep) add(e *Effect) bool {
	if _, ok := d.members[e]; ok {
		return false
	}
	d.members[e] = struct{}{}
	d.effects = append(d.effects, e)
	return true
}

// remove unsubscribes e, preserving the order of the remaining effects.
func (d *dep) remove(e *Effect) {
	if _, ok := d.members[e]; !ok {
		return
	}
	delete(d.members, e)
	for i, existing := range d.effects {
		if existing == e {
			d.effects = append(d.effects[:i], d.effects[i+1:]...)
			return
		}
	}
}

func (d *dep) has(e *Effect) bool {
	_, ok := d.members[e]
	return ok
}

func (d *dep) len() int {
	return len(d.effects)
}
