package memory

// Placement is the device address of one tensor.
type Placement struct {
	Tensor    string
	Device    string
	Address   uint64
	SizeBytes uint64
}

// Layout is the result of one allocation pass, in allocation order.
type Layout struct {
	placements []Placement
	index      map[string]int
	perDevice  map[string]int
}

func newLayout(capacity int) *Layout {
	return &Layout{
		placements: make([]Placement, 0, capacity),
		index:      make(map[string]int, capacity),
		perDevice:  make(map[string]int),
	}
}

func (l *Layout) add(p Placement) {
	l.index[p.Tensor] = len(l.placements)
	l.placements = append(l.placements, p)
	l.perDevice[p.Device]++
}

// Address returns the address of the named tensor.
func (l *Layout) Address(name string) (uint64, bool) {
	p, ok := l.Placement(name)
	return p.Address, ok
}

func (l *Layout) Placement(name string) (Placement, bool) {
	i, ok := l.index[name]
	if !ok {
		return Placement{}, false
	}
	return l.placements[i], true
}

// Placements returns a copy of the placements in allocation order.
func (l *Layout) Placements() []Placement {
	out := make([]Placement, len(l.placements))
	copy(out, l.placements)
	return out
}

func (l *Layout) Len() int {
	return len(l.placements)
}
