package anim

import (
	"image"
)

// DefaultCounterMax is the frame duration, in counter units, of a
// movement that does not set its own.
const DefaultCounterMax = 83

// Movement is an animation connecting two rest poses. A direct movement
// owns its phases; a derived movement mirrors the phases of the movement
// named by BaseID and is resolved by its owner on first use.
type Movement struct {
	ID   int
	Name string

	StaticsObj1 *Statics
	StaticsObj2 *Statics

	// MX, MY shift the picture between the start pose and the first phase.
	MX, MY int
	// OX, OY is the world position of the current phase's anchor.
	OX, OY int

	Counter    int
	CounterMax int

	BaseID int

	phases []*DynamicPhase
	index  int
}

func NewMovement(id int, name string, start, end *Statics, phases ...*DynamicPhase) *Movement {
	m := &Movement{
		ID:          id,
		Name:        name,
		StaticsObj1: start,
		StaticsObj2: end,
		CounterMax:  DefaultCounterMax,
		phases:      phases,
	}
	for _, ph := range phases {
		ph.Countdown = ph.InitialCountdown
	}
	return m
}

// NewDerivedMovement declares a movement that plays the mirrored phases of
// movement baseID.
func NewDerivedMovement(id int, name string, baseID int, start, end *Statics) *Movement {
	return &Movement{
		ID:          id,
		Name:        name,
		StaticsObj1: start,
		StaticsObj2: end,
		CounterMax:  DefaultCounterMax,
		BaseID:      baseID,
	}
}

func (m *Movement) IsDerived() bool { return m.BaseID != 0 }

func (m *Movement) resolved() bool { return !m.IsDerived() || m.phases != nil }

func (m *Movement) derive(base *Movement) {
	m.phases = make([]*DynamicPhase, len(base.phases))
	for i, ph := range base.phases {
		m.phases[i] = NewMirroredPhase(ph)
	}
	m.MX = -base.MX
	m.MY = base.MY
	m.CounterMax = base.CounterMax
	m.index = 0
}

func (m *Movement) PhaseCount() int { return len(m.phases) }

func (m *Movement) CurrIndex() int { return m.index }

func (m *Movement) DynamicPhase(i int) *DynamicPhase {
	if i < 0 || i >= len(m.phases) {
		return nil
	}
	return m.phases[i]
}

func (m *Movement) CurrDynamicPhase() *DynamicPhase { return m.DynamicPhase(m.index) }

// CurrPhaseXY is the anchor of the current phase.
func (m *Movement) CurrPhaseXY() image.Point {
	if ph := m.CurrDynamicPhase(); ph != nil {
		return ph.Anchor
	}
	return image.Point{}
}

func (m *Movement) SetOXY(x, y int) {
	m.OX, m.OY = x, y
}

// GotoNextFrame advances by one tick. It returns false when the movement
// cannot advance any further; the phase index never leaves its bounds.
func (m *Movement) GotoNextFrame(pos PhasePositioner, step PhaseStepper) bool {
	if len(m.phases) == 0 {
		return false
	}

	last := len(m.phases) - 1
	phase := m.phases[m.index]
	if step == nil && m.index == last && phase.Countdown == 0 {
		return false
	}
	if phase.Countdown > 0 {
		phase.Countdown--
		return true
	}

	m.OX -= phase.Anchor.X
	m.OY -= phase.Anchor.Y

	old := m.index
	next := old + 1
	if step != nil {
		next = step.NextPhase(old, len(m.phases))
	}

	result := true
	if next > last {
		next = last
		result = false
	}
	if next < 0 {
		next = 0
		result = false
	}

	switch {
	case pos != nil:
		off := pos.PhaseOffset(next, m.phases[next].Offset, m.OX, m.OY)
		m.OX += off.X
		m.OY += off.Y
	case next < old:
		for i := old; i > next; i-- {
			m.OX -= m.phases[i].Offset.X
			m.OY -= m.phases[i].Offset.Y
		}
	default:
		for i := old + 1; i <= next; i++ {
			m.OX += m.phases[i].Offset.X
			m.OY += m.phases[i].Offset.Y
		}
	}

	m.index = next
	phase = m.phases[next]
	m.OX += phase.Anchor.X
	m.OY += phase.Anchor.Y
	phase.Countdown = phase.InitialCountdown
	return result
}

// GotoPrevFrame steps back one phase. On the first phase it wraps to the
// last one and returns false.
func (m *Movement) GotoPrevFrame() bool {
	if len(m.phases) == 0 {
		return false
	}
	if m.index == 0 {
		m.GotoLastFrame()
		return false
	}

	phase := m.phases[m.index]
	m.OX -= phase.Anchor.X + phase.Offset.X
	m.OY -= phase.Anchor.Y + phase.Offset.Y

	m.index--
	phase = m.phases[m.index]
	m.OX += phase.Anchor.X
	m.OY += phase.Anchor.Y
	phase.Countdown = phase.InitialCountdown
	return true
}

// SetDynamicPhaseIndex walks to phase idx, accumulating offsets on the way.
func (m *Movement) SetDynamicPhaseIndex(idx int) {
	if idx < 0 || idx >= len(m.phases) {
		return
	}
	for m.index < idx {
		m.phases[m.index].Countdown = 0
		m.GotoNextFrame(nil, nil)
	}
	for m.index > idx {
		m.GotoPrevFrame()
	}
}

func (m *Movement) GotoFirstFrame() {
	if len(m.phases) == 0 {
		return
	}
	m.SetDynamicPhaseIndex(0)
	m.phases[0].Countdown = m.phases[0].InitialCountdown
}

func (m *Movement) GotoLastFrame() {
	if len(m.phases) == 0 {
		return
	}
	last := len(m.phases) - 1
	m.SetDynamicPhaseIndex(last)
	m.phases[last].Countdown = m.phases[last].InitialCountdown
}

// Duration is the playing time of the whole movement in counter units.
func (m *Movement) Duration() int {
	ticks := 0
	for _, ph := range m.phases {
		ticks += ph.InitialCountdown + 1
	}
	return ticks * m.CounterMax
}

// CalcDelta is the total displacement from the first to the last phase.
func (m *Movement) CalcDelta() image.Point {
	var d image.Point
	for i := 1; i < len(m.phases); i++ {
		d = d.Add(m.phases[i].Offset)
	}
	return d
}

func (m *Movement) LoadPixelData() error {
	for _, ph := range m.phases {
		if _, err := ph.LoadPixelData(); err != nil && err != ErrNoPixelData {
			return err
		}
	}
	return nil
}

func (m *Movement) FreePixelData() {
	for _, ph := range m.phases {
		ph.FreePixelData()
	}
}

func (m *Movement) clone(statics func(*Statics) *Statics) *Movement {
	c := *m
	c.StaticsObj1 = statics(m.StaticsObj1)
	c.StaticsObj2 = statics(m.StaticsObj2)
	if m.phases != nil {
		c.phases = make([]*DynamicPhase, len(m.phases))
		for i, ph := range m.phases {
			cp := *ph
			c.phases[i] = &cp
		}
	}
	return &c
}
