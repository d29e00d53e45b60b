// Package anim implements animated scene actors: rest poses, movements and
// the per-tick state machine that plays them.
package anim

import (
	"image"

	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/message"
)

// StaticANIObject flags.
const (
	FlagPlaying = 0x1
	// FlagDelayed is set while a queue waits out a TrySetMessageQueue
	// countdown.
	FlagDelayed  = 0x2
	FlagVisible  = 0x4
	FlagMirrored = 0x8
	// FlagStartPending is set by Show2; the next Update starts playing.
	FlagStartPending = 0x20
	FlagReversed     = 0x40
	FlagLocked       = 0x80
)

// HitDisabled in HitMask excludes the object from pixel hit tests.
const HitDisabled = 0x1

// GameObject holds the identity and placement shared by every scene
// object.
type GameObject struct {
	ID   int
	Name string
	// KeyCode tells apart instances sharing one ID.
	KeyCode  int
	OX, OY   int
	Priority int
}

// StaticANIObject is an animated scene actor. At any time it either rests
// in a Statics pose or plays a Movement.
type StaticANIObject struct {
	GameObject

	Flags   int
	QueueID int
	HitMask int

	Stepper    PhaseStepper
	Positioner PhasePositioner
	Graph      Graph

	statics  *Statics
	movement *Movement

	staticsList []*Statics
	movements   []*Movement

	steps      []image.Point
	animEx     bool
	messageNum int

	bus *message.Bus
	log *zap.Logger
}

func NewStaticANIObject(bus *message.Bus, id int, name string) *StaticANIObject {
	return &StaticANIObject{
		GameObject: GameObject{ID: id, Name: name},
		Graph:      DirectGraph{},
		bus:        bus,
		log:        bus.Logger().With(zap.String("obj", name)),
	}
}

func (a *StaticANIObject) AddStatics(st *Statics) {
	a.staticsList = append(a.staticsList, st)
	if a.statics == nil {
		a.statics = st
	}
}

func (a *StaticANIObject) AddMovement(m *Movement) {
	a.movements = append(a.movements, m)
}

func (a *StaticANIObject) Statics() *Statics { return a.statics }

func (a *StaticANIObject) Movement() *Movement { return a.movement }

func (a *StaticANIObject) Movements() []*Movement { return a.movements }

func (a *StaticANIObject) StaticsList() []*Statics { return a.staticsList }

func (a *StaticANIObject) StaticsByID(id int) *Statics {
	for _, st := range a.staticsList {
		if st.ID == id {
			return st
		}
	}
	return nil
}

func (a *StaticANIObject) StaticsByName(name string) *Statics {
	for _, st := range a.staticsList {
		if st.Name == name {
			return st
		}
	}
	return nil
}

// MovementByID returns the movement with the given id, resolving derived
// movements against their base on first use.
func (a *StaticANIObject) MovementByID(id int) *Movement {
	for _, m := range a.movements {
		if m.ID != id {
			continue
		}
		if !m.resolved() && !a.resolve(m) {
			return nil
		}
		return m
	}
	return nil
}

func (a *StaticANIObject) MovementByName(name string) *Movement {
	for _, m := range a.movements {
		if m.Name == name {
			return a.MovementByID(m.ID)
		}
	}
	return nil
}

func (a *StaticANIObject) resolve(m *Movement) bool {
	for _, base := range a.movements {
		if base.ID == m.BaseID && !base.IsDerived() {
			m.derive(base)
			return true
		}
	}
	a.log.Warn("derived movement without base", zap.Int("movement", m.ID), zap.Int("base", m.BaseID))
	return false
}

func (a *StaticANIObject) IsVisible() bool { return a.Flags&FlagVisible != 0 }

func (a *StaticANIObject) IsPlaying() bool { return a.Flags&FlagPlaying != 0 }

// IsIdle reports whether the object can accept a new queue: it is busy only
// while an exclusive queue is attached.
func (a *StaticANIObject) IsIdle() bool {
	if a.QueueID == 0 {
		return true
	}
	q := a.bus.Queues.ByID(a.QueueID)
	return q == nil || !q.IsExclusive()
}

func (a *StaticANIObject) SetOXY(x, y int) {
	a.OX, a.OY = x, y
	if a.movement != nil {
		a.movement.SetOXY(x, y)
	}
}

// anchor of what is currently displayed.
func (a *StaticANIObject) anchor() image.Point {
	if a.movement != nil {
		return a.movement.CurrPhaseXY()
	}
	if a.statics != nil {
		return a.statics.Anchor
	}
	return image.Point{}
}

// CurrPhase is the frame currently displayed.
func (a *StaticANIObject) CurrPhase() *StaticPhase {
	if a.movement != nil {
		if ph := a.movement.CurrDynamicPhase(); ph != nil {
			return &ph.StaticPhase
		}
		return nil
	}
	if a.statics != nil {
		return &a.statics.StaticPhase
	}
	return nil
}

func (a *StaticANIObject) setStatics(st *Statics) {
	a.statics = st
	a.movement = nil
	a.Flags &^= FlagPlaying | FlagStartPending
	if st.IsMirrored() {
		a.Flags |= FlagMirrored
	} else {
		a.Flags &^= FlagMirrored
	}
	st.Countdown = st.InitialCountdown
}

func (a *StaticANIObject) SetReversed(reversed bool) {
	if reversed {
		a.Flags |= FlagReversed
	} else {
		a.Flags &^= FlagReversed
	}
}

func (a *StaticANIObject) stepper() PhaseStepper {
	if a.Stepper != nil {
		return a.Stepper
	}
	if a.Flags&FlagReversed != 0 {
		return ReverseStepper{}
	}
	return nil
}

// releaseQueue detaches the attached queue and reports one completion to
// it.
func (a *StaticANIObject) releaseQueue() {
	id := a.QueueID
	a.QueueID = 0
	a.bus.UpdateQueue(id)
}

// send dispatches a copy of a phase command at once. Events are addressed
// to the object itself.
func (a *StaticANIObject) send(ex *message.ExCommand) {
	c := ex.Clone()
	if c.Kind == message.KindEvent {
		c.ParentID = a.ID
		c.KeyCode = a.KeyCode
	}
	a.bus.Send(c)
}

// StartAnim begins playing movementID and attaches queueID, which is
// completed when the movement stops. On failure queueID is completed
// immediately so that nothing waits on it forever. A dynPhaseIdx other than
// -1 jumps straight to that phase; the phases before it do not fire.
func (a *StaticANIObject) StartAnim(movementID, queueID, dynPhaseIdx int) bool {
	if a.Flags&FlagLocked != 0 || a.QueueID != 0 {
		a.log.Debug("start refused", zap.Int("movement", movementID), zap.Int("queue", queueID), zap.Int("flags", a.Flags))
		a.bus.UpdateQueue(queueID)
		return false
	}

	m := a.MovementByID(movementID)
	if m == nil || m.PhaseCount() == 0 {
		a.log.Warn("unknown movement", zap.Int("movement", movementID))
		a.bus.UpdateQueue(queueID)
		return false
	}

	if m == a.movement {
		a.Flags |= FlagPlaying
		a.QueueID = queueID
		return true
	}

	topLeft := image.Pt(a.OX, a.OY).Sub(a.anchor())

	a.movement = m
	a.steps = nil
	a.animEx = false

	reversed := a.Flags&FlagReversed != 0
	if reversed {
		m.GotoLastFrame()
	} else {
		m.GotoFirstFrame()
	}
	var sound *message.ExCommand
	if !reversed && m.CurrIndex() == 0 {
		topLeft = topLeft.Add(image.Pt(m.MX, m.MY))
		if ex := m.CurrDynamicPhase().ExCommand; ex != nil && ex.Kind == message.KindSound {
			sound = ex
		}
	}
	a.SetOXY(topLeft.X+m.CurrPhaseXY().X, topLeft.Y+m.CurrPhaseXY().Y)

	if m.StaticsObj2 != nil && m.StaticsObj2.IsMirrored() {
		a.Flags |= FlagMirrored
	} else {
		a.Flags &^= FlagMirrored
	}
	a.Flags |= FlagPlaying
	a.Flags &^= FlagStartPending
	m.Counter = 0

	if dynPhaseIdx != -1 {
		a.SetPhaseIndex(dynPhaseIdx)
	}

	a.QueueID = queueID
	a.log.Debug("start", zap.Int("movement", m.ID), zap.Int("queue", queueID))
	a.bus.Post(message.NewEvent(a.ID, a.KeyCode, message.EventAnimStarted))
	if sound != nil {
		a.send(sound)
	}
	return true
}

// StartAnimEx plays movementID and, once it stops, continues with the
// movement leaving the reached pose before completing queueID.
func (a *StaticANIObject) StartAnimEx(movementID, queueID, dynPhaseIdx int) bool {
	if !a.StartAnim(movementID, queueID, dynPhaseIdx) {
		return false
	}
	a.animEx = true
	return true
}

// StartAnimSteps plays movementID, shifting the object by one point of
// steps each time it reaches a new phase.
func (a *StaticANIObject) StartAnimSteps(movementID, queueID, dynPhaseIdx int, steps []image.Point) bool {
	if !a.StartAnim(movementID, queueID, dynPhaseIdx) {
		return false
	}
	a.steps = append([]image.Point(nil), steps...)
	return true
}

func (a *StaticANIObject) SetPhaseIndex(idx int) {
	if a.movement == nil {
		return
	}
	a.movement.SetDynamicPhaseIndex(idx)
	a.OX, a.OY = a.movement.OX, a.movement.OY
}

// Update advances the object by counterdiff counter units.
func (a *StaticANIObject) Update(counterdiff int) {
	if a.Flags&FlagDelayed != 0 {
		a.messageNum--
		if a.messageNum > 0 {
			return
		}
		a.Flags &^= FlagDelayed
		a.releaseQueue()
		return
	}

	m := a.movement
	if m == nil {
		if a.statics != nil && a.QueueID != 0 {
			if a.statics.Countdown > 0 {
				a.statics.Countdown--
				return
			}
			a.releaseQueue()
		}
		return
	}

	m.Counter += counterdiff
	if m.Counter < m.CounterMax {
		return
	}
	m.Counter = 0

	switch {
	case a.Flags&FlagPlaying != 0:
		phase := m.CurrDynamicPhase()
		if phase.Countdown == phase.InitialCountdown {
			// handlers may stop or restart the object
			if phase.ExCommand != nil && phase.ExCommand.Kind != message.KindSound {
				a.send(phase.ExCommand)
				if a.movement != m {
					return
				}
			}
			if phase.EventNum != 0 {
				a.bus.Send(message.NewEvent(a.ID, a.KeyCode, phase.EventNum))
				if a.movement != m {
					return
				}
			}
		}

		old := m.CurrIndex()
		if !m.GotoNextFrame(a.Positioner, a.stepper()) {
			a.StopAnim()
			return
		}
		advanced := m.CurrIndex() != old
		if advanced && len(a.steps) > 0 {
			m.OX += a.steps[0].X
			m.OY += a.steps[0].Y
			a.steps = a.steps[1:]
		}
		a.OX, a.OY = m.OX, m.OY
		if advanced {
			if ex := m.CurrDynamicPhase().ExCommand; ex != nil && ex.Kind == message.KindSound {
				a.send(ex)
			}
		}

	case a.Flags&FlagStartPending != 0:
		a.Flags &^= FlagStartPending
		a.Flags |= FlagPlaying
		m.GotoFirstFrame()
		a.OX, a.OY = m.OX, m.OY
	}
}

// StopAnim ends the current movement and settles the object on the pose
// the movement ended on.
func (a *StaticANIObject) StopAnim() {
	m := a.movement
	if m == nil {
		return
	}
	a.Flags &^= FlagPlaying

	topLeft := image.Pt(m.OX, m.OY).Sub(m.CurrPhaseXY())
	st := a.statics
	switch {
	case a.Flags&FlagReversed == 0:
		st = m.StaticsObj2
	case m.CurrIndex() == 0:
		st = m.StaticsObj1
		topLeft = topLeft.Sub(image.Pt(m.MX, m.MY))
	}

	a.movement = nil
	a.steps = nil
	if st != nil {
		a.setStatics(st)
		topLeft = topLeft.Add(st.Anchor)
	}
	a.OX, a.OY = topLeft.X, topLeft.Y

	a.log.Debug("stop", zap.Int("movement", m.ID), zap.Int("queue", a.QueueID))
	a.bus.Post(message.NewEvent(a.ID, a.KeyCode, message.EventAnimStopped))

	if a.animEx {
		a.animEx = false
		if next := a.movementFrom(st); next != nil {
			id := a.QueueID
			a.QueueID = 0
			a.StartAnim(next.ID, id, -1)
			return
		}
	}
	a.releaseQueue()
}

// movementFrom returns the first movement starting at st.
func (a *StaticANIObject) movementFrom(st *Statics) *Movement {
	if st == nil {
		return nil
	}
	for _, m := range a.movements {
		if m.StaticsObj1 == st {
			return a.MovementByID(m.ID)
		}
	}
	return nil
}

// IsPixelHit reports whether the world point x, y lands on a drawn pixel of
// the visible frame.
func (a *StaticANIObject) IsPixelHit(x, y int) bool {
	if !a.IsVisible() || a.HitMask&HitDisabled != 0 {
		return false
	}
	ph := a.CurrPhase()
	if ph == nil {
		return false
	}
	local := image.Pt(x, y).Sub(image.Pt(a.OX, a.OY)).Add(ph.Anchor)
	return ph.IsPixelHit(local.X, local.Y)
}

// Clone returns a new instance of the object with its own poses and
// movements.
func (a *StaticANIObject) Clone(keyCode int) *StaticANIObject {
	c := &StaticANIObject{
		GameObject: a.GameObject,
		Flags:      a.Flags &^ (FlagPlaying | FlagDelayed | FlagStartPending),
		HitMask:    a.HitMask,
		Stepper:    a.Stepper,
		Positioner: a.Positioner,
		Graph:      a.Graph,
		bus:        a.bus,
		log:        a.log,
	}
	c.KeyCode = keyCode

	byPtr := map[*Statics]*Statics{}
	remap := func(st *Statics) *Statics {
		if st == nil {
			return nil
		}
		if n, ok := byPtr[st]; ok {
			return n
		}
		n := st.clone()
		byPtr[st] = n
		return n
	}
	for _, st := range a.staticsList {
		c.staticsList = append(c.staticsList, remap(st))
	}
	for _, m := range a.movements {
		c.movements = append(c.movements, m.clone(remap))
	}
	c.statics = remap(a.statics)
	return c
}

func (a *StaticANIObject) LoadPixelData() error {
	for _, st := range a.staticsList {
		if _, err := st.LoadPixelData(); err != nil && err != ErrNoPixelData {
			return err
		}
	}
	for _, m := range a.movements {
		if err := m.LoadPixelData(); err != nil {
			return err
		}
	}
	return nil
}

func (a *StaticANIObject) FreePixelData() {
	for _, st := range a.staticsList {
		st.FreePixelData()
	}
	for _, m := range a.movements {
		m.FreePixelData()
	}
}
