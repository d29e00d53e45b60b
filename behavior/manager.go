package behavior

import (
	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/gamevar"
	"github.com/32bitkid/fullpipe/message"
)

const behaviorVar = "BEHAVIOR"
const ambientVar = "AMBIENT"

// Manager owns the behavior tables of the loaded scene and fires them once
// per tick.
type Manager struct {
	bus *message.Bus
	rnd Random
	log *zap.Logger

	infos  []*Info
	active bool
}

func NewManager(bus *message.Bus, rnd Random, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		bus: bus,
		rnd: rnd,
		log: log,
	}
}

func (m *Manager) Clear() {
	m.infos = nil
	m.active = false
}

func (m *Manager) SetActive(active bool) { m.active = active }

func (m *Manager) IsActive() bool { return m.active }

func (m *Manager) Behaviors() []*Info { return m.infos }

// InitBehavior rebuilds the tables from the BEHAVIOR sub-var of root.
func (m *Manager) InitBehavior(sc Scene, root *gamevar.GameVar) {
	m.Clear()
	m.active = true
	if root == nil {
		return
	}
	beh := root.SubVarByName(behaviorVar)
	if beh == nil {
		return
	}

	for _, v := range beh.SubVars() {
		if v.Name == ambientVar {
			m.infos = append(m.infos, newAmbientInfo(v, sc, m.log))
			continue
		}

		actors := sc.StaticANIObjectsByName(v.Name)
		if len(actors) == 0 {
			m.log.Warn("behavior actor not found", zap.String("obj", v.Name))
			continue
		}
		for _, ani := range actors {
			m.infos = append(m.infos, newObjectInfo(v, sc, ani, m.log))
		}
	}
	m.log.Debug("behaviors loaded", zap.Int("count", len(m.infos)))
}

// UpdateBehaviors runs one tick of every behavior.
func (m *Manager) UpdateBehaviors() {
	if !m.active {
		return
	}

	for _, b := range m.infos {
		if b.Ani == nil {
			b.Counter++
			if b.Counter >= b.CounterMax && len(b.Entries) > 0 {
				m.updateBehavior(b, b.Entries[0])
			}
			continue
		}

		ani := b.Ani
		if ani.Movement() != nil || !ani.IsVisible() || ani.Flags&anim.FlagDelayed != 0 || ani.Statics() == nil {
			b.StaticsID = 0
			continue
		}

		if ani.Statics().ID == b.StaticsID {
			b.Counter++
			if b.Counter >= b.CounterMax && b.SubIndex >= 0 && b.Flags&InfoDisabled == 0 && ani.QueueID == 0 {
				m.updateStaticAniBehavior(ani, b.Counter, b.Entries[b.SubIndex])
			}
			continue
		}

		b.StaticsID = ani.Statics().ID
		b.Counter = 0
		b.SubIndex = b.entryFor(b.StaticsID)
	}
}

// updateBehavior fires ambient items: autostart items once, the others by
// delay and chance.
func (m *Manager) updateBehavior(b *Info, e *Entry) {
	for _, item := range e.Items {
		if item.Flags&ItemDisabled != 0 {
			continue
		}
		if item.Flags&ItemAutostart != 0 {
			m.start(item.Queue)
			item.Flags &^= ItemAutostart
			continue
		}
		if b.Counter >= item.Delay && item.Percent != 0 && m.roll() <= item.Percent {
			m.start(item.Queue)
			b.Counter = 0
		}
	}
}

func (m *Manager) start(tmpl *message.MessageQueue) {
	q := message.NewQueueFrom(m.bus, tmpl, 0)
	q.SendNextCommand()
}

func (m *Manager) roll() int {
	return m.rnd.Intn(PercentMax + 1)
}

func (m *Manager) updateStaticAniBehavior(ani *anim.StaticANIObject, delay int, e *Entry) {
	item := m.pick(delay, e)
	if item == nil {
		return
	}

	q := message.NewQueueFrom(m.bus, item.Queue, 0)
	q.ReplaceKeyCode(-1, ani.KeyCode)
	if !q.Chain(ani) {
		m.log.Debug("behavior refused", zap.String("obj", ani.Name), zap.Int("queue", item.Queue.DataID))
		q.Delete()
	}
}

// pick selects the item to fire. Weighted entries roll once and take the
// item whose percent range holds the roll, falling back to the last
// eligible item. Other entries take the first item past its delay that
// wins its own roll.
func (m *Manager) pick(delay int, e *Entry) *EntryInfo {
	if e.Flags&EntryWeighted != 0 {
		roll := m.roll()
		run := 0
		var last *EntryInfo
		for _, item := range e.Items {
			if item.Flags&ItemDisabled != 0 || item.Percent == 0 {
				continue
			}
			if roll >= run && roll < run+item.Percent {
				return item
			}
			run += item.Percent
			last = item
		}
		return last
	}

	for _, item := range e.Items {
		if item.Flags&ItemDisabled != 0 || delay < item.Delay || item.Percent == 0 {
			continue
		}
		if m.roll() <= item.Percent {
			return item
		}
	}
	return nil
}

func (m *Manager) infoFor(ani *anim.StaticANIObject) *Info {
	for _, b := range m.infos {
		if b.Ani == ani {
			return b
		}
	}
	return nil
}

// SetBehaviorEnabled toggles the item of ani that plays queue queueDataID
// from pose staticsID.
func (m *Manager) SetBehaviorEnabled(ani *anim.StaticANIObject, staticsID, queueDataID int, enabled bool) {
	b := m.infoFor(ani)
	if b == nil {
		m.log.Warn("no behavior for object", zap.String("obj", ani.Name))
		return
	}
	idx := b.entryFor(staticsID)
	if idx < 0 {
		m.log.Warn("no behavior for statics", zap.String("obj", ani.Name), zap.Int("statics", staticsID))
		return
	}
	for _, item := range b.Entries[idx].Items {
		if item.Queue.DataID != queueDataID {
			continue
		}
		if enabled {
			item.Flags &^= ItemDisabled
		} else {
			item.Flags |= ItemDisabled
		}
		return
	}
	m.log.Warn("no behavior for queue", zap.String("obj", ani.Name), zap.Int("queue", queueDataID))
}

// SetFlagByStaticAniObject suspends or resumes every behavior of ani.
func (m *Manager) SetFlagByStaticAniObject(ani *anim.StaticANIObject, enabled bool) {
	for _, b := range m.infos {
		if b.Ani != ani {
			continue
		}
		if enabled {
			b.Flags &^= InfoDisabled
		} else {
			b.Flags |= InfoDisabled
		}
	}
}
