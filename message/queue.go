package message

import (
	"go.uber.org/zap"
)

// Queue flags.
const (
	// QueueFlagExclusive makes the queue block other queues from driving
	// the actors its commands address.
	QueueFlagExclusive = 1
	// QueueFlagListed is set while the queue is held by the QueueList.
	QueueFlagListed = 2
	// QueueFlagDispatched is set once the queue has sent a command.
	QueueFlagDispatched = 4
)

// Queuer accepts a queue for deferred start, typically an animated object
// that fires the queue once its current movement ends.
type Queuer interface {
	QueueMessageQueue(q *MessageQueue) bool
}

// MessageQueue is an ordered, resumable script of commands. It sends one
// command at a time and only advances when the in-flight command reports
// completion through Update.
type MessageQueue struct {
	ID       int
	DataID   int
	ParentID int
	Name     string
	Flags    int

	IsFinished bool
	// Successor changes how completion is reported to the parent: the
	// parent's counter is decremented instead of the parent being updated.
	Successor bool

	counter  int
	commands []*ExCommand

	bus *Bus
}

// NewTemplate creates an unregistered template queue as stored in scene
// data. Templates are never dispatched directly; clone them with
// NewQueueFrom.
func NewTemplate(dataID int, name string, flags int, commands ...*ExCommand) *MessageQueue {
	return &MessageQueue{
		ID:       -1,
		DataID:   dataID,
		Name:     name,
		Flags:    flags,
		commands: commands,
	}
}

// NewQueue creates and registers an empty runtime queue.
func NewQueue(bus *Bus, dataID int) *MessageQueue {
	q := &MessageQueue{
		ID:     bus.Queues.Compact(),
		DataID: dataID,
		bus:    bus,
	}
	bus.Queues.Add(q)
	return q
}

// NewQueueFrom deep-clones src into a registered runtime queue. A zero
// parentID inherits the parent of src.
func NewQueueFrom(bus *Bus, src *MessageQueue, parentID int) *MessageQueue {
	q := &MessageQueue{
		DataID:   src.DataID,
		ParentID: src.ParentID,
		Name:     src.Name,
		Flags:    src.Flags &^ (QueueFlagListed | QueueFlagDispatched),
		commands: make([]*ExCommand, 0, len(src.commands)),
		bus:      bus,
	}
	for _, ex := range src.commands {
		q.commands = append(q.commands, ex.Clone())
	}
	if parentID != 0 {
		q.ParentID = parentID
	}
	q.ID = bus.Queues.Compact()
	bus.Queues.Add(q)
	return q
}

func (q *MessageQueue) Counter() int { return q.counter }

func (q *MessageQueue) Count() int { return len(q.commands) }

func (q *MessageQueue) IsExclusive() bool { return q.Flags&QueueFlagExclusive != 0 }

func (q *MessageQueue) ExCommandByIndex(i int) *ExCommand {
	if i < 0 || i >= len(q.commands) {
		return nil
	}
	return q.commands[i]
}

func (q *MessageQueue) AddExCommandToEnd(ex *ExCommand) {
	q.commands = append(q.commands, ex)
}

// InsertExCommandAt inserts ex before position pos. Positions past the end
// append.
func (q *MessageQueue) InsertExCommandAt(pos int, ex *ExCommand) {
	if pos < 0 {
		pos = 0
	}
	if pos >= len(q.commands) {
		q.commands = append(q.commands, ex)
		return
	}
	q.commands = append(q.commands[:pos+1], q.commands[pos:]...)
	q.commands[pos] = ex
}

func (q *MessageQueue) DeleteExCommandByIndex(i int) *ExCommand {
	if i < 0 || i >= len(q.commands) {
		return nil
	}
	ex := q.commands[i]
	q.commands = append(q.commands[:i], q.commands[i+1:]...)
	return ex
}

// MergeQueue moves every command of other to the end of q.
func (q *MessageQueue) MergeQueue(other *MessageQueue) {
	q.commands = append(q.commands, other.commands...)
	other.commands = nil
}

// ReplaceKeyCode retargets object-addressing commands from instance key
// from to instance key to.
func (q *MessageQueue) ReplaceKeyCode(from, to int) {
	for _, ex := range q.commands {
		if ex.Kind.rekeyable() && ex.KeyCode == from {
			ex.KeyCode = to
		}
	}
}

// DisableCommandsOfKind turns every command of the given kind into a no-op
// that completes on dispatch.
func (q *MessageQueue) DisableCommandsOfKind(kind Kind) {
	for _, ex := range q.commands {
		if ex.Kind == kind {
			ex.Kind = 0
			ex.ExcFlags |= ExcFlagNoWait
		}
	}
}

// SendNextCommand dispatches the front command, or finishes the queue when
// nothing is pending and nothing is in flight.
func (q *MessageQueue) SendNextCommand() {
	if len(q.commands) > 0 {
		ex := q.commands[0]
		q.commands[0] = nil
		q.commands = q.commands[1:]

		q.counter++
		ex.ParID = q.ID
		if !ex.Wait {
			ex.ExcFlags |= ExcFlagNoWait
		}
		q.Flags |= QueueFlagDispatched
		q.bus.Send(ex)
		return
	}
	if q.counter <= 0 {
		q.IsFinished = true
		q.finish()
	}
}

// Update reports completion of one in-flight command.
func (q *MessageQueue) Update() {
	if q.counter > 0 {
		q.counter--
	}
	if len(q.commands) > 0 {
		q.SendNextCommand()
	} else if q.counter == 0 {
		q.IsFinished = true
		q.finish()
	}
}

func (q *MessageQueue) finish() {
	if q.ParentID == 0 || q.bus == nil {
		return
	}
	parent := q.bus.Queues.ByID(q.ParentID)
	q.ParentID = 0
	if parent == nil {
		return
	}
	if !q.Successor {
		parent.Update()
		return
	}
	parent.counter--
	if parent.counter == 0 && len(parent.commands) == 0 {
		parent.Update()
	}
}

// Chain registers the queue and starts it, either deferred on obj or
// immediately when obj is nil. It reports false when another exclusive
// queue already drives one of the addressed actors; the caller then owns
// the queue and should Delete it.
func (q *MessageQueue) Chain(obj Queuer) bool {
	if !q.CheckGlobalExCommandList1() || !q.CheckGlobalExCommandList2() {
		q.bus.log.Debug("chain conflict", zap.Int("queue", q.ID), zap.Int("data", q.DataID))
		return false
	}
	if q.Flags&QueueFlagListed == 0 {
		q.bus.Queues.Add(q)
	}
	if obj == nil {
		q.SendNextCommand()
		return true
	}
	if !obj.QueueMessageQueue(q) {
		q.bus.Queues.Remove(q)
		return false
	}
	return true
}

// HasConflict reports whether a pending movement-class command addresses
// the same actor as one of q's commands while its owning queue is
// exclusive.
func (q *MessageQueue) HasConflict() bool {
	for _, ex := range q.commands {
		if !ex.Kind.IsMovement() {
			continue
		}
		for _, pending := range q.bus.pending {
			if !ex.conflictsWith(pending) {
				continue
			}
			if owner := q.bus.Queues.ByID(pending.ParID); owner != nil && owner.IsExclusive() {
				return true
			}
		}
	}
	return false
}

// PruneStale drops pending commands that address the same actors as q,
// deleting their owning queues.
func (q *MessageQueue) PruneStale() {
	for _, ex := range q.commands {
		if !ex.Kind.IsMovement() {
			continue
		}
		for i := 0; i < len(q.bus.pending); {
			pending := q.bus.pending[i]
			if !ex.conflictsWith(pending) {
				i++
				continue
			}
			q.bus.removePending(i)
			if owner := q.bus.Queues.ByID(pending.ParID); owner != nil && owner != q {
				q.bus.log.Debug("prune stale queue", zap.Int("queue", owner.ID), zap.Stringer("kind", pending.Kind))
				owner.Delete()
			}
		}
	}
}

func (q *MessageQueue) CheckGlobalExCommandList1() bool {
	return !q.HasConflict()
}

// CheckGlobalExCommandList2 prunes stale conflicting commands, but only
// once the whole queue is known to be conflict free.
func (q *MessageQueue) CheckGlobalExCommandList2() bool {
	if q.HasConflict() {
		return false
	}
	q.PruneStale()
	return true
}

// Delete abandons the queue: it is unregistered, its children are
// orphaned and its parent is notified.
func (q *MessageQueue) Delete() {
	q.commands = nil
	if q.bus == nil {
		return
	}
	if q.Flags&QueueFlagListed != 0 {
		q.bus.Queues.Remove(q)
	}
	q.finish()
}
