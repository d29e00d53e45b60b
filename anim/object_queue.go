package anim

import (
	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/message"
)

// QueueMessageQueue replaces whatever queue the object is bound to with q.
// q starts once the current movement stops, or right away when the object
// rests. A nil q just detaches. It fails on locked or busy objects.
func (a *StaticANIObject) QueueMessageQueue(q *message.MessageQueue) bool {
	if a.Flags&FlagLocked != 0 || !a.IsIdle() {
		return false
	}

	a.DeleteFromGlobalMessageQueue()
	a.messageNum = 0
	a.Flags &^= FlagDelayed
	a.animEx = false

	if q == nil {
		return true
	}
	if a.movement != nil {
		a.QueueID = q.ID
	} else {
		q.SendNextCommand()
	}
	return true
}

// TrySetMessageQueue holds queueID for num ticks before completing it.
func (a *StaticANIObject) TrySetMessageQueue(num, queueID int) bool {
	if a.QueueID != 0 {
		a.bus.UpdateQueue(queueID)
		return false
	}
	if num <= 0 {
		a.bus.UpdateQueue(queueID)
		return true
	}
	a.QueueID = queueID
	a.messageNum = num
	a.Flags |= FlagDelayed
	return true
}

// DeleteFromGlobalMessageQueue abandons the attached queue.
func (a *StaticANIObject) DeleteFromGlobalMessageQueue() {
	if a.QueueID == 0 {
		return
	}
	id := a.QueueID
	a.QueueID = 0
	if q := a.bus.Queues.ByID(id); q != nil {
		a.log.Debug("drop queue", zap.Int("queue", id))
		q.Delete()
	}
}

// Show1 makes the object visible. A movementID other than -1 puts it at
// rest on the pose that movement starts from. x and y of -1 keep the
// position. queueID completes once the pose has been displayed for its
// countdown.
func (a *StaticANIObject) Show1(x, y, movementID, queueID int) {
	if a.QueueID != 0 {
		a.bus.UpdateQueue(queueID)
		return
	}

	a.Flags |= FlagVisible
	if movementID != -1 {
		if m := a.MovementByID(movementID); m != nil && m.StaticsObj1 != nil {
			a.setStatics(m.StaticsObj1)
		}
	}
	if x != -1 && y != -1 {
		a.SetOXY(x, y)
	}

	if queueID == 0 {
		return
	}
	if a.statics == nil || a.movement != nil {
		a.bus.UpdateQueue(queueID)
		return
	}
	a.statics.Countdown = a.statics.InitialCountdown
	a.QueueID = queueID
}

// Show2 makes a hidden object appear on the first phase of movementID. The
// movement starts playing on the next Update.
func (a *StaticANIObject) Show2(x, y, movementID, queueID int) {
	if a.IsVisible() {
		a.bus.UpdateQueue(queueID)
		return
	}
	m := a.MovementByID(movementID)
	if m == nil || m.PhaseCount() == 0 {
		a.bus.UpdateQueue(queueID)
		return
	}

	a.movement = m
	a.steps = nil
	a.animEx = false
	m.GotoFirstFrame()
	m.Counter = 0
	a.SetOXY(x, y)

	a.Flags |= FlagVisible | FlagStartPending
	a.Flags &^= FlagPlaying
	if m.StaticsObj2 != nil && m.StaticsObj2.IsMirrored() {
		a.Flags |= FlagMirrored
	}
	a.QueueID = queueID
	a.bus.Post(message.NewEvent(a.ID, a.KeyCode, message.EventAnimStarted))
}

func (a *StaticANIObject) Hide() {
	a.Flags &^= FlagVisible | FlagStartPending
}

// PlayIdle snaps a moving object onto the end pose of its movement.
func (a *StaticANIObject) PlayIdle() {
	if !a.IsIdle() || a.movement == nil {
		return
	}
	m := a.movement
	if m.StaticsObj2 == nil {
		return
	}
	anchor := m.CurrPhaseXY()
	x, y := m.OX-anchor.X, m.OY-anchor.Y
	a.setStatics(m.StaticsObj2)
	a.steps = nil
	a.animEx = false
	a.OX = x + a.statics.Anchor.X
	a.OY = y + a.statics.Anchor.Y
}

// ChangeStatics2 puts the object on staticsID without animating and
// abandons any attached queue.
func (a *StaticANIObject) ChangeStatics2(staticsID int) bool {
	a.DeleteFromGlobalMessageQueue()
	a.Flags &^= FlagDelayed
	if !a.Graph.PutObjectToStatics(a, staticsID) {
		a.log.Warn("unknown statics", zap.Int("statics", staticsID))
		return false
	}
	return true
}

// ChangeStatics1 starts an animated transition to staticsID and returns
// the registered queue driving it, or nil when the transition is
// impossible right now. An empty queue means the object already rests on
// staticsID; it is bound to a playing object and otherwise left for the
// caller to send.
func (a *StaticANIObject) ChangeStatics1(staticsID int) *message.MessageQueue {
	q := a.Graph.MakeQueue(a.bus, a, staticsID)
	if q == nil {
		return nil
	}

	if q.Count() == 0 {
		if a.IsPlaying() && a.QueueID == 0 {
			a.QueueID = q.ID
		}
		return q
	}
	if !a.QueueMessageQueue(q) {
		a.bus.Queues.Remove(q)
		return nil
	}
	return q
}
