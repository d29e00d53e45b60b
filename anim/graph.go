package anim

import (
	"github.com/32bitkid/fullpipe/message"
)

// Graph moves objects between rest poses. PutObjectToStatics swaps the pose
// immediately; MakeQueue registers a queue of movements that walks the
// object from its current pose to the target, or returns nil when the
// target cannot be reached.
type Graph interface {
	PutObjectToStatics(obj *StaticANIObject, staticsID int) bool
	MakeQueue(bus *message.Bus, obj *StaticANIObject, staticsID int) *message.MessageQueue
}

// DirectGraph only knows single movements that connect two poses directly.
type DirectGraph struct{}

func (DirectGraph) PutObjectToStatics(obj *StaticANIObject, staticsID int) bool {
	st := obj.StaticsByID(staticsID)
	if st == nil {
		return false
	}
	obj.setStatics(st)
	return true
}

func (DirectGraph) MakeQueue(bus *message.Bus, obj *StaticANIObject, staticsID int) *message.MessageQueue {
	curr := obj.Statics()
	if curr != nil && curr.ID == staticsID {
		return message.NewQueue(bus, 0)
	}

	for _, m := range obj.Movements() {
		if m.StaticsObj1 == nil || m.StaticsObj2 == nil {
			continue
		}
		if m.StaticsObj1 != curr || m.StaticsObj2.ID != staticsID {
			continue
		}
		ex := message.NewExCommand(obj.ID, message.KindStartAnim, m.ID, 0, 0, true)
		ex.KeyCode = obj.KeyCode
		q := message.NewQueue(bus, 0)
		q.AddExCommandToEnd(ex)
		return q
	}
	return nil
}
