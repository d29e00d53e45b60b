// Package scene holds the actors and queue templates of one location and
// turns dispatched commands into actor operations.
package scene

import (
	"sort"

	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/gamevar"
	"github.com/32bitkid/fullpipe/message"
)

type Scene struct {
	ID   int
	Name string
	// X, Y is the scroll position.
	X, Y int

	Vars *gamevar.GameVar

	objects []*anim.StaticANIObject
	queues  []*message.MessageQueue

	bus *message.Bus
	log *zap.Logger
}

func New(bus *message.Bus, id int, name string, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{
		ID:   id,
		Name: name,
		Vars: gamevar.NewTree(name),
		bus:  bus,
		log:  log.With(zap.String("scene", name)),
	}
}

func (sc *Scene) Bus() *message.Bus { return sc.bus }

func (sc *Scene) Add(obj *anim.StaticANIObject) {
	sc.objects = append(sc.objects, obj)
}

func (sc *Scene) Objects() []*anim.StaticANIObject { return sc.objects }

// StaticANIObject1ByID finds an instance of object id. A keyCode of -1
// matches any instance.
func (sc *Scene) StaticANIObject1ByID(id, keyCode int) *anim.StaticANIObject {
	for _, obj := range sc.objects {
		if obj.ID == id && (keyCode == -1 || obj.KeyCode == keyCode) {
			return obj
		}
	}
	return nil
}

func (sc *Scene) StaticANIObject1ByName(name string, keyCode int) *anim.StaticANIObject {
	for _, obj := range sc.objects {
		if obj.Name == name && (keyCode == -1 || obj.KeyCode == keyCode) {
			return obj
		}
	}
	return nil
}

// StaticANIObjectsByName returns every instance named name.
func (sc *Scene) StaticANIObjectsByName(name string) []*anim.StaticANIObject {
	var objs []*anim.StaticANIObject
	for _, obj := range sc.objects {
		if obj.Name == name {
			objs = append(objs, obj)
		}
	}
	return objs
}

func (sc *Scene) AddMessageQueue(tmpl *message.MessageQueue) {
	sc.queues = append(sc.queues, tmpl)
}

// MessageQueueByID returns the template with the given data id. Templates
// must be cloned before they are sent.
func (sc *Scene) MessageQueueByID(dataID int) *message.MessageQueue {
	for _, q := range sc.queues {
		if q.DataID == dataID {
			return q
		}
	}
	return nil
}

func (sc *Scene) MessageQueueByName(name string) *message.MessageQueue {
	for _, q := range sc.queues {
		if q.Name == name {
			return q
		}
	}
	return nil
}

// Update ticks every object, highest priority first.
func (sc *Scene) Update(counterdiff int) {
	objs := append([]*anim.StaticANIObject(nil), sc.objects...)
	sort.SliceStable(objs, func(i, j int) bool {
		return objs[i].Priority > objs[j].Priority
	})
	for _, obj := range objs {
		obj.Update(counterdiff)
	}
}

// ChainQueue starts a clone of template dataID with extra flags.
func (sc *Scene) ChainQueue(dataID, flags int) bool {
	return sc.ChainObjQueue(nil, dataID, flags)
}

// ChainObjQueue starts a clone of template dataID on obj, or immediately
// when obj is nil.
func (sc *Scene) ChainObjQueue(obj *anim.StaticANIObject, dataID, flags int) bool {
	tmpl := sc.MessageQueueByID(dataID)
	if tmpl == nil {
		sc.log.Warn("queue template not found", zap.Int("queue", dataID))
		return false
	}

	q := message.NewQueueFrom(sc.bus, tmpl, 0)
	q.Flags |= flags

	var target message.Queuer
	if obj != nil {
		target = obj
	}
	if !q.Chain(target) {
		q.Delete()
		return false
	}
	return true
}

// QueueDuration is the total playing time of the movements a template
// starts.
func (sc *Scene) QueueDuration(tmpl *message.MessageQueue) int {
	total := 0
	for i := 0; i < tmpl.Count(); i++ {
		ex := tmpl.ExCommandByIndex(i)
		if ex.Kind != message.KindStartAnim && ex.Kind != message.KindStartAnimSteps && ex.Kind != message.KindStartAnimEx {
			continue
		}
		obj := sc.StaticANIObject1ByID(ex.ParentID, ex.KeyCode)
		if obj == nil {
			continue
		}
		if mov := obj.MovementByID(ex.Num); mov != nil {
			total += mov.Duration()
		}
	}
	return total
}
