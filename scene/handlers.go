package scene

import (
	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/message"
)

type kindHandler func(sc *Scene, ex *message.ExCommand) bool

// object handlers receive the actor a command addresses.
type objHandler func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool

var kindHandlers = [64]kindHandler{
	message.KindStartAnim: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		idx := ex.Z
		if idx <= 0 {
			idx = -1
		}
		return obj.StartAnim(ex.Num, waitID(ex), idx)
	}),
	message.KindSetQueueDelayed: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		return obj.TrySetMessageQueue(ex.Num, waitID(ex))
	}),
	message.KindScrollY: func(sc *Scene, ex *message.ExCommand) bool {
		sc.Y = ex.Num
		sc.complete(ex)
		return true
	},
	message.KindScrollX: func(sc *Scene, ex *message.ExCommand) bool {
		sc.X = ex.Num
		sc.complete(ex)
		return true
	},
	message.KindShow: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		obj.Show1(ex.X, ex.Y, ex.Num, waitID(ex))
		if ex.Z > 0 {
			obj.Priority = ex.Z
		}
		return true
	}),
	message.KindHide: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		obj.Hide()
		sc.complete(ex)
		return true
	}),
	message.KindStartAnimEx: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		return obj.StartAnimEx(ex.Num, waitID(ex), -1)
	}),
	message.KindNop: func(sc *Scene, ex *message.ExCommand) bool {
		sc.complete(ex)
		return true
	},
	message.KindSetPhaseIndex: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		obj.SetPhaseIndex(ex.Num)
		sc.complete(ex)
		return true
	}),
	message.KindEvent: func(sc *Scene, ex *message.ExCommand) bool {
		fn := eventHandlers[ex.Num]
		if fn == nil {
			return false
		}
		obj := sc.StaticANIObject1ByID(ex.ParentID, ex.KeyCode)
		if obj == nil {
			return false
		}
		fn(obj, ex)
		return true
	},
	message.KindStartQueue: func(sc *Scene, ex *message.ExCommand) bool {
		tmpl := sc.MessageQueueByID(ex.Num)
		if tmpl == nil {
			sc.log.Warn("queue template not found", zap.Int("queue", ex.Num))
			sc.complete(ex)
			return false
		}
		q := message.NewQueueFrom(sc.bus, tmpl, ex.ParID)
		q.Successor = ex.ExcFlags&message.ExcFlagNoWait != 0
		q.SendNextCommand()
		return true
	},
	message.KindQueueToObject: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		defer sc.complete(ex)
		tmpl := sc.MessageQueueByID(ex.Num)
		if tmpl == nil {
			sc.log.Warn("queue template not found", zap.Int("queue", ex.Num))
			return false
		}
		q := message.NewQueueFrom(sc.bus, tmpl, 0)
		if !q.Chain(obj) {
			q.Delete()
			return false
		}
		return true
	}),
	message.KindStartAnimSteps: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		idx := ex.Z
		if idx <= 0 {
			idx = -1
		}
		return obj.StartAnimSteps(ex.Num, waitID(ex), idx, ex.Points)
	}),
	message.KindStopIdle: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		obj.QueueMessageQueue(nil)
		obj.PlayIdle()
		sc.complete(ex)
		return true
	}),
	message.KindChangeStatics: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		obj.Flags |= anim.FlagVisible
		ok := obj.ChangeStatics2(ex.Num)
		sc.complete(ex)
		return ok
	}),
	message.KindShowAndRename: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		obj.Show2(ex.X, ex.Y, ex.Num, waitID(ex))
		return true
	}),
	message.KindSetFlags: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		obj.Flags = ex.Num | (obj.Flags &^ ex.Z)
		sc.complete(ex)
		return true
	}),
	message.KindSound: func(sc *Scene, ex *message.ExCommand) bool {
		sc.log.Debug("sound", zap.Int("sound", ex.Num), zap.Int("obj", ex.ParentID))
		sc.complete(ex)
		return true
	},
	message.KindMoveObject: withObject(func(sc *Scene, obj *anim.StaticANIObject, ex *message.ExCommand) bool {
		obj.SetOXY(ex.X, ex.Y)
		sc.complete(ex)
		return true
	}),
}

// Events addressed to an object by KindEvent commands.
var eventHandlers = map[int]func(obj *anim.StaticANIObject, ex *message.ExCommand){
	message.EventSetReversed: func(obj *anim.StaticANIObject, ex *message.ExCommand) {
		obj.SetReversed(ex.Param != 0)
	},
	message.EventClearPhaseEvent: func(obj *anim.StaticANIObject, ex *message.ExCommand) {
		if mov := obj.Movement(); mov != nil {
			if ph := mov.CurrDynamicPhase(); ph != nil {
				ph.EventNum = 0
			}
		}
	},
	message.EventSetPriority: func(obj *anim.StaticANIObject, ex *message.ExCommand) {
		obj.Priority = ex.Z
	},
}

func withObject(fn objHandler) kindHandler {
	return func(sc *Scene, ex *message.ExCommand) bool {
		obj := sc.StaticANIObject1ByID(ex.ParentID, ex.KeyCode)
		if obj == nil {
			sc.log.Warn("object not found", zap.Stringer("kind", ex.Kind), zap.Int("obj", ex.ParentID), zap.Int("key", ex.KeyCode))
			sc.complete(ex)
			return false
		}
		return fn(sc, obj, ex)
	}
}

// waitID is the queue an asynchronous effect reports completion to.
func waitID(ex *message.ExCommand) int {
	if ex.ExcFlags&message.ExcFlagNoWait != 0 {
		return 0
	}
	return ex.ParID
}

// complete reports a waiting command whose effect was immediate.
func (sc *Scene) complete(ex *message.ExCommand) {
	if id := waitID(ex); id != 0 {
		sc.bus.UpdateQueue(id)
	}
}

// HandleMessage applies ex to the scene. Commands of unknown kinds are
// ignored.
func (sc *Scene) HandleMessage(ex *message.ExCommand) bool {
	if ex.Kind < 0 || int(ex.Kind) >= len(kindHandlers) {
		return false
	}
	fn := kindHandlers[ex.Kind]
	if fn == nil {
		return false
	}
	return fn(sc, ex)
}
