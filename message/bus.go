package message

import (
	"go.uber.org/zap"
)

// Handler receives every dispatched command. It reports whether it acted
// on the command.
type Handler interface {
	HandleMessage(ex *ExCommand) bool
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ex *ExCommand) bool

func (fn HandlerFunc) HandleMessage(ex *ExCommand) bool { return fn(ex) }

// Subscription identifies a registered handler.
type Subscription int

type subscriber struct {
	id Subscription
	Handler
}

// Bus owns the process-wide pending command list, the live queue
// registry and the ordered handler chain. One Bus exists per game session.
type Bus struct {
	Queues *QueueList

	pending    []*ExCommand
	handlers   []subscriber
	nextSub    Subscription
	processing bool

	log *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		Queues: NewQueueList(),
		log:    log,
	}
}

func (b *Bus) Logger() *zap.Logger { return b.log }

// Subscribe appends h to the handler chain. Handlers run in subscription
// order.
func (b *Bus) Subscribe(h Handler) Subscription {
	b.nextSub++
	b.handlers = append(b.handlers, subscriber{id: b.nextSub, Handler: h})
	return b.nextSub
}

// SubscribeFirst inserts h in front of every registered handler.
func (b *Bus) SubscribeFirst(h Handler) Subscription {
	b.nextSub++
	b.handlers = append([]subscriber{{id: b.nextSub, Handler: h}}, b.handlers...)
	return b.nextSub
}

func (b *Bus) Unsubscribe(s Subscription) {
	for i, sub := range b.handlers {
		if sub.id == s {
			b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
			return
		}
	}
}

// Post appends ex to the pending list without draining it.
func (b *Bus) Post(ex *ExCommand) {
	b.pending = append(b.pending, ex)
}

// Send appends ex to the pending list and drains the list, unless a drain
// is already in progress further up the stack.
func (b *Bus) Send(ex *ExCommand) {
	b.Post(ex)
	b.Process()
}

// Process dispatches pending commands until the list is empty. Commands
// posted while processing are drained in the same pass.
func (b *Bus) Process() {
	if b.processing {
		return
	}
	b.processing = true
	for len(b.pending) > 0 {
		ex := b.pending[0]
		b.pending[0] = nil
		b.pending = b.pending[1:]
		b.dispatch(ex)
	}
	b.pending = nil
	b.processing = false
}

// Pending returns the commands waiting to be dispatched.
func (b *Bus) Pending() []*ExCommand { return b.pending }

func (b *Bus) dispatch(ex *ExCommand) bool {
	handled := 0
	// handlers may unsubscribe while running
	subs := append([]subscriber(nil), b.handlers...)
	for _, sub := range subs {
		if sub.HandleMessage(ex) {
			handled++
		}
	}

	if b.log.Core().Enabled(zap.DebugLevel) {
		b.log.Debug("dispatch",
			zap.Stringer("kind", ex.Kind),
			zap.Int("obj", ex.ParentID),
			zap.Int("num", ex.Num),
			zap.Int("queue", ex.ParID),
			zap.Int("handled", handled))
	}

	if ex.Kind == KindEvent || ex.ExcFlags&ExcFlagNoWait != 0 {
		if ex.ParID != 0 {
			if q := b.Queues.ByID(ex.ParID); q != nil {
				q.Update()
			}
		}
	}
	return handled > 0
}

// UpdateQueue signals completion of one in-flight command of queue id.
// A zero id or an unknown queue is ignored.
func (b *Bus) UpdateQueue(id int) {
	if id == 0 {
		return
	}
	if q := b.Queues.ByID(id); q != nil {
		q.Update()
	}
}

func (b *Bus) removePending(i int) *ExCommand {
	ex := b.pending[i]
	b.pending = append(b.pending[:i], b.pending[i+1:]...)
	return ex
}
