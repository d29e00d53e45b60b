// Package fullpipe implements the runtime core of the Fullpipe adventure
// game engine.
//
// Scenes are made of animated actors (StaticANIObject) that rest in named
// poses and travel between them through movements. Scripted behavior is
// expressed as message queues of commands dispatched on a shared bus, and
// idle actors fidget on their own through the behavior manager.
//
// An Engine ties one scene, the bus and the behavior manager together and
// advances them one tick at a time.
package fullpipe

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/behavior"
	"github.com/32bitkid/fullpipe/message"
	"github.com/32bitkid/fullpipe/scene"
)

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRandom replaces the random source used for behavior rolls.
func WithRandom(rnd behavior.Random) Option {
	return func(e *Engine) { e.rnd = rnd }
}

// WithGraph replaces the pose graph of every object of loaded scenes.
func WithGraph(g anim.Graph) Option {
	return func(e *Engine) { e.graph = g }
}

// Engine is the state of one game session.
type Engine struct {
	Bus       *message.Bus
	Behaviors *behavior.Manager

	scene *scene.Scene
	sub   message.Subscription
	ticks int

	rnd   behavior.Random
	graph anim.Graph
	log   *zap.Logger
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e.Bus = message.NewBus(e.log.Named("bus"))
	e.Behaviors = behavior.NewManager(e.Bus, e.rnd, e.log.Named("behavior"))
	return e
}

func (e *Engine) Logger() *zap.Logger { return e.log }

// Scene returns the current scene, or nil before the first one is loaded.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Ticks is the number of ticks run so far.
func (e *Engine) Ticks() int { return e.ticks }

// LoadScene builds desc on the engine bus and makes it current.
func (e *Engine) LoadScene(desc *scene.Description) (*scene.Scene, error) {
	sc, err := desc.Build(e.Bus, e.log)
	if err != nil {
		return nil, err
	}
	e.SetScene(sc)
	return sc, nil
}

// SetScene makes sc the current scene: it replaces the previous scene as
// command handler and rebuilds the behavior tables from its vars.
func (e *Engine) SetScene(sc *scene.Scene) {
	if e.scene != nil {
		e.Bus.Unsubscribe(e.sub)
	}
	e.scene = sc
	e.sub = e.Bus.Subscribe(sc)

	if e.graph != nil {
		for _, obj := range sc.Objects() {
			obj.Graph = e.graph
		}
	}

	e.Behaviors.InitBehavior(sc, sc.Vars)
	e.log.Info("scene loaded",
		zap.Int("id", sc.ID),
		zap.String("name", sc.Name),
		zap.Int("objects", len(sc.Objects())),
		zap.Int("behaviors", len(e.Behaviors.Behaviors())))
}

// Tick advances the session: every object is updated, then the behaviors,
// then the pending commands are drained.
func (e *Engine) Tick(counterdiff int) {
	e.ticks++
	if e.scene != nil {
		e.scene.Update(counterdiff)
	}
	e.Behaviors.UpdateBehaviors()
	e.Bus.Process()
}

// ChainQueue starts a clone of template dataID of the current scene.
func (e *Engine) ChainQueue(dataID, flags int) bool {
	if e.scene == nil {
		return false
	}
	return e.scene.ChainQueue(dataID, flags)
}
