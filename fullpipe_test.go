package fullpipe

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/message"
	"github.com/32bitkid/fullpipe/scene"
)

const (
	aniMan     = 322
	stManRight = 2000
	stManSit   = 2001
	mvManSit   = 2100
	quSitUp    = 3001
)

type fixedRandom int

func (r fixedRandom) Intn(n int) int { return int(r) }

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *anim.StaticANIObject) {
	t.Helper()
	root := NewRoot("testdata/game")
	require.NoError(t, root.LoadMapping())

	e := NewEngine(append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, e.EnterScene(&root, 1))

	man := e.Scene().StaticANIObject1ByID(aniMan, -1)
	require.NotNil(t, man)
	return e, man
}

func (e *Engine) run(n int) {
	for i := 0; i < n; i++ {
		e.Tick(anim.DefaultCounterMax)
	}
}

func TestIdleBehaviorFires(t *testing.T) {
	e, man := newTestEngine(t, WithRandom(fixedRandom(10000)))
	require.Len(t, e.Behaviors.Behaviors(), 1)

	e.run(50)
	assert.Zero(t, man.QueueID)

	e.run(1)
	require.NotZero(t, man.QueueID)
	q := e.Bus.Queues.ByID(man.QueueID)
	require.NotNil(t, q)
	assert.Equal(t, "QU_MAN_SCRATCH", q.Name)
	assert.True(t, man.IsPlaying())
	assert.Equal(t, 2102, man.Movement().ID)
}

func TestIdleBehaviorRollFails(t *testing.T) {
	e, man := newTestEngine(t, WithRandom(fixedRandom(20000)))
	e.run(120)
	assert.Zero(t, man.QueueID)
	assert.Nil(t, man.Movement())
}

func TestLockedStartAnimCompletesQueue(t *testing.T) {
	e, man := newTestEngine(t)

	// a command no handler understands stays in flight
	tmpl := message.NewTemplate(1, "QU_WAIT", 0, message.NewExCommand(0, message.Kind(63), 0, 0, 0, true))
	var q *message.MessageQueue
	for i := 0; i < 7; i++ {
		q = message.NewQueueFrom(e.Bus, tmpl, 0)
	}
	require.Equal(t, 7, q.ID)
	q.SendNextCommand()
	require.Equal(t, 1, q.Counter())
	require.False(t, q.IsFinished)

	man.Flags |= anim.FlagLocked
	assert.False(t, man.StartAnim(mvManSit, 7, -1))
	assert.True(t, e.Bus.Queues.ByID(7).IsFinished)
	assert.Nil(t, man.Movement())
}

func TestLastPhaseStopsOnEndPose(t *testing.T) {
	e, man := newTestEngine(t)
	require.True(t, man.StartAnim(mvManSit, 0, -1))

	e.run(4)
	mov := man.Movement()
	require.NotNil(t, mov)
	assert.Equal(t, 4, mov.CurrIndex())
	assert.Equal(t, 5, mov.PhaseCount())

	e.run(1)
	assert.Nil(t, man.Movement())
	assert.False(t, man.IsPlaying())
	assert.Equal(t, stManSit, man.Statics().ID)
	assert.Equal(t, image.Pt(108, 204), image.Pt(man.OX, man.OY))
}

func TestSingleQueuePerActor(t *testing.T) {
	e, man := newTestEngine(t, WithRandom(rand.New(rand.NewSource(1))))

	for i := 0; i < 400; i++ {
		if i%37 == 0 {
			e.ChainQueue(quSitUp, 0)
		}
		e.Tick(anim.DefaultCounterMax)

		live := map[int]bool{}
		e.Bus.Queues.Each(func(q *message.MessageQueue) {
			if q.IsFinished {
				return
			}
			require.False(t, live[q.ID], "tick %d: queue id %d held twice", i, q.ID)
			live[q.ID] = true
		})
		if man.QueueID != 0 {
			require.True(t, live[man.QueueID], "tick %d: actor bound to dead queue %d", i, man.QueueID)
		}
	}
	assert.Equal(t, 400, e.Ticks())
}

func TestSceneSwitchReplacesHandler(t *testing.T) {
	e, man := newTestEngine(t)
	root := NewRoot("testdata/game")
	require.NoError(t, root.LoadMapping())

	require.NoError(t, e.EnterScene(&root, 2))
	assert.Equal(t, "SC_EMPTY", e.Scene().Name)
	assert.Empty(t, e.Behaviors.Behaviors())

	e.Bus.Send(message.NewExCommand(aniMan, message.KindHide, 0, 0, 0, false))
	assert.True(t, man.IsVisible(), "the old scene no longer handles commands")
	assert.False(t, e.ChainQueue(quSitUp, 0))
}

type recordingGraph struct {
	anim.DirectGraph
	puts []int
}

func (g *recordingGraph) PutObjectToStatics(obj *anim.StaticANIObject, staticsID int) bool {
	g.puts = append(g.puts, staticsID)
	return g.DirectGraph.PutObjectToStatics(obj, staticsID)
}

func TestWithGraph(t *testing.T) {
	g := &recordingGraph{}
	e, man := newTestEngine(t, WithGraph(g))

	e.Bus.Send(message.NewExCommand(aniMan, message.KindChangeStatics, stManSit, 0, 0, false))
	assert.Equal(t, []int{stManSit}, g.puts)
	assert.Equal(t, stManSit, man.Statics().ID)

	require.NotNil(t, man.ChangeStatics1(stManRight))
	assert.True(t, man.IsPlaying())
}

func TestEngineWithoutScene(t *testing.T) {
	e := NewEngine()
	e.Tick(anim.DefaultCounterMax)
	assert.Nil(t, e.Scene())
	assert.False(t, e.ChainQueue(1, 0))
	assert.Equal(t, 1, e.Ticks())
}

// cueScene has ANI_WAVER cue ANI_BIRD from its first frame while the bird's
// idle behavior is due on every tick.
const cueScene = `
id: 9
name: SC_CUE
vars:
  BEHAVIOR:
    ANI_BIRD:
      ST_BIRD_SIT:
        QU_BIRD_PECK:
          dwDelay: 0
          dwPercent: 1000
objects:
  - id: 10
    name: ANI_WAVER
    visible: true
    statics:
      - {id: 11, name: ST_WAVER, width: 4, height: 8}
    movements:
      - id: 12
        name: MV_WAVER_WAVE
        from: ST_WAVER
        to: ST_WAVER
        phases:
          - {width: 4, height: 8, command: {kind: 1, obj: 20, num: 21}}
          - {width: 4, height: 8}
          - {width: 4, height: 8}
  - id: 20
    name: ANI_BIRD
    visible: true
    statics:
      - {id: 30, name: ST_BIRD_SIT, width: 4, height: 4}
    movements:
      - id: 21
        name: MV_BIRD_CUED
        from: ST_BIRD_SIT
        to: ST_BIRD_SIT
        phases:
          - {width: 4, height: 4}
          - {width: 4, height: 4}
          - {width: 4, height: 4}
      - id: 22
        name: MV_BIRD_PECK
        from: ST_BIRD_SIT
        to: ST_BIRD_SIT
        phases:
          - {width: 4, height: 4}
          - {width: 4, height: 4}
queues:
  - id: 40
    name: QU_BIRD_PECK
    flags: 1
    commands:
      - {kind: 1, obj: 20, num: 22, key: -1, wait: true}
`

func TestFrameCueBeatsDueBehavior(t *testing.T) {
	desc, err := scene.Parse([]byte(cueScene))
	require.NoError(t, err)

	e := NewEngine(WithLogger(zap.NewNop()), WithRandom(fixedRandom(0)))
	sc, err := e.LoadScene(desc)
	require.NoError(t, err)
	waver := sc.StaticANIObject1ByID(10, -1)
	bird := sc.StaticANIObject1ByID(20, -1)
	require.NotNil(t, waver)
	require.NotNil(t, bird)

	// the bird's behavior notes its pose on the first tick
	e.run(1)
	require.Nil(t, bird.Movement())

	require.True(t, waver.StartAnim(12, 0, -1))
	e.Bus.Process()

	e.run(1)
	require.NotNil(t, bird.Movement())
	assert.Equal(t, 21, bird.Movement().ID, "the frame cue plays, not the idle queue")
	assert.Zero(t, bird.QueueID)
}
