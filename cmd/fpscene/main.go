// Command fpscene loads a scene description and runs it headless, logging
// what the actors do. It can also export a movement as an animated GIF.
package main

import (
	"flag"
	"fmt"
	"image/gif"
	"math/rand"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/32bitkid/fullpipe"
	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/bitmap"
	"github.com/32bitkid/fullpipe/message"
	"github.com/32bitkid/fullpipe/scene"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene description file")
		rootPath  = flag.String("root", "", "game directory holding scenes.yaml")
		sceneID   = flag.Int("id", 0, "scene id inside -root")
		ticks     = flag.Int("ticks", 600, "number of ticks to run")
		step      = flag.Int("step", anim.DefaultCounterMax, "counter units per tick")
		seed      = flag.Int64("seed", 1, "random seed for behaviors")
		queue     = flag.String("queue", "", "queue template to chain before running")
		gifMov    = flag.String("gif", "", "export movement OBJ/MOVEMENT as GIF instead of running")
		out       = flag.String("out", "movement.gif", "GIF output file")
		verbose   = flag.Bool("v", false, "log every dispatched command")
	)
	flag.Parse()

	log := newLogger(*verbose)
	defer log.Sync()

	if err := run(log, options{
		scenePath: *scenePath,
		rootPath:  *rootPath,
		sceneID:   *sceneID,
		ticks:     *ticks,
		step:      *step,
		seed:      *seed,
		queue:     *queue,
		gifMov:    *gifMov,
		out:       *out,
	}); err != nil {
		log.Error("fpscene failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

type options struct {
	scenePath string
	rootPath  string
	sceneID   int
	ticks     int
	step      int
	seed      int64
	queue     string
	gifMov    string
	out       string
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func run(log *zap.Logger, opts options) error {
	e := fullpipe.NewEngine(
		fullpipe.WithLogger(log),
		fullpipe.WithRandom(rand.New(rand.NewSource(opts.seed))),
	)

	if err := enter(e, opts); err != nil {
		return err
	}
	sc := e.Scene()

	if opts.gifMov != "" {
		return exportGIF(log, sc, opts.gifMov, opts.out)
	}

	e.Bus.Subscribe(message.HandlerFunc(func(ex *message.ExCommand) bool {
		if ex.Kind != message.KindEvent {
			return false
		}
		switch ex.Num {
		case message.EventAnimStarted, message.EventAnimStopped:
			obj := sc.StaticANIObject1ByID(ex.ParentID, ex.KeyCode)
			if obj == nil {
				return false
			}
			fields := []zap.Field{
				zap.Int("tick", e.Ticks()),
				zap.String("obj", obj.Name),
				zap.Int("key", obj.KeyCode),
				zap.Int("x", obj.OX),
				zap.Int("y", obj.OY),
			}
			if m := obj.Movement(); m != nil {
				fields = append(fields, zap.String("movement", m.Name))
			} else if st := obj.Statics(); st != nil {
				fields = append(fields, zap.String("statics", st.Name))
			}
			if ex.Num == message.EventAnimStarted {
				log.Info("anim started", fields...)
			} else {
				log.Info("anim stopped", fields...)
			}
		}
		return false
	}))

	if opts.queue != "" {
		tmpl := sc.MessageQueueByName(opts.queue)
		if tmpl == nil {
			return fmt.Errorf("queue %s not found", opts.queue)
		}
		if !sc.ChainQueue(tmpl.DataID, 0) {
			log.Warn("queue refused", zap.String("queue", opts.queue))
		}
	}

	for i := 0; i < opts.ticks; i++ {
		e.Tick(opts.step)
	}
	log.Info("done", zap.Int("ticks", e.Ticks()), zap.Int("queues", e.Bus.Queues.Len()))
	return nil
}

func enter(e *fullpipe.Engine, opts options) error {
	switch {
	case opts.scenePath != "":
		desc, err := scene.Load(opts.scenePath)
		if err != nil {
			return err
		}
		_, err = e.LoadScene(desc)
		return err
	case opts.rootPath != "":
		root := fullpipe.NewRoot(opts.rootPath)
		if err := root.LoadMapping(); err != nil {
			return err
		}
		return e.EnterScene(&root, opts.sceneID)
	}
	return fmt.Errorf("one of -scene or -root is required")
}

func exportGIF(log *zap.Logger, sc *scene.Scene, target, out string) error {
	objName, movName, ok := strings.Cut(target, "/")
	if !ok || objName == "" || movName == "" {
		return fmt.Errorf("-gif wants OBJ/MOVEMENT, got %q", target)
	}

	obj := sc.StaticANIObject1ByName(objName, -1)
	if obj == nil {
		return fmt.Errorf("object %s not found", objName)
	}
	mov := obj.MovementByName(movName)
	if mov == nil {
		return fmt.Errorf("movement %s not found on %s", movName, objName)
	}

	frames, err := movementFrames(mov)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", movName, err)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, bitmap.GIF(frames)); err != nil {
		return err
	}
	log.Info("gif written", zap.String("file", out), zap.Int("frames", len(frames)))
	return nil
}

// movementFrames decodes every phase of mov at its position relative to
// the first one.
func movementFrames(mov *anim.Movement) ([]bitmap.Frame, error) {
	mov.GotoFirstFrame()
	at := mov.CurrPhaseXY()
	mov.SetOXY(at.X, at.Y)

	frames := make([]bitmap.Frame, 0, mov.PhaseCount())
	for i := 0; i < mov.PhaseCount(); i++ {
		ph := mov.CurrDynamicPhase()
		bmp, err := ph.LoadPixelData()
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i, err)
		}
		at = mov.CurrPhaseXY()
		frames = append(frames, bitmap.Frame{
			Bitmap: bmp,
			X:      mov.OX - at.X,
			Y:      mov.OY - at.Y,
			Delay:  (ph.InitialCountdown + 1) * mov.CounterMax / 10,
		})

		ph.Countdown = 0
		mov.GotoNextFrame(nil, nil)
	}
	return frames, nil
}
