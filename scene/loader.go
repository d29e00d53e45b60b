package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/bitmap"
	"github.com/32bitkid/fullpipe/gamevar"
	"github.com/32bitkid/fullpipe/message"
)

var ErrInvalidScene = errors.New("scene: invalid description")

// Description is the authored form of a scene.
type Description struct {
	ID      int             `yaml:"id"`
	Name    string          `yaml:"name"`
	Palette []uint16        `yaml:"palette"`
	Vars    gamevar.GameVar `yaml:"vars"`
	Objects []ObjectDesc    `yaml:"objects"`
	Queues  []QueueDesc     `yaml:"queues"`
}

type ObjectDesc struct {
	ID        int            `yaml:"id"`
	Name      string         `yaml:"name"`
	KeyCode   int            `yaml:"keyCode"`
	Instances int            `yaml:"instances"`
	X         int            `yaml:"x"`
	Y         int            `yaml:"y"`
	Priority  int            `yaml:"priority"`
	Visible   bool           `yaml:"visible"`
	Flags     int            `yaml:"flags"`
	Statics   []StaticsDesc  `yaml:"statics"`
	Movements []MovementDesc `yaml:"movements"`
}

type PictureDesc struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Method string `yaml:"method"`
	Data   []byte `yaml:"data"`
	Alpha  *int   `yaml:"alpha"`
	Anchor [2]int `yaml:"anchor"`
}

type StaticsDesc struct {
	PictureDesc `yaml:",inline"`
	ID          int          `yaml:"id"`
	Name        string       `yaml:"name"`
	Countdown   int          `yaml:"countdown"`
	Command     *CommandDesc `yaml:"command"`
}

type PhaseDesc struct {
	PictureDesc `yaml:",inline"`
	Offset      [2]int       `yaml:"offset"`
	Countdown   int          `yaml:"countdown"`
	Flags       int          `yaml:"flags"`
	Event       int          `yaml:"event"`
	Command     *CommandDesc `yaml:"command"`
}

type MovementDesc struct {
	ID         int         `yaml:"id"`
	Name       string      `yaml:"name"`
	From       string      `yaml:"from"`
	To         string      `yaml:"to"`
	MX         int         `yaml:"mx"`
	MY         int         `yaml:"my"`
	CounterMax int         `yaml:"counterMax"`
	Base       string      `yaml:"base"`
	Phases     []PhaseDesc `yaml:"phases"`
}

type CommandDesc struct {
	Kind   int      `yaml:"kind"`
	Obj    int      `yaml:"obj"`
	Num    int      `yaml:"num"`
	X      int      `yaml:"x"`
	Y      int      `yaml:"y"`
	Z      int      `yaml:"z"`
	Key    *int     `yaml:"key"`
	Param  int      `yaml:"param"`
	Wait   bool     `yaml:"wait"`
	Flags  int      `yaml:"flags"`
	Points [][2]int `yaml:"points"`
}

type QueueDesc struct {
	ID       int           `yaml:"id"`
	Name     string        `yaml:"name"`
	Flags    int           `yaml:"flags"`
	Commands []CommandDesc `yaml:"commands"`
}

func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Description, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}

// Validate checks the cross references inside the description.
func (d *Description) Validate() error {
	if d.Name == "" {
		return invalid("missing name")
	}

	for _, obj := range d.Objects {
		if obj.ID == 0 || obj.Name == "" {
			return invalid("object %q: missing id or name", obj.Name)
		}
		statics := map[string]bool{}
		for _, st := range obj.Statics {
			if statics[st.Name] {
				return invalid("object %s: duplicate statics %s", obj.Name, st.Name)
			}
			statics[st.Name] = true
			if err := st.PictureDesc.validate(); err != nil {
				return invalid("object %s statics %s: %v", obj.Name, st.Name, err)
			}
		}

		direct := map[string]bool{}
		for _, mov := range obj.Movements {
			if mov.Base == "" {
				direct[mov.Name] = true
			}
		}
		for _, mov := range obj.Movements {
			if !statics[mov.From] || !statics[mov.To] {
				return invalid("object %s movement %s: unknown statics %q -> %q", obj.Name, mov.Name, mov.From, mov.To)
			}
			if mov.Base != "" {
				if !direct[mov.Base] {
					return invalid("object %s movement %s: unknown base %q", obj.Name, mov.Name, mov.Base)
				}
				if len(mov.Phases) > 0 {
					return invalid("object %s movement %s: derived movement with phases", obj.Name, mov.Name)
				}
				continue
			}
			if len(mov.Phases) == 0 {
				return invalid("object %s movement %s: no phases", obj.Name, mov.Name)
			}
			for i, ph := range mov.Phases {
				if err := ph.PictureDesc.validate(); err != nil {
					return invalid("object %s movement %s phase %d: %v", obj.Name, mov.Name, i, err)
				}
			}
		}
	}

	seen := map[int]bool{}
	for _, q := range d.Queues {
		if seen[q.ID] {
			return invalid("duplicate queue %d", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

func (p PictureDesc) method() (bitmap.Method, error) {
	switch strings.ToLower(p.Method) {
	case "", "raw":
		return bitmap.MethodRaw, nil
	case "rle", "rb":
		return bitmap.MethodRLE, nil
	}
	return 0, fmt.Errorf("unknown method %q", p.Method)
}

func (p PictureDesc) validate() error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("negative size")
	}
	if p.Alpha != nil && (*p.Alpha < 0 || *p.Alpha > 0xFF) {
		return fmt.Errorf("alpha %d out of range", *p.Alpha)
	}
	_, err := p.method()
	return err
}

func (p PictureDesc) picture(pal color.Palette) anim.Picture {
	m, _ := p.method()
	pic := anim.NewPicture(p.Width, p.Height, m, p.Data, pal)
	if p.Alpha != nil {
		pic.Alpha = uint8(*p.Alpha)
	}
	return pic
}

func (c CommandDesc) command() *message.ExCommand {
	ex := message.NewExCommand(c.Obj, message.Kind(c.Kind), c.Num, c.X, c.Y, c.Wait)
	ex.Z = c.Z
	ex.Param = c.Param
	ex.ExcFlags = c.Flags
	if c.Key != nil {
		ex.KeyCode = *c.Key
	}
	for _, pt := range c.Points {
		ex.Points = append(ex.Points, image.Pt(pt[0], pt[1]))
	}
	return ex
}

// Build instantiates the described scene on bus.
func (d *Description) Build(bus *message.Bus, log *zap.Logger) (*Scene, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	sc := New(bus, d.ID, d.Name, log)
	vars := d.Vars
	vars.Name = d.Name
	sc.Vars = &vars

	var pal color.Palette
	if len(d.Palette) > 0 {
		pal = bitmap.NewPalette565(d.Palette)
	}

	for _, od := range d.Objects {
		obj := buildObject(bus, od, pal)
		sc.Add(obj)
		for i := 1; i < od.Instances; i++ {
			sc.Add(obj.Clone(od.KeyCode + i))
		}
	}

	for _, qd := range d.Queues {
		var cmds []*message.ExCommand
		for _, cd := range qd.Commands {
			cmds = append(cmds, cd.command())
		}
		sc.AddMessageQueue(message.NewTemplate(qd.ID, qd.Name, qd.Flags, cmds...))
	}
	return sc, nil
}

func buildObject(bus *message.Bus, od ObjectDesc, pal color.Palette) *anim.StaticANIObject {
	obj := anim.NewStaticANIObject(bus, od.ID, od.Name)
	obj.KeyCode = od.KeyCode
	obj.Priority = od.Priority
	obj.Flags = od.Flags
	if od.Visible {
		obj.Flags |= anim.FlagVisible
	}

	byName := map[string]*anim.Statics{}
	for _, sd := range od.Statics {
		st := anim.NewStatics(sd.ID, sd.Name, sd.picture(pal))
		st.Anchor = image.Pt(sd.Anchor[0], sd.Anchor[1])
		st.InitialCountdown = sd.Countdown
		if sd.Command != nil {
			st.ExCommand = sd.Command.command()
		}
		byName[sd.Name] = st
		obj.AddStatics(st)
	}

	movIDs := map[string]int{}
	for _, md := range od.Movements {
		movIDs[md.Name] = md.ID
	}
	for _, md := range od.Movements {
		from, to := byName[md.From], byName[md.To]
		if md.Base != "" {
			obj.AddMovement(anim.NewDerivedMovement(md.ID, md.Name, movIDs[md.Base], from, to))
			continue
		}

		phases := make([]*anim.DynamicPhase, len(md.Phases))
		for i, pd := range md.Phases {
			ph := &anim.DynamicPhase{
				StaticPhase: anim.StaticPhase{
					Picture:          pd.picture(pal),
					Anchor:           image.Pt(pd.Anchor[0], pd.Anchor[1]),
					InitialCountdown: pd.Countdown,
				},
				Offset:   image.Pt(pd.Offset[0], pd.Offset[1]),
				DynFlags: pd.Flags,
				EventNum: pd.Event,
			}
			if pd.Command != nil {
				ph.ExCommand = pd.Command.command()
			}
			phases[i] = ph
		}
		mov := anim.NewMovement(md.ID, md.Name, from, to, phases...)
		mov.MX, mov.MY = md.MX, md.MY
		if md.CounterMax > 0 {
			mov.CounterMax = md.CounterMax
		}
		obj.AddMovement(mov)
	}

	obj.SetOXY(od.X, od.Y)
	return obj
}
