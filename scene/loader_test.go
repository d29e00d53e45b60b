package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/message"
)

func TestLoadBuildsScene(t *testing.T) {
	sc, _ := loadTestScene(t)
	assert.Equal(t, 1, sc.ID)
	assert.Equal(t, "SC_TEST", sc.Name)

	man := sc.StaticANIObject1ByID(aniMan, -1)
	require.NotNil(t, man)
	assert.True(t, man.IsVisible())
	assert.Equal(t, 20, man.Priority)
	assert.Equal(t, stManRight, man.Statics().ID)
	assert.Len(t, man.StaticsList(), 4)
	assert.Len(t, man.Movements(), 4)

	sit := man.MovementByName("MV_MAN_SIT")
	require.NotNil(t, sit)
	assert.Equal(t, 5, sit.PhaseCount())
	assert.Equal(t, anim.DefaultCounterMax, sit.CounterMax)
	assert.Equal(t, stManSit, sit.StaticsObj2.ID)

	fidget := man.MovementByID(mvManFidget)
	require.NotNil(t, fidget)
	assert.Equal(t, 77, fidget.DynamicPhase(1).EventNum)
	require.NotNil(t, fidget.DynamicPhase(0).ExCommand)
	assert.Equal(t, message.KindSound, fidget.DynamicPhase(0).ExCommand.Kind)

	bird := sc.StaticANIObject1ByID(aniBird, 1)
	require.NotNil(t, bird)
	assert.False(t, bird.IsVisible())
	assert.Equal(t, 40, bird.MovementByID(4100).CounterMax)
	assert.Equal(t, 2, bird.Statics().InitialCountdown)

	tmpl := sc.MessageQueueByID(quManSit)
	require.NotNil(t, tmpl)
	assert.Equal(t, "QU_MAN_SIT", tmpl.Name)
	assert.True(t, tmpl.IsExclusive())
	assert.Equal(t, 3, tmpl.Count())
	assert.Equal(t, -1, tmpl.ExCommandByIndex(0).KeyCode)
	assert.True(t, tmpl.ExCommandByIndex(0).Wait)
	assert.False(t, tmpl.ExCommandByIndex(1).Wait)
}

func TestLoadDerivedMovement(t *testing.T) {
	sc, _ := loadTestScene(t)
	man := sc.StaticANIObject1ByID(aniMan, -1)

	left := man.MovementByID(mvManSitLeft)
	require.NotNil(t, left)
	assert.True(t, left.IsDerived())
	assert.Equal(t, 5, left.PhaseCount())
	assert.Equal(t, -2, left.DynamicPhase(1).Offset.X)
	assert.Equal(t, 1, left.DynamicPhase(1).Offset.Y)
	assert.True(t, left.StaticsObj2.IsMirrored())
}

func TestLoadPixelData(t *testing.T) {
	sc, _ := loadTestScene(t)
	man := sc.StaticANIObject1ByID(aniMan, -1)

	st := man.StaticsByID(stManSit)
	require.NotNil(t, st)
	bmp, err := st.LoadPixelData()
	require.NoError(t, err)
	assert.Equal(t, []uint8{5, 5}, bmp.Pix)
	assert.Len(t, bmp.Palette, 6)
}

func TestLoadVars(t *testing.T) {
	sc, _ := loadTestScene(t)
	require.NotNil(t, sc.Vars)
	assert.Equal(t, "SC_TEST", sc.Vars.Name)

	beh := sc.Vars.SubVarByName("BEHAVIOR")
	require.NotNil(t, beh)
	assert.Equal(t, []string{"ANI_MAN", "AMBIENT"}, []string{beh.SubVarByIndex(0).Name, beh.SubVarByIndex(1).Name})
	item := beh.SubVarByName("ANI_MAN").SubVarByName("ST_MAN_RIGHT").SubVarByName("QU_MAN_FIDGET")
	require.NotNil(t, item)
	assert.Equal(t, 50, item.SubVarAsInt("dwDelay"))
	assert.Equal(t, 500, item.SubVarAsInt("dwPercent"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", `id: 1`},
		{"object without id", `
name: SC
objects:
  - name: ANI_X
`},
		{"duplicate statics", `
name: SC
objects:
  - id: 1
    name: ANI_X
    statics:
      - {id: 1, name: ST_A}
      - {id: 2, name: ST_A}
`},
		{"unknown method", `
name: SC
objects:
  - id: 1
    name: ANI_X
    statics:
      - {id: 1, name: ST_A, method: jpeg}
`},
		{"alpha out of range", `
name: SC
objects:
  - id: 1
    name: ANI_X
    statics:
      - {id: 1, name: ST_A, alpha: 300}
`},
		{"negative alpha", `
name: SC
objects:
  - id: 1
    name: ANI_X
    statics:
      - {id: 1, name: ST_A, alpha: -1}
`},
		{"unknown statics", `
name: SC
objects:
  - id: 1
    name: ANI_X
    statics:
      - {id: 1, name: ST_A}
    movements:
      - {id: 2, name: MV_A, from: ST_A, to: ST_B, phases: [{width: 1}]}
`},
		{"unknown base", `
name: SC
objects:
  - id: 1
    name: ANI_X
    statics:
      - {id: 1, name: ST_A}
    movements:
      - {id: 2, name: MV_A, from: ST_A, to: ST_A, base: MV_B}
`},
		{"derived with phases", `
name: SC
objects:
  - id: 1
    name: ANI_X
    statics:
      - {id: 1, name: ST_A}
    movements:
      - {id: 2, name: MV_A, from: ST_A, to: ST_A, phases: [{width: 1}]}
      - {id: 3, name: MV_B, from: ST_A, to: ST_A, base: MV_A, phases: [{width: 1}]}
`},
		{"no phases", `
name: SC
objects:
  - id: 1
    name: ANI_X
    statics:
      - {id: 1, name: ST_A}
    movements:
      - {id: 2, name: MV_A, from: ST_A, to: ST_A}
`},
		{"duplicate queue", `
name: SC
queues:
  - {id: 5, name: QU_A}
  - {id: 5, name: QU_B}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidScene)
}

func TestBuildInstancesGetSequentialKeyCodes(t *testing.T) {
	desc, err := Parse([]byte(`
name: SC
objects:
  - id: 7
    name: ANI_DOG
    keyCode: 10
    instances: 3
    statics:
      - {id: 1, name: ST_DOG}
`))
	require.NoError(t, err)

	sc, err := desc.Build(message.NewBus(zap.NewNop()), nil)
	require.NoError(t, err)

	var keys []int
	for _, obj := range sc.StaticANIObjectsByName("ANI_DOG") {
		keys = append(keys, obj.KeyCode)
	}
	assert.Equal(t, []int{10, 11, 12}, keys)
}
