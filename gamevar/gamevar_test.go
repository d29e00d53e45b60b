package gamevar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const behaviorDoc = `
BEHAVIOR:
  ANI_MAN:
    ST_MAN_RIGHT:
      QU_MAN_SCRATCH:
        dwDelay: 50
        dwPercent: 500
        dwFlags: QDESC_AUTOSTART
  AMBIENT:
    QU_BIRD:
      dwDelay: 0x10
`

func TestParseKeepsOrderAndTypes(t *testing.T) {
	root, err := Parse([]byte(behaviorDoc))
	require.NoError(t, err)

	beh := root.SubVarByName("BEHAVIOR")
	require.NotNil(t, beh)
	require.Equal(t, 2, beh.SubVarsCount())
	assert.Equal(t, "ANI_MAN", beh.SubVarByIndex(0).Name)
	assert.Equal(t, "AMBIENT", beh.SubVarByIndex(1).Name)
	assert.Nil(t, beh.SubVarByIndex(2))

	item := beh.SubVarByName("ANI_MAN").SubVarByName("ST_MAN_RIGHT").SubVarByName("QU_MAN_SCRATCH")
	require.NotNil(t, item)
	assert.Equal(t, TypeTree, item.Type)
	assert.Equal(t, 50, item.SubVarAsInt("dwDelay"))
	assert.Equal(t, "QDESC_AUTOSTART", item.SubVarAsString("dwFlags"))
	assert.Equal(t, "", item.SubVarAsString("dwDelay"), "type mismatch reads as empty")
	assert.Equal(t, 0, item.SubVarAsInt("missing"))

	assert.Equal(t, 16, beh.SubVarByName("AMBIENT").SubVarByName("QU_BIRD").SubVarAsInt("dwDelay"))
}

func TestParseRejectsNonMappings(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, ErrNotMapping)

	_, err = Parse([]byte("A:\n  - 1\n"))
	assert.Error(t, err)
}

func TestSetSubVarAsInt(t *testing.T) {
	v := NewTree("SC_1", NewString("name", "x"))
	v.SetSubVarAsInt("count", 3)
	v.SetSubVarAsInt("name", 7)

	assert.Equal(t, 3, v.SubVarAsInt("count"))
	assert.Equal(t, 7, v.SubVarAsInt("name"))
	assert.Equal(t, 2, v.SubVarsCount())
}

func TestDecodeIntoStructField(t *testing.T) {
	var doc struct {
		Vars GameVar `yaml:"vars"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("vars:\n  a: 1\n  b: two\n"), &doc))
	assert.Equal(t, 1, doc.Vars.SubVarAsInt("a"))
	assert.Equal(t, "two", doc.Vars.SubVarAsString("b"))
}
