package anim

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPhases builds n phases that each move by step, the first one
// excepted.
func newPhases(n int, step image.Point) []*DynamicPhase {
	phases := make([]*DynamicPhase, n)
	for i := range phases {
		phases[i] = &DynamicPhase{
			StaticPhase: StaticPhase{Picture: Picture{Width: 10, Height: 10}},
		}
		if i > 0 {
			phases[i].Offset = step
		}
	}
	return phases
}

func TestGotoNextFrameStaysInBounds(t *testing.T) {
	m := NewMovement(1, "MV", nil, nil, newPhases(5, image.Pt(2, 1))...)

	for i := 0; i < 4; i++ {
		require.True(t, m.GotoNextFrame(nil, nil))
	}
	assert.Equal(t, 4, m.CurrIndex())
	assert.Equal(t, image.Pt(8, 4), image.Pt(m.OX, m.OY))

	for i := 0; i < 10; i++ {
		assert.False(t, m.GotoNextFrame(nil, nil))
		assert.Equal(t, 4, m.CurrIndex())
	}
	assert.Equal(t, image.Pt(8, 4), image.Pt(m.OX, m.OY))
}

func TestGotoNextFrameHonorsCountdown(t *testing.T) {
	phases := newPhases(2, image.Pt(1, 0))
	phases[0].InitialCountdown = 2
	m := NewMovement(1, "MV", nil, nil, phases...)

	assert.True(t, m.GotoNextFrame(nil, nil))
	assert.True(t, m.GotoNextFrame(nil, nil))
	assert.Equal(t, 0, m.CurrIndex())
	assert.True(t, m.GotoNextFrame(nil, nil))
	assert.Equal(t, 1, m.CurrIndex())
}

func TestGotoPrevFrame(t *testing.T) {
	m := NewMovement(1, "MV", nil, nil, newPhases(3, image.Pt(3, 0))...)
	m.GotoLastFrame()
	assert.Equal(t, 6, m.OX)

	assert.True(t, m.GotoPrevFrame())
	assert.Equal(t, 1, m.CurrIndex())
	assert.Equal(t, 3, m.OX)

	assert.True(t, m.GotoPrevFrame())
	assert.False(t, m.GotoPrevFrame(), "wraps from the first phase")
	assert.Equal(t, 2, m.CurrIndex())
}

func TestSetDynamicPhaseIndexAccumulatesOffsets(t *testing.T) {
	m := NewMovement(1, "MV", nil, nil, newPhases(5, image.Pt(2, 0))...)

	m.SetDynamicPhaseIndex(3)
	assert.Equal(t, 3, m.CurrIndex())
	assert.Equal(t, 6, m.OX)

	m.SetDynamicPhaseIndex(1)
	assert.Equal(t, 2, m.OX)

	m.SetDynamicPhaseIndex(9)
	assert.Equal(t, 1, m.CurrIndex(), "out of range index is ignored")
}

func TestPhaseIndexNeverLeavesBounds(t *testing.T) {
	m := NewMovement(1, "MV", nil, nil, newPhases(4, image.Pt(1, 1))...)
	ops := []func(){
		func() { m.GotoNextFrame(nil, nil) },
		func() { m.GotoPrevFrame() },
		func() { m.GotoNextFrame(nil, ReverseStepper{}) },
		func() { m.GotoNextFrame(nil, LoopStepper{}) },
		func() { m.GotoNextFrame(nil, PhaseStepperFunc(func(idx, n int) int { return idx + 7 })) },
	}
	for i := 0; i < 200; i++ {
		ops[(i*7+i/3)%len(ops)]()
		require.GreaterOrEqual(t, m.CurrIndex(), 0)
		require.Less(t, m.CurrIndex(), m.PhaseCount())
	}
}

func TestLoopStepperReturnsToStart(t *testing.T) {
	m := NewMovement(1, "MV", nil, nil, newPhases(3, image.Pt(4, 0))...)
	for i := 0; i < 3; i++ {
		assert.True(t, m.GotoNextFrame(nil, LoopStepper{}))
	}
	assert.Equal(t, 0, m.CurrIndex())
	assert.Equal(t, 0, m.OX)
}

func TestPositionerOverridesOffset(t *testing.T) {
	m := NewMovement(1, "MV", nil, nil, newPhases(2, image.Pt(4, 0))...)
	pos := PhasePositionerFunc(func(idx int, offset image.Point, ox, oy int) image.Point {
		return offset.Mul(2)
	})
	m.GotoNextFrame(pos, nil)
	assert.Equal(t, 8, m.OX)
}

func TestDerivedMovementMirrorsBase(t *testing.T) {
	phases := newPhases(2, image.Pt(3, 1))
	phases[1].Anchor = image.Pt(2, 5)
	base := NewMovement(1, "MV_LEFT", nil, nil, phases...)
	base.MX = 4

	derived := NewDerivedMovement(2, "MV_RIGHT", 1, nil, nil)
	require.False(t, derived.resolved())
	derived.derive(base)

	assert.Equal(t, 2, derived.PhaseCount())
	assert.Equal(t, -4, derived.MX)
	assert.Equal(t, image.Pt(-3, 1), derived.DynamicPhase(1).Offset)
	assert.Equal(t, image.Pt(8, 5), derived.DynamicPhase(1).Anchor)
	assert.True(t, derived.DynamicPhase(1).mirrored)
	assert.False(t, base.DynamicPhase(1).mirrored)
}

func TestDurationAndDelta(t *testing.T) {
	phases := newPhases(3, image.Pt(1, 2))
	phases[1].InitialCountdown = 2
	m := NewMovement(1, "MV", nil, nil, phases...)

	assert.Equal(t, 5*DefaultCounterMax, m.Duration())
	assert.Equal(t, image.Pt(2, 4), m.CalcDelta())
}
