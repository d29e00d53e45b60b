package anim

import "image"

// PhaseStepper chooses the phase that follows idx in a movement of n
// phases. Results outside [0, n) stop the movement.
type PhaseStepper interface {
	NextPhase(idx, n int) int
}

// PhasePositioner overrides the offset applied when a movement steps onto
// phase idx. ox and oy are the movement position before the step.
type PhasePositioner interface {
	PhaseOffset(idx int, offset image.Point, ox, oy int) image.Point
}

type PhaseStepperFunc func(idx, n int) int

func (fn PhaseStepperFunc) NextPhase(idx, n int) int { return fn(idx, n) }

type PhasePositionerFunc func(idx int, offset image.Point, ox, oy int) image.Point

func (fn PhasePositionerFunc) PhaseOffset(idx int, offset image.Point, ox, oy int) image.Point {
	return fn(idx, offset, ox, oy)
}

// ReverseStepper plays a movement backwards.
type ReverseStepper struct{}

func (ReverseStepper) NextPhase(idx, _ int) int { return idx - 1 }

// LoopStepper wraps back to the first phase and never stops.
type LoopStepper struct{}

func (LoopStepper) NextPhase(idx, n int) int { return (idx + 1) % n }
