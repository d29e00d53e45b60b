package anim

import (
	"image"

	"github.com/32bitkid/fullpipe/message"
)

// StaticPhase is a single displayable frame.
type StaticPhase struct {
	Picture

	// Anchor is the frame's origin inside the picture. Object positions
	// refer to the anchor, not the picture's top-left corner.
	Anchor image.Point

	InitialCountdown int
	Countdown        int

	// ExCommand is fired when the frame is reached. Sounds fire on
	// arrival, everything else on the first tick spent on the frame.
	ExCommand *message.ExCommand
}

// DynamicPhase is one frame of a Movement.
type DynamicPhase struct {
	StaticPhase

	// Offset moves the movement when it steps onto this frame.
	Offset   image.Point
	DynFlags int
	// EventNum, when non-zero, is posted as a KindEvent for the owning
	// object when the frame is reached.
	EventNum int
}

// NewMirroredPhase returns a horizontally flipped copy of src for use by a
// derived movement. Pixel data is shared read-only and mirrored on load.
func NewMirroredPhase(src *DynamicPhase) *DynamicPhase {
	ph := *src
	ph.Picture = src.Picture.mirror()
	ph.Anchor.X = src.Width - src.Anchor.X
	ph.Offset.X = -src.Offset.X
	if src.ExCommand != nil {
		ph.ExCommand = src.ExCommand.Clone()
	}
	ph.Countdown = ph.InitialCountdown
	return &ph
}
