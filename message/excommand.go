package message

import (
	"fmt"
	"image"
)

// ExcFlagNoWait marks a dispatched command whose owning queue advances as
// soon as the handlers have run, instead of waiting for an animation.
const ExcFlagNoWait = 1

// ExCommand is one atomic instruction: what to do, to whom, and with which
// parameters.
type ExCommand struct {
	// ParentID is the id of the object the command targets.
	ParentID int
	Kind     Kind
	Num      int

	X, Y int
	// Z is kind dependent: priority for Show, start phase index for
	// StartAnim, flag mask for SetFlags.
	Z int

	// KeyCode discriminates between instances sharing one ParentID. -1
	// matches any instance.
	KeyCode int
	Param   int

	SceneClickX, SceneClickY int

	// Wait means the command completes asynchronously: the owning queue
	// only advances once the effect reports back.
	Wait bool

	// Points is the step array of a StartAnimSteps command.
	Points []image.Point

	// ParID is the id of the queue that dispatched the command.
	ParID    int
	ExcFlags int
}

// NewExCommand creates a command addressed to object parentID.
func NewExCommand(parentID int, kind Kind, num int, x, y int, wait bool) *ExCommand {
	return &ExCommand{
		ParentID: parentID,
		Kind:     kind,
		Num:      num,
		X:        x,
		Y:        y,
		KeyCode:  -1,
		Wait:     wait,
	}
}

// NewEvent creates a KindEvent notification about object id.
func NewEvent(id, keyCode, num int) *ExCommand {
	return &ExCommand{
		ParentID: id,
		Kind:     KindEvent,
		Num:      num,
		KeyCode:  keyCode,
	}
}

func (ex *ExCommand) Clone() *ExCommand {
	c := *ex
	if ex.Points != nil {
		c.Points = make([]image.Point, len(ex.Points))
		copy(c.Points, ex.Points)
	}
	return &c
}

func (ex *ExCommand) String() string {
	return fmt.Sprintf("ExCommand{%v obj=%d key=%d num=%d par=%d}", ex.Kind, ex.ParentID, ex.KeyCode, ex.Num, ex.ParID)
}

// conflictsWith reports whether two movement-class commands address the
// same actor instance.
func (ex *ExCommand) conflictsWith(other *ExCommand) bool {
	if !ex.Kind.IsMovement() || !other.Kind.IsMovement() {
		return false
	}
	return ex.KeyCode == other.KeyCode || ex.KeyCode == -1 || other.KeyCode == -1
}
