package message

import "strconv"

// Kind is the numeric command taxonomy. Scene data embeds these values
// literally, so they must never be renumbered.
type Kind int

const (
	KindStartAnim       Kind = 1
	KindSetQueueDelayed Kind = 2
	KindScrollY         Kind = 3
	KindScrollX         Kind = 4
	KindShow            Kind = 5
	KindHide            Kind = 6
	KindStartAnimEx     Kind = 8
	KindNop             Kind = 9
	KindSetPhaseIndex   Kind = 10
	KindEvent           Kind = 17
	KindStartQueue      Kind = 18
	KindQueueToObject   Kind = 19
	KindStartAnimSteps  Kind = 20
	KindStopIdle        Kind = 21
	KindChangeStatics   Kind = 22
	KindShowAndRename   Kind = 27
	KindSetFlags        Kind = 34
	KindSound           Kind = 35
	KindMoveObject      Kind = 55
)

func (k Kind) String() string {
	switch k {
	case KindStartAnim:
		return "Kind(StartAnim)"
	case KindSetQueueDelayed:
		return "Kind(SetQueueDelayed)"
	case KindScrollY:
		return "Kind(ScrollY)"
	case KindScrollX:
		return "Kind(ScrollX)"
	case KindShow:
		return "Kind(Show)"
	case KindHide:
		return "Kind(Hide)"
	case KindStartAnimEx:
		return "Kind(StartAnimEx)"
	case KindNop:
		return "Kind(Nop)"
	case KindSetPhaseIndex:
		return "Kind(SetPhaseIndex)"
	case KindEvent:
		return "Kind(Event)"
	case KindStartQueue:
		return "Kind(StartQueue)"
	case KindQueueToObject:
		return "Kind(QueueToObject)"
	case KindStartAnimSteps:
		return "Kind(StartAnimSteps)"
	case KindStopIdle:
		return "Kind(StopIdle)"
	case KindChangeStatics:
		return "Kind(ChangeStatics)"
	case KindShowAndRename:
		return "Kind(ShowAndRename)"
	case KindSetFlags:
		return "Kind(SetFlags)"
	case KindSound:
		return "Kind(Sound)"
	case KindMoveObject:
		return "Kind(MoveObject)"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsMovement reports whether commands of this kind take part in the
// per-actor exclusivity check performed by MessageQueue.Chain.
func (k Kind) IsMovement() bool {
	switch k {
	case KindStartAnim, KindStartAnimSteps, KindShow, KindShowAndRename:
		return true
	}
	return false
}

// rekeyable kinds address an object instance through KeyCode.
func (k Kind) rekeyable() bool {
	switch k {
	case KindStartAnim, KindSetQueueDelayed, KindShow, KindHide, KindStartQueue,
		KindQueueToObject, KindStartAnimSteps, KindChangeStatics, KindMoveObject:
		return true
	}
	return false
}

// Event numbers carried in Num by KindEvent commands.
const (
	EventAnimStarted     = 23
	EventAnimStopped     = 24
	EventSetReversed     = 25
	EventClearPhaseEvent = 26
	EventSetPriority     = 28
)
