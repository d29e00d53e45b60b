package anim

// StaticsMirrored is the id bit marking a right-facing rest pose.
const StaticsMirrored = 0x4000

// Statics is a named rest pose.
type Statics struct {
	StaticPhase
	ID   int
	Name string
}

func NewStatics(id int, name string, pic Picture) *Statics {
	return &Statics{
		StaticPhase: StaticPhase{Picture: pic},
		ID:          id,
		Name:        name,
	}
}

func (s *Statics) IsMirrored() bool {
	return (s.ID>>8)&0x40 != 0
}

func (s *Statics) clone() *Statics {
	c := *s
	if s.ExCommand != nil {
		c.ExCommand = s.ExCommand.Clone()
	}
	return &c
}
