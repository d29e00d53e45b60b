// Package behavior drives idle animations: per-actor fidgets chosen by the
// pose the actor rests in, and ambient scene loops without an actor.
package behavior

import (
	"strings"

	"go.uber.org/zap"

	"github.com/32bitkid/fullpipe/anim"
	"github.com/32bitkid/fullpipe/gamevar"
	"github.com/32bitkid/fullpipe/message"
)

// Probabilities are 15-bit at runtime and authored in permille.
const (
	PercentMax    = 0x7FFF
	PercentScale  = 1000
	AutostartFlag = "QDESC_AUTOSTART"
)

// Flags of Info, Entry and EntryInfo.
const (
	InfoDisabled = 0x1

	EntryWeighted = 0x1

	ItemDisabled  = 0x1
	ItemAutostart = 0x2
)

// Random is a uniform source; Intn returns a value in [0, n).
type Random interface {
	Intn(n int) int
}

// Scene is what the manager needs from the loaded scene.
type Scene interface {
	StaticANIObjectsByName(name string) []*anim.StaticANIObject
	MessageQueueByName(name string) *message.MessageQueue
}

// EntryInfo is one candidate queue.
type EntryInfo struct {
	Queue   *message.MessageQueue
	Delay   int
	Percent int
	Flags   int
}

// Entry groups the candidates for one rest pose.
type Entry struct {
	StaticsID int
	Items     []*EntryInfo
	Flags     int
}

// Info is the behavior table of one actor instance, or of the ambient
// scene loops when Ani is nil.
type Info struct {
	Ani        *anim.StaticANIObject
	Entries    []*Entry
	Counter    int
	CounterMax int
	StaticsID  int
	SubIndex   int
	Flags      int
}

func newEntryInfo(v *gamevar.GameVar, sc Scene, log *zap.Logger) *EntryInfo {
	q := sc.MessageQueueByName(v.Name)
	if q == nil {
		log.Warn("behavior queue not found", zap.String("queue", v.Name))
		return nil
	}
	item := &EntryInfo{
		Queue:   q,
		Delay:   v.SubVarAsInt("dwDelay"),
		Percent: PercentMax * v.SubVarAsInt("dwPercent") / PercentScale,
	}
	if strings.Contains(v.SubVarAsString("dwFlags"), AutostartFlag) {
		item.Flags |= ItemAutostart
	}
	return item
}

func newAmbientInfo(v *gamevar.GameVar, sc Scene, log *zap.Logger) *Info {
	info := &Info{SubIndex: -1}
	entry := &Entry{}
	for _, sub := range v.SubVars() {
		item := newEntryInfo(sub, sc, log)
		if item == nil {
			continue
		}
		entry.Items = append(entry.Items, item)
		if len(entry.Items) == 1 || item.Delay < info.CounterMax {
			info.CounterMax = item.Delay
		}
	}
	info.Entries = append(info.Entries, entry)
	return info
}

func newObjectInfo(v *gamevar.GameVar, sc Scene, ani *anim.StaticANIObject, log *zap.Logger) *Info {
	info := &Info{Ani: ani, SubIndex: -1}
	first := true
	for _, poseVar := range v.SubVars() {
		st := ani.StaticsByName(poseVar.Name)
		if st == nil {
			log.Warn("behavior pose not found", zap.String("obj", ani.Name), zap.String("statics", poseVar.Name))
			continue
		}

		entry := &Entry{StaticsID: st.ID}
		minDelay, authored := 0, 0
		for _, itemVar := range poseVar.SubVars() {
			item := newEntryInfo(itemVar, sc, log)
			if item == nil {
				continue
			}
			entry.Items = append(entry.Items, item)
			authored += itemVar.SubVarAsInt("dwPercent")
			if len(entry.Items) == 1 || item.Delay < minDelay {
				minDelay = item.Delay
			}
		}
		if minDelay == 0 && authored == PercentScale {
			entry.Flags |= EntryWeighted
		}

		info.Entries = append(info.Entries, entry)
		if first || minDelay < info.CounterMax {
			info.CounterMax = minDelay
			first = false
		}
	}
	return info
}

// entryFor returns the index of the entry for staticsID, or -1.
func (b *Info) entryFor(staticsID int) int {
	for i, e := range b.Entries {
		if e.StaticsID == staticsID {
			return i
		}
	}
	return -1
}
