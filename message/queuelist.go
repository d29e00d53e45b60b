package message

// QueueList is the registry of live queues addressed by id. Ids are only
// unique among queues currently held by the list and are reused after
// Compact prunes finished ones.
type QueueList struct {
	queues []*MessageQueue
}

func NewQueueList() *QueueList { return &QueueList{} }

func (l *QueueList) Len() int { return len(l.queues) }

// Add registers q and marks it as listed.
func (l *QueueList) Add(q *MessageQueue) {
	q.Flags |= QueueFlagListed
	l.queues = append(l.queues, q)
}

// ByID returns the first registered queue with the given id, finished or
// not, or nil.
func (l *QueueList) ByID(id int) *MessageQueue {
	for _, q := range l.queues {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// DeleteQueueByID unregisters the queue with the given id and orphans its
// children.
func (l *QueueList) DeleteQueueByID(id int) {
	for i, q := range l.queues {
		if q.ID == id {
			l.removeAt(i)
			l.DisableQueueByID(id)
			return
		}
	}
}

// RemoveQueueByID is DeleteQueueByID that also clears the listed flag.
func (l *QueueList) RemoveQueueByID(id int) {
	for i, q := range l.queues {
		if q.ID == id {
			q.Flags &^= QueueFlagListed
			l.removeAt(i)
			l.DisableQueueByID(id)
			return
		}
	}
}

// Remove unregisters q itself, leaving other queues that happen to share
// its id in place.
func (l *QueueList) Remove(q *MessageQueue) {
	for i, other := range l.queues {
		if other == q {
			q.Flags &^= QueueFlagListed
			l.removeAt(i)
			l.DisableQueueByID(q.ID)
			return
		}
	}
}

// DisableQueueByID detaches every queue whose parent is id.
func (l *QueueList) DisableQueueByID(id int) {
	for _, q := range l.queues {
		if q.ParentID == id {
			q.ParentID = 0
		}
	}
}

// Compact drops finished queues and returns the lowest positive id not
// held by any remaining queue.
func (l *QueueList) Compact() int {
	for i := 0; i < len(l.queues); {
		q := l.queues[i]
		if q.IsFinished {
			l.DisableQueueByID(q.ID)
			l.removeAt(i)
			continue
		}
		i++
	}

	// n live queues can occupy at most n of the ids 1..n+1
	used := make([]bool, len(l.queues)+2)
	for _, q := range l.queues {
		if q.ID > 0 && q.ID < len(used) {
			used[q.ID] = true
		}
	}

	id := 1
	for ; id < len(used); id++ {
		if !used[id] {
			break
		}
	}
	return id
}

// Each calls fn for every registered queue.
func (l *QueueList) Each(fn func(q *MessageQueue)) {
	for _, q := range append([]*MessageQueue(nil), l.queues...) {
		fn(q)
	}
}

func (l *QueueList) removeAt(i int) {
	copy(l.queues[i:], l.queues[i+1:])
	l.queues[len(l.queues)-1] = nil
	l.queues = l.queues[:len(l.queues)-1]
}
