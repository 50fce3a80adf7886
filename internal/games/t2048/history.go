package t2048

import "github.com/gammazero/deque"

// HistoryCapacity is the number of pre-move snapshots kept for undo.
const HistoryCapacity = 20

// HistorySnapshot is a pre-move capture of the engine state.
type HistorySnapshot struct {
	Grid      Grid      `json:"grid"`
	Score     int       `json:"score"`
	State     GameState `json:"gameState"`
	WonBefore bool      `json:"wonBefore"`
}

func (s HistorySnapshot) clone() HistorySnapshot {
	s.Grid = s.Grid.Clone()
	return s
}

// History is a bounded undo stack. Pushing onto a full history evicts the oldest entry.
type History struct {
	items    deque.Deque[HistorySnapshot]
	capacity int
}

// NewHistory creates a history holding at most capacity snapshots.
func NewHistory(capacity int) *History {
	if capacity <= 0 || capacity > HistoryCapacity {
		capacity = HistoryCapacity
	}
	return &History{capacity: capacity}
}

// Push records a snapshot, dropping the oldest one when full.
func (h *History) Push(s HistorySnapshot) {
	if h.items.Len() == h.capacity {
		h.items.PopFront()
	}
	h.items.PushBack(s.clone())
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (HistorySnapshot, bool) {
	if h.items.Len() == 0 {
		return HistorySnapshot{}, false
	}
	return h.items.PopBack(), true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return h.items.Len()
}

// Cap returns the maximum number of snapshots.
func (h *History) Cap() int {
	return h.capacity
}

// Clear drops every snapshot.
func (h *History) Clear() {
	h.items.Clear()
}

// Snapshots returns copies of the stored snapshots, oldest first.
func (h *History) Snapshots() []HistorySnapshot {
	out := make([]HistorySnapshot, h.items.Len())
	for i := range out {
		out[i] = h.items.At(i).clone()
	}
	return out
}
