package crawler

import "container/heap"

// Frontier holds the URLs waiting to be crawled, partitioned by level, and
// the URLs already handed out.
//
// A URL is pending in at most one level and never becomes pending again
// once visited. Next always serves the smallest pending level, first in
// first out within a level.
type Frontier struct {
	visited map[string]struct{}
	pending map[string]int
	queues  map[int][]string
	levels  levelHeap
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		visited: make(map[string]struct{}),
		pending: make(map[string]int),
		queues:  make(map[int][]string),
	}
}

// Add queues rawURL at level unless it is already pending or visited.
// It reports whether the URL was queued.
func (f *Frontier) Add(rawURL string, level int) bool {
	if f.Seen(rawURL) {
		return false
	}
	q, ok := f.queues[level]
	if !ok || len(q) == 0 {
		heap.Push(&f.levels, level)
	}
	f.queues[level] = append(q, rawURL)
	f.pending[rawURL] = level
	return true
}

// Next removes the oldest URL of the smallest pending level, marks it
// visited and returns it. ok is false when nothing is pending.
func (f *Frontier) Next() (rawURL string, level int, ok bool) {
	if f.levels.Len() == 0 {
		return "", 0, false
	}
	level = f.levels[0]
	q := f.queues[level]
	rawURL = q[0]
	q[0] = ""
	q = q[1:]

	if len(q) == 0 {
		heap.Pop(&f.levels)
		delete(f.queues, level)
	} else {
		f.queues[level] = q
	}

	delete(f.pending, rawURL)
	f.visited[rawURL] = struct{}{}
	return rawURL, level, true
}

// IsEmpty reports whether no URL is pending.
func (f *Frontier) IsEmpty() bool {
	return f.levels.Len() == 0
}

// Len returns the number of pending URLs.
func (f *Frontier) Len() int {
	return len(f.pending)
}

// Visited returns the number of URLs handed out by Next.
func (f *Frontier) Visited() int {
	return len(f.visited)
}

// Seen reports whether rawURL is pending or visited.
func (f *Frontier) Seen(rawURL string) bool {
	if _, ok := f.visited[rawURL]; ok {
		return true
	}
	_, ok := f.pending[rawURL]
	return ok
}

// PendingLevel returns the level rawURL is queued at.
func (f *Frontier) PendingLevel(rawURL string) (int, bool) {
	level, ok := f.pending[rawURL]
	return level, ok
}

// levelHeap is a min-heap of the levels that have a non-empty queue.
type levelHeap []int

func (h levelHeap) Len() int           { return len(h) }
func (h levelHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h levelHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *levelHeap) Push(x any) { *h = append(*h, x.(int)) }

func (h *levelHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
