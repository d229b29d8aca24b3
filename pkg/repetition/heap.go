package repetition

// priorityHeap is a container/heap.Interface over *QueuedLego, ordered
// ascending by Priority (lower is sooner).
type priorityHeap []*QueuedLego

func (h priorityHeap) Len() int           { return len(h) }
func (h priorityHeap) Less(i, j int) bool { return h[i].Priority < h[j].Priority }
func (h priorityHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *priorityHeap) Push(x any) {
	*h = append(*h, x.(*QueuedLego))
}

func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
