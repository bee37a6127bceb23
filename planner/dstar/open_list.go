package dstar

// openList implements heap.Interface over states ordered by key value.
// Every state remembers its heap position so it can be re-prioritized or
// removed without a scan.
type openList []*State

func (ol openList) Len() int { return len(ol) }

func (ol openList) Less(i, j int) bool {
	return ol[i].k < ol[j].k
}

func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].heapIndex = i
	ol[j].heapIndex = j
}

func (ol *openList) Push(x interface{}) {
	s := x.(*State)
	s.heapIndex = len(*ol)
	*ol = append(*ol, s)
}

func (ol *openList) Pop() interface{} {
	old := *ol
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	s.heapIndex = -1
	*ol = old[0 : n-1]
	return s
}
