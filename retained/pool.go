package retained

import "sync"

// ============================================================================
// Slice Pooling
// ============================================================================
//
// Layout passes and render-order snapshots copy child slices before walking
// them so hooks may mutate the tree mid-walk. Pooling those copies keeps a
// steady tick allocation free.
//
//   children := acquireWidgetSlice(len(w.children))
//   copy(children, w.children)
//   ...
//   releaseWidgetSlice(children)

var widgetSlicePool = sync.Pool{
	New: func() any {
		return make([]*Widget, 0, 16)
	},
}

// acquireWidgetSlice returns a slice with len n. Callers must release it.
func acquireWidgetSlice(n int) []*Widget {
	slice := widgetSlicePool.Get().([]*Widget)
	if cap(slice) < n {
		widgetSlicePool.Put(slice[:0])
		return make([]*Widget, n, n*2)
	}
	return slice[:n]
}

// releaseWidgetSlice clears and returns a slice to the pool.
func releaseWidgetSlice(slice []*Widget) {
	if slice == nil {
		return
	}
	clear(slice)
	if cap(slice) <= 256 {
		widgetSlicePool.Put(slice[:0])
	}
}

// taskSlicePool holds the buffers the loop swaps in when draining posted
// work.
var taskSlicePool = sync.Pool{
	New: func() any {
		return make([]func(), 0, 8)
	},
}

func acquireTaskSlice() []func() {
	return taskSlicePool.Get().([]func())[:0]
}

func releaseTaskSlice(slice []func()) {
	clear(slice)
	if cap(slice) <= 1024 {
		taskSlicePool.Put(slice[:0])
	}
}
