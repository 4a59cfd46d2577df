// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control

import "testing"

func TestTraceRingBoundedAndOrdered(t *testing.T) {
	r := NewTraceRing(4)
	for i := 0; i < 10; i++ {
		r.Push(CycleTrace{NumFrames: i})
	}
	if got := r.Len(); got != 4 {
		t.Fatalf("len = %d, want 4", got)
	}
	snap := r.Snapshot()
	for i, tr := range snap {
		wantFrames := 6 + i
		wantSeq := uint64(7 + i)
		if tr.NumFrames != wantFrames || tr.Seq != wantSeq {
			t.Errorf("snap[%d] = {seq %d, frames %d}, want {seq %d, frames %d}",
				i, tr.Seq, tr.NumFrames, wantSeq, wantFrames)
		}
	}
}

func TestTraceRingDefaultCapacity(t *testing.T) {
	r := NewTraceRing(0)
	if r.capacity != DefaultTraceCapacity {
		t.Fatalf("capacity = %d, want %d", r.capacity, DefaultTraceCapacity)
	}
}
