package algorithms

import (
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/pkg/trace"
)

// LinearProbingTrace inserts keys into a table of the given capacity using
// h(k) = k mod capacity and a probe step of one. One step is recorded per
// probed slot.
func LinearProbingTrace(keys []int, capacity int) (*trace.Trace[HashState], error) {
	if capacity < 1 {
		return nil, inputErr(LinearProbing, "capacity", "must be positive")
	}
	if len(keys) > capacity {
		return nil, inputErr(LinearProbing, "values", "maximum %d items reached", capacity)
	}

	b := trace.NewBuilder(string(LinearProbing), HashState.Clone)
	st := HashState{Slots: make([]int, capacity), Pending: slices.Clone(keys)}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Insert %d key(s) into %d slots with h(k) = k mod %d.", len(keys), capacity, capacity))

	for _, k := range keys {
		st.Pending = st.Pending[1:]
		st.Probes = 0
		home := k % capacity
		for i := 0; i < capacity; i++ {
			slot := (home + i) % capacity
			st.Probes++
			switch st.Slots[slot] {
			case EmptySlot:
				st.Slots[slot] = k
				msg := fmt.Sprintf("h(%d) = %d is free: store %d there.", k, home, k)
				if slot != home {
					msg = fmt.Sprintf("Slot %d is free: store %d after %d probes.", slot, k, st.Probes)
				}
				b.Record(st, PhaseInsert, msg, trace.Index(slot, trace.RoleInserted))
			case k:
				b.Record(st, PhaseFound, fmt.Sprintf("%d is already stored in slot %d.", k, slot), trace.Index(slot, trace.RoleFound))
			default:
				b.Record(st, PhaseProbe, fmt.Sprintf("Slot %d holds %d: collision, probe slot %d.", slot, st.Slots[slot], (slot+1)%capacity),
					trace.Index(slot, trace.RoleCollision), trace.Index((slot+1)%capacity, trace.RoleProbe))
				continue
			}
			break
		}
	}

	st.Probes = 0
	b.Record(st, trace.PhaseDone, fmt.Sprintf("All keys stored; load factor %d/%d.", filled(st.Slots), capacity))
	return b.Build()
}

func filled(slots []int) int {
	n := 0
	for _, v := range slots {
		if v != EmptySlot {
			n++
		}
	}
	return n
}
