package simulator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// DefaultQueueCapacity is used when NewQueue gets a non-positive capacity.
const DefaultQueueCapacity = 8

// Queue is a circular buffer FIFO.
type Queue struct {
	buf   []int
	head  int
	count int
}

// NewQueue creates an empty queue.
func NewQueue(capacity int) *Queue {
	return &Queue{buf: make([]int, orDefault(capacity, DefaultQueueCapacity))}
}

func (q *Queue) Name() string { return "queue" }

func (q *Queue) Ops() []Op { return []Op{OpEnqueue, OpDequeue, OpPeek, OpClear} }

// Head is the buffer index of the front element.
func (q *Queue) Head() int { return q.head }

// Tail is the buffer index the next enqueue writes to.
func (q *Queue) Tail() int { return (q.head + q.count) % len(q.buf) }

// Len returns the number of queued values.
func (q *Queue) Len() int { return q.count }

// Items returns the contents front to back.
func (q *Queue) Items() []int {
	out := make([]int, q.count)
	for i := range out {
		out[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	return out
}

func (q *Queue) Apply(a Action) (Result, error) {
	switch a.Op {
	case OpEnqueue:
		if q.count == len(q.buf) {
			return Result{}, fmt.Errorf("enqueue %d: queue of %d is full: %w", a.Value, len(q.buf), domain.ErrOverflow)
		}
		slot := q.Tail()
		q.buf[slot] = a.Value
		q.count++
		return Result{Action: a, Value: a.Value, Message: fmt.Sprintf("enqueued %d at slot %d", a.Value, slot)}, nil
	case OpDequeue:
		if q.count == 0 {
			return Result{}, fmt.Errorf("dequeue: queue is empty: %w", domain.ErrUnderflow)
		}
		v := q.buf[q.head]
		q.buf[q.head] = 0
		q.head = (q.head + 1) % len(q.buf)
		q.count--
		return Result{Action: a, Value: v, Found: true, Message: fmt.Sprintf("dequeued %d, head = %d", v, q.head)}, nil
	case OpPeek:
		if q.count == 0 {
			return Result{}, fmt.Errorf("peek: queue is empty: %w", domain.ErrUnderflow)
		}
		v := q.buf[q.head]
		return Result{Action: a, Value: v, Found: true, Message: fmt.Sprintf("front is %d", v)}, nil
	case OpClear:
		clear(q.buf)
		q.head, q.count = 0, 0
		return Result{Action: a, Message: "cleared"}, nil
	}
	return Result{}, unsupported(q.Name(), a)
}

func (q *Queue) String() string {
	slots := make([]string, len(q.buf))
	for i := range q.buf {
		slots[i] = "_"
	}
	for i := 0; i < q.count; i++ {
		j := (q.head + i) % len(q.buf)
		slots[j] = strconv.Itoa(q.buf[j])
	}
	return fmt.Sprintf("[%s] head=%d tail=%d", strings.Join(slots, " "), q.head, q.Tail())
}
