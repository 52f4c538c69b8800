package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"VoxelEngine/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

type MockBehaviour struct {
	calls []string
}

func (m *MockBehaviour) Start()       { m.calls = append(m.calls, "start") }
func (m *MockBehaviour) Update()      { m.calls = append(m.calls, "update") }
func (m *MockBehaviour) UpdateFixed() { m.calls = append(m.calls, "fixed") }

func (m *MockBehaviour) count(name string) int {
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestBehaviourStartsOnce(t *testing.T) {
	m := NewBehaviourManager()
	b := &MockBehaviour{}
	m.Add(b)

	m.UpdateAll()
	m.UpdateAllFixed()
	m.UpdateAll()

	want := []string{"start", "update", "fixed", "update"}
	if len(b.calls) != len(want) {
		t.Fatalf("Expected calls %v, got %v", want, b.calls)
	}
	for i := range want {
		if b.calls[i] != want[i] {
			t.Errorf("Expected call %d to be %s, got %s", i, want[i], b.calls[i])
		}
	}
}

func TestBehaviourRemoveKeepsOrder(t *testing.T) {
	m := NewBehaviourManager()
	var order []int
	bs := []*orderedBehaviour{{id: 1, log: &order}, {id: 2, log: &order}, {id: 3, log: &order}}
	for _, b := range bs {
		m.Add(b)
	}
	m.Remove(bs[0])
	m.UpdateAll()

	if len(order) != 2 || order[0] != 2 || order[1] != 3 {
		t.Errorf("Expected update order [2 3], got %v", order)
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Expected 0 behaviours after Clear, got %d", m.Len())
	}
}

type orderedBehaviour struct {
	id  int
	log *[]int
}

func (o *orderedBehaviour) Start()       {}
func (o *orderedBehaviour) Update()      { *o.log = append(*o.log, o.id) }
func (o *orderedBehaviour) UpdateFixed() {}

func TestStepRunsFixedEveryNFrames(t *testing.T) {
	e := New(time.Millisecond, 3)
	b := &MockBehaviour{}
	e.Add(b)

	for i := 0; i < 9; i++ {
		e.Step()
	}

	if got := b.count("update"); got != 9 {
		t.Errorf("Expected 9 updates, got %d", got)
	}
	if got := b.count("fixed"); got != 3 {
		t.Errorf("Expected 3 fixed updates, got %d", got)
	}
	if e.Frames() != 9 || e.FixedTicks() != 3 {
		t.Errorf("Expected 9 frames and 3 fixed ticks, got %d and %d", e.Frames(), e.FixedTicks())
	}
	// The fixed tick comes before the frame update on the same frame.
	if b.calls[len(b.calls)-2] != "fixed" || b.calls[len(b.calls)-1] != "update" {
		t.Errorf("Expected fixed then update on the ninth frame, got %v", b.calls[len(b.calls)-2:])
	}
}

func TestNewClampsArguments(t *testing.T) {
	e := New(0, 0)
	if e.frameInterval != defaultFrameInterval {
		t.Errorf("Expected default frame interval, got %v", e.frameInterval)
	}
	b := &MockBehaviour{}
	e.Add(b)
	e.Step()
	if b.count("fixed") != 1 {
		t.Errorf("Expected a fixed update every frame, got %d", b.count("fixed"))
	}
}

func TestRunStopsWithContext(t *testing.T) {
	logger.Set(zaptest.NewLogger(t))
	defer logger.Set(nil)

	e := New(time.Millisecond, 2)
	b := &MockBehaviour{}
	e.Add(b)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if e.Frames() == 0 {
		t.Error("Expected at least one frame")
	}
	if b.count("update") != int(e.Frames()) {
		t.Errorf("Expected one update per frame, got %d for %d frames", b.count("update"), e.Frames())
	}
}

func TestCloseAggregatesErrors(t *testing.T) {
	e := New(time.Millisecond, 1)
	var order []int
	errA, errB := errors.New("a"), errors.New("b")
	e.OnClose(func() error { order = append(order, 1); return errA })
	e.OnClose(func() error { order = append(order, 2); return nil })
	e.OnClose(func() error { order = append(order, 3); return errB })

	err := e.Close()
	if len(multierr.Errors(err)) != 2 {
		t.Errorf("Expected 2 errors, got %v", err)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Expected both errors to be wrapped, got %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("Expected hooks in reverse order, got %v", order)
	}
	if err := e.Close(); err != nil {
		t.Errorf("Expected second Close to be a no-op, got %v", err)
	}
}
