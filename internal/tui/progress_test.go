package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropscene/internal/dynamo"
)

func TestModel_TracksFrames(t *testing.T) {
	var m tea.Model = newModel("generate", 24, nil)

	m, _ = m.Update(FrameMsg{Frame: 11, Time: 0.5, Bodies: 1, Lowest: 0.2})
	pm := m.(model)
	if pm.percent() != 0.5 {
		t.Errorf("expected 50%%, got %v", pm.percent())
	}
	if !strings.Contains(pm.View(), "12/24") {
		t.Errorf("view missing frame counter:\n%s", pm.View())
	}
}

func TestModel_DoneQuits(t *testing.T) {
	var m tea.Model = newModel("generate", 24, nil)

	m, cmd := m.Update(DoneMsg{Err: errors.New("disk full")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Errorf("view missing error:\n%s", m.View())
	}
}

func TestModel_AbortCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var m tea.Model = newModel("generate", 24, cancel)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if ctx.Err() == nil {
		t.Error("expected context to be canceled")
	}
}

func TestReporter_Aggregates(t *testing.T) {
	var got []tea.Msg
	r := NewReporter(func(msg tea.Msg) { got = append(got, msg) })

	a := dynamo.NewBody(1, mgl64.Vec3{0, 0.3, 3})
	a.Bounces = 2
	b := dynamo.NewBody(2, mgl64.Vec3{0, -0.45, 3})
	b.Bounces = 1
	r.OnFrame(7, 0.29, []*dynamo.Body{a, b})

	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	msg := got[0].(FrameMsg)
	if msg.Frame != 7 || msg.Bodies != 2 || msg.Bounces != 3 || msg.Lowest != -0.45 {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestSparkline_Width(t *testing.T) {
	if s := sparkline(nil, 5); s != "─────" {
		t.Errorf("unexpected empty sparkline %q", s)
	}
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = float64(i)
	}
	if n := strings.Count(sparkline(vals, 10), "█"); n != 1 {
		t.Errorf("expected a single full block, got %d", n)
	}
}

type failingProgram struct{ err error }

func (f failingProgram) Run() (tea.Model, error) { return nil, f.err }
func (f failingProgram) Send(tea.Msg)            {}

func TestDrive_ViewFailureWaitsForWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	finished := false
	err := drive(ctx, cancel, failingProgram{err: errors.New("no tty")}, func(ctx context.Context, r *Reporter) error {
		<-ctx.Done()
		finished = true
		return ctx.Err()
	})

	if err == nil || !strings.Contains(err.Error(), "no tty") {
		t.Errorf("expected view error, got %v", err)
	}
	if !finished {
		t.Error("returned before work finished")
	}
}

type quietProgram struct{ done chan struct{} }

func (q quietProgram) Run() (tea.Model, error) {
	<-q.done
	return nil, nil
}

func (q quietProgram) Send(msg tea.Msg) {
	if _, ok := msg.(DoneMsg); ok {
		close(q.done)
	}
}

func TestDrive_ReturnsWorkError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cause := errors.New("disk full")
	err := drive(ctx, cancel, quietProgram{done: make(chan struct{})}, func(context.Context, *Reporter) error {
		return cause
	})
	if !errors.Is(err, cause) {
		t.Errorf("expected work error, got %v", err)
	}
}
