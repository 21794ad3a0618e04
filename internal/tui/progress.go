package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dropscene/internal/dynamo"
)

const (
	barWidth     = 40
	historyWidth = 40
)

// FrameMsg reports one completed simulation step.
type FrameMsg struct {
	Frame   int
	Time    float64
	Bodies  int
	Bounces int
	Lowest  float64
}

// DoneMsg ends the view. Err is the generation result.
type DoneMsg struct{ Err error }

type model struct {
	title   string
	total   int
	last    FrameMsg
	seen    bool
	lowest  []float64
	started time.Time
	done    bool
	err     error
	cancel  context.CancelFunc
}

func newModel(title string, total int, cancel context.CancelFunc) model {
	return model{
		title:   title,
		total:   total,
		started: time.Now(),
		cancel:  cancel,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
	case FrameMsg:
		m.last = msg
		m.seen = true
		m.lowest = append(m.lowest, msg.Lowest)
		if len(m.lowest) > historyWidth*4 {
			m.lowest = m.lowest[len(m.lowest)-historyWidth*4:]
		}
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) percent() float64 {
	if m.total <= 0 || !m.seen {
		return 0
	}
	return float64(m.last.Frame+1) / float64(m.total)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(cyan.Bold(true).Render(m.title) + "\n\n")

	pct := m.percent()
	frames := 0
	if m.seen {
		frames = m.last.Frame + 1
	}
	fmt.Fprintf(&b, "%s %s\n", progressBar(pct, barWidth), white.Render(fmt.Sprintf("%3.0f%%", pct*100)))
	fmt.Fprintf(&b, "%s %d/%d  %s %.2fs\n",
		dim.Render("frames"), frames, m.total,
		dim.Render("t"), m.last.Time)
	fmt.Fprintf(&b, "%s %d  %s %d\n",
		dim.Render("bodies"), m.last.Bodies,
		dim.Render("bounces"), m.last.Bounces)
	fmt.Fprintf(&b, "%s %s\n", dim.Render("lowest"), sparkline(m.lowest, historyWidth))

	switch {
	case m.done && m.err != nil:
		b.WriteString("\n" + red.Render("failed: "+m.err.Error()))
	case m.done:
		b.WriteString("\n" + green.Render(fmt.Sprintf("done in %s", time.Since(m.started).Round(time.Millisecond))))
	default:
		b.WriteString("\n" + dim.Render("q to abort"))
	}

	return panel.Render(b.String()) + "\n"
}

// Reporter forwards driver frames to a running progress view.
type Reporter struct {
	send func(tea.Msg)
}

func NewReporter(send func(tea.Msg)) *Reporter {
	return &Reporter{send: send}
}

func (r *Reporter) OnFrame(frame int, t float64, bodies []*dynamo.Body) {
	msg := FrameMsg{Frame: frame, Time: t, Bodies: len(bodies)}
	for i, b := range bodies {
		msg.Bounces += b.Bounces
		if i == 0 || b.Position.Y() < msg.Lowest {
			msg.Lowest = b.Position.Y()
		}
	}
	r.send(msg)
}

// RunProgress shows a progress view while work runs. work receives a
// context that is canceled when the user aborts, and the Reporter to attach
// to the driver.
func RunProgress(ctx context.Context, title string, total int, work func(context.Context, *Reporter) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(title, total, cancel), tea.WithContext(ctx))
	return drive(ctx, cancel, p, work)
}

type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// drive runs work beside the view and always waits for work to return, so
// whatever it holds open is closed before the caller continues.
func drive(ctx context.Context, cancel context.CancelFunc, p program, work func(context.Context, *Reporter) error) error {
	errc := make(chan error, 1)
	go func() {
		err := work(ctx, NewReporter(p.Send))
		errc <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-errc
		return fmt.Errorf("progress view: %w", err)
	}
	return <-errc
}
