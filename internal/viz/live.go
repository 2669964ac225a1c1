package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/borisim/internal/boris"
	"github.com/san-kum/borisim/internal/vec"
)

const (
	liveWidth       = 48
	liveHeight      = 20
	trailCapacity   = 2000
	speedCapacity   = 300
	maxStepsPerTick = 512
)

type TickMsg time.Time

// SolverFactory builds a fresh solver; the live view calls it on reset.
type SolverFactory func() (*boris.Solver, error)

// LiveModel steps a solver on every tick and draws the projected path.
type LiveModel struct {
	name         string
	factory      SolverFactory
	solver       *boris.Solver
	trail        []vec.Vector3
	speeds       []float64
	plane        Plane
	stepsPerTick int
	maxSteps     int
	frameRate    int
	running      bool
	err          error
}

// NewLiveModel creates the model; maxSteps <= 0 runs until quit.
func NewLiveModel(name string, factory SolverFactory, maxSteps, frameRate int) (LiveModel, error) {
	s, err := factory()
	if err != nil {
		return LiveModel{}, err
	}
	if frameRate <= 0 {
		frameRate = 30
	}
	m := LiveModel{
		name:         name,
		factory:      factory,
		solver:       s,
		plane:        PlaneXY,
		stepsPerTick: 4,
		maxSteps:     maxSteps,
		frameRate:    frameRate,
		running:      true,
	}
	m.record()
	return m, nil
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			m.plane = m.plane.Next()
		case "r":
			m.reset()
		case "+", "=":
			if m.stepsPerTick < maxStepsPerTick {
				m.stepsPerTick *= 2
			}
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		if m.maxSteps > 0 && int(m.solver.UStep()) >= m.maxSteps {
			m.running = false
			return
		}
		x := m.solver.Step()
		if !x.IsFinite() || !m.solver.UAfter().IsFinite() {
			m.err = fmt.Errorf("non-finite state at step %.0f", m.solver.UStep())
			return
		}
		m.record()
	}
}

func (m *LiveModel) record() {
	m.trail = append(m.trail, m.solver.XAfter())
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[len(m.trail)-trailCapacity:]
	}
	m.speeds = append(m.speeds, m.solver.Velocity().Magnitude())
	if len(m.speeds) > speedCapacity {
		m.speeds = m.speeds[len(m.speeds)-speedCapacity:]
	}
}

func (m *LiveModel) reset() {
	s, err := m.factory()
	if err != nil {
		m.err = err
		return
	}
	m.solver = s
	m.trail = m.trail[:0]
	m.speeds = m.speeds[:0]
	m.err = nil
	m.running = true
	m.record()
}

// Steps is the number of completed solver steps.
func (m LiveModel) Steps() int { return int(m.solver.UStep()) }

func (m LiveModel) View() string {
	c := NewCanvas(liveWidth, liveHeight)
	c.DrawPath(Project(m.trail, m.plane))
	canvasView := canvasStyle.Render(c.String())

	var s strings.Builder
	s.WriteString(TitleStyle.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(ErrorStyle.Render("ERROR: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	x, v := m.solver.XAfter(), m.solver.Velocity()
	s.WriteString(TextLine("plane", m.plane.String()) + "\n")
	s.WriteString(MetricLine("step", m.solver.UStep()) + "\n")
	s.WriteString(MetricLine("time", m.solver.Time()) + "\n")
	s.WriteString(TextLine("position", fmt.Sprintf("%.3f %.3f %.3f", x.X, x.Y, x.Z)) + "\n")
	s.WriteString(MetricLine("|v|", v.Magnitude()) + "\n")
	s.WriteString(MetricLine("gamma", m.solver.Gamma()) + "\n")
	s.WriteString(MetricLine("steps/frame", float64(m.stepsPerTick)) + "\n")

	if len(m.speeds) > 1 {
		s.WriteString("\n" + graphStyle.Render(PlotSeries(m.speeds, "|v|", 30, 4)) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause TAB:Plane R:Reset +/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// RunLive starts the live view in the alternate screen.
func RunLive(m LiveModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
