package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/cursor"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 2
	footerHeight = 3
	chartHeight  = 8
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1e1b4b")).Background(lipgloss.Color("#a78bfa")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1aa"))
	playStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#34d399"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
)

// advanceMsg is sent by the player after every tick.
type advanceMsg struct{ index int }

// finishedMsg is sent by the player when a run reaches the last step.
type finishedMsg struct{}

// Option configures a Model.
type Option func(*Model)

// WithRenderer sets the step renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithNotes attaches markdown study notes, toggled with "t".
func WithNotes(markdown string, renderer ContentRenderer) Option {
	return func(m *Model) {
		m.notes = markdown
		m.markdown = renderer
	}
}

// WithOnApply persists navigation. A finished or paused run reports itself
// as a seek to the reached index.
func WithOnApply(fn func(ctx context.Context, cmd domain.Command) error) Option {
	return func(m *Model) {
		m.onApply = fn
	}
}

// WithPlayback forwards options to the player.
func WithPlayback(opts ...playback.Option) Option {
	return func(m *Model) {
		m.playOpts = append(m.playOpts, opts...)
	}
}

// Model is the interactive step player.
type Model struct {
	kind     algorithms.Kind
	cursor   *cursor.Cursor[any]
	renderer *render.Renderer
	player   *playback.Player
	playOpts []playback.Option
	onApply  func(ctx context.Context, cmd domain.Command) error
	notes    string
	markdown ContentRenderer

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	ready    bool

	showChart bool
	showNotes bool
	playFrom  int
	err       error
	quitting  bool

	send func(tea.Msg)
}

// New creates a model over c. Run wires the player to the program.
func New(kind algorithms.Kind, c *cursor.Cursor[any], opts ...Option) *Model {
	m := &Model{
		kind:     kind,
		cursor:   c,
		renderer: render.New(),
		markdown: PlainRenderer,
		keys:     defaultKeys(),
		help:     help.New(),
		send:     func(tea.Msg) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.markdown == nil {
		m.markdown = PlainRenderer
	}
	popts := append([]playback.Option{}, m.playOpts...)
	popts = append(popts,
		playback.WithOnAdvance(func(i int) { m.send(advanceMsg{index: i}) }),
		playback.WithOnFinish(func() { m.send(finishedMsg{}) }),
	)
	m.player = playback.New(c, popts...)
	return m
}

// Run shows the model full screen until the user quits or ctx is done.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)...)
	m.send = p.Send
	_, err := p.Run()
	if m.player.Cancel() {
		m.commitPlay()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		height := max(msg.Height-headerHeight-footerHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		if m.notes != "" {
			m.markdown = NewRenderer(msg.Width)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.player.Cancel() {
				m.commitPlay()
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Play):
			m.togglePlay()
		case key.Matches(msg, m.keys.Next):
			m.move(domain.Next())
		case key.Matches(msg, m.keys.Prev):
			m.move(domain.Prev())
		case key.Matches(msg, m.keys.First):
			m.move(domain.Reset())
		case key.Matches(msg, m.keys.Last):
			m.move(domain.Seek(m.cursor.Len() - 1))
		case key.Matches(msg, m.keys.Chart):
			m.showChart = !m.showChart
		case key.Matches(msg, m.keys.Notes):
			m.showNotes = !m.showNotes
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		default:
			if m.ready {
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

	case advanceMsg:
		// The player already moved the cursor; only the view changes.

	case finishedMsg:
		m.commitPlay()
	}

	m.refresh()
	return m, nil
}

func (m *Model) togglePlay() {
	if m.player.Cancel() {
		m.commitPlay()
		return
	}
	m.playFrom = m.cursor.Index()
	if err := m.player.Start(); err != nil {
		if errors.Is(err, domain.ErrNothingToPlay) {
			m.err = errors.New("already at the last step (press r to reset)")
			return
		}
		m.err = err
		return
	}
	m.err = nil
}

// move cancels a running player before touching the cursor.
func (m *Model) move(cmd domain.Command) {
	if m.player.Cancel() {
		m.commitPlay()
	}
	from := m.cursor.Index()
	if _, err := m.cursor.Apply(cmd); err != nil {
		m.err = err
		return
	}
	m.err = nil
	if m.cursor.Index() != from {
		m.apply(cmd)
	}
}

func (m *Model) commitPlay() {
	if to := m.cursor.Index(); to != m.playFrom {
		m.apply(domain.Seek(to))
		m.playFrom = to
	}
}

func (m *Model) apply(cmd domain.Command) {
	if m.onApply == nil {
		return
	}
	if err := m.onApply(context.Background(), cmd); err != nil {
		m.err = fmt.Errorf("save failed: %w", err)
	}
}

// content is everything below the header.
func (m *Model) content() string {
	step := m.cursor.Current()
	var b strings.Builder

	body, err := m.renderer.Body(m.kind, step)
	if err != nil {
		body = errorStyle.Render(err.Error())
	}
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(step.Annotation)
	b.WriteString("\n")

	if m.showChart {
		if chart, err := render.Chart(m.kind, step, chartHeight); err == nil {
			b.WriteString("\n")
			b.WriteString(chart)
			b.WriteString("\n")
		}
	}
	if m.showNotes && m.notes != "" {
		notes, err := m.markdown(m.notes)
		if err != nil {
			notes = m.notes
		}
		b.WriteString("\n")
		b.WriteString(notes)
	}
	return b.String()
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.content())
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render("stepwise · "+string(m.kind)) + "  " +
		statusStyle.Render(fmt.Sprintf("step %d/%d", m.cursor.Index()+1, m.cursor.Len()))
	if phase := m.cursor.Current().Phase; phase != "" {
		header += statusStyle.Render(fmt.Sprintf("  [%s]", phase))
	}
	if m.player.Running() {
		header += "  " + playStyle.Render("▶ playing")
	}

	body := m.content()
	if m.ready {
		m.viewport.SetContent(body)
		body = m.viewport.View()
	}

	footer := ""
	if m.err != nil {
		footer = errorStyle.Render(m.err.Error()) + "\n"
	}
	footer += m.help.View(m.keys)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, footer)
}
