package cli

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jamestrimble/maximal-clique/pkg/pipeline"
)

// tuiProgressInterval is the number of search steps between screen updates.
const tuiProgressInterval = 1 << 16

var (
	tuiFrameStyle = lipgloss.NewStyle().Padding(1, 2)
	tuiHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CountModel - live view of a running search
// =============================================================================

type progressMsg struct {
	steps   int64
	cliques int64
}

type doneMsg struct {
	result *pipeline.Result
	err    error
}

type tickMsg time.Time

// CountModel is the bubbletea model shown by "count --tui".
type CountModel struct {
	Source  string
	Steps   int64
	Cliques int64
	Elapsed time.Duration
	Result  *pipeline.Result
	Err     error
	Aborted bool

	start  time.Time
	cancel context.CancelFunc
}

// NewCountModel creates a model for counting source. cancel is called when
// the user quits before the search finishes.
func NewCountModel(source string, cancel context.CancelFunc) CountModel {
	return CountModel{Source: source, start: time.Now(), cancel: cancel}
}

func (m CountModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m CountModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.Result == nil && m.Err == nil {
				m.Aborted = true
				if m.cancel != nil {
					m.cancel()
				}
			}
			return m, tea.Quit
		}
	case progressMsg:
		m.Steps, m.Cliques = msg.steps, msg.cliques
	case tickMsg:
		if m.done() {
			return m, nil
		}
		m.Elapsed = time.Since(m.start)
		return m, tick()
	case doneMsg:
		m.Result, m.Err = msg.result, msg.err
		m.Elapsed = time.Since(m.start)
		if msg.result != nil {
			m.Steps, m.Cliques = msg.result.Steps, msg.result.Cliques
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m CountModel) done() bool {
	return m.Result != nil || m.Err != nil || m.Aborted
}

func (m CountModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Counting maximal cliques"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.Source))
	b.WriteString("\n\n")

	rate := "-"
	if secs := m.Elapsed.Seconds(); secs > 0 {
		rate = formatCount(int64(float64(m.Steps)/secs)) + "/s"
	}
	rows := [][]string{
		{"steps", formatCount(m.Steps)},
		{"cliques", formatCount(m.Cliques)},
		{"elapsed", m.Elapsed.Round(100 * time.Millisecond).String()},
		{"rate", rate},
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return styleKey
			}
			return StyleNumber
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
	case m.Result != nil:
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " done")
	case m.Aborted:
		b.WriteString(StyleWarning.Render("canceling..."))
	default:
		b.WriteString(tuiHelpStyle.Render("q cancel"))
	}
	b.WriteString("\n")

	return tuiFrameStyle.Render(b.String())
}

// runCountTUI counts one graph while showing CountModel on stderr.
func (c *CLI) runCountTUI(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, input string, opts countOpts) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewCountModel(input, cancel), tea.WithOutput(c.Err), tea.WithInput(cmd.InOrStdin()))

	popts := opts.pipelineOptions()
	popts.ProgressInterval = tuiProgressInterval
	popts.Progress = func(steps, cliques int64) {
		p.Send(progressMsg{steps: steps, cliques: cliques})
	}

	outcome := make(chan doneMsg, 1)
	go func() {
		res, err := runner.Execute(ctx, input, popts)
		p.Send(doneMsg{result: res, err: err})
		outcome <- doneMsg{result: res, err: err}
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-outcome
		return err
	}
	out := <-outcome
	if out.err != nil {
		return out.err
	}
	return writeResults(c.Out, opts.output, []*pipeline.Result{out.result})
}
