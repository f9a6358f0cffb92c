package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/export"
	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/pipeline"
	"github.com/matzehuels/fourcolor/pkg/raster"
)

// tuneCommand creates the tune command: an interactive loop that recomputes
// the preview as the denoise level changes and exports on demand.
func (c *CLI) tuneCommand() *cobra.Command {
	var flags pipelineFlags
	var colors, dir string

	cmd := &cobra.Command{
		Use:   "tune IMAGE",
		Short: "Adjust the denoise level interactively",
		Long: `Show how IMAGE separates while stepping the denoise level with the arrow keys.
Press s to export the selected colours at the current level, q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			sel, err := c.selection(cmd, colors)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = c.Config.OutputDir
			}
			return c.runTune(cmd.Context(), args[0], opts, sel, export.Options{Dir: dir, Manifest: true})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&colors, "colors", "c", "", "colours exported by s: black,red,yellow,white")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory for s")

	return cmd
}

func (c *CLI) runTune(ctx context.Context, input string, opts pipeline.Options, sel palette.Selection, exp export.Options) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	session, err := c.newSession(runner, input, opts)
	if err != nil {
		return err
	}
	// The TUI owns the terminal; pipeline logs would tear the view.
	runner.Logger = log.NewWithOptions(io.Discard, log.Options{})

	exp.Base = session.Source().Base()
	m := newTuneModel(ctx, runner, session, sel, exp)
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// tuneModel
// =============================================================================

// previewMsg carries a finished preview. gen identifies the request so
// results of superseded requests are dropped.
type previewMsg struct {
	gen int
	res *pipeline.Result
	err error
}

// exportMsg carries a finished export.
type exportMsg struct {
	report *export.Report
	err    error
}

// tuneModel is the bubbletea model behind the tune command.
type tuneModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	session *pipeline.Session
	sel     palette.Selection
	exp     export.Options

	gen       int  // latest preview request
	busy      bool // preview in flight
	exporting bool
	status    string
	err       error
}

func newTuneModel(ctx context.Context, r *pipeline.Runner, s *pipeline.Session, sel palette.Selection, exp export.Options) tuneModel {
	return tuneModel{
		ctx:     ctx,
		runner:  r,
		session: s,
		sel:     sel,
		exp:     exp,
		gen:     1,
		busy:    true,
	}
}

func (m tuneModel) Init() tea.Cmd {
	return previewCmd(m.ctx, m.runner, m.session, m.gen)
}

// previewCmd snapshots the session and computes the preview off the UI
// goroutine.
func previewCmd(ctx context.Context, r *pipeline.Runner, s *pipeline.Session, gen int) tea.Cmd {
	src, opts, err := s.Snapshot()
	return func() tea.Msg {
		if err != nil {
			return previewMsg{gen: gen, err: err}
		}
		res, err := r.Preview(ctx, src, opts)
		return previewMsg{gen: gen, res: res, err: err}
	}
}

func exportCmd(ctx context.Context, r *pipeline.Runner, res *pipeline.Result, sel palette.Selection, exp export.Options) tea.Cmd {
	return func() tea.Msg {
		report, err := r.Export(ctx, res, sel, exp)
		return exportMsg{report: report, err: err}
	}
}

func (m tuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "+", "right", "l":
			return m.stepLevel(1)
		case "down", "j", "-", "left", "h":
			return m.stepLevel(-1)
		case "s":
			res := m.session.Current()
			if m.busy || res == nil {
				m.status = "preview not ready yet"
				return m, nil
			}
			if m.exporting {
				return m, nil
			}
			m.exporting = true
			m.status = "exporting..."
			return m, exportCmd(m.ctx, m.runner, res, m.sel, m.exp)
		}

	case previewMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.session.Accept(msg.res)
		}

	case exportMsg:
		m.exporting = false
		m.status = exportStatus(msg.report, msg.err)
	}
	return m, nil
}

// stepLevel changes the level and requests a new preview unless the level
// was already at its bound.
func (m tuneModel) stepLevel(delta int) (tea.Model, tea.Cmd) {
	before := m.session.Level()
	if m.session.AdjustLevel(delta) == before {
		return m, nil
	}
	m.gen++
	m.busy = true
	m.status = ""
	return m, previewCmd(m.ctx, m.runner, m.session, m.gen)
}

func exportStatus(report *export.Report, err error) string {
	switch {
	case err != nil:
		return "export failed: " + ferrors.UserMessage(err)
	case report.Warning != nil:
		return ferrors.UserMessage(report.Warning)
	case report.Err() != nil:
		return fmt.Sprintf("export finished with errors: %v", report.Err())
	default:
		return fmt.Sprintf("wrote %s to %s", plural(len(report.Files()), "file"), report.Dir)
	}
}

func (m tuneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tune " + m.session.Source().Path))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ level  s export  q quit"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n", StyleDim.Render("width"), StyleValue.Render(fmt.Sprintf("%g mm", m.session.Width()))))
	b.WriteString(fmt.Sprintf("%s %s %s\n", StyleDim.Render("level"), levelBar(m.session.Level()), StyleHighlight.Render(fmt.Sprint(m.session.Level()))))

	res := m.session.Current()
	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + ferrors.UserMessage(m.err) + "\n")
	case res == nil || m.busy:
		b.WriteString(styleIconSpinner.Render("…") + StyleDim.Render(" quantizing") + "\n")
	default:
		b.WriteString(statsLine(res, res.CacheInfo.PreviewHit) + "\n")
		b.WriteString(coverageBar(res.Histogram, 40) + "\n")
	}

	if len(m.sel) > 0 {
		b.WriteString(StyleDim.Render("export: "+strings.Join(m.sel.Names(), ", ")) + "\n")
	} else {
		b.WriteString(StyleWarning.Render("no colours selected, pass --colors to export") + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	return b.String()
}

// levelBar renders the level as filled cells out of MaxLevel.
func levelBar(level int) string {
	filled := lipgloss.NewStyle().Foreground(colorCyan).Render(strings.Repeat("■", level))
	empty := StyleDim.Render(strings.Repeat("□", raster.MaxLevel-level))
	return filled + empty
}
