package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"ptrkit/internal/config"
	"ptrkit/internal/leaktrack"
	"ptrkit/pkg/shared"
	"ptrkit/pkg/unique"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Watch live allocations in a table while a churn workload runs",
	Long: `inspect enables the allocation tracker, starts a background workload
that continuously creates and drops handles, and shows the live allocations
in a refreshing table. Press q to quit.

While inspect runs, edits to the config file take effect immediately: the
log level and the tracker toggle are reloaded on save.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker := leaktrack.Default()
		tracker.Reset()
		tracker.Enable()
		defer tracker.Disable()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go runChurn(ctx)
		go watchConfig(ctx, tracker)

		p := tea.NewProgram(newInspectModel(tracker), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// watchConfig applies config file edits to the running process.
func watchConfig(ctx context.Context, tracker *leaktrack.Tracker) {
	err := config.Watch(ctx, cfgPath, logger.Named("config"), func(c config.Config) {
		if level, err := zapcore.ParseLevel(c.Logging.Level); err == nil {
			logLevel.SetLevel(level)
		}
		if c.Tracker.Enabled {
			tracker.Enable()
		} else {
			tracker.Disable()
		}
	})
	if err != nil && ctx.Err() == nil {
		logger.Warn("config watcher stopped", zap.Error(err))
	}
}

// blob is the churn workload's payload.
type blob struct {
	id int
}

// runChurn keeps a few goroutines creating and dropping handles so the
// inspect table has something to show.
func runChurn(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < 4; i++ {
		seed := time.Now().UnixNano() + int64(i)
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for {
				u := unique.New(blob{id: rng.Int()})
				s := shared.New(blob{id: rng.Int()})
				c := s.MustClone()

				hold := time.Duration(50+rng.Intn(400)) * time.Millisecond
				select {
				case <-ctx.Done():
					_ = u.Close()
					_ = s.Drop()
					_ = c.Drop()
					return ctx.Err()
				case <-time.After(hold):
				}
				_ = u.Close()
				_ = s.Drop()
				_ = c.Drop()
			}
		})
	}
	_ = g.Wait()
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type inspectModel struct {
	table   table.Model
	tracker *leaktrack.Tracker
	count   int
}

func newInspectModel(tracker *leaktrack.Tracker) inspectModel {
	columns := []table.Column{
		{Title: "Kind", Width: 8},
		{Title: "Type", Width: 20},
		{Title: "Age", Width: 10},
		{Title: "Origin", Width: 46},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(14),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	t.SetStyles(s)
	return inspectModel{table: t, tracker: tracker}
}

func (m inspectModel) Init() tea.Cmd { return tick() }

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tickMsg:
		rows := m.snapshotRows()
		m.count = len(rows)
		m.table.SetRows(rows)
		return m, tick()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m inspectModel) snapshotRows() []table.Row {
	snap := m.tracker.Snapshot()
	now := time.Now()
	rows := make([]table.Row, 0, len(snap))
	for _, a := range snap {
		rows = append(rows, table.Row{
			string(a.Kind),
			a.Type,
			now.Sub(a.Created).Round(10 * time.Millisecond).String(),
			a.Origin,
		})
	}
	return rows
}

var inspectTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func (m inspectModel) View() string {
	title := inspectTitle.Render(fmt.Sprintf("live allocations: %d", m.count))
	help := "q: quit"
	return title + "\n\n" + m.table.View() + "\n" + help + "\n"
}
