// Package cli wires the temporal core's services behind a small
// kingpin command-line surface: colorized status output, one Command
// per operator action.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentrecall/temporalcore/blobstore"
	"github.com/agentrecall/temporalcore/graph"
	"github.com/agentrecall/temporalcore/internal/logging"
	"github.com/agentrecall/temporalcore/internal/metrics"
	"github.com/agentrecall/temporalcore/rehydrate"
	"github.com/agentrecall/temporalcore/replay"
	"github.com/agentrecall/temporalcore/timetravel"
)

var log = logging.Module("temporalcore/cli")

var (
	errorColor = color.New(color.FgRed, color.Bold)
	noteColor  = color.New(color.FgCyan)
)

// App wires an in-memory or caller-supplied pair of collaborators
// behind the operator commands.
type App struct {
	kp *kingpin.Application

	graphStore graph.Store
	blobStore  blobstore.Store
	metrics    *metrics.Registry

	out *textOutput

	sessionID  *string
	targetTime *int64
}

// textOutput isolates stdout/stderr writes behind one object so output
// is capturable in tests and color auto-detection stays in one place.
type textOutput struct {
	stdout io.Writer
	stderr io.Writer
}

func newTextOutput() *textOutput {
	stdout := io.Writer(os.Stdout)
	stderr := io.Writer(os.Stderr)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		stdout = colorable.NewColorableStdout()
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		stderr = colorable.NewColorableStderr()
	}
	return &textOutput{stdout: stdout, stderr: stderr}
}

func (t *textOutput) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.stdout, format, args...)
}

func (t *textOutput) errorf(format string, args ...interface{}) {
	fmt.Fprint(t.stderr, errorColor.Sprintf(format, args...))
}

// New returns an App backed by g and b, with its own private metrics
// registry (the CLI runs standalone and doesn't expose /metrics; a
// server embedding these packages would pass its own registerer to
// metrics.NewRegistry instead).
func New(g graph.Store, b blobstore.Store) *App {
	a := &App{
		kp:         kingpin.New("temporalcore", "Bitemporal agent-memory time travel"),
		graphStore: g,
		blobStore:  b,
		metrics:    metrics.NewRegistry(prometheus.NewRegistry()),
		out:        newTextOutput(),
	}
	a.setup()
	return a
}

func (a *App) setup() {
	a.sessionID = a.kp.Flag("session", "session id").Short('s').Required().String()
	a.targetTime = a.kp.Flag("at", "target time (epoch ms)").Short('t').Required().Int64()

	lsCmd := a.kp.Command("ls", "list a directory as of a point in time")
	lsPath := lsCmd.Arg("path", "directory path").Default("/").String()
	lsCmd.Action(a.runLs(lsPath))

	catCmd := a.kp.Command("cat", "print a file's content as of a point in time")
	catPath := catCmd.Arg("path", "file path").Required().String()
	catCmd.Action(a.runCat(catPath))

	exportCmd := a.kp.Command("snapshot-export", "write a gzipped VFS snapshot to stdout")
	exportCmd.Action(a.runSnapshotExport())

	replayCmd := a.kp.Command("replay", "replay one recorded tool call and report whether it matches")
	eventID := replayCmd.Arg("event", "tool call id").Required().String()
	replayCmd.Action(a.runReplay(eventID))
}

// Run parses args (excluding the program name) and executes the
// matched command.
func (a *App) Run(args []string) error {
	_, err := a.kp.Parse(args)
	return err
}

func (a *App) timeTravelService() *timetravel.Service {
	r := rehydrate.New(a.graphStore, a.blobStore).WithMetrics(a.metrics)
	return timetravel.New(r)
}

func (a *App) runLs(path *string) func(*kingpin.ParseContext) error {
	return func(*kingpin.ParseContext) error {
		svc := a.timeTravelService()
		entries, err := svc.ListFiles(context.Background(), *a.sessionID, *a.targetTime, *path)
		if err != nil {
			a.out.errorf("ls failed: %v\n", err)
			return err
		}
		for _, e := range entries {
			a.out.printf("%s\n", e)
		}
		return nil
	}
}

func (a *App) runCat(path *string) func(*kingpin.ParseContext) error {
	return func(*kingpin.ParseContext) error {
		svc := a.timeTravelService()
		content, err := svc.ReadFile(context.Background(), *a.sessionID, *a.targetTime, *path)
		if err != nil {
			a.out.errorf("cat failed: %v\n", err)
			return err
		}
		a.out.printf("%s", content)
		return nil
	}
}

func (a *App) runSnapshotExport() func(*kingpin.ParseContext) error {
	return func(*kingpin.ParseContext) error {
		svc := a.timeTravelService()
		blob, err := svc.GetZippedState(context.Background(), *a.sessionID, *a.targetTime)
		if err != nil {
			a.out.errorf("snapshot export failed: %v\n", err)
			return err
		}
		_, err = a.out.stdout.Write(blob)
		return err
	}
}

func (a *App) runReplay(eventID *string) func(*kingpin.ParseContext) error {
	return func(*kingpin.ParseContext) error {
		r := rehydrate.New(a.graphStore, a.blobStore).WithMetrics(a.metrics)
		e := replay.New(a.graphStore, r).WithMetrics(a.metrics)

		report := e.Replay(context.Background(), *a.sessionID, *eventID)
		if !report.Success {
			a.out.errorf("replay failed: %s\n", report.Error)
			log(context.Background()).Errorw("replay failed", "session", *a.sessionID, "event", *eventID, "err", report.Error)
			return fmt.Errorf("replay failed: %s", report.Error)
		}

		if report.Matches {
			a.out.printf("%s\n", noteColor.Sprint("match"))
		} else {
			a.out.printf("mismatch\n  original: %s\n  replay:   %s\n", report.OriginalOutput, report.ReplayOutput)
		}
		return nil
	}
}
