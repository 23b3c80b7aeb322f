package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/config"
	"github.com/dmitrijs2005/docreview/internal/client/export"
	"github.com/dmitrijs2005/docreview/internal/client/preview"
	"github.com/dmitrijs2005/docreview/internal/client/review"
	"github.com/dmitrijs2005/docreview/internal/client/services"
	"github.com/dmitrijs2005/docreview/internal/cryptox"
	"github.com/dmitrijs2005/docreview/internal/filex"
	"github.com/dmitrijs2005/docreview/internal/logging"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	auth       services.AuthService
	ctl        *review.Controller
	previewer  *preview.Previewer
	categories []string
	reader     *bufio.Reader
	out        io.Writer
}

// NewApp opens the local store under the data dir and wires the services
// against the configured review service.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)
	return newApp(context.Background(), c, logger, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if _, err := filex.EnsureDir(c.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	key, err := cryptox.LoadOrCreateKey(c.KeyPath())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("loading device key: %w", err)
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, logger)

	as := services.NewAuthService(api, db, key, logger)
	ctl := review.NewController(
		as,
		services.NewCatalogService(api),
		services.NewReviewService(api, logger),
		services.NewExportService(api, logger),
		logger,
	)

	return &App{
		config:    c,
		logger:    logger,
		auth:      as,
		ctl:       ctl,
		previewer: preview.New(api, c.ThumbnailDir(), logger),
		reader:    bufio.NewReader(in),
		out:       out,
	}, nil
}

// Run restores a persisted session, then serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.auth.Close(ctx)

	printlnFn("Welcome to the document review CLI (type 'help' for commands)")

	ok, err := a.ctl.Restore(ctx)
	if err != nil {
		notify(err)
	}
	if ok {
		printlnFn(okStyle.Render("Session restored for " + a.ctl.User()))
		if err := a.Categories(ctx, nil); err != nil {
			notify(err)
		}
	} else {
		printlnFn("Not logged in. Type 'login' to start.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.ctl.Authenticated()
}

// getStatus renders the prompt status: user, category, tab and position.
func (a *App) getStatus() string {
	if !a.ctl.Authenticated() {
		return ""
	}
	st := a.ctl.State()
	s := st.User
	if st.List.Category != "" {
		s += " " + st.List.Category + "/" + tabName(st.List.Reviewed)
		if !st.List.Empty() {
			s += fmt.Sprintf(" %d/%d", st.List.Index+1, len(st.List.Documents))
		}
	}
	if e := st.Edits; e != nil && e.Dirty() {
		s += " *"
	}
	return "(" + s + ")"
}

func (a *App) newSink(ctx context.Context, target string) (export.Sink, error) {
	if target == "" {
		target = a.config.ExportTarget
	}
	switch target {
	case config.ExportTargetS3:
		return export.NewS3Sink(ctx, export.S3Config(a.config.S3))
	case config.ExportTargetDir, "":
		return export.NewDirSink(a.config.ExportDir), nil
	default:
		return export.NewDirSink(target), nil
	}
}

func tabName(reviewed bool) string {
	if reviewed {
		return "reviewed"
	}
	return "unreviewed"
}
