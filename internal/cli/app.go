// Package cli implements the pyfluence command-line interface using cobra.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"log/slog"

	"github.com/kshehadeh/pyfluence/internal/config"
	"github.com/kshehadeh/pyfluence/internal/confluence"
	"github.com/kshehadeh/pyfluence/pkg/logging"

	"github.com/spf13/cobra"
)

// App carries the shared state of a CLI invocation: configuration, the
// Confluence client and the process streams. Streams are injected so
// commands can be exercised in tests.
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgPath  string
	server   string
	username string
	password string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
	client *confluence.Client

	stdinRead bool
	stdinData []byte
}

// New constructs an App bound to the process streams.
func New() *App {
	return NewWithIO(os.Stdin, os.Stdout, os.Stderr)
}

// NewWithIO constructs an App with explicit streams.
func NewWithIO(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	app := New()
	if err := app.Command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// Command builds the root command with all subcommands attached.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "pyfluence",
		Short:         "A command-line client for the Atlassian Confluence REST API",
		Long:          "pyfluence issues Confluence REST requests for content, search, labels and attachments,\nand renders JSON results to stdout for pipeline composition.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to a .pyfluence config file or directory")
	root.PersistentFlags().StringVar(&a.server, "server", "", "The confluence server")
	root.PersistentFlags().StringVar(&a.username, "username", "", "Username to login with")
	root.PersistentFlags().StringVar(&a.password, "password", "", "Password to login with")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(a.contentCommand())
	root.AddCommand(a.labelCommand())
	root.AddCommand(a.searchCommand())
	root.AddCommand(a.spaceCommand())
	root.AddCommand(a.mcpCommand())

	return root
}

// connect loads configuration, applies flag overrides and netrc fallbacks,
// and builds the Confluence client. It is a no-op when a client has already
// been installed (tests do this).
func (a *App) connect() error {
	if a.client != nil {
		return nil
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}

	if a.server != "" {
		cfg.Connection.Server = a.server
	}
	if a.username != "" {
		cfg.Connection.Username = a.username
	}
	if a.password != "" {
		cfg.Connection.Password = a.password
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	if err := cfg.ApplyNetrcDefaults(); err != nil {
		return err
	}

	if err := cfg.ValidateConnection(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewWithWriter(a.stderr, cfg.LogLevel)

	client, err := confluence.New(cfg.Connection.Server, cfg.Connection.Credentials(), a.logger)
	if err != nil {
		return err
	}
	a.client = client

	fmt.Fprintf(a.stderr, "Connecting to %s as %s\n", cfg.Connection.Server, cfg.Connection.Username)
	return nil
}

// readStdin returns whatever is in the stdin pipe, or nil when stdin is a
// terminal. The pipe is read once and cached: a single invocation may ask
// for stdin as both raw text and JSON, but only one interpretation applies.
func (a *App) readStdin() ([]byte, error) {
	if a.stdinRead {
		return a.stdinData, nil
	}
	a.stdinRead = true

	if a.stdin == nil {
		return nil, nil
	}
	if f, ok := a.stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return nil, nil
		}
	}

	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	a.stdinData = data
	return data, nil
}

// chainedResults is the shape piped between commands: the JSON envelope a
// prior pyfluence command wrote to stdout.
type chainedResults struct {
	Results []struct {
		Content struct {
			ID string `json:"id"`
		} `json:"content"`
	} `json:"results"`
}

// contentIDs resolves the target content ids from the --content_id flag or,
// when absent, from piped JSON search results on stdin.
func (a *App) contentIDs(flagValue string) ([]string, error) {
	if flagValue != "" {
		return []string{flagValue}, nil
	}

	data, err := a.readStdin()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var chained chainedResults
	if err := json.Unmarshal(data, &chained); err != nil {
		return nil, fmt.Errorf("invalid JSON on stdin: %w", err)
	}

	ids := make([]string, 0, len(chained.Results))
	for _, result := range chained.Results {
		if result.Content.ID == "" {
			return nil, fmt.Errorf("stdin is valid JSON but does not appear to conform to Confluence REST API results")
		}
		ids = append(ids, result.Content.ID)
	}
	return ids, nil
}

// printJSON writes v to stdout as a single JSON document.
func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	return enc.Encode(v)
}
