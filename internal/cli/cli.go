package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huumcli/huum/internal/config"
	"github.com/huumcli/huum/internal/credstore"
	"github.com/huumcli/huum/internal/huumapi"
	"github.com/huumcli/huum/internal/logger"
)

// Exit codes observed by scripts wrapping huum.
const (
	exitOK          = 0
	exitUserError   = 1 // not authenticated, invalid input, device not found
	exitOperational = 2 // device offline, API or transport failure
	exitStorage     = 3 // local credential-store failure
)

// usageError is a user or validation mistake: wrong arguments, unknown
// device, missing authentication.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// storageError wraps credential-store failures so they map to their own exit
// code.
type storageError struct {
	err error
}

func (e *storageError) Error() string {
	return e.err.Error()
}

func (e *storageError) Unwrap() error {
	return e.err
}

// env carries the collaborators every command needs. Tests substitute fakes.
type env struct {
	cfg    config.Config
	creds  *credstore.Store
	log    *logger.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	// newAPI builds a device client for a session token. The returned func
	// releases the client's connections.
	newAPI func(token string, opts ...huumapi.Option) (huumapi.API, func(), error)

	// authenticate performs the multi-endpoint login.
	authenticate func(ctx context.Context, username, password string) (huumapi.AuthCredentials, error)

	// readPassword reads a password without echo when stdin is a terminal.
	readPassword func() (string, error)
}

// Run parses global flags, dispatches the subcommand, and maps the resulting
// error to an exit code.
func Run(ctx context.Context, args []string) int {
	stdout, stderr := io.Writer(os.Stdout), io.Writer(os.Stderr)

	root := flag.NewFlagSet("huum", flag.ContinueOnError)
	root.SetOutput(stderr)
	configPath := root.String("config", "", "override config file path (optional)")
	storePath := root.String("credentials", "", "override credential store path (optional)")
	verbose := root.Bool("verbose", false, "enable debug logging")
	root.Usage = func() { printUsage(stderr) }

	if err := root.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUserError
	}
	rest := root.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUserError
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "huum: %v\n", err)
		return exitUserError
	}

	level := cfg.LogLevel
	if *verbose {
		level = logger.DebugLevel
	}
	log := logger.Get(level)

	e := &env{
		cfg:    cfg,
		creds:  credstore.New(*storePath),
		log:    log,
		stdin:  os.Stdin,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
	e.newAPI = func(token string, opts ...huumapi.Option) (huumapi.API, func(), error) {
		opts = append([]huumapi.Option{
			huumapi.WithTimeout(cfg.Timeout),
			huumapi.WithLogger(log.SugaredLogger),
		}, opts...)
		client, err := huumapi.NewClient(cfg.APIURL, token, opts...)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
	e.authenticate = func(ctx context.Context, username, password string) (huumapi.AuthCredentials, error) {
		a := huumapi.NewAuthenticator()
		a.BaseURLs = cfg.BaseURLs()
		a.Timeout = cfg.Timeout
		a.Log = log.SugaredLogger
		return a.Authenticate(ctx, username, password)
	}
	e.readPassword = readPasswordFromTerminal

	if err := e.dispatch(ctx, rest); err != nil {
		printError(stderr, err)
		return exitCode(err)
	}
	return exitOK
}

func (e *env) dispatch(ctx context.Context, args []string) error {
	switch cmd := args[0]; cmd {
	case "auth":
		if len(args) < 2 {
			return usageErrorf("usage: huum auth <login|logout>")
		}
		switch args[1] {
		case "login":
			return e.runLogin(ctx, args[2:])
		case "logout":
			return e.runLogout(ctx, args[2:])
		default:
			return usageErrorf("unknown auth command %q", args[1])
		}
	case "status":
		return e.runStatus(ctx, args[1:])
	case "start":
		return e.runStart(ctx, args[1:])
	case "stop":
		return e.runStop(ctx, args[1:])
	case "statistics":
		return e.runStatistics(ctx, args[1:])
	case "watch":
		return e.runWatch(ctx, args[1:])
	case "help":
		printUsage(e.stdout)
		return nil
	default:
		return usageErrorf("unknown command %q; run 'huum help'", cmd)
	}
}

// session loads stored credentials and, when they have aged past the
// revalidation threshold, checks the token is still accepted before letting
// a command proceed.
func (e *env) session(ctx context.Context) (huumapi.AuthCredentials, error) {
	creds, ok, err := e.creds.Get()
	if err != nil {
		return huumapi.AuthCredentials{}, &storageError{err: err}
	}
	if !ok {
		return huumapi.AuthCredentials{}, usageErrorf("not authenticated. Run 'huum auth login' first")
	}
	if credstore.Stale(creds, e.now()) {
		api, release, err := e.newAPI(creds.Session)
		if err != nil {
			return huumapi.AuthCredentials{}, err
		}
		defer release()
		if !api.ValidateSession(ctx) {
			return huumapi.AuthCredentials{}, usageErrorf("session expired. Run 'huum auth login' again")
		}
	}
	return creds, nil
}

func exitCode(err error) int {
	var usageErr *usageError
	var storeErr *storageError
	var authErr *huumapi.AuthError
	var activeErr *huumapi.SessionActiveError
	var offlineErr *huumapi.DeviceOfflineError
	switch {
	case errors.As(err, &usageErr),
		errors.As(err, &authErr),
		errors.As(err, &activeErr):
		return exitUserError
	case errors.As(err, &storeErr):
		return exitStorage
	case errors.As(err, &offlineErr):
		return exitOperational
	default:
		return exitOperational
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `huum - control Huum sauna devices from the command line

Usage:
  huum [flags] <command> [arguments]

Commands:
  auth login       authenticate and store the session
  auth logout      remove stored credentials
  status           show status of all sauna devices
  start [device]   start a heating session (-t target temperature)
  stop [device]    stop the heating session
  statistics       show temperature history (--all, --graph)
  watch            live status dashboard
  help             show this help

Flags:
  -config PATH       override config file path
  -credentials PATH  override credential store path
  -verbose           enable debug logging
`)
}
