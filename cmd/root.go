package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eznix86/meow/internal/bus"
	"github.com/eznix86/meow/internal/config"
	"github.com/eznix86/meow/internal/logging"
	"github.com/eznix86/meow/internal/render"
	"github.com/eznix86/meow/internal/session"
)

var (
	cfgFile string
	verbose bool
	logFile string
	useTLS  bool
)

// shutdownGrace bounds how long the controller may keep running after the UI
// has exited.
const shutdownGrace = 2 * time.Second

var greeting = []string{
	"Welcome to meow IRC Client",
	"Type /connect <server> [port] [nick] [tls] to begin, /help for commands.",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meow [server[:port|/port]] [nick]",
	Short: "A small terminal IRC client",
	Long: `meow is a single-session IRC client for the terminal.

With a server argument it connects on startup; otherwise use /connect from
the input line. Settings are read from ~/.meow/config.yaml when present.

Examples:
  meow
  meow irc.libera.chat/6697 kit
  meow -v --log-file /tmp/meow.log irc.libera.chat:6667 kit`,
	Args: cobra.MaximumNArgs(2),
	// SilenceUsage is set to true to prevent printing usage message on errors
	// that are not about the command line itself
	SilenceUsage: true,
	RunE:         runClient,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "meow version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meow/config.yaml)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every protocol line at debug level")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write diagnostic logs to this file")
	rootCmd.Flags().BoolVar(&useTLS, "tls", false, "use TLS for the startup connection (default: inferred from the port)")
}

func runClient(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	var tlsOverride *bool
	if cmd.Flags().Changed("tls") {
		tlsOverride = &useTLS
	}
	startup, err := startupConnect(cfg.IRC, args, tlsOverride)
	if err != nil {
		return err
	}

	logOpts := logging.Options{File: cfg.Log.File, Level: cfg.Log.Level, Verbose: verbose}
	if logFile != "" {
		logOpts.File = logFile
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, startup, logger)
}

// run wires the bus, the session controller and the UI together and blocks
// until the UI exits and the controller has shut down.
func run(ctx context.Context, cfg config.Config, startup *bus.Connect, logger *zap.Logger) error {
	b := bus.New(bus.DefaultCapacity)

	ctrl := session.NewController(
		session.IRCDialer{RealName: cfg.IRC.RealName, Logger: logger},
		b.Commands(),
		b.LineSink(),
		session.WithLogger(logger),
		session.WithQuitMessage(cfg.IRC.QuitMessage),
		session.WithMaxReconnectAttempts(cfg.IRC.MaxReconnectAttempts),
	)

	for _, line := range greeting {
		if err := b.Publish(ctx, line); err != nil {
			return err
		}
	}
	if startup != nil {
		if err := b.Send(ctx, *startup); err != nil {
			return err
		}
	}

	model := render.NewModel(b, b.Lines(), render.Options{
		Width:   cfg.Layout.Width,
		Padding: cfg.Layout.Padding,
		Height:  cfg.Layout.Height,
		Connect: render.ConnectDefaults{
			Server: cfg.IRC.Server,
			Port:   cfg.IRC.Port,
			Nick:   cfg.IRC.Nick,
			UseTLS: cfg.IRC.TLS,
		},
		Theme: render.NewTheme(cfg.Theme),
	})

	ui := func(ctx context.Context) error {
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal UI failed: %w", err)
		}
		return nil
	}

	err := serve(ctx, ctrl, b, ui, shutdownGrace)
	logger.Info("Client stopped", zap.Error(err))
	return err
}

// serve runs the controller alongside ui. Once ui returns, the command queue
// is closed so the controller can finish what is queued; a controller still
// busy after grace (for instance waiting to reconnect) is cancelled.
func serve(ctx context.Context, ctrl *session.Controller, b *bus.Bus, ui func(context.Context) error, grace time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	ctrlCtx, stopCtrl := context.WithCancel(gctx)
	defer stopCtrl()

	ctrlDone := make(chan struct{})
	g.Go(func() error {
		defer close(ctrlDone)
		return ctrl.Run(ctrlCtx)
	})
	g.Go(func() error {
		err := ui(gctx)
		b.CloseCommands()

		t := time.NewTimer(grace)
		defer t.Stop()
		select {
		case <-ctrlDone:
		case <-t.C:
			stopCtrl()
		}
		return err
	})

	return g.Wait()
}

// startupConnect builds the connect command for positional arguments, or nil
// when no server was given.
func startupConnect(defaults config.IRCConfig, args []string, tlsOverride *bool) (*bus.Connect, error) {
	if len(args) == 0 {
		return nil, nil
	}

	server, port, explicitPort, err := parseServerAddress(args[0], defaults.Port)
	if err != nil {
		return nil, err
	}

	c := &bus.Connect{Server: server, Port: port, Nick: defaults.Nick, UseTLS: defaults.TLS}
	if len(args) > 1 {
		c.Nick = args[1]
	}
	switch {
	case tlsOverride != nil:
		c.UseTLS = *tlsOverride
	case explicitPort:
		c.UseTLS = isTLSPort(port)
	}
	return c, nil
}

// parseServerAddress accepts "host", "host:port" and "host/port".
func parseServerAddress(addr string, defaultPort int) (server string, port int, explicit bool, err error) {
	addr = strings.ReplaceAll(addr, "/", ":")
	server, portStr, found := strings.Cut(addr, ":")
	if server == "" {
		return "", 0, false, fmt.Errorf("invalid server address %q", addr)
	}
	if !found {
		return server, defaultPort, false, nil
	}

	port, err = strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, false, fmt.Errorf("invalid port %q in server address", portStr)
	}
	return server, port, true, nil
}

// isTLSPort reports whether port is one IRC networks commonly serve TLS on.
func isTLSPort(port int) bool {
	switch port {
	case 6697, 7000, 7001, 9999:
		return true
	}
	return false
}
