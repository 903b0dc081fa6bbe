package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	engine "github.com/vovakirdan/tui-tetris/internal/tetris"
)

// SSHServerConfig configures the SSH front-end.
type SSHServerConfig struct {
	Address     string        // host:port
	HostKeyPath string        // generated on first start; default ~/.tetris/host_key
	DBPath      string        // scores database
	IdleTimeout time.Duration // idle connections are dropped
	TickRate    int           // steps per second of every session
	Logger      *log.Logger   // nil logs to stderr
}

// DefaultSSHServerConfig listens on :23234.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.tetris/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer serves the menu to every SSH connection. Connections share one
// scores database and one versus coordinator.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// builtinRules resolves a preset without rules files or overrides, so
// both sides of a match play the same rules whatever the host's flags.
func builtinRules(preset string) (engine.Rules, error) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		return engine.Rules{}, err
	}
	rules, _, err := config.LoadRules("", p)
	return rules, err
}

func defaultHostKey() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tetris", "host_key"), nil
}

// NewSSHServer prepares the server. It runs without a scores database if
// the database cannot be opened.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "tetris-ssh"})
	}

	keyPath := cfg.HostKeyPath
	if keyPath == "" {
		var err error
		if keyPath, err = defaultHostKey(); err != nil {
			return nil, fmt.Errorf("ssh: host key path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: host key directory: %w", err)
	}

	s := &SSHServer{
		config:   cfg,
		logger:   logger,
		sessions: multiplayer.NewSessionRegistry(),
	}
	s.coordinator = multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), builtinRules, s.sessions)
	s.coordinator.SetLogger(logger.WithPrefix("versus"))

	if store, err := storage.Open(cfg.DBPath); err != nil {
		logger.Warn("scores disabled", "db", cfg.DBPath, "err", err)
	} else {
		s.store = store
		s.coordinator.SetResultSaver(store)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newSession),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger.WithPrefix("ssh")),
		),
	)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("ssh: %w", err)
	}
	s.server = server
	return s, nil
}

// newSession builds the program of one connection and registers it with
// the coordinator until the connection closes.
func (s *SSHServer) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sess.User(), time.Now().UnixNano()))
	channel := multiplayer.NewChannelSession(id, 32)
	s.sessions.Register(channel)
	go func() {
		<-sess.Context().Done()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		s.sessions.Unregister(id)
		channel.Close()
	}()

	logger := s.logger.With("session", id)
	return NewSessionModel(s.store, cfg, channel, s.coordinator, logger), []tea.ProgramOption{tea.WithAltScreen()}
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.coordinator.Start()
	s.logger.Info("listening", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() { errc <- s.server.ListenAndServe() }()

	select {
	case err := <-errc:
		if !errors.Is(err, ssh.ErrServerClosed) {
			s.coordinator.Stop()
			s.closeStore()
			return err
		}
		return nil
	case <-ctx.Done():
	}
	s.logger.Info("shutting down")
	return s.Shutdown()
}

// Shutdown waits up to ten seconds for open connections.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coordinator.Stop()
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
	}
}
