package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/session"
	"github.com/matheus3301/convo/internal/status"
	"github.com/matheus3301/convo/internal/tui"
)

const (
	probeTimeout = 2 * time.Second
	startTimeout = 10 * time.Second
	pollInterval = 300 * time.Millisecond
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	noStart := flag.Bool("no-start", false, "fail instead of starting convod when it is not running")
	flag.Parse()

	sessionName := session.Resolve(*sessionFlag)
	if err := session.ValidateName(sessionName); err != nil {
		fatalf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	c, err := connect(ctx, sessionName, !*noStart)
	cancel()
	if err != nil {
		fatalf("%v", err)
	}
	defer func() { _ = c.Close() }()

	if err := tui.NewApp(c, sessionName).Run(); err != nil {
		fatalf("%v", err)
	}
}

// connect returns a client for a daemon that has finished seeding, starting
// one first when allowed.
func connect(ctx context.Context, sessionName string, start bool) (*rpc.Client, error) {
	socketPath := session.SocketPath(sessionName)
	c, err := ready(ctx, socketPath)
	if err == nil {
		return c, nil
	}
	if !start {
		return nil, fmt.Errorf("daemon for session %q: %w", sessionName, err)
	}

	// A daemon that answers but is still seeding only needs waiting for.
	if !errors.Is(err, errNotReady) {
		fmt.Fprintf(os.Stderr, "starting convod for session %q...\n", sessionName)
		if err := startDaemon(sessionName); err != nil {
			return nil, fmt.Errorf("start daemon: %w", err)
		}
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	lastErr := err
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("daemon did not become ready: %w", errors.Join(ctx.Err(), lastErr))
		case <-ticker.C:
		}
		if c, lastErr = ready(ctx, socketPath); lastErr == nil {
			return c, nil
		}
	}
}

var errNotReady = errors.New("daemon is still starting")

// ready dials the socket and checks that the daemon is serving.
func ready(ctx context.Context, socketPath string) (*rpc.Client, error) {
	c, err := rpc.Dial(socketPath)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	st, err := c.Session.GetStatus(ctx, &rpc.Empty{})
	if err == nil && st.Status != string(status.Ready) && st.Status != string(status.Degraded) {
		err = fmt.Errorf("%w (%s)", errNotReady, st.Status)
	}
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// startDaemon launches convod in its own session so it outlives the TUI.
// A convod next to this binary wins over one on PATH.
func startDaemon(sessionName string) error {
	bin, err := daemonPath()
	if err != nil {
		return err
	}
	cmd := exec.Command(bin, "-session", sessionName)
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func daemonPath() (string, error) {
	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "convod")
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	return exec.LookPath("convod")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
