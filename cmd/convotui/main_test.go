package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestConnectWithoutDaemonFailsWhenStartDisabled(t *testing.T) {
	t.Setenv("CONVO_HOME", t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	c, err := connect(ctx, "nobody", false)
	if err == nil {
		_ = c.Close()
		t.Fatal("connect() should fail with no daemon running")
	}
	if errors.Is(err, errNotReady) {
		t.Errorf("connect() error = %v, a missing socket is not a seeding daemon", err)
	}
}

func TestDaemonPathFallsBackToPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	path, err := daemonPath()
	if err == nil && filepath.Base(path) != "convod" {
		t.Errorf("daemonPath() = %q", path)
	}
}
