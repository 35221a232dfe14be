package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"
	"github.com/matheus3301/convo/internal/bus"
	"go.uber.org/zap"
)

// DropFile is the JSON layout of one message dropped into an inbox
// directory. Writers create it under another name and rename it to *.json
// so the dropbox never reads a partial file.
type DropFile struct {
	ConversationID string    `json:"conversation_id"`
	Text           string    `json:"text"`
	OccurredAt     time.Time `json:"occurred_at,omitzero"`
}

// RejectedSuffix is appended to drop files that cannot be parsed.
const RejectedSuffix = ".rejected"

// Dropbox turns *.json files appearing in a directory into inbound bus
// events. Consumed files are removed.
type Dropbox struct {
	dir    string
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDropbox creates a dropbox over dir.
func NewDropbox(dir string, b *bus.Bus, logger *zap.Logger) *Dropbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dropbox{dir: dir, bus: b, logger: logger}
}

// Dir returns the watched directory.
func (d *Dropbox) Dir() string { return d.dir }

// Start creates the directory, consumes files already in it and watches for
// new ones until Stop.
func (d *Dropbox) Start(ctx context.Context) error {
	if err := os.MkdirAll(d.dir, 0700); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(d.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch inbox: %w", err)
	}

	// Watch before the initial scan so nothing lands in between unseen.
	d.drain()

	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if isDropFile(event.Name) {
					d.consume(event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.logger.Warn("inbox watcher error", zap.Error(err))
			case <-ctx.Done():
				return
			}
		}
	}()

	d.logger.Info("watching inbox", zap.String("dir", d.dir))
	return nil
}

// Stop stops watching and waits for the watcher goroutine.
func (d *Dropbox) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
}

func (d *Dropbox) drain() {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		d.logger.Warn("failed to scan inbox", zap.Error(err))
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isDropFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	for _, name := range names {
		d.consume(filepath.Join(d.dir, name))
	}
}

func (d *Dropbox) consume(path string) {
	in, err := readDropFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// Renamed away or already consumed.
		return
	}
	if err != nil {
		d.logger.Warn("rejecting inbox file", zap.String("path", path), zap.Error(err))
		if err := os.Rename(path, path+RejectedSuffix); err != nil {
			d.logger.Error("failed to reject inbox file", zap.String("path", path), zap.Error(err))
		}
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		d.logger.Error("failed to remove inbox file", zap.String("path", path), zap.Error(err))
		return
	}
	Publish(d.bus, in)
}

func readDropFile(path string) (Inbound, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Inbound{}, err
	}
	var f DropFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Inbound{}, fmt.Errorf("parse: %w", err)
	}
	if f.ConversationID == "" {
		return Inbound{}, errors.New("missing conversation_id")
	}
	return Inbound{ConversationID: f.ConversationID, Text: f.Text, OccurredAt: f.OccurredAt}, nil
}

func isDropFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ".json") && !strings.HasPrefix(base, ".")
}
