package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/aretw0/stepwise/pkg/topic"
)

// WatchOptions configures RunTopicWatch.
type WatchOptions struct {
	Dir      string
	TopicID  string
	Renderer tui.ContentRenderer
	Stdout   io.Writer
}

// RunTopicWatch renders a topic and renders it again whenever a file under
// Dir changes, until ctx is done. A broken file is reported and the previous
// render stays on screen until the next change.
func RunTopicWatch(ctx context.Context, app *App, opts WatchOptions) error {
	if opts.Renderer == nil {
		opts.Renderer = tui.PlainRenderer
	}

	loader, err := topic.Open(opts.Dir)
	if err != nil {
		return err
	}

	logger := app.Logger
	logger.Info("Starting Watcher", "path", opts.Dir, "topic", opts.TopicID)
	printSystemMessage(opts.Stdout, "Watching '%s' for changes.", opts.Dir)

	events, err := loader.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		if err := renderTopic(ctx, loader, opts); err != nil {
			logger.Error("Topic reload failed", "err", err)
			printSystemMessage(opts.Stdout, "Reload failed: %v", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher (signal received)")
			return nil
		case id, ok := <-events:
			if !ok {
				return nil
			}
			logger.Info("Change detected, triggering reload", "event", id)
			printSystemMessage(opts.Stdout, "Change detected in '%s'.", id)
			// Let editors finish their write-and-rename before reading again.
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
		}
	}
}

func renderTopic(ctx context.Context, loader *topic.Loader, opts WatchOptions) error {
	catalog, err := topic.Load(ctx, loader)
	if err != nil {
		return err
	}
	rec, err := catalog.Get(opts.TopicID)
	if err != nil {
		return err
	}
	out, err := opts.Renderer(topic.Markdown(rec))
	if err != nil {
		return fmt.Errorf("failed to render topic: %w", err)
	}
	_, err = fmt.Fprintln(opts.Stdout, out)
	return err
}
