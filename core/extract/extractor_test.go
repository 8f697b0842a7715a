package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"MeldFM/model"
)

func TestTagExtractorGuards(t *testing.T) {
	e := NewTagExtractor(nil)
	ctx := context.Background()

	t.Run("audio items are not applicable", func(t *testing.T) {
		item := &model.MediaItem{ID: 1, Type: model.MediaTypeAudio, FilePath: "/nope.mp3"}
		_, err := e.Extract(ctx, item)
		if !errors.Is(err, ErrNotApplicable) {
			t.Errorf("expected ErrNotApplicable, got %v", err)
		}
	})

	t.Run("cancelled context aborts before IO", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		item := &model.MediaItem{ID: 1, Type: model.MediaTypeVideo, FilePath: "/nope.mp4"}
		_, err := e.Extract(cancelled, item)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("missing file is a transient failure", func(t *testing.T) {
		item := &model.MediaItem{ID: 1, Type: model.MediaTypeVideo, FilePath: "/no/such/file.mp4"}
		_, err := e.Extract(ctx, item)
		if err == nil || errors.Is(err, ErrNotApplicable) {
			t.Errorf("expected a transient error, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
		}
	})

	t.Run("unparseable container is a transient failure", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "garbage.mp4")
		if err := os.WriteFile(path, []byte("not a real container"), 0o644); err != nil {
			t.Fatal(err)
		}
		item := &model.MediaItem{ID: 1, Type: model.MediaTypeVideo, FilePath: path}
		_, err := e.Extract(ctx, item)
		if err == nil || errors.Is(err, ErrNotApplicable) {
			t.Errorf("expected a parse error, got %v", err)
		}
	})
}
