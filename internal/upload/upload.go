package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int
}

// Uploader walks a directory of converted workout JSON files and POSTs each
// new one to Garmin Connect.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run uploads every workout JSON file in the directory that the state
// database has not seen before.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(u.dir, "*.json"))
	if err != nil {
		return &u.stats, fmt.Errorf("listing %s: %w", u.dir, err)
	}

	for _, f := range files {
		u.stats.FilesTotal++

		relPath, _ := filepath.Rel(u.dir, f)
		info, err := os.Stat(f)
		if err != nil {
			u.log.Warn("stat failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		hash, err := HashFile(f)
		if err != nil {
			u.log.Warn("hash failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
		if err != nil {
			u.log.Warn("state check failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if uploaded {
			u.stats.FilesSkipped++
			continue
		}

		payload, err := readWorkoutFile(f)
		if err != nil {
			u.log.Warn("parse failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		if u.dryRun {
			u.log.Info("dry-run: would upload", "file", relPath, "workout", payload["workoutName"])
		} else {
			if err := u.client.SendWorkout(ctx, payload); err != nil {
				return &u.stats, fmt.Errorf("uploading %s: %w", relPath, err)
			}
			if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
				u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
			}
			u.log.Info("uploaded workout", "file", relPath, "workout", payload["workoutName"])
		}

		u.stats.FilesUploaded++
	}

	return &u.stats, nil
}

// readWorkoutFile loads a converted workout document and checks the minimum
// shape the workout-service endpoint requires.
func readWorkoutFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("not a JSON workout document: %w", err)
	}
	if payload["workoutName"] == nil || payload["workoutSegments"] == nil {
		return nil, fmt.Errorf("missing workoutName or workoutSegments")
	}
	return payload, nil
}
