package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"gopkg.in/yaml.v3"
)

// manifestFile lists the frames of a stored snapshot.
const manifestFile = "frames.yaml"

// Ensure SnapshotStore implements jobgrab.FrameCapturer at compile time.
var _ jobgrab.FrameCapturer = (*SnapshotStore)(nil)

// SnapshotStore keeps captured pages on disk so rules can be replayed
// against them without a browser. Each snapshot is a directory holding a
// frames.yaml manifest and one HTML file per frame.
//
// SnapshotStore doubles as a FrameCapturer whose tab IDs are snapshot
// names, which is how stored pages are evaluated offline.
type SnapshotStore struct {
	baseDir string
}

// NewSnapshotStore creates a new SnapshotStore rooted at baseDir.
func NewSnapshotStore(baseDir string) *SnapshotStore {
	return &SnapshotStore{baseDir: baseDir}
}

type manifest struct {
	Frames []manifestFrame `yaml:"frames"`
}

type manifestFrame struct {
	File             string `yaml:"file"`
	jobgrab.Snapshot `yaml:",inline"`
}

// Save writes snaps under name, replacing any snapshot with that name.
// The directory is written aside and renamed into place.
func (s *SnapshotStore) Save(ctx context.Context, name string, snaps []*jobgrab.Snapshot) error {
	if err := validName(name); err != nil {
		return err
	}
	if len(snaps) == 0 {
		return jobgrab.Errorf(jobgrab.EINVALID, "snapshot %q has no frames", name)
	}

	final := filepath.Join(s.baseDir, name)
	tmp := final + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return err
	}

	var m manifest
	for i, snap := range snaps {
		if err := ctx.Err(); err != nil {
			_ = os.RemoveAll(tmp)
			return err
		}
		file := fmt.Sprintf("frame-%d.html", i)
		if err := os.WriteFile(filepath.Join(tmp, file), []byte(snap.HTML), 0644); err != nil {
			_ = os.RemoveAll(tmp)
			return err
		}
		m.Frames = append(m.Frames, manifestFrame{File: file, Snapshot: *snap})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}
	if err := os.WriteFile(filepath.Join(tmp, manifestFile), data, 0644); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}

	if err := os.RemoveAll(final); err != nil {
		return err
	}
	return os.Rename(tmp, final)
}

// Load reads the frames stored under name, top frame first.
// Returns ENOTFOUND if no such snapshot exists.
func (s *SnapshotStore) Load(name string) ([]*jobgrab.Snapshot, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	dir := filepath.Join(s.baseDir, name)

	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, jobgrab.Errorf(jobgrab.ENOTFOUND, "snapshot %q not found", name)
	}
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s manifest: %w", name, err)
	}

	snaps := make([]*jobgrab.Snapshot, 0, len(m.Frames))
	for _, f := range m.Frames {
		if f.File != filepath.Base(f.File) {
			return nil, jobgrab.Errorf(jobgrab.EINVALID, "snapshot %q references %q outside its directory", name, f.File)
		}
		html, err := os.ReadFile(filepath.Join(dir, f.File))
		if err != nil {
			return nil, err
		}
		snap := f.Snapshot
		snap.HTML = string(html)
		snaps = append(snaps, &snap)
	}
	return snaps, nil
}

// List returns the names of stored snapshots in lexical order.
func (s *SnapshotStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.baseDir, e.Name(), manifestFile)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a stored snapshot.
// Returns ENOTFOUND if no such snapshot exists.
func (s *SnapshotStore) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	dir := filepath.Join(s.baseDir, name)
	if _, err := os.Stat(filepath.Join(dir, manifestFile)); errors.Is(err, os.ErrNotExist) {
		return jobgrab.Errorf(jobgrab.ENOTFOUND, "snapshot %q not found", name)
	}
	return os.RemoveAll(dir)
}

// CaptureFrames replays the snapshot named tabID.
func (s *SnapshotStore) CaptureFrames(ctx context.Context, tabID string) ([]*jobgrab.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Load(tabID)
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasSuffix(name, ".tmp") {
		return jobgrab.Errorf(jobgrab.EINVALID, "invalid snapshot name %q", name)
	}
	return nil
}
