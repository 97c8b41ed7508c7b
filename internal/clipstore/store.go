// Package clipstore owns the on-disk layout of saved clips. Clips for a
// label live under <root>/<label>/ as <label>_<N>.mp4 with N a contiguous,
// gap-free, 1-based sequence.
package clipstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/capture"
)

// DefaultExt is the file extension of saved clips, without the dot.
const DefaultExt = "mp4"

// ErrNothingToUndo is returned by DeleteLast when no clip exists for the label.
var ErrNothingToUndo = errors.New("nothing to undo")

// ClipFile identifies a persisted clip.
type ClipFile struct {
	Label  string
	Index  int
	Path   string
	Frames int
}

// Store manages the persisted clip directory tree. It is the sole
// writer and reader of the tree; no other component touches these files.
type Store struct {
	root    string
	ext     string
	encoder Encoder
}

// New creates a Store rooted at the given directory, writing mp4 clips
// with the GoCV encoder. The directory is created on first save.
func New(root string) *Store {
	return &Store{root: root, ext: DefaultExt, encoder: &VideoEncoder{}}
}

// NewWithEncoder creates a Store with a custom clip encoder.
func NewWithEncoder(root string, encoder Encoder) *Store {
	return &Store{root: root, ext: DefaultExt, encoder: encoder}
}

// Root returns the content root directory.
func (s *Store) Root() string {
	return s.root
}

// NextIndex returns one greater than the highest clip index found for the
// label, or 1 if none exist. A non-contiguous or partially corrupted
// directory is tolerated: the maximum index found is authoritative.
func (s *Store) NextIndex(label string) (int, error) {
	max, _, err := s.maxIndex(label)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Save encodes the frames as a single video clip at the next free index
// for the label and returns the resulting ClipFile. The write is atomic:
// the clip is encoded under a temporary name and renamed into place, so a
// crash mid-write never leaves a file that NextIndex would count.
func (s *Store) Save(label string, frames []capture.Frame, fps float64) (ClipFile, error) {
	if len(frames) == 0 {
		return ClipFile{}, errors.New("no frames to save")
	}

	dir := filepath.Join(s.root, label)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ClipFile{}, fmt.Errorf("create label directory: %w", err)
	}

	index, err := s.NextIndex(label)
	if err != nil {
		return ClipFile{}, err
	}

	name := fmt.Sprintf("%s_%d.%s", label, index, s.ext)
	final := filepath.Join(dir, name)
	tmp := filepath.Join(dir, ".tmp-"+name)

	if err := s.encoder.Encode(tmp, frames, fps); err != nil {
		os.Remove(tmp)
		return ClipFile{}, fmt.Errorf("encode clip %s: %w", name, err)
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return ClipFile{}, fmt.Errorf("commit clip %s: %w", name, err)
	}

	return ClipFile{Label: label, Index: index, Path: final, Frames: len(frames)}, nil
}

// DeleteLast removes the clip at the highest index for the label and
// returns it. It never deletes a non-maximal index. Returns
// ErrNothingToUndo when no clip exists for the label.
func (s *Store) DeleteLast(label string) (ClipFile, error) {
	max, path, err := s.maxIndex(label)
	if err != nil {
		return ClipFile{}, err
	}
	if max == 0 {
		return ClipFile{}, ErrNothingToUndo
	}

	if err := os.Remove(path); err != nil {
		return ClipFile{}, fmt.Errorf("delete clip %s: %w", filepath.Base(path), err)
	}

	return ClipFile{Label: label, Index: max, Path: path}, nil
}

// maxIndex scans the label directory and returns the highest valid clip
// index and its path. Returns 0 when the directory is missing or holds no
// valid clip files.
func (s *Store) maxIndex(label string) (int, string, error) {
	dir := filepath.Join(s.root, label)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, "", nil
		}
		return 0, "", fmt.Errorf("scan label directory: %w", err)
	}

	var max int
	var maxPath string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, ok := s.parseIndex(entry.Name(), label)
		if !ok {
			continue
		}
		if index > max {
			max = index
			maxPath = filepath.Join(dir, entry.Name())
		}
	}

	return max, maxPath, nil
}

// parseIndex extracts the clip index from a file name of the form
// <label>_<N>.<ext>. Anything else, including temporary files, is ignored.
func (s *Store) parseIndex(name, label string) (int, bool) {
	prefix := label + "_"
	suffix := "." + s.ext

	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}

	digits := name[len(prefix) : len(name)-len(suffix)]
	index, err := strconv.Atoi(digits)
	if err != nil || index < 1 {
		return 0, false
	}

	return index, true
}
