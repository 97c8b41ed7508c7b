package session

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/clipstore"
)

// ErrInvalidInput is returned when a label or count confirmation is
// rejected. The state machine is left unchanged and the operator is
// re-prompted.
var ErrInvalidInput = errors.New("invalid input")

// State identifies the controller's current mode.
type State int

const (
	StateInputLabel State = iota
	StateInputCount
	StateIdle
	StateRecording
	StateReview
	StateQuit
)

// String returns the state name shown in the HUD and logs.
func (s State) String() string {
	switch s {
	case StateInputLabel:
		return "InputLabel"
	case StateInputCount:
		return "InputCount"
	case StateIdle:
		return "Idle"
	case StateRecording:
		return "Recording"
	case StateReview:
		return "Review"
	case StateQuit:
		return "Quit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EventKind identifies a control event fed to the controller.
type EventKind int

const (
	EventChar EventKind = iota
	EventBackspace
	EventConfirm
	EventStart
	EventStop
	EventSave
	EventDiscard
	EventUndo
	EventQuit
)

// Event is a single control event from the interactive surface.
type Event struct {
	Kind EventKind
	Char rune
}

// Saver is the persistence interface the controller drives at save and
// undo time. Satisfied by *clipstore.Store.
type Saver interface {
	NextIndex(label string) (int, error)
	Save(label string, frames []capture.Frame, fps float64) (clipstore.ClipFile, error)
	DeleteLast(label string) (clipstore.ClipFile, error)
}

// Config holds the controller's collaborators and settings.
type Config struct {
	Store    Saver
	Assessor *Assessor

	// FPS is the frame rate clips are encoded at, probed from the camera.
	FPS float64

	// MaxClipFrames caps the take length; 0 means unlimited. When the cap
	// is hit the controller forces a transition to Review.
	MaxClipFrames int
}

// Controller is the session state machine. It consumes label/count text
// input and key events, buffers frames while recording, and drives the
// clip store and quality assessor at save time.
//
// All methods must be called from the single tick loop; the controller is
// not safe for concurrent use.
type Controller struct {
	store    Saver
	assessor *Assessor
	fps      float64

	state       State
	textBuf     string
	label       string
	targetCount int
	savedCount  int

	buffer      *ClipBuffer
	recStart    time.Time
	lastVerdict *Verdict

	onSessionStarted func(label string, targetCount, savedCount int)
	onClipSaved      func(clip clipstore.ClipFile, verdict Verdict)
	onClipDeleted    func(clip clipstore.ClipFile)
}

// NewController creates a Controller in the InputLabel state.
func NewController(cfg Config) *Controller {
	assessor := cfg.Assessor
	if assessor == nil {
		assessor = NewAssessor(DefaultZeroFracThreshold, DefaultLowFracThreshold)
	}
	return &Controller{
		store:    cfg.Store,
		assessor: assessor,
		fps:      cfg.FPS,
		state:    StateInputLabel,
		buffer:   NewClipBuffer(cfg.MaxClipFrames),
	}
}

// OnSessionStarted sets the callback fired when a label/count pair is
// confirmed and a session begins.
func (c *Controller) OnSessionStarted(fn func(label string, targetCount, savedCount int)) {
	c.onSessionStarted = fn
}

// OnClipSaved sets the callback fired after a clip is persisted.
func (c *Controller) OnClipSaved(fn func(clip clipstore.ClipFile, verdict Verdict)) {
	c.onClipSaved = fn
}

// OnClipDeleted sets the callback fired after an undo removes a clip.
func (c *Controller) OnClipDeleted(fn func(clip clipstore.ClipFile)) {
	c.onClipDeleted = fn
}

// Close releases any frames still held by the clip buffer. An unsaved
// take is simply discarded; nothing pending is flushed.
func (c *Controller) Close() {
	c.buffer.Reset()
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Label returns the session label, empty until the first label is confirmed.
func (c *Controller) Label() string { return c.label }

// TextBuffer returns the pending input buffer shown in the input prompt.
func (c *Controller) TextBuffer() string { return c.textBuf }

// SavedCount returns the number of clips saved for the current label.
func (c *Controller) SavedCount() int { return c.savedCount }

// TargetCount returns the session's clip quota.
func (c *Controller) TargetCount() int { return c.targetCount }

// RecordingStart returns when the current take started.
func (c *Controller) RecordingStart() time.Time { return c.recStart }

// BufferedFrames returns the number of frames in the current take.
func (c *Controller) BufferedFrames() int { return c.buffer.Len() }

// BufferedDuration returns the current take's duration at the encode rate.
func (c *Controller) BufferedDuration() time.Duration {
	if c.fps <= 0 {
		return 0
	}
	return time.Duration(float64(c.buffer.Len()) / c.fps * float64(time.Second))
}

// LastVerdict returns the quality verdict of the most recently saved clip,
// or nil if none has been saved yet.
func (c *Controller) LastVerdict() *Verdict { return c.lastVerdict }

// Tick feeds one frame and its detection sample to the controller. While
// recording, the frame is cloned into the clip buffer; in every other
// state the frame is used only for preview and left untouched. The caller
// retains ownership of the passed frame.
//
// When the buffer's frame cap is reached, the controller forces a
// transition to Review and returns ErrClipTooLong.
func (c *Controller) Tick(frame capture.Frame, sample DetectionSample) error {
	if c.state != StateRecording {
		return nil
	}

	clone := frame.Clone()
	if err := c.buffer.Append(clone, sample); err != nil {
		clone.Close()
		if errors.Is(err, ErrClipTooLong) {
			c.state = StateReview
			log.Printf("take for %s_%d hit the frame cap, forcing review (%d frames)",
				c.label, c.savedCount+1, c.buffer.Len())
		}
		return err
	}

	return nil
}

// Handle processes one control event. Recoverable failures (invalid
// input, empty clip, nothing to undo, storage errors) are returned to the
// caller for surfacing; none of them are fatal.
func (c *Controller) Handle(ev Event) error {
	// Quit and undo are reachable from any state.
	switch ev.Kind {
	case EventQuit:
		c.state = StateQuit
		return nil
	case EventUndo:
		return c.undo()
	}

	switch c.state {
	case StateInputLabel:
		return c.handleInputLabel(ev)
	case StateInputCount:
		return c.handleInputCount(ev)
	case StateIdle:
		if ev.Kind == EventStart {
			c.buffer.Reset()
			c.recStart = time.Now()
			c.state = StateRecording
			log.Printf("recording started for %s_%d", c.label, c.savedCount+1)
		}
	case StateRecording:
		if ev.Kind == EventStop {
			c.state = StateReview
			log.Printf("recording stopped: %d frames captured", c.buffer.Len())
		}
	case StateReview:
		switch ev.Kind {
		case EventSave:
			return c.save()
		case EventDiscard:
			c.buffer.Reset()
			c.state = StateIdle
			log.Println("clip discarded")
		}
	}

	return nil
}

func (c *Controller) handleInputLabel(ev Event) error {
	switch ev.Kind {
	case EventChar:
		if ev.Char > ' ' && ev.Char < 127 {
			c.textBuf += string(ev.Char)
		}
	case EventBackspace:
		if len(c.textBuf) > 0 {
			c.textBuf = c.textBuf[:len(c.textBuf)-1]
		}
	case EventConfirm:
		label := strings.TrimSpace(c.textBuf)
		if label == "" {
			return fmt.Errorf("%w: label must not be empty", ErrInvalidInput)
		}
		c.label = label
		c.textBuf = ""
		c.state = StateInputCount
	}
	return nil
}

func (c *Controller) handleInputCount(ev Event) error {
	switch ev.Kind {
	case EventChar:
		if ev.Char >= '0' && ev.Char <= '9' {
			c.textBuf += string(ev.Char)
		}
	case EventBackspace:
		if len(c.textBuf) > 0 {
			c.textBuf = c.textBuf[:len(c.textBuf)-1]
		}
	case EventConfirm:
		count, err := strconv.Atoi(strings.TrimSpace(c.textBuf))
		if err != nil || count < 1 {
			return fmt.Errorf("%w: count must be a positive integer", ErrInvalidInput)
		}

		next, err := c.store.NextIndex(c.label)
		if err != nil {
			return fmt.Errorf("scan existing clips for %q: %w", c.label, err)
		}

		c.targetCount = count
		c.savedCount = next - 1
		c.textBuf = ""
		c.state = StateIdle

		if c.savedCount > 0 {
			log.Printf("found %d existing clips for %q, continuing from %s_%d",
				c.savedCount, c.label, c.label, next)
		}
		log.Printf("recording %q: %d/%d done", c.label, c.savedCount, c.targetCount)

		if c.onSessionStarted != nil {
			c.onSessionStarted(c.label, c.targetCount, c.savedCount)
		}
	}
	return nil
}

// save commits the buffered take through the clip store, evaluates its
// quality, and advances the session. On a storage failure the buffer is
// retained and the controller stays in Review so the save can be retried.
func (c *Controller) save() error {
	if c.buffer.Len() == 0 {
		c.state = StateIdle
		return ErrClipEmpty
	}

	clip, err := c.store.Save(c.label, c.buffer.Frames(), c.fps)
	if err != nil {
		return fmt.Errorf("save clip: %w", err)
	}

	verdict, err := c.assessor.Evaluate(c.buffer.Samples())
	if err != nil {
		// Length is checked above, so this only guards the invariant.
		return err
	}

	c.buffer.Reset()
	c.savedCount++
	c.lastVerdict = &verdict

	if verdict.SuggestRetake {
		log.Printf("saved %s (%d/%d) - retake suggested: zero_frac=%.2f low_frac=%.2f",
			clip.Path, c.savedCount, c.targetCount, verdict.ZeroFrac, verdict.LowFrac)
	} else {
		log.Printf("saved %s (%d/%d)", clip.Path, c.savedCount, c.targetCount)
	}

	if c.onClipSaved != nil {
		c.onClipSaved(clip, verdict)
	}

	if c.savedCount >= c.targetCount {
		log.Printf("all %d clips for %q done", c.targetCount, c.label)
		c.textBuf = ""
		c.state = StateInputLabel
	} else {
		c.state = StateIdle
	}

	return nil
}

// undo deletes the most recently saved clip for the session label. Valid
// in any state once a label is known, including the InputLabel state right
// after a label's quota completed.
func (c *Controller) undo() error {
	if c.label == "" {
		return clipstore.ErrNothingToUndo
	}

	clip, err := c.store.DeleteLast(c.label)
	if err != nil {
		return err
	}

	if c.savedCount > 0 {
		c.savedCount--
	}
	log.Printf("undone: deleted %s (%d/%d)", clip.Path, c.savedCount, c.targetCount)

	if c.onClipDeleted != nil {
		c.onClipDeleted(clip)
	}

	return nil
}
