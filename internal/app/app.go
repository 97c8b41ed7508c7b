// Package app wires the camera, detector, session controller, and clip
// store into the interactive collection loop.
package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/catalog"
	"github.com/ayusman/mudra/internal/clipstore"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/session"
	"gocv.io/x/gocv"
)

const winTitle = "Mudra - Data Collection"

// Config holds configuration options for the application.
type Config struct {
	// DataDir is the content root the clip tree is written under.
	DataDir string

	// CameraID selects the capture device.
	CameraID int

	// Detector configures the hand detection thresholds.
	Detector detector.Config

	// ZeroFracThreshold and LowFracThreshold configure the retake
	// heuristic; 0 means default.
	ZeroFracThreshold float64
	LowFracThreshold  float64

	// MaxClipFrames caps a single take; 0 means unlimited.
	MaxClipFrames int

	// CatalogPath is the sqlite clip catalog location; empty disables it.
	CatalogPath string

	// HTTPAddr serves the read-only monitor when non-empty.
	HTTPAddr string

	// HookCommand is an executable to run after each saved clip; empty
	// disables it.
	HookCommand   string
	HookTimeoutMs int
}

// App is the interactive collection application. It owns the single tick
// loop: one frame, one detection pass, one key event per tick.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	store    *clipstore.Store
	catalog  *catalog.Catalog
	hookExec *hook.Executor
	monitor  *server.Monitor
	srv      *server.Server

	sessionID string
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	a := &App{
		config: config,
		camera: capture.NewCamera(config.CameraID),
		store:  clipstore.New(config.DataDir),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	if config.CatalogPath != "" {
		cat, err := catalog.New(config.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("open clip catalog: %w", err)
		}
		a.catalog = cat
	}

	if config.HookCommand != "" {
		timeout := config.HookTimeoutMs
		if timeout <= 0 {
			timeout = 5000
		}
		a.hookExec = hook.NewExecutor(config.HookCommand, timeout)
	}

	if config.HTTPAddr != "" {
		a.monitor = server.NewMonitor()
		a.srv = server.New(server.Config{Monitor: a.monitor, Catalog: a.catalog})
	}

	return a, nil
}

// SetCamera replaces the capture device. Must be called before Run.
func (a *App) SetCamera(c capture.Camera) { a.camera = c }

// SetDetector replaces the hand detector. Must be called before Run.
func (a *App) SetDetector(d detector.Detector) { a.detector = d }

// Close releases resources not tied to a Run call.
func (a *App) Close() {
	if a.catalog != nil {
		if err := a.catalog.Close(); err != nil {
			log.Printf("Error closing catalog: %v", err)
		}
	}
}

// Run executes the collection loop until the operator quits or the frame
// source becomes unavailable. A nil return means a normal quit; a non-nil
// return is fatal and callers should exit with a failure status.
func (a *App) Run() error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("frame source unavailable: %w", err)
	}
	defer a.camera.Close()
	defer a.detector.Close()

	log.Printf("Camera: %dx%d @ %.0f fps", a.camera.Width(), a.camera.Height(), a.camera.FPS())
	log.Printf("Output directory: %s", a.store.Root())

	ctrl := session.NewController(session.Config{
		Store:         a.store,
		Assessor:      session.NewAssessor(a.config.ZeroFracThreshold, a.config.LowFracThreshold),
		FPS:           a.camera.FPS(),
		MaxClipFrames: a.config.MaxClipFrames,
	})
	a.wireCallbacks(ctrl)
	defer ctrl.Close()

	if a.srv != nil {
		go func() {
			log.Printf("Monitor server listening on %s", a.config.HTTPAddr)
			if err := a.srv.ListenAndServe(a.config.HTTPAddr); err != nil {
				log.Printf("Monitor server stopped: %v", err)
			}
		}()
	}

	window := gocv.NewWindow(winTitle)
	defer window.Close()

	var reviewFrame capture.Frame
	hasReview := false
	defer func() {
		if hasReview {
			reviewFrame.Close()
		}
	}()

	for ctrl.State() != session.StateQuit {
		frame, err := a.camera.ReadFrame()
		if err != nil {
			return fmt.Errorf("frame source unavailable: %w", err)
		}

		// Mirror so the preview behaves like a mirror; saved frames are
		// the same mirrored raw pixels, without overlay.
		gocv.Flip(*frame.Mat, frame.Mat, 1)

		// One detection pass per tick, skipped in pure text-input states.
		var hands []detector.HandLandmarks
		state := ctrl.State()
		if state != session.StateInputLabel && state != session.StateInputCount {
			hands, err = a.detector.Detect(frame.Mat)
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				hands = nil
			}
		}

		if err := ctrl.Tick(frame, session.SampleFromHands(hands)); err != nil {
			if errors.Is(err, session.ErrClipTooLong) {
				log.Printf("%v", err)
			} else {
				log.Printf("Error buffering frame: %v", err)
			}
		}

		// Freeze the last recorded frame when entering review.
		if state == session.StateRecording && ctrl.State() == session.StateReview && !hasReview {
			reviewFrame = frame.Clone()
			hasReview = true
		}

		disp := a.draw(ctrl, frame, hands, reviewFrame, hasReview)

		a.publish(ctrl, disp)
		window.IMShow(*disp.Mat)
		key := window.WaitKey(1)

		if ev, ok := eventForKey(key, ctrl.State()); ok {
			prev := ctrl.State()
			if err := ctrl.Handle(ev); err != nil {
				a.reportHandleError(err)
			}
			if prev == session.StateReview && ctrl.State() != session.StateReview && hasReview {
				reviewFrame.Close()
				hasReview = false
			}
			if prev == session.StateRecording && ctrl.State() == session.StateReview && !hasReview {
				reviewFrame = frame.Clone()
				hasReview = true
			}
		}

		if disp.Mat != frame.Mat {
			disp.Close()
		}
		frame.Close()
	}

	log.Printf("Done. Videos saved to: %s", a.store.Root())
	return nil
}

// draw renders the HUD for the current state and returns the frame to
// display. In review the frozen frame is shown instead of the live one.
func (a *App) draw(ctrl *session.Controller, frame capture.Frame, hands []detector.HandLandmarks, reviewFrame capture.Frame, hasReview bool) capture.Frame {
	cursorOn := time.Now().UnixMilli()/500%2 == 0

	switch ctrl.State() {
	case session.StateInputLabel:
		overlay.InputPrompt(frame.Mat, "Label name:", ctrl.TextBuffer(), cursorOn)
		overlay.Controls(frame.Mat, []string{
			"Type label name, then press ENTER to confirm",
			"Q = quit",
		})

	case session.StateInputCount:
		overlay.InputPrompt(frame.Mat, fmt.Sprintf("Videos for '%s':", ctrl.Label()), ctrl.TextBuffer(), cursorOn)
		overlay.Controls(frame.Mat, []string{
			"Type number of videos, then press ENTER",
			"Q = quit",
		})

	case session.StateIdle:
		overlay.Landmarks(frame.Mat, hands)
		overlay.TopBar(frame.Mat, ctrl.Label(), ctrl.SavedCount(), ctrl.TargetCount(), "READY", overlay.ColorAccent)
		overlay.Controls(frame.Mat, []string{
			"SPACE = start recording",
			"U = undo last clip",
			"Q = quit",
		})

	case session.StateRecording:
		overlay.Landmarks(frame.Mat, hands)
		overlay.TopBar(frame.Mat, ctrl.Label(), ctrl.SavedCount(), ctrl.TargetCount(), "RECORDING", overlay.ColorRec)
		overlay.RecIndicator(frame.Mat, time.Since(ctrl.RecordingStart()))
		overlay.Controls(frame.Mat, []string{
			"SPACE = stop recording",
		})

	case session.StateReview:
		disp := frame
		if hasReview {
			disp = reviewFrame.Clone()
		}
		overlay.ReviewBar(disp.Mat, ctrl.BufferedFrames(), ctrl.BufferedDuration())
		overlay.Controls(disp.Mat, []string{
			"O = save clip",
			"SPACE = discard & re-record",
			"Q = quit",
		})
		return disp
	}

	return frame
}

// publish mirrors the displayed frame and session state into the monitor.
func (a *App) publish(ctrl *session.Controller, disp capture.Frame) {
	if a.monitor == nil {
		return
	}

	status := server.Status{
		State:       ctrl.State().String(),
		Label:       ctrl.Label(),
		SavedCount:  ctrl.SavedCount(),
		TargetCount: ctrl.TargetCount(),
		LastVerdict: ctrl.LastVerdict(),
	}

	buf, err := gocv.IMEncode(".jpg", *disp.Mat)
	if err != nil {
		a.monitor.Publish(status, nil)
		return
	}
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	buf.Close()

	a.monitor.Publish(status, jpeg)
}

// wireCallbacks connects the controller to the catalog, the post-save
// hook, and the monitor event feed.
func (a *App) wireCallbacks(ctrl *session.Controller) {
	ctrl.OnSessionStarted(func(label string, targetCount, savedCount int) {
		a.sessionID = ""
		if a.catalog == nil {
			return
		}
		id, err := a.catalog.Sessions().Create(label, targetCount)
		if err != nil {
			log.Printf("Failed to record session in catalog: %v", err)
			return
		}
		a.sessionID = id
	})

	ctrl.OnClipSaved(func(clip clipstore.ClipFile, verdict session.Verdict) {
		if a.catalog != nil {
			err := a.catalog.Clips().Record(&catalog.Clip{
				SessionID:     a.sessionID,
				Label:         clip.Label,
				Index:         clip.Index,
				Path:          clip.Path,
				Frames:        clip.Frames,
				FPS:           a.camera.FPS(),
				ZeroFrac:      verdict.ZeroFrac,
				LowFrac:       verdict.LowFrac,
				SuggestRetake: verdict.SuggestRetake,
			})
			if err != nil {
				log.Printf("Failed to record clip in catalog: %v", err)
			}
		}

		if a.hookExec != nil {
			ev := &hook.ClipEvent{
				Label:         clip.Label,
				Index:         clip.Index,
				Path:          clip.Path,
				Frames:        clip.Frames,
				FPS:           a.camera.FPS(),
				ZeroFrac:      verdict.ZeroFrac,
				LowFrac:       verdict.LowFrac,
				SuggestRetake: verdict.SuggestRetake,
			}
			if err := a.hookExec.Run(ev); err != nil {
				log.Printf("Post-save hook failed: %v", err)
			}
		}

		if a.srv != nil {
			a.srv.Events().Broadcast(map[string]interface{}{
				"type":    "clip_saved",
				"clip":    clip,
				"verdict": verdict,
			})
		}
	})

	ctrl.OnClipDeleted(func(clip clipstore.ClipFile) {
		if a.catalog != nil {
			if err := a.catalog.Clips().Delete(clip.Label, clip.Index); err != nil {
				log.Printf("Failed to remove clip from catalog: %v", err)
			}
		}
		if a.srv != nil {
			a.srv.Events().Broadcast(map[string]interface{}{
				"type": "clip_deleted",
				"clip": clip,
			})
		}
	})
}

// reportHandleError surfaces a recoverable controller error to the operator.
func (a *App) reportHandleError(err error) {
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		log.Printf("Input rejected: %v", err)
	case errors.Is(err, session.ErrClipEmpty):
		log.Println("Nothing recorded, clip not saved")
	case errors.Is(err, clipstore.ErrNothingToUndo):
		log.Println("Nothing to undo")
	default:
		log.Printf("Error: %v", err)
	}
}
