package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/session"
)

func main() {
	fmt.Println("Mudra - Sign Language Clip Collection")

	defaults := detector.DefaultConfig()

	dataDir := flag.String("data", defaultDataDir(), "content root directory for saved clips")
	cameraID := flag.Int("camera", 0, "camera device ID")
	detectionConf := flag.Float64("detection-confidence", defaults.MinDetectionConf, "minimum hand detection confidence (0.0-1.0)")
	trackingConf := flag.Float64("tracking-confidence", defaults.MinTrackingConf, "minimum hand tracking confidence (0.0-1.0)")
	zeroFrac := flag.Float64("retake-zero-frac", session.DefaultZeroFracThreshold, "zero-detection fraction above which a retake is suggested")
	lowFrac := flag.Float64("retake-low-frac", session.DefaultLowFracThreshold, "low-detection fraction above which a retake is suggested")
	maxFrames := flag.Int("max-clip-frames", 0, "hard cap on frames per take (0 = unlimited)")
	catalogPath := flag.String("catalog", "", "sqlite clip catalog path (empty = default, \"off\" = disabled)")
	httpAddr := flag.String("http", "", "address for the read-only monitor server (empty = disabled)")
	hookCmd := flag.String("post-save-hook", "", "executable to run after each saved clip")
	hookTimeout := flag.Int("hook-timeout-ms", 5000, "post-save hook timeout in milliseconds")
	flag.Parse()

	catalog := *catalogPath
	switch catalog {
	case "":
		catalog = filepath.Join(*dataDir, "catalog.db")
	case "off":
		catalog = ""
	}

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	cfg := app.Config{
		DataDir:  *dataDir,
		CameraID: *cameraID,
		Detector: detector.Config{
			MaxHands:         defaults.MaxHands,
			MinDetectionConf: *detectionConf,
			MinTrackingConf:  *trackingConf,
		},
		ZeroFracThreshold: *zeroFrac,
		LowFracThreshold:  *lowFrac,
		MaxClipFrames:     *maxFrames,
		CatalogPath:       catalog,
		HTTPAddr:          *httpAddr,
		HookCommand:       *hookCmd,
		HookTimeoutMs:     *hookTimeout,
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	fmt.Printf("Output directory: %s\n", *dataDir)
	fmt.Println("Type in the preview window. Press Q at any time to quit.")

	// A normal quit exits 0; a frame source failure exits 1.
	if err := a.Run(); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}

// defaultDataDir returns ./data/raw_videos under the working directory,
// matching where downstream extraction expects the clip tree.
func defaultDataDir() string {
	return filepath.Join("data", "raw_videos")
}
