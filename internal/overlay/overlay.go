// Package overlay draws the on-frame HUD and hand skeleton for the
// collection tool's preview window. Everything here is visual guide
// only; saved clips are raw frames without overlay.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"gocv.io/x/gocv"
)

// HUD colors.
var (
	ColorAccent = color.RGBA{R: 200, G: 255, B: 0, A: 0}
	ColorDim    = color.RGBA{R: 180, G: 180, B: 180, A: 0}
	ColorFaint  = color.RGBA{R: 160, G: 160, B: 160, A: 0}
	ColorRec    = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	ColorReview = color.RGBA{R: 255, G: 200, B: 0, A: 0}
	ColorWhite  = color.RGBA{R: 255, G: 255, B: 255, A: 0}

	colorBar      = color.RGBA{R: 20, G: 20, B: 20, A: 0}
	colorSkeleton = color.RGBA{R: 0, G: 255, B: 120, A: 0}
	colorJoint    = color.RGBA{R: 255, G: 80, B: 80, A: 0}
)

// DarkBar draws a semi-transparent dark bar across the frame.
func DarkBar(frame *gocv.Mat, y, h int, alpha float64) {
	bar := frame.Clone()
	defer bar.Close()

	rect := image.Rect(0, y, frame.Cols(), y+h)
	gocv.Rectangle(&bar, rect, colorBar, -1)
	gocv.AddWeighted(bar, alpha, *frame, 1-alpha, 0, frame)
}

// TextCentered draws text horizontally centered at the given baseline y.
func TextCentered(frame *gocv.Mat, text string, y int, scale float64, c color.RGBA, thickness int) {
	size := gocv.GetTextSize(text, gocv.FontHersheySimplex, scale, thickness)
	x := (frame.Cols() - size.X) / 2
	gocv.PutText(frame, text, image.Pt(x, y), gocv.FontHersheySimplex, scale, c, thickness)
}

// InputPrompt draws a centered text-input overlay with a blinking cursor.
func InputPrompt(frame *gocv.Mat, prompt, textBuf string, cursorOn bool) {
	barH := 120
	barY := frame.Rows()/2 - barH/2
	DarkBar(frame, barY, barH, 0.90)

	TextCentered(frame, prompt, barY+40, 0.7, ColorDim, 2)

	cursor := " "
	if cursorOn {
		cursor = "|"
	}
	TextCentered(frame, textBuf+cursor, barY+85, 1.0, ColorAccent, 2)
}

// Controls draws control hints at the bottom of the frame.
func Controls(frame *gocv.Mat, lines []string) {
	barH := 18*len(lines) + 16
	DarkBar(frame, frame.Rows()-barH, barH, 0.80)
	for i, line := range lines {
		y := frame.Rows() - barH + 22 + i*18
		gocv.PutText(frame, line, image.Pt(14, y), gocv.FontHersheyPlain, 1.0, ColorFaint, 1)
	}
}

// TopBar draws the top status bar with the session label, progress, and
// a right-aligned state tag.
func TopBar(frame *gocv.Mat, label string, saved, target int, stateText string, stateColor color.RGBA) {
	DarkBar(frame, 0, 55, 0.85)
	gocv.PutText(frame, "Label: "+label, image.Pt(14, 25), gocv.FontHersheySimplex, 0.6, ColorAccent, 2)
	gocv.PutText(frame, fmt.Sprintf("%d/%d", saved, target), image.Pt(14, 48), gocv.FontHersheySimplex, 0.55, ColorDim, 1)

	size := gocv.GetTextSize(stateText, gocv.FontHersheySimplex, 0.6, 2)
	gocv.PutText(frame, stateText, image.Pt(frame.Cols()-size.X-14, 25), gocv.FontHersheySimplex, 0.6, stateColor, 2)
}

// RecIndicator draws a pulsing red REC dot and the elapsed take time.
func RecIndicator(frame *gocv.Mat, elapsed time.Duration) {
	if int(elapsed.Seconds()*3)%2 == 0 {
		gocv.Circle(frame, image.Pt(30, 85), 10, ColorRec, -1)
	}
	gocv.PutText(frame, fmt.Sprintf("REC  %.1fs", elapsed.Seconds()),
		image.Pt(48, 92), gocv.FontHersheySimplex, 0.6, ColorRec, 2)
}

// ReviewBar draws the review header with the take's frame count and duration.
func ReviewBar(frame *gocv.Mat, frames int, duration time.Duration) {
	DarkBar(frame, 0, 70, 0.85)
	TextCentered(frame, "Review Clip", 28, 0.7, ColorReview, 2)
	TextCentered(frame, fmt.Sprintf("%d frames | %.1fs", frames, duration.Seconds()),
		55, 0.5, ColorDim, 1)
}

// Landmarks draws the hand skeleton for each detected hand. Landmark
// coordinates are normalized to [0, 1] and scaled to the frame size.
func Landmarks(frame *gocv.Mat, hands []detector.HandLandmarks) {
	w := float64(frame.Cols())
	h := float64(frame.Rows())

	for i := range hands {
		hand := &hands[i]

		for _, conn := range detector.Connections {
			a := hand.Points[conn[0]]
			b := hand.Points[conn[1]]
			gocv.Line(frame,
				image.Pt(int(a.X*w), int(a.Y*h)),
				image.Pt(int(b.X*w), int(b.Y*h)),
				colorSkeleton, 2)
		}

		for _, p := range hand.Points {
			gocv.Circle(frame, image.Pt(int(p.X*w), int(p.Y*h)), 3, colorJoint, -1)
		}
	}
}
