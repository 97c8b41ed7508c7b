package app

import "github.com/ayusman/mudra/internal/session"

// Key codes from gocv's WaitKey, matching the OpenCV window's keyboard
// handling. Q quits from any state, so labels cannot contain the letter q.
const (
	keyNone      = -1
	keyEnter     = 13
	keyBackspace = 8
	keyDelete    = 127
	keySpace     = ' '
)

// eventForKey maps a pressed key to a controller event given the current
// state. SPACE is contextual: start in Idle, stop in Recording, discard in
// Review. Returns false when the key has no meaning in the current state.
func eventForKey(key int, state session.State) (session.Event, bool) {
	if key == keyNone {
		return session.Event{}, false
	}

	if key == 'q' || key == 'Q' {
		return session.Event{Kind: session.EventQuit}, true
	}

	switch state {
	case session.StateInputLabel, session.StateInputCount:
		switch {
		case key == keyEnter:
			return session.Event{Kind: session.EventConfirm}, true
		case key == keyBackspace || key == keyDelete:
			return session.Event{Kind: session.EventBackspace}, true
		case key > keySpace && key < 127:
			return session.Event{Kind: session.EventChar, Char: rune(key)}, true
		}

	case session.StateIdle:
		switch key {
		case keySpace:
			return session.Event{Kind: session.EventStart}, true
		case 'u', 'U':
			return session.Event{Kind: session.EventUndo}, true
		}

	case session.StateRecording:
		switch key {
		case keySpace:
			return session.Event{Kind: session.EventStop}, true
		case 'u', 'U':
			return session.Event{Kind: session.EventUndo}, true
		}

	case session.StateReview:
		switch key {
		case 'o', 'O':
			return session.Event{Kind: session.EventSave}, true
		case keySpace:
			return session.Event{Kind: session.EventDiscard}, true
		case 'u', 'U':
			return session.Event{Kind: session.EventUndo}, true
		}
	}

	return session.Event{}, false
}
