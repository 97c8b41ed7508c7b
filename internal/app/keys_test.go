package app

import (
	"testing"

	"github.com/ayusman/mudra/internal/session"
)

func TestEventForKey(t *testing.T) {
	tests := []struct {
		name     string
		key      int
		state    session.State
		wantKind session.EventKind
		wantChar rune
		wantOK   bool
	}{
		{"no key pressed", keyNone, session.StateIdle, 0, 0, false},

		{"quit from label input", 'q', session.StateInputLabel, session.EventQuit, 0, true},
		{"quit from idle", 'q', session.StateIdle, session.EventQuit, 0, true},
		{"quit from recording", 'Q', session.StateRecording, session.EventQuit, 0, true},
		{"quit from review", 'q', session.StateReview, session.EventQuit, 0, true},

		{"label char", 'h', session.StateInputLabel, session.EventChar, 'h', true},
		{"label digit", '7', session.StateInputLabel, session.EventChar, '7', true},
		{"label enter", keyEnter, session.StateInputLabel, session.EventConfirm, 0, true},
		{"label backspace", keyBackspace, session.StateInputLabel, session.EventBackspace, 0, true},
		{"label delete as backspace", keyDelete, session.StateInputLabel, session.EventBackspace, 0, true},
		{"label space ignored", keySpace, session.StateInputLabel, 0, 0, false},

		{"count digit", '5', session.StateInputCount, session.EventChar, '5', true},
		{"count enter", keyEnter, session.StateInputCount, session.EventConfirm, 0, true},

		{"idle space starts", keySpace, session.StateIdle, session.EventStart, 0, true},
		{"idle undo", 'u', session.StateIdle, session.EventUndo, 0, true},
		{"idle undo upper", 'U', session.StateIdle, session.EventUndo, 0, true},
		{"idle o ignored", 'o', session.StateIdle, 0, 0, false},

		{"recording space stops", keySpace, session.StateRecording, session.EventStop, 0, true},
		{"recording undo", 'u', session.StateRecording, session.EventUndo, 0, true},
		{"recording o ignored", 'o', session.StateRecording, 0, 0, false},

		{"review o saves", 'o', session.StateReview, session.EventSave, 0, true},
		{"review O saves", 'O', session.StateReview, session.EventSave, 0, true},
		{"review space discards", keySpace, session.StateReview, session.EventDiscard, 0, true},
		{"review undo", 'u', session.StateReview, session.EventUndo, 0, true},
		{"review enter ignored", keyEnter, session.StateReview, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := eventForKey(tt.key, tt.state)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if ev.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", ev.Kind, tt.wantKind)
			}
			if ev.Char != tt.wantChar {
				t.Errorf("Char = %q, want %q", ev.Char, tt.wantChar)
			}
		})
	}
}
