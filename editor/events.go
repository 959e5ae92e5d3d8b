package editor

import (
	"encoding/json"
	"fmt"
	"io"
)

// Event is one recorded input event. Scripts of events drive the editor from
// the command line and the HTTP API.
type Event struct {
	// Type is one of tool, down, move, up, leave, cancel, key, text, commit,
	// blur, style, apply, layer, visible, lock.
	Type  string  `json:"type"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Tool  string  `json:"tool,omitempty"`
	Shift bool    `json:"shift,omitempty"`
	Ctrl  bool    `json:"ctrl,omitempty"`
	Key   string  `json:"key,omitempty"`
	Text  string  `json:"text,omitempty"`
	Style *Style  `json:"style,omitempty"`
	// Flag is the on/off value of the visible and lock events.
	Flag bool `json:"flag,omitempty"`
}

// ReadEvents decodes a JSON array of events.
func ReadEvents(r io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// Replay feeds the events to the editor in order and stops at the first failure.
func Replay(ed *Editor, events []Event) error {
	for i, ev := range events {
		if err := ed.Dispatch(ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Type, err)
		}
	}
	return nil
}

// Dispatch applies a single event.
func (ed *Editor) Dispatch(ev Event) error {
	p := Point{ev.X, ev.Y}
	mods := Modifiers{Shift: ev.Shift, Ctrl: ev.Ctrl}
	switch ev.Type {
	case "tool":
		t, err := ParseTool(ev.Tool)
		if err != nil {
			return err
		}
		return ed.SetTool(t)
	case "down":
		return ed.PointerDown(p, mods)
	case "move":
		return ed.PointerMove(p, mods)
	case "up":
		return ed.PointerUp(p, mods)
	case "leave":
		ed.PointerLeave()
	case "cancel":
		ed.Cancel()
		ed.CancelText()
	case "key":
		return ed.KeyDown(ev.Key, mods)
	case "text":
		ed.TypeText(ev.Text)
	case "commit":
		return ed.CommitText()
	case "blur":
		return ed.Blur()
	case "style":
		if ev.Style == nil {
			return fmt.Errorf("style event without style")
		}
		ed.panel.Set(*ev.Style)
	case "apply":
		_, err := ed.panel.Apply(ed.store)
		return err
	case "layer":
		op, err := ParseLayerOp(ev.Key)
		if err != nil {
			return err
		}
		return ed.store.ReorderSelection(op)
	case "visible":
		_, err := ed.store.SetVisible(ed.store.Selection(), ev.Flag)
		return err
	case "lock":
		_, err := ed.store.SetLocked(ed.store.Selection(), ev.Flag)
		return err
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}
