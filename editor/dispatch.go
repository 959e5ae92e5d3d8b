package editor

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Tool selects the transition table used by the dispatcher.
type Tool string

// The available tools.
const (
	ToolSelect  Tool = "select"
	ToolRect    Tool = "rect"
	ToolEllipse Tool = "ellipse"
	ToolLine    Tool = "line"
	ToolPolygon Tool = "polygon"
	ToolStar    Tool = "star"
	ToolText    Tool = "text"
	ToolBrush   Tool = "brush"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolRect, ToolEllipse, ToolLine, ToolPolygon, ToolStar, ToolText, ToolBrush}

// ParseTool validates a tool name.
func ParseTool(name string) (Tool, error) {
	t := Tool(strings.ToLower(name))
	if !slices.Contains(Tools, t) {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return t, nil
}

// State is the dispatcher state.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateDragging
	StateEditingText
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateDragging:
		return "dragging-selection"
	case StateEditingText:
		return "editing-text"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Modifiers carries the keyboard modifiers held during an event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
}

// minExtent is the smallest gesture committed by the shape tools.
const minExtent = 1.0

// placeholderText is the content of a freshly placed text element.
const placeholderText = "Text"

// nudge distances for the arrow keys.
const (
	nudgeStep      = 1.0
	nudgeStepLarge = 10.0
)

// Editor dispatches pointer and keyboard events to the store.
// All in-progress state (previews, brush samples, text buffers) lives here and
// never reaches the committed list before the gesture completes.
type Editor struct {
	store *Store
	panel *StylePanel
	tool  Tool
	state State

	anchor  Point
	current Point
	preview *Element
	stroke  []Point

	editingID string
	textBuf   string
}

// New creates an editor over an empty document.
func New(ids IDGenerator, opts ...StoreOption) *Editor {
	return &Editor{
		store: NewStore(ids, opts...),
		panel: NewStylePanel(),
		tool:  ToolSelect,
	}
}

// Store returns the underlying document.
func (ed *Editor) Store() *Store { return ed.store }

// Panel returns the style panel feeding new elements.
func (ed *Editor) Panel() *StylePanel { return ed.panel }

// Tool returns the active tool.
func (ed *Editor) Tool() Tool { return ed.tool }

// State returns the dispatcher state.
func (ed *Editor) State() State { return ed.state }

// EditingID returns the id of the text element being edited, if any.
func (ed *Editor) EditingID() string { return ed.editingID }

// SetTool switches tools. A gesture in progress is discarded; pending text is committed.
func (ed *Editor) SetTool(t Tool) error {
	if _, err := ParseTool(string(t)); err != nil {
		return err
	}
	if ed.state == StateEditingText {
		if err := ed.CommitText(); err != nil {
			return err
		}
	}
	ed.Cancel()
	ed.tool = t
	return nil
}

// PointerDown starts a gesture according to the active tool.
func (ed *Editor) PointerDown(p Point, mods Modifiers) error {
	if ed.state == StateEditingText {
		if err := ed.CommitText(); err != nil {
			return err
		}
	}
	if ed.state != StateIdle {
		ed.Cancel()
	}
	ed.anchor, ed.current = p, p

	switch ed.tool {
	case ToolSelect:
		return ed.selectAt(p, mods)
	case ToolBrush:
		ed.stroke = []Point{p}
		ed.state = StateDrawing
	case ToolText:
		return ed.placeText(p)
	default:
		sh, _ := ed.shapeFor(p, mods)
		ed.preview = ed.newElement(sh)
		ed.state = StateDrawing
	}
	return nil
}

// PointerMove updates the preview of the gesture in progress.
func (ed *Editor) PointerMove(p Point, mods Modifiers) error {
	switch ed.state {
	case StateDrawing:
		ed.current = p
		if ed.tool == ToolBrush {
			ed.stroke = appendSample(ed.stroke, p)
			return nil
		}
		sh, _ := ed.shapeFor(p, mods)
		ed.preview.Shape = sh
	case StateDragging:
		ed.current = p
	}
	return nil
}

// PointerUp completes the gesture and commits its result.
func (ed *Editor) PointerUp(p Point, mods Modifiers) error {
	switch ed.state {
	case StateDrawing:
		defer ed.reset()
		ed.current = p
		if ed.tool == ToolBrush {
			ed.stroke = appendSample(ed.stroke, p)
			if len(ed.stroke) < 2 {
				return nil
			}
			return ed.addAndSelect(ed.newElement(Path{Points: slices.Clone(ed.stroke)}))
		}
		sh, extent := ed.shapeFor(p, mods)
		if extent < minExtent {
			logger().Debug("editor discarded degenerate gesture", "tool", ed.tool)
			return nil
		}
		ed.preview.Shape = sh
		return ed.addAndSelect(ed.preview)
	case StateDragging:
		defer ed.reset()
		ed.current = p
		dx, dy := ed.dragDelta()
		if dx == 0 && dy == 0 {
			return nil
		}
		var terr error
		_, err := ed.store.Update(ed.store.Selection(), func(e *Element) {
			sh, err := Translate(e.Shape, dx, dy)
			if err != nil {
				terr = err
				return
			}
			e.Shape = sh
		})
		if terr != nil {
			return terr
		}
		return err
	}
	return nil
}

// PointerLeave handles the pointer leaving the canvas: the gesture is dropped.
func (ed *Editor) PointerLeave() { ed.Cancel() }

// Cancel discards any drawing or dragging gesture without touching the document.
// Text editing is not affected.
func (ed *Editor) Cancel() {
	if ed.state == StateDrawing || ed.state == StateDragging {
		ed.reset()
	}
}

func (ed *Editor) reset() {
	ed.state = StateIdle
	ed.preview = nil
	ed.stroke = nil
}

// Blur is the text input losing focus; it commits the pending text.
func (ed *Editor) Blur() error {
	if ed.state == StateEditingText {
		return ed.CommitText()
	}
	return nil
}

// TypeText replaces the content of the text being edited.
func (ed *Editor) TypeText(s string) {
	if ed.state == StateEditingText {
		ed.textBuf = s
	}
}

// CommitText writes the edited text back as a single commit. An unchanged value
// commits nothing; an empty value removes the element.
func (ed *Editor) CommitText() error {
	if ed.state != StateEditingText {
		return nil
	}
	id, value := ed.editingID, ed.textBuf
	ed.editingID, ed.textBuf = "", ""
	ed.state = StateIdle

	if value == "" {
		_, err := ed.store.Delete([]string{id})
		return err
	}
	_, err := ed.store.Update([]string{id}, func(e *Element) {
		if t, ok := e.Shape.(Text); ok {
			t.Content = value
			e.Shape = t
		}
	})
	return err
}

// CancelText leaves text editing and keeps the committed value.
func (ed *Editor) CancelText() {
	if ed.state == StateEditingText {
		ed.editingID, ed.textBuf = "", ""
		ed.state = StateIdle
	}
}

// KeyDown handles keyboard shortcuts. Key names follow the DOM KeyboardEvent.key values.
func (ed *Editor) KeyDown(key string, mods Modifiers) error {
	if ed.state == StateEditingText {
		switch key {
		case "Enter":
			return ed.CommitText()
		case "Escape":
			ed.CancelText()
		case "Backspace":
			if r := []rune(ed.textBuf); len(r) > 0 {
				ed.textBuf = string(r[:len(r)-1])
			}
		default:
			if len([]rune(key)) == 1 {
				ed.textBuf += key
			}
		}
		return nil
	}

	if mods.Ctrl {
		switch strings.ToLower(key) {
		case "z":
			ed.Cancel()
			if mods.Shift {
				ed.store.Redo()
			} else {
				ed.store.Undo()
			}
		case "y":
			ed.Cancel()
			ed.store.Redo()
		case "a":
			ed.store.SelectAll()
		case "d":
			_, err := ed.store.Duplicate(ed.store.Selection())
			return err
		}
		return nil
	}

	switch key {
	case "Delete", "Backspace":
		if ed.state != StateIdle {
			return nil
		}
		_, err := ed.store.Delete(ed.store.Selection())
		return err
	case "Escape":
		if ed.state != StateIdle {
			ed.Cancel()
			return nil
		}
		ed.store.ClearSelection()
	case "ArrowLeft", "ArrowRight", "ArrowUp", "ArrowDown":
		if ed.state != StateIdle {
			return nil
		}
		return ed.nudge(key, mods.Shift)
	}
	return nil
}

func (ed *Editor) nudge(key string, large bool) error {
	step := nudgeStep
	if large {
		step = nudgeStepLarge
	}
	var dx, dy float64
	switch key {
	case "ArrowLeft":
		dx = -step
	case "ArrowRight":
		dx = step
	case "ArrowUp":
		dy = -step
	case "ArrowDown":
		dy = step
	}
	var terr error
	_, err := ed.store.Update(ed.store.Selection(), func(e *Element) {
		sh, err := Translate(e.Shape, dx, dy)
		if err != nil {
			terr = err
			return
		}
		e.Shape = sh
	})
	if terr != nil {
		return terr
	}
	return err
}

// Preview returns the uncommitted elements of the gesture in progress.
func (ed *Editor) Preview() []Element {
	switch ed.state {
	case StateDrawing:
		if ed.tool == ToolBrush {
			if len(ed.stroke) == 0 {
				return nil
			}
			return []Element{*ed.newElement(Path{Points: slices.Clone(ed.stroke)})}
		}
		if ed.preview != nil {
			return []Element{*ed.preview.clone()}
		}
	case StateDragging:
		dx, dy := ed.dragDelta()
		var out []Element
		for _, e := range ed.store.snapshot() {
			if !ed.store.IsSelected(e.ID) || e.Locked {
				continue
			}
			c := e.clone()
			if sh, err := Translate(c.Shape, dx, dy); err == nil {
				c.Shape = sh
			}
			out = append(out, *c)
		}
		return out
	case StateEditingText:
		if e, ok := ed.store.Element(ed.editingID); ok {
			if t, ok := e.Shape.(Text); ok {
				t.Content = ed.textBuf
				e.Shape = t
			}
			return []Element{e}
		}
	}
	return nil
}

// Scene returns what should be on screen: the committed list with the previews
// of the current gesture substituted or stacked on top.
func (ed *Editor) Scene() []Element {
	elems := ed.store.Elements()
	preview := ed.Preview()
	if len(preview) == 0 {
		return elems
	}
	if ed.state == StateDrawing {
		return append(elems, preview...)
	}
	byID := make(map[string]Element, len(preview))
	for _, p := range preview {
		byID[p.ID] = p
	}
	for i, e := range elems {
		if p, ok := byID[e.ID]; ok {
			elems[i] = p
		}
	}
	return elems
}

func (ed *Editor) dragDelta() (float64, float64) {
	return ed.current.X - ed.anchor.X, ed.current.Y - ed.anchor.Y
}

func (ed *Editor) selectAt(p Point, mods Modifiers) error {
	hit, err := HitTestTop(ed.store.snapshot(), p)
	if err != nil {
		return err
	}
	if hit == nil {
		if !mods.Shift {
			ed.store.ClearSelection()
		}
		return nil
	}
	switch {
	case mods.Shift:
		ed.store.Toggle(hit.ID)
		if !ed.store.IsSelected(hit.ID) {
			return nil
		}
	case !ed.store.IsSelected(hit.ID):
		ed.store.Select(hit.ID)
	}
	if !hit.Locked {
		ed.state = StateDragging
	}
	return nil
}

func (ed *Editor) placeText(p Point) error {
	d := ed.panel.Shapes
	e := ed.newElement(Text{At: p, Content: placeholderText, FontSize: d.FontSize, FontFamily: d.FontFamily})
	if err := ed.addAndSelect(e); err != nil {
		return err
	}
	ed.state = StateEditingText
	ed.editingID = e.ID
	ed.textBuf = placeholderText
	return nil
}

func (ed *Editor) newElement(sh Shape) *Element {
	return &Element{Style: ed.panel.Style, Visible: true, Shape: sh}
}

func (ed *Editor) addAndSelect(e *Element) error {
	id, err := ed.store.Add(*e)
	if err != nil {
		return err
	}
	e.ID = id
	ed.store.Select(id)
	return nil
}

// shapeFor builds the shape of the active drawing tool between the anchor and p.
// It also returns the gesture extent used to discard accidental clicks.
func (ed *Editor) shapeFor(p Point, mods Modifiers) (Shape, float64) {
	a := ed.anchor
	d := ed.panel.Shapes
	switch ed.tool {
	case ToolRect:
		x, y, w, h := normRect(a, p, mods.Shift)
		return Rect{X: x, Y: y, Width: w, Height: h, Radius: d.CornerRadius}, math.Max(w, h)
	case ToolEllipse:
		x, y, w, h := normRect(a, p, mods.Shift)
		return Ellipse{Center: Point{x + w/2, y + h/2}, RX: w / 2, RY: h / 2}, math.Max(w, h)
	case ToolLine:
		if mods.Shift {
			p = snapAngle(a, p)
		}
		return Line{From: a, To: p}, a.Dist(p)
	case ToolPolygon:
		r := a.Dist(p)
		return NewPolygon(a, r, d.Sides), r
	case ToolStar:
		r := a.Dist(p)
		return NewStar(a, r, r*d.InnerRatio, d.StarPoints), r
	}
	return nil, 0
}
