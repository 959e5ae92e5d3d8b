/*
Package editor implements the document model of a small vector drawing editor.

The model is made of four layers:

  - an ordered element store, where the slice order is the z-order (later is on top);
  - a linear undo/redo history of immutable snapshots sharing unchanged elements;
  - a tool dispatcher which turns pointer and keyboard events into selection changes,
    previews and committed edits;
  - renderers and exporters working against the Surface interface, so that nothing in
    the package depends on a real windowing or browser context.

A minimal session looks like this:

	ed := editor.New(editor.NewSequence("el"))
	ed.SetTool(editor.ToolRect)
	ed.PointerDown(editor.Pt(10, 10), editor.Modifiers{})
	ed.PointerMove(editor.Pt(110, 60), editor.Modifiers{})
	ed.PointerUp(editor.Pt(110, 60), editor.Modifiers{})

	var buf bytes.Buffer
	err := editor.ExportSVG(&buf, ed.Store().Elements(), 800, 600)
*/
package editor
