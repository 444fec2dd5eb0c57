// Package viz is the terminal frontend built on Bubble Tea.
//
// The TUI draws the particle field on a braille [Canvas] behind a centred
// panel that follows the [flow.Controller] view:
//
//   - intake: engine loading, drop prompt, selected file
//   - result: progressive reveal of the converted art
//   - error: message with acknowledge
//
// # Key Bindings
//
//	o/enter - type or paste an image path
//	enter/c - convert the selected file
//	x/esc   - remove selection, reset, acknowledge errors
//	s       - save the result to history
//	e       - export the result as SVG
//	j/k     - scroll the result
//	m       - mute or unmute the soundtrack
//	t       - cycle color themes
//	?       - frame timing overlay
//	q       - quit
//
// Dropping a file onto most terminals pastes its path, which is taken as a
// selection. Files landing in the watched drop directory arrive as [DropMsg].
package viz
