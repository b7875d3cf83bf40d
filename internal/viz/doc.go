// Package viz renders scenes in the terminal.
//
// [Terminal] is a render backend that projects the scene graph onto a
// colored Braille [Canvas]. [Player] is a Bubble Tea program hosting the
// animation scheduler, one tick per frame message.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Next vibe in the playlist
//	T     - Cycle chrome themes
//	?     - Show help overlay
//	Q     - Quit
package viz
