// Package canvas models the board that hosts mind maps next to other
// content.
//
// Every element on a board is an [Item]: one shared id and [Frame]
// (position and size in board units) plus a kind-specific [Payload]. The
// set of kinds is closed; each kind has exactly one payload type:
//
//	note             Note            text on a sticky note
//	image, video     Image, Video    media URL
//	shape            Shape           colored box with an optional label
//	mindmap          MindMap         JSON snapshot of a mind-map tree
//	report           Report          markdown analysis report
//	html             HTML            interactive HTML report
//	image-generator  Generator       prompt for an image generator widget
//	video-generator  Generator       prompt for a video generator widget
//
// On the wire an item keeps the flat form used by board files:
// {id, type, x, y, width, height, content, color, meta}.
//
// A mind-map item is edited through [Board.OpenMindMap], which hosts an
// [interact.Controller] on the item's content and writes every change back
// to the item before calling the board's change callback.
package canvas
