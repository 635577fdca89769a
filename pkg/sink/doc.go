// Package sink exports charts as standalone documents.
//
// [RenderSVG] serialises a chart's svg element. Transitions still in flight
// at export time are written as SMIL animations whose begin offsets place
// them at the same point of their timeline, so the document keeps moving
// from where the live chart is. Pending removals become display changes at
// their deadline.
//
// [RenderHTML] places one or more charts on a page, optionally wired so
// that clicks post their modifier keys back to a server.
//
// [RenderPNG] rasterises the current state of a chart with headless Chrome
// or rsvg-convert.
package sink
