// Package scale maps data values to pixel positions.
//
// Linear maps a numeric domain onto a continuous range and produces "nice"
// tick values (1, 2 or 5 times a power of ten). Band partitions a range
// into equally sized bands, one per category, separated by padding.
//
// Both implement Ticker, which is all an axis needs: the ticks to draw,
// where a value sits on the axis, and the extent of the range.
package scale
