// Package transition animates attribute and style changes on a dom tree.
//
// A Scheduler records tweens: a starting value, a target value, a start time
// and a duration. Nothing moves on its own; callers drive the animation by
// calling Tick, which writes the eased, interpolated value of every active
// tween onto its node and finishes those whose time is up. Settle jumps
// every tween to its end state.
//
// Scheduling a second tween for the same node and attribute replaces the
// first. The new tween starts from the value the old one had reached, so
// redraws issued mid-animation continue smoothly instead of jumping.
//
// Nodes can also be scheduled for removal. A removal fires on the first Tick
// at or after its deadline, detaching the node and dropping every tween in
// its subtree. Revive cancels a pending removal.
//
// Time comes from a Clock. Tests and offline exporters use ManualClock to
// step animations deterministically.
package transition
