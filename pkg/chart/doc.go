// Package chart draws animated horizontal and vertical bar charts into a
// dom render tree.
//
// # Drawing
//
// A chart is created from a Dataset and drawn immediately. Each later
// Update replays the same pipeline:
//
//  1. Build scales for the current data. The category axis is a band
//     scale; its length comes from the configured size or, when unset,
//     from the bandwidth and padding.
//  2. Join bars to data by category. New categories enter collapsed and
//     grow, surviving bars move to their new geometry, and bars whose
//     category disappeared collapse and are removed.
//  3. Redraw the axes, fading ticks in and out.
//  4. Build an unanimated copy of the chart at its final state, measure
//     it, and fit the svg viewBox and container size to it. Vertical charts
//     first tilt their category labels so long names do not collide, and
//     the measurement includes the tilted labels.
//
// Every change runs through a transition.Scheduler, so the tree is only
// fully up to date once the scheduler has been ticked past the transition
// duration or settled.
//
// # Usage
//
//	c, err := chart.New(ctx, chart.Vertical, chart.Dataset{{"A", 3}, {"B", 5}}, "Things",
//	    chart.WithColor("steelblue"))
//	if err != nil {
//	    return err
//	}
//	err = c.Update(ctx, chart.Update{Data: chart.Dataset{{"B", 4}, {"C", 1}}})
//	c.Scheduler().Settle()
//	fmt.Println(dom.Markup(c.Node()))
package chart
