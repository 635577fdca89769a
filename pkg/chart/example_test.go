package chart_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/barchart/pkg/chart"
)

func ExampleNew() {
	ctx := context.Background()
	c, err := chart.New(ctx, chart.Horizontal,
		chart.Dataset{{"Oslo", 3}, {"Bergen", 5}},
		"Rainy days",
		chart.WithColor("steelblue"),
		chart.WithDuration(0),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c.Data().Categories())
	fmt.Println(len(c.SVG().SelectAll("g.bars > rect")))
	// Output:
	// [Bergen Oslo]
	// 2
}

func ExampleIsValid() {
	fmt.Println(chart.IsValid([]any{[]any{"A", 1.0}, []any{"B", 2.0}}))
	fmt.Println(chart.IsValid([]any{}))
	fmt.Println(chart.IsValid([]any{[]any{"A", "x"}}))
	// Output:
	// true
	// false
	// false
}
