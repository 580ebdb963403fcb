/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing tours.

It allows developers to define locations and their route graph with a fluent builder
instead of a data directory and a route document. This is particularly useful for
embedding a small tour in a program, for unit tests and for generated tours.

Example usage:

	b := dsl.New()

	b.Add("gate").
		Text("Welcome to the old town!").
		Images("gate.jpg").
		Go("square", "harbour").
		Start()

	b.Add("square").
		Text("The market square.").
		Audio("square.mp3").
		Go("harbour")

	b.Add("harbour").
		Text("End of the walk.").
		End()

	repo, graph, err := b.Build()
	// ... pass repo and graph to excursion.New(...)
*/
package dsl
