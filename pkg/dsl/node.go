package dsl

import "github.com/aretw0/excursion/pkg/domain"

// LocationBuilder provides a fluent API for configuring a location.
type LocationBuilder struct {
	loc     domain.Location
	next    []string
	builder *Builder
}

// Text sets the body shown for the location.
func (n *LocationBuilder) Text(content string) *LocationBuilder {
	n.loc.Text = content
	return n
}

// Images appends image assets, sent as a group before the text.
func (n *LocationBuilder) Images(paths ...string) *LocationBuilder {
	n.loc.Images = append(n.loc.Images, paths...)
	return n
}

// Audio sets the audio guide sent after the text.
func (n *LocationBuilder) Audio(path string) *LocationBuilder {
	n.loc.Audio = path
	return n
}

// Go appends forward options, in the order the buttons are shown.
func (n *LocationBuilder) Go(ids ...string) *LocationBuilder {
	n.next = append(n.next, ids...)
	return n
}

// Start marks the location as the entry of the tour.
func (n *LocationBuilder) Start() *LocationBuilder {
	n.builder.start = n.loc.ID
	return n
}

// End marks the location as the end of the tour, where restart is offered.
func (n *LocationBuilder) End() *LocationBuilder {
	n.builder.end = n.loc.ID
	return n
}
