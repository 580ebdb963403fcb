/*
Package excursion is a guided-tour engine for chat bots.

A tour is a set of locations (a text body, optional images and an optional audio
guide) connected either as an alphabetical sequence (linear variant) or as a
directed route graph with a start and an end (graph variant). The engine keeps one
navigation session per user and treats the chat like a slide deck: every step
replaces the messages of the previous one.

# Concept

The engine follows a hexagonal layout. Content comes from a ports.LocationRepository,
the topology from a route.Resolver and delivery goes through a ports.MessageTransport.
The Telegram adapter, the filesystem scanner and the route document parser are
collaborators that live in pkg/adapters and pkg/route.

# Message lifecycle

Each transition is a two-phase swap. The handles visible for the previous step are
drained from the session, the new content is sent (images, then text with its
controls, then audio) and only then are the old handles deleted, concurrently and
best-effort. A failure to deliver images or audio degrades the step to its text
message; a failure to delete is logged and never aborts navigation.

# Usage

	repo, err := fs.Open("./data")
	if err != nil {
		log.Fatal(err)
	}
	ids, _ := repo.ListAll()

	eng, err := excursion.New(repo, route.NewLinear(ids), telegram.NewTransport(api))
	if err != nil {
		log.Fatal(err)
	}

	user := domain.Target{UserID: 42, ChatID: 42}
	view, err := eng.Start(ctx, user)
	// view.Options holds the forward choices; pass one to eng.Select.
*/
package excursion
