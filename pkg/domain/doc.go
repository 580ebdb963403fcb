/*
Package domain contains the core models of the excursion bot.

It defines the entities the navigation state machine works with: Locations and their
content, the controls offered to the user, the opaque handles of messages that are
currently visible in a chat, and the errors the controller reports. The package is kept
free of I/O and platform details, following Hexagonal Architecture principles.

# Key Entities

  - Location: a stop of the tour (text, ordered images, optional audio).
  - Control: an affordance rendered next to the location text (next, back, restart, jump).
  - MessageHandle: identifies a message the transport delivered and may later delete.
  - View: what the controller rendered for a user after a transition.
*/
package domain
