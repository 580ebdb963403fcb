/*
Package ports defines the driven ports (interfaces) of the excursion bot.

These interfaces decouple the navigation controller from external implementations,
allowing it to work with various content sources, chat platforms and storage backends.

# Key Interfaces

  - LocationRepository: resolves a location id to its text, images and audio.
  - MessageTransport: sends and deletes chat messages.
  - DistributedLocker: serializes a user's interactions across bot replicas.
  - ActionJournal: records what each user did (commands, button presses).
*/
package ports
