/*
Package session holds per-user navigation state.

A Navigation records where a user is, how they got there (the back stack) and which
messages are currently on their screen. The Registry creates sessions on demand and
serializes every operation on a given user's session, optionally across replicas through
a distributed locker. Sessions live in memory for the lifetime of the process.
*/
package session
