// Package dispatch maps inbound chat interactions onto controller operations.
//
// It is platform independent: transports convert their updates into an Interaction
// and hand it to a Dispatcher, which journals the action, calls the Navigator and turns
// navigation errors into short notices for the user.
package dispatch
