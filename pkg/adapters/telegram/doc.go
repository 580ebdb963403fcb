// Package telegram connects the bot to the Telegram Bot API.
//
// Transport implements ports.MessageTransport and Bot runs the long-polling update loop,
// converting updates into dispatch.Interaction values.
package telegram
