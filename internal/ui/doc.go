// Package ui is the Bubble Tea front end of wanreader.
//
// Model is the root tea.Model. It owns one controller per screen from the
// screen package and observes their state holders: every holder gets a
// subscription, and a watch command turns each transition into a stateMsg
// that Update handles like any other message. After handling a stateMsg the
// model re-arms the watch, so exactly one command waits per subscription.
//
// Views:
//
//   - Login: username and password, plus a confirm field in register mode
//   - Articles and Favorites: paged lists with a collected marker
//   - Detail: one article with collect, full text and markdown export
//   - Logs: the tail of the log file, refreshed while following
//
// Form validation happens here and invalid input never reaches a controller.
// Errors from any operation are shown in the status line until the next key
// press.
package ui
