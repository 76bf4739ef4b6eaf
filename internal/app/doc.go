// Package app is the composition root of wanreader.
//
// Open builds every collaborator explicitly from the config file, in
// dependency order:
//
//  1. config.Load reads ~/.config/wanreader/config.toml (defaults when missing)
//  2. logging.Open appends to the log file the in-app log view tails
//  3. session.Open loads the persisted cookie jar
//  4. wan.NewClient wires the jar, timeout, rate limit and logger
//  5. task.NewExecutor bounds concurrent calls to the configured worker count
//  6. render.NewReader and export.New back the detail view's full text and
//     markdown export
//
// Run hands the result to the ui package and blocks until the user quits.
// The headless commands in cmd/wanreader use Open directly and call the
// same collaborators without a TUI.
//
// Nothing here is global: tests build an Env from a temporary config and
// tear it down with Close.
package app
