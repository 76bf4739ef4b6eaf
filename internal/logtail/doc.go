// Package logtail reads the tail of wanreader's log file and splits lines
// into parts the log view can style.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries, so it makes a single pass
// over the file and uses O(maxLines) memory no matter how large the file
// grows. Lines come back oldest first.
//
//	lines, err := logtail.Read(cfg.LogPath, 400)
//
// A missing file is not an error; Read returns nil, nil. A non-positive
// maxLines returns the whole file.
//
// # Parsing
//
// Lines written by the logging package look like:
//
//	2026-10-19 09:12:44 INFO  request done component=wan path=user/login
//
// Parse returns the timestamp, the level, the message and the trailing
// key=value fields. Quoted values keep their quotes. Anything that does not
// start with a timestamp and a level is returned whole as the message.
//
// Parsing never fails and holds no state; colours are applied by the ui
// package from the active theme.
package logtail
