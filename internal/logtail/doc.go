// Package logtail reads the tail of promptdeck's log file for the TUI log
// pane.
//
// Read keeps only the last N lines in a ring buffer, so the file is streamed
// once regardless of size. Format turns the JSON records written by zerolog
// into short single-line text:
//
//	{"level":"warn","ids":3,"message":"likes refresh failed"}
//	-> WARN  likes refresh failed ids=3
//
// Lines that are not JSON pass through unchanged.
package logtail
