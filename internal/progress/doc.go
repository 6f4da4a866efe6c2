// Package progress defines the events the crawler and downloader emit while
// they run, and the sinks that present them.
//
// The core components only see the Emitter interface. The CLI wires a
// TerminalSink (carriage-return status lines on stderr) and a LogSink
// (structured slog records) together with Multi; tests use a Recorder.
package progress
