// Package database stores the run history of spider in SQLite.
//
// Every finished run is appended to a database under the XDG data
// directory:
//   - runs: one row per run with its summary and the full JSON report
//   - artifacts: the files a run saved, with their SHA3-256 digests
//   - failures: the URLs a run could not fetch or did not save
//
// The history is an audit log. Crawls never read it back; only the
// "spider history" command does. The driver is modernc.org/sqlite, which
// needs no cgo, and the database runs in WAL mode.
package database
