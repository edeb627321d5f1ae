// SPDX-License-Identifier: EPL-2.0

// Package history keeps the list of recent exports.
//
// The list holds at most eight items, newest first, and is written in full
// to a Store after every change:
//
//	{"version":"1.0.0","items":[{"id":"...","name":"...","effect":"lofi",...}]}
//
// Documents are checked against the "^1.0" version range with
// github.com/Masterminds/semver/v3. Older installs wrote a bare JSON array
// and that layout is still read. Anything unreadable is logged and replaced
// by an empty list rather than failing the caller.
package history
