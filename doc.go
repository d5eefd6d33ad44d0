// Package multiparser watches a set of files on the local filesystem while
// another process writes to them, extracts structured values as the files
// change, and delivers those values to user-supplied callbacks in near real
// time.
//
// A Session owns two launchers: one for files that must be re-read whole on
// every change (Track), and one for files that grow by append and are read
// incrementally (Tail). Discovery is glob-based and poll-based by design:
// every launcher and worker re-checks the filesystem once per interval.
package multiparser
