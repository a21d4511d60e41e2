// Package todo holds the task model and the task file store.
//
// The task file is a JSON array of objects, one per task, in list order:
//
//	[
//	  {
//	    "description": "buy milk",
//	    "done": false
//	  }
//	]
//
// Tasks have no identifier. A task is addressed by its 1-based position in
// the list, which never changes because tasks are only ever appended.
//
// # Loading
//
// FileStore.Load distinguishes three outcomes that all yield an empty list:
//
//   - ErrNotFound: the file does not exist. Loading never creates it.
//   - ErrCorrupt: the file is not JSON or does not match the task file
//     schema. The returned *CorruptError carries per-location details.
//   - any other error: the file exists but could not be read.
//
// An empty file is an empty list and not an error.
//
// # Writing
//
// FileStore.Save rewrites the whole file on every call using:
//   - 2-space indentation
//   - Trailing newline
//   - No HTML escaping, so descriptions stay readable
package todo
