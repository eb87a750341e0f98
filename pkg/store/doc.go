// Package store persists mind-map documents.
//
// A [Document] wraps the JSON/BSON snapshot of one tree with an id, a title
// and timestamps. Backends implement [Store]:
//   - [MemoryStore]: in-process, for tests and the default HTTP server
//   - [FileStore]: one JSON file per document under the data directory
//     (~/.local/share/infinityflow/maps by default)
//   - [MongoStore]: a MongoDB collection, one document per mind map
//
// The editing core never waits on persistence. [AutoSaver] adapts a Store
// to the controller's onChange callback: every change replaces the pending
// snapshot and re-arms a debounce timer, and the save runs in the
// background. The persisted copy may lag the in-memory tree; [AutoSaver.Flush]
// forces the pending snapshot out.
//
//	saver := store.NewAutoSaver(st, doc, store.WithDebounce(time.Second))
//	defer saver.Close()
//	ctrl := interact.New(tree, interact.WithOnChange(saver.Notify))
package store
