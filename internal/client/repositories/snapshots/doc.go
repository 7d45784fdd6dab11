// Package snapshots is the durable key/value area behind the listing cache.
//
// A snapshot is stored as two values: the JSON encoded entries under key and
// the capture time under key + ".captured_at". The SQL backends write both in
// one transaction so a reader never sees entries without their timestamp.
// Redis stores a single JSON document and lets the server expire it.
//
// Load returns (nil, nil) when nothing is stored under the key.
package snapshots
