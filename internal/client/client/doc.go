// Package client is the remote side of the record editor: the
// transport-agnostic Client contract and its gRPC implementation.
//
// # Transport
//
// GRPCClient talks to gbv.records.v1.RecordService. Messages are JSON
// encoded through a gRPC codec registered under the "json" content subtype,
// so the wire structs in wire.go are the whole schema. Reachability is
// probed with the standard gRPC health service.
//
// # Errors
//
// Remote failures are mapped before they leave the package:
//   - codes.NotFound becomes common.ErrNotFound
//   - codes.Unavailable and codes.DeadlineExceeded become a TransportError
//     wrapping ErrUnavailable
//   - everything else becomes a TransportError wrapping the status error
//
// Match with errors.Is / errors.As.
package client
