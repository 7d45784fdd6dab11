// Package common contains constants and sentinel errors shared by the
// client layers. Match the errors with errors.Is.
package common

// RequestIDHeaderName is the gRPC metadata key carrying the per-call
// request id.
const RequestIDHeaderName = "x-request-id"

// ListingCacheKey is the fixed key of the single listing snapshot in the
// durable cache area.
const ListingCacheKey = "records.listing"
