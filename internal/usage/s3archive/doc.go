// Package s3archive stores closed usage periods in S3 or an S3-compatible
// service. Each reset writes one JSON Snapshot whose key is derived from the
// time the period was closed.
package s3archive
