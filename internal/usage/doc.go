// Package usage meters per-tenant consumption against plan limits.
//
// Service performs every write (Consume, Refund, SetLimit, ApplyLimits) as a
// read-modify-write of the tenant's Record inside a keyqueue.Queue keyed by
// tenant id. Concurrent requests for one tenant therefore apply one at a
// time in arrival order and never lose updates, while requests for other
// tenants are not delayed. Stores need no transactions or row locks.
//
// ResetPeriod closes a billing period. It runs as a queue barrier over every
// stored tenant: queued writes finish, the records are handed to the
// Archiver, usage is zeroed, and only then do writes that arrived meanwhile
// proceed.
//
// Storage backends live in sub-packages: memstore, redisstore, pgstore and
// mongostore. s3archive stores period snapshots in S3.
package usage
