// Package ratelimit provides in-process admission control for the docmill
// gateway. Every inbound request, upload, and document operation is checked
// against per-client quotas tracked over sliding minute, hour, and day
// windows, plus a per-minute bandwidth budget for uploads.
//
// The package is deliberately single-process and in-memory: quota state is
// lost on restart and is never shared across instances. Admission checks are
// best-effort under concurrency: the check-then-record sequence for one
// client is not atomic as a whole, so racing callers can admit slightly more
// than the nominal limit (at most one extra per concurrent caller). That
// burst tolerance is intended behavior, not a bug to fix.
//
// The decision logic (Limiter.CheckRequest, CheckUpload, CheckOperation)
// returns Status values and never errors; only Limiter.Enforce translates a
// denial into a *Violation at the service boundary. Middleware adapts Enforce
// to HTTP, mapping violations to 429 responses with a Retry-After hint.
//
// A Janitor keeps memory bounded: idle clients are dropped after 24 hours and
// the request map is hard-capped, evicting oldest-created entries first.
package ratelimit
