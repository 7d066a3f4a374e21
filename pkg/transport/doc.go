// Package transport provides the HTTP plumbing shared by all docmill
// endpoints: request-ID propagation, panic recovery, and structured request
// logging. Each middleware wraps a plain http.Handler so they compose with
// the rate-limit and metrics middlewares in any order.
package transport
