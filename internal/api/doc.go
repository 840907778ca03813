// Package api provides the HTTP handlers and routing for the exploration
// task queue, translating JSON requests into task manager operations and
// queue state back into JSON responses.
package api
