package store

// Package store holds the single source of truth for the client: session
// identity, overlay visibility, notices and the unread chat count. State only
// changes through Dispatch with one of the closed set of Transition kinds;
// every change is applied by the pure Reduce function and then fanned out
// synchronously to subscribers.
