package model

// Package model defines the data structures shared across the client: the
// application state snapshot and session identity, notices, the posts and
// profiles rendered by views, and the fetch task status enum. Structures are
// plain values so snapshots can be copied and compared freely.
