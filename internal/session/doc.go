package session

// Package session owns the session lifecycle around the state store: it
// mirrors the authenticated identity into durable key/value storage, restores
// it on startup, and validates a restored token once against the backend.
