// Package ui is the Fyne desktop shell. It renders the store's snapshot,
// hosts the views and overlays, and turns clicks into transitions; it holds
// no application state of its own beyond what is on screen.
package ui
