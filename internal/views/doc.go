// Package views holds the data-fetching side of the screens: each view
// reads the session token from the store at request time, runs its request
// through the fetch service and drops the result if it is unmounted first.
package views
