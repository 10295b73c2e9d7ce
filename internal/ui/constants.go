package ui

import "time"

// Icons
const (
	IconSettings = "⚙"
	IconSearch   = "🔍"
	IconChat     = "💬"
	IconClose    = "×"
	IconBack     = "←"
	IconActivity = "⏱"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Texts shown by the shell
const (
	TextLoggedIn       = "You have successfully logged in."
	TextLoggedOut      = "You have successfully logged out."
	TextBadCredentials = "Invalid username / password."
	TextFeedHeading    = "The Latest From Those You Follow"
	TextFeedEmpty      = "Hello %s, your feed is empty."
	TextFeedEmptyLead  = "Your feed displays the latest posts from the people you follow. " +
		"Use the search in the header to find people with similar interests and follow them."
	TextGuestHeading = "Remember writing?"
	TextGuestLead    = "Sign in above to read the latest posts from the people you follow."
	TextNotFound     = "Whoops, we cannot find that page."
	TextLoading      = "Loading…"
	TextDeleteTitle  = "Delete post"
)

// Layout sizing
const (
	WindowWidth  float32 = 900
	WindowHeight float32 = 680

	OverlayWidth  float32 = 560
	OverlayHeight float32 = 420

	ActivityStatusWidth float32 = 84
	ActivityRowHeight   float32 = 28
)

// Debounce durations
const (
	UIUpdateDebounce = 100 * time.Millisecond
)
