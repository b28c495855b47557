package models

// ✅ Media Types
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// ✅ Swipe Scores (ordinal: the veto and enthusiasm rules depend on these exact values)
const (
	ScoreNope      = 0
	ScoreMaybe     = 1
	ScoreWant      = 2
	ScoreMustWatch = 3
)

// ✅ Watch Statuses
const (
	StatusSwiped   = "swiped"
	StatusWatching = "watching"
	StatusWatched  = "watched"
)

// IsValidMediaType reports whether m is a recognized media type
func IsValidMediaType(m string) bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// IsValidStatus reports whether s is a recognized watch status
func IsValidStatus(s string) bool {
	return s == StatusSwiped || s == StatusWatching || s == StatusWatched
}
