package models

// Match is a derived view over a group's swipes, never stored. It exists when
// every current member has rated a title, nobody vetoed it, and at least one
// member scored it 2 or higher.
type Match struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	Score      int    `json:"score"`      // sum of member scores
	SwipeCount int    `json:"swipeCount"`
	MediaType  string `json:"mediaType"`
	Year       string `json:"year"`
}

// MatchCandidate is a ranked consensus result before catalog hydration.
type MatchCandidate struct {
	TitleID    int
	MediaType  string
	Score      int
	SwipeCount int
}
