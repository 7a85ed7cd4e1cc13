package domain

// Sentiment is the tone detected in a complaint.
type Sentiment string

const (
	SentimentAngry   Sentiment = "ANGRY"
	SentimentNeutral Sentiment = "NEUTRAL"
	SentimentCalm    Sentiment = "CALM"
)

// Valid reports whether s is a known sentiment.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentAngry, SentimentNeutral, SentimentCalm:
		return true
	}
	return false
}

// Analysis is the classification snapshot frozen on a ticket at creation.
type Analysis struct {
	Category  string         `json:"category"`
	Priority  TicketPriority `json:"priority"`
	Sentiment Sentiment      `json:"sentiment"`
}
