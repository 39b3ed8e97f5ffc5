package domain

import "time"

// DefaultAuthor is used when a comment is posted without a display name.
const DefaultAuthor = "anonymous"

// Topic identifies one of the fixed community discussion subjects.
type Topic string

// Topics is the closed, display-ordered set of community topics.
var Topics = []Topic{
	"Depression",
	"Anxiety",
	"Feeling Isolated?",
	"Family Issues",
	"Boundaries",
	"Late night sleep problems",
	"How to overcome anxiety?",
	"Having arguments in family daily",
	"How to overcome late night sleep?",
	"Recovering from panic attack?",
}

// IsKnown reports whether t belongs to the fixed topic set.
func (t Topic) IsKnown() bool {
	for _, known := range Topics {
		if known == t {
			return true
		}
	}
	return false
}

// Comment is a single community post. Field names on disk follow the
// format written by every earlier revision of the board.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	Author    string    `json:"user" bson:"user"`
	Body      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Board is the canonical comments collection: one ordered list per topic,
// oldest first.
type Board map[Topic][]Comment

// NewBoard returns a board with an empty list for every known topic.
func NewBoard() Board {
	b := make(Board, len(Topics))
	for _, t := range Topics {
		b[t] = []Comment{}
	}
	return b
}

// TopicPreview summarises a topic for the community overview.
type TopicPreview struct {
	Topic   Topic  `json:"topic"`
	Preview string `json:"preview"`
	Count   int    `json:"count"`
}
