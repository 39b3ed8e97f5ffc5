package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"github.com/safespace/support-portal/internal/core/domain"
)

// Shape tags the layout a comments document was recognised as.
type Shape int

const (
	ShapeEmpty        Shape = iota // absent or blank
	ShapeTopicMap                  // {topic: [comment, ...]}
	ShapeList                      // [string | comment, ...]
	ShapeWrapped                   // {"comments": [comment, ...]}
	ShapeUnrecognized              // anything else, discarded
)

func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeTopicMap:
		return "topic_map"
	case ShapeList:
		return "list"
	case ShapeWrapped:
		return "wrapped"
	default:
		return "unrecognized"
	}
}

// Keys earlier revisions used to wrap a single comment list.
var wrapperKeys = []string{"comments", "posts", "messages", "items", "data"}

const (
	naiveISOLayout   = "2006-01-02T15:04:05.999999999"
	naiveSpaceLayout = "2006-01-02 15:04:05.999999999"
)

// Field aliases accepted on partially shaped comment records.
var (
	idKeys     = []string{"id", "_id"}
	authorKeys = []string{"user", "author", "name", "username"}
	bodyKeys   = []string{"text", "body", "comment", "message", "content"}
	timeKeys   = []string{"created_at", "timestamp", "time", "date", "posted_at"}
)

// Normalizer turns any comments document ever written into the canonical
// board. The zero value uses the wall clock and random UUIDs.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now().UTC()
	}
	return time.Now().UTC()
}

func (n Normalizer) newID() string {
	if n.NewID != nil {
		return n.NewID()
	}
	return uuid.NewString()
}

// Decode never fails: input it cannot interpret yields an empty board and
// ShapeUnrecognized. The board always holds exactly one list per topic.
func (n Normalizer) Decode(raw []byte) (domain.Board, Shape) {
	board := domain.NewBoard()
	if len(bytes.TrimSpace(raw)) == 0 {
		return board, ShapeEmpty
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return board, ShapeUnrecognized
	}

	now := n.now()
	first := domain.Topics[0]

	switch v := doc.(type) {
	case []any:
		board[first] = n.coerceList(v, now, true)
		return board, ShapeList

	case map[string]any:
		if len(v) == 0 {
			return board, ShapeTopicMap
		}
		if hasKnownTopic(v) {
			for _, t := range domain.Topics {
				if items, ok := v[string(t)].([]any); ok {
					board[t] = n.coerceList(items, now, false)
				}
			}
			return board, ShapeTopicMap
		}
		for _, key := range wrapperKeys {
			if items, ok := v[key].([]any); ok {
				board[first] = n.coerceList(items, now, false)
				return board, ShapeWrapped
			}
		}
	}

	return domain.NewBoard(), ShapeUnrecognized
}

// Encode writes every topic, in display order, with its full list.
func Encode(b domain.Board) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range domain.Topics {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(t))
		if err != nil {
			return nil, fmt.Errorf("encode topic: %w", err)
		}
		list := b[t]
		if list == nil {
			list = []domain.Comment{}
		}
		val, err := json.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", t, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, fmt.Errorf("indent comments: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func hasKnownTopic(m map[string]any) bool {
	for key := range m {
		if domain.Topic(key).IsKnown() {
			return true
		}
	}
	return false
}

// coerceList converts items to comments, dropping anything unusable, and
// keeps created_at non-decreasing in insertion order.
func (n Normalizer) coerceList(items []any, now time.Time, acceptStrings bool) []domain.Comment {
	out := make([]domain.Comment, 0, len(items))
	for _, item := range items {
		c, ok := n.coerce(item, now, acceptStrings)
		if !ok {
			continue
		}
		if len(out) > 0 && c.CreatedAt.Before(out[len(out)-1].CreatedAt) {
			c.CreatedAt = out[len(out)-1].CreatedAt
		}
		out = append(out, c)
	}
	return out
}

func (n Normalizer) coerce(item any, now time.Time, acceptStrings bool) (domain.Comment, bool) {
	switch v := item.(type) {
	case string:
		if !acceptStrings || strings.TrimSpace(v) == "" {
			return domain.Comment{}, false
		}
		return domain.Comment{ID: n.newID(), Author: domain.DefaultAuthor, Body: v, CreatedAt: now}, true

	case map[string]any:
		c := domain.Comment{
			ID:     firstString(v, idKeys),
			Author: strings.TrimSpace(firstString(v, authorKeys)),
			Body:   firstString(v, bodyKeys),
		}
		if strings.TrimSpace(c.Body) == "" {
			return domain.Comment{}, false
		}
		if c.ID == "" {
			c.ID = n.newID()
		}
		if c.Author == "" {
			c.Author = domain.DefaultAuthor
		}
		c.CreatedAt = parseTimestamp(firstString(v, timeKeys), now)
		return c, true
	}
	return domain.Comment{}, false
}

func firstString(m map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// parseTimestamp accepts RFC 3339 as well as the naive ISO strings and unix
// seconds older revisions wrote. Naive values are read as UTC.
func parseTimestamp(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339Nano, naiveISOLayout, naiveSpaceLayout} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t.UTC()
	}
	return fallback
}
