package enrich

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// gitDateLayout matches the author and committer dates in raw git items,
// e.g. "Tue May 12 12:00:00 2020 +0200".
const gitDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// rawItem is the envelope shared by every collector item. Data holds the
// backend-specific payload and is decoded per category.
type rawItem struct {
	UUID      string          `json:"uuid"`
	Category  string          `json:"category"`
	UpdatedOn float64         `json:"updated_on"`
	Data      json.RawMessage `json:"data"`
}

type commitData struct {
	Commit     string `json:"commit"`
	Author     string `json:"Author"`
	AuthorDate string `json:"AuthorDate"`
	Files      []struct {
		Added   string `json:"added"`
		Removed string `json:"removed"`
	} `json:"files"`
}

type issueData struct {
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	ClosedAt  string `json:"closed_at"`
	User      *struct {
		Login string `json:"login"`
	} `json:"user"`
	Author *struct {
		Username string `json:"username"`
	} `json:"author"`
}

type commitItem struct {
	UUID         string `json:"uuid"`
	Origin       string `json:"origin"`
	Category     string `json:"category"`
	Hash         string `json:"hash"`
	Author       string `json:"author"`
	AuthorDate   string `json:"author_date"`
	FilesChanged int    `json:"files_changed"`
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
}

type issueItem struct {
	UUID        string  `json:"uuid"`
	Origin      string  `json:"origin"`
	Category    string  `json:"category"`
	Author      string  `json:"author"`
	CreatedAt   string  `json:"created_at"`
	State       string  `json:"state"`
	ClosedAt    string  `json:"closed_at,omitempty"`
	TimeToClose float64 `json:"time_to_close_hours,omitempty"`
}

type genericItem struct {
	UUID     string `json:"uuid"`
	Origin   string `json:"origin"`
	Category string `json:"category"`
}

// itemFacts is what an item contributes to the summary.
type itemFacts struct {
	Category string
	Author   string
	Instant  time.Time
}

// transform decodes one raw line into its enriched form. Lines whose
// envelope does not decode are dropped; unknown categories keep their
// identity fields so nothing silently disappears from the dump.
func transform(origin string, line []byte) (any, itemFacts) {
	var raw rawItem
	if err := json.Unmarshal(line, &raw); err != nil || raw.UUID == "" {
		return nil, itemFacts{}
	}

	facts := itemFacts{Category: raw.Category}
	var item any
	switch raw.Category {
	case "commit":
		item = enrichCommit(origin, raw, &facts)
	case "issue", "merge_request", "pull_request":
		item = enrichIssue(origin, raw, &facts)
	default:
		item = genericItem{UUID: raw.UUID, Origin: origin, Category: raw.Category}
	}

	if facts.Instant.IsZero() && raw.UpdatedOn > 0 {
		facts.Instant = time.Unix(int64(raw.UpdatedOn), 0).UTC()
	}
	return item, facts
}

func enrichCommit(origin string, raw rawItem, facts *itemFacts) commitItem {
	var data commitData
	_ = json.Unmarshal(raw.Data, &data)

	item := commitItem{
		UUID:         raw.UUID,
		Origin:       origin,
		Category:     raw.Category,
		Hash:         data.Commit,
		Author:       data.Author,
		FilesChanged: len(data.Files),
	}
	if t, err := time.Parse(gitDateLayout, data.AuthorDate); err == nil {
		t = t.UTC()
		item.AuthorDate = t.Format(time.RFC3339)
		facts.Instant = t
	}
	for _, f := range data.Files {
		// Numstat reports "-" for binary files. Skip what does not parse.
		if n, err := strconv.Atoi(f.Added); err == nil {
			item.LinesAdded += n
		}
		if n, err := strconv.Atoi(f.Removed); err == nil {
			item.LinesRemoved += n
		}
	}

	facts.Author = data.Author
	return item
}

func enrichIssue(origin string, raw rawItem, facts *itemFacts) issueItem {
	var data issueData
	_ = json.Unmarshal(raw.Data, &data)

	item := issueItem{
		UUID:     raw.UUID,
		Origin:   origin,
		Category: raw.Category,
		State:    normalizeState(data.State),
	}
	switch {
	case data.User != nil:
		item.Author = data.User.Login
	case data.Author != nil:
		item.Author = data.Author.Username
	}

	var created time.Time
	if t, err := time.Parse(time.RFC3339, data.CreatedAt); err == nil {
		created = t.UTC()
		item.CreatedAt = created.Format(time.RFC3339)
		facts.Instant = created
	}
	if t, err := time.Parse(time.RFC3339, data.ClosedAt); err == nil {
		closed := t.UTC()
		item.ClosedAt = closed.Format(time.RFC3339)
		if !created.IsZero() && !closed.Before(created) {
			item.TimeToClose = roundHours(closed.Sub(created))
		}
	}

	facts.Author = item.Author
	return item
}

// normalizeState maps the GitLab "opened" onto the GitHub spelling so the
// enriched dumps agree across forges.
func normalizeState(state string) string {
	if state == "opened" {
		return "open"
	}
	return state
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

// Summary aggregates one repo's enriched dump.
type Summary struct {
	Origin        string         `json:"origin"`
	Items         int            `json:"items"`
	Authors       int            `json:"authors"`
	Categories    map[string]int `json:"categories"`
	FirstActivity string         `json:"first_activity,omitempty"`
	LastActivity  string         `json:"last_activity,omitempty"`
}

type summaryBuilder struct {
	origin     string
	items      int
	authors    map[string]struct{}
	categories map[string]int
	first      time.Time
	last       time.Time
}

func newSummaryBuilder(origin string) *summaryBuilder {
	return &summaryBuilder{
		origin:     origin,
		authors:    make(map[string]struct{}),
		categories: make(map[string]int),
	}
}

func (b *summaryBuilder) add(f itemFacts) {
	b.items++
	if f.Category != "" {
		b.categories[f.Category]++
	}
	if f.Author != "" {
		b.authors[f.Author] = struct{}{}
	}
	if f.Instant.IsZero() {
		return
	}
	if b.first.IsZero() || f.Instant.Before(b.first) {
		b.first = f.Instant
	}
	if f.Instant.After(b.last) {
		b.last = f.Instant
	}
}

func (b *summaryBuilder) result() Summary {
	s := Summary{
		Origin:     b.origin,
		Items:      b.items,
		Authors:    len(b.authors),
		Categories: b.categories,
	}
	if !b.first.IsZero() {
		s.FirstActivity = b.first.Format(time.RFC3339)
		s.LastActivity = b.last.Format(time.RFC3339)
	}
	return s
}
