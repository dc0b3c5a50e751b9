package domain

import "time"

// News is a short company-internal post that may describe a procedure
// change. The pipeline only reads it.
type News struct {
	ID           int64
	Title        string
	Content      string
	FeedEntryID  *int64
	CreationDate time.Time
}

// FeedEntry is one deduplicated item pulled from an RSS feed, or the mirror
// of a published news post in the reserved internal feed.
type FeedEntry struct {
	ID           int64
	FeedName     string
	Title        string
	Description  string
	Link         string
	UniqID       string
	PublishedAt  time.Time
	CreationDate time.Time
}

// InternalFeedName is the reserved feed that mirrors published news posts.
const InternalFeedName = "internal"
