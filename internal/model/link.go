package model

import (
	"net/url"
	"time"
)

// Link is a URL attached to a task, with an optional display title.
// Its lifecycle is bound to the parent task (CASCADE delete).
type Link struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	URL       string    `json:"url" db:"url"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DisplayTitle returns the explicit title if present, the URL's host
// otherwise, and a truncated URL when neither is available.
func (l Link) DisplayTitle() string {
	if l.Title != "" {
		return l.Title
	}
	if u, err := url.Parse(l.URL); err == nil && u.Host != "" {
		return u.Host
	}
	if len(l.URL) > 30 {
		return l.URL[:30]
	}
	return l.URL
}

// FaviconURL returns a favicon-fetch endpoint parameterized by the
// link's host.
func (l Link) FaviconURL() string {
	host := ""
	if u, err := url.Parse(l.URL); err == nil {
		host = u.Host
	}
	return "https://www.google.com/s2/favicons?domain=" + host + "&sz=32"
}
