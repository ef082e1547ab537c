package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict: otra invocación escribió la cola entre nuestro Get y Save.
	ErrConflict  = errors.New("queue version conflict")
	ErrQueueFull = errors.New("queue is full")
)

// UpstreamError envuelve fallas del servicio externo (YouTube, Discord REST).
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: upstream: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Track es el resultado mínimo de un lookup que se puede encolar.
type Track struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
}

type QueueEntry struct {
	Track
	RequestedBy     string    `json:"requestedBy"`
	RequestedByName string    `json:"requestedByName,omitempty"`
	EnqueuedAt      time.Time `json:"enqueuedAt"`
}

// GuildQueue: Version 0 significa "todavía no existe".
type GuildQueue struct {
	GuildID   string
	Entries   []QueueEntry
	Version   int64
	UpdatedAt time.Time
}

func (q GuildQueue) Empty() bool { return len(q.Entries) == 0 }

// Head devuelve el primer elemento (lo que "suena" ahora).
func (q GuildQueue) Head() (QueueEntry, bool) {
	if len(q.Entries) == 0 {
		return QueueEntry{}, false
	}
	return q.Entries[0], true
}

type SearchResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
	Channel   string `json:"channel"`
	Views     string `json:"views"`
}

func (r SearchResult) Track() Track {
	return Track{ID: r.ID, Title: r.Title, URL: r.URL, Thumbnail: r.Thumbnail, Duration: r.Duration}
}

type VideoInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Duration    string `json:"duration"`
	Channel     string `json:"channel"`
	Views       string `json:"views"`
	Likes       string `json:"likes,omitempty"`
	UploadedAt  string `json:"uploadedAt,omitempty"`
}

func (v VideoInfo) Track(url string) Track {
	return Track{ID: v.ID, Title: v.Title, URL: url, Thumbnail: v.Thumbnail, Duration: v.Duration}
}

// ThumbnailURL es el fallback estático de YouTube para un id.
func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/0.jpg"
}

func WatchURL(videoID string) string {
	return "https://youtube.com/watch?v=" + videoID
}
