package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	kkdai "github.com/kkdai/youtube/v2"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

const descriptionMax = 200

// Search scrapea /results (filtro sólo videos) y devuelve hasta limit hits.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	q := url.Values{}
	q.Set("search_query", query)
	q.Set("sp", "EgIQAQ==")

	page, err := c.doGet(ctx, "/results", q)
	if err != nil {
		return nil, err
	}
	results, err := parseResults(page, limit)
	if err != nil {
		// cambió el layout de la página: lo tratamos como falla del upstream
		return nil, &domain.UpstreamError{Op: "youtube search", Err: err}
	}
	if len(results) == 0 {
		return nil, domain.ErrNotFound
	}
	return results, nil
}

// Info usa kkdai/youtube para leer la metadata del video.
func (c *Client) Info(ctx context.Context, rawURL string) (domain.VideoInfo, error) {
	id, err := kkdai.ExtractVideoID(strings.TrimSpace(rawURL))
	if err != nil {
		return domain.VideoInfo{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	v, err := c.video().GetVideoContext(ctx, id)
	if err != nil {
		return domain.VideoInfo{}, videoError(id, err)
	}
	return videoToInfo(v), nil
}

// videoError separa "el video no existe / no se puede ver" de fallas del upstream.
func videoError(id string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &domain.UpstreamError{Op: "youtube video", Err: err}
	}
	if errors.Is(err, kkdai.ErrVideoPrivate) || errors.Is(err, kkdai.ErrLoginRequired) {
		return fmt.Errorf("video %s: %w", id, domain.ErrNotFound)
	}
	var ps *kkdai.ErrPlayabiltyStatus
	if errors.As(err, &ps) && unavailable[ps.Status] {
		return fmt.Errorf("video %s: %s: %w", id, ps.Reason, domain.ErrNotFound)
	}
	return &domain.UpstreamError{Op: "youtube video", Err: err}
}

// playabilityStatus de videos borrados, inexistentes o bloqueados
var unavailable = map[string]bool{
	"ERROR":          true,
	"UNPLAYABLE":     true,
	"LOGIN_REQUIRED": true,
}

// FindTrack: URL -> metadata directa; texto -> primer resultado de la búsqueda.
func (c *Client) FindTrack(ctx context.Context, query string) (domain.Track, error) {
	query = strings.TrimSpace(query)
	if isURL(query) {
		info, err := c.Info(ctx, query)
		if err != nil {
			return domain.Track{}, err
		}
		return info.Track(domain.WatchURL(info.ID)), nil
	}
	results, err := c.Search(ctx, query, 1)
	if err != nil {
		return domain.Track{}, err
	}
	return results[0].Track(), nil
}

func videoToInfo(v *kkdai.Video) domain.VideoInfo {
	info := domain.VideoInfo{
		ID:          v.ID,
		Title:       v.Title,
		Description: truncate(v.Description, descriptionMax),
		Thumbnail:   domain.ThumbnailURL(v.ID),
		Duration:    FormatDuration(v.Duration),
		Channel:     v.Author,
		Views:       strconv.Itoa(v.Views),
	}
	if n := len(v.Thumbnails); n > 0 && v.Thumbnails[n-1].URL != "" {
		info.Thumbnail = v.Thumbnails[n-1].URL
	}
	if !v.PublishDate.IsZero() {
		info.UploadedAt = v.PublishDate.Format("2006-01-02")
	}
	return info
}

// FormatDuration imita el "durationRaw" de YouTube: 3:32, 1:02:03.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "Unknown"
	}
	s := int(d.Round(time.Second).Seconds())
	h, m, sec := s/3600, (s%3600)/60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

func truncate(s string, n int) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
