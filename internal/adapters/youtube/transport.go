package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	kkdai "github.com/kkdai/youtube/v2"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

const (
	defaultBase = "https://www.youtube.com"
	acceptLang  = "en-US,en;q=0.9"
	maxPage     = 4 << 20
)

type Client struct {
	http    *http.Client
	baseURL string
}

func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBase,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// video: kkdai.Client guarda estado (cliente innertube, fallback a embed) así
// que se arma uno por lookup y no se comparte entre requests.
func (c *Client) video() *kkdai.Client {
	return &kkdai.Client{HTTPClient: c.http}
}

// doGet: construye URL, maneja 404 y 429 con Retry-After simple (un reintento).
func (c *Client) doGet(ctx context.Context, path string, q url.Values) ([]byte, error) {
	return c.get(ctx, path, q, true)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, retry bool) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", acceptLang)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "youtube http", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests && retry {
		if ra := res.Header.Get("Retry-After"); ra != "" {
			if sec, _ := strconv.Atoi(ra); sec > 0 {
				select {
				case <-time.After(time.Duration(sec) * time.Second):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				return c.get(ctx, path, q, false)
			}
		}
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &domain.UpstreamError{Op: "youtube " + path, Status: res.StatusCode, Err: fmt.Errorf("%s", b)}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxPage))
	if err != nil {
		return nil, &domain.UpstreamError{Op: "youtube read", Err: err}
	}
	return body, nil
}
