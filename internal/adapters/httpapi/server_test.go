package httpapi

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/discord-music-bot/internal/adapters/discord"
	"github.com/jose-valero/discord-music-bot/internal/app/service"
	"github.com/jose-valero/discord-music-bot/internal/domain"
	"github.com/jose-valero/discord-music-bot/internal/infra/storage"
)

type stubYT struct {
	results []domain.SearchResult
	info    domain.VideoInfo
	err     error
}

func (s stubYT) Search(context.Context, string, int) ([]domain.SearchResult, error) {
	return s.results, s.err
}

func (s stubYT) Info(context.Context, string) (domain.VideoInfo, error) { return s.info, s.err }

func (s stubYT) FindTrack(_ context.Context, q string) (domain.Track, error) {
	if s.err != nil {
		return domain.Track{}, s.err
	}
	return domain.Track{ID: "abcdefghijk", Title: "Song " + q, URL: domain.WatchURL("abcdefghijk")}, nil
}

type fixture struct {
	srv  *Server
	h    http.Handler
	priv ed25519.PrivateKey
}

func newFixture(t *testing.T, yt stubYT, demo bool, cfg Config) *fixture {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PublicKey == nil {
		cfg.PublicKey = pub
	}
	qs := service.NewQueueService(storage.NewMemoryStore(), 100, nil)
	router := discord.NewRouter(qs, yt, discord.RouterConfig{LookupTimeout: time.Second})
	srv := New(router, service.NewLookupService(yt, yt, demo), cfg, nil)
	return &fixture{srv: srv, h: srv.Handler(), priv: priv}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) signed(body string) *http.Request {
	ts := "1700000000"
	sig := ed25519.Sign(f.priv, []byte(ts+body))
	req := httptest.NewRequest(http.MethodPost, "/api/discord/interactions", strings.NewReader(body))
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", ts)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestHealth(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{QueueBackend: "memory"})
	f.srv.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.UTC) }
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	m := decode(t, rec)
	if m["status"] != "ok" || m["service"] != "Discord Music Bot API" || m["version"] != Version || m["queueBackend"] != "memory" {
		t.Fatalf("body = %v", m)
	}
	if m["timestamp"] != "2024-01-02T03:04:05.006Z" {
		t.Fatalf("timestamp = %v", m["timestamp"])
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatal("missing request id header")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	if got := f.do(req).Header().Get(HeaderRequestID); got != "req-123" {
		t.Fatalf("request id = %q", got)
	}
}

// cuerpo que explota si alguien lo lee
type trapBody struct{ read bool }

func (b *trapBody) Read([]byte) (int, error) { b.read = true; return 0, io.EOF }

func TestInteractionMissingHeadersRejectedBeforeBody(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	body := &trapBody{}
	req := httptest.NewRequest(http.MethodPost, "/api/discord/interactions", body)
	rec := f.do(req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if decode(t, rec)["error"] != "Missing signature headers" {
		t.Fatalf("body = %s", rec.Body)
	}
	if body.read {
		t.Fatal("body was read before signature headers were checked")
	}
}

func TestInteractionMethodNotAllowed(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/discord/interactions", nil))
	if rec.Code != http.StatusMethodNotAllowed || decode(t, rec)["error"] != "Method not allowed" {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
}

func TestInteractionBadSignature(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	req := f.signed(`{"type":1}`)
	req.Header.Set("X-Signature-Timestamp", "1700000001")
	rec := f.do(req)
	if rec.Code != http.StatusUnauthorized || decode(t, rec)["error"] != "Invalid request signature" {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
}

func TestInteractionWithoutConfiguredKey(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{PublicKey: ed25519.PublicKey{}})
	rec := f.do(f.signed(`{"type":1}`))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInteractionPing(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	rec := f.do(f.signed(`{"id":"1","type":1}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"type":1}` {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestInteractionMalformedJSON(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	if rec := f.do(f.signed(`{"type":`)); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInteractionUnknownType(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	rec := f.do(f.signed(`{"id":"1","type":42}`))
	if rec.Code != http.StatusBadRequest || decode(t, rec)["error"] != "Unknown interaction type" {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
}

func TestInteractionPlayCommand(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	body := `{"id":"1","type":2,"guild_id":"g1","member":{"user":{"id":"u1","username":"ana"}},` +
		`"data":{"id":"9","name":"play","type":1,"options":[{"name":"query","type":3,"value":"lofi"}]}}`
	rec := f.do(f.signed(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	var resp discordgo.InteractionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource || resp.Data.Embeds[0].Title != "🎵 Added to Queue" {
		t.Fatalf("resp = %s", rec.Body)
	}
}

func TestCommandsGet(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/discord/commands", nil))
	var out struct {
		Commands []struct {
			Name string `json:"name"`
		} `json:"commands"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Commands) != 8 {
		t.Fatalf("commands = %d", len(out.Commands))
	}
	for i, name := range discord.CommandNames() {
		if out.Commands[i].Name != name {
			t.Fatalf("command %d = %q, want %q", i, out.Commands[i].Name, name)
		}
	}
}

func TestCommandsPostMissingCredentials(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/discord/commands", nil))
	if rec.Code != http.StatusBadRequest || decode(t, rec)["error"] != msgMissingCreds {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
}

type fakeRegistrar struct {
	guild string
	err   error
}

func (r *fakeRegistrar) ApplicationCommandBulkOverwrite(_ string, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	r.guild = guildID
	if r.err != nil {
		return nil, r.err
	}
	return cmds, nil
}

func registrarConfig(reg *fakeRegistrar) Config {
	return Config{AppID: "app", NewRegistrar: func() (discord.CommandRegistrar, error) { return reg, nil }}
}

func TestCommandsPostRegisters(t *testing.T) {
	reg := &fakeRegistrar{}
	f := newFixture(t, stubYT{}, true, registrarConfig(reg))

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/discord/commands", strings.NewReader(`{"guildId":"123"}`)))
	m := decode(t, rec)
	if rec.Code != http.StatusOK || m["success"] != true || m["message"] != "Successfully registered 8 commands to guild 123" {
		t.Fatalf("got %d %v", rec.Code, m)
	}
	if reg.guild != "123" {
		t.Fatalf("guild = %q", reg.guild)
	}

	rec = f.do(httptest.NewRequest(http.MethodPost, "/api/discord/commands", nil))
	if m := decode(t, rec); m["message"] != "Successfully registered 8 global commands" {
		t.Fatalf("global = %v", m)
	}
}

func TestCommandsPostUpstreamFailure(t *testing.T) {
	restErr := &discordgo.RESTError{
		Response:     &http.Response{StatusCode: http.StatusUnauthorized},
		ResponseBody: []byte(`{"message":"401: Unauthorized","code":0}`),
		Message:      &discordgo.APIErrorMessage{Message: "401: Unauthorized"},
	}
	f := newFixture(t, stubYT{}, true, registrarConfig(&fakeRegistrar{err: restErr}))
	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/discord/commands", nil))
	m := decode(t, rec)
	if rec.Code != http.StatusInternalServerError || m["success"] != false || m["error"] != "401: Unauthorized" {
		t.Fatalf("got %d %v", rec.Code, m)
	}
	details, _ := m["details"].(map[string]any)
	if details["message"] != "401: Unauthorized" {
		t.Fatalf("details = %v", m["details"])
	}

	f = newFixture(t, stubYT{}, true, registrarConfig(&fakeRegistrar{err: errors.New("dial tcp: timeout")}))
	m = decode(t, f.do(httptest.NewRequest(http.MethodPost, "/api/discord/commands", nil)))
	if m["details"] != nil || m["error"] != "dial tcp: timeout" {
		t.Fatalf("plain error = %v", m)
	}
}

func TestSearchEndpoint(t *testing.T) {
	hit := []domain.SearchResult{{ID: "x", Title: "X"}}
	f := newFixture(t, stubYT{results: hit}, true, Config{})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/music/search?q=lofi", nil))
	m := decode(t, rec)
	if rec.Code != http.StatusOK || m["status"] != "ok" || m["query"] != "lofi" || len(m["results"].([]any)) != 1 {
		t.Fatalf("got %d %v", rec.Code, m)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}

	rec = f.do(httptest.NewRequest(http.MethodPost, "/api/music/search", strings.NewReader(`{"query":"jazz"}`)))
	if m := decode(t, rec); m["query"] != "jazz" {
		t.Fatalf("post body = %v", m)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/music/search", nil))
	if rec.Code != http.StatusBadRequest || decode(t, rec)["error"] != "Query parameter is required" {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
}

func TestSearchNotFoundIsEmptyList(t *testing.T) {
	f := newFixture(t, stubYT{err: domain.ErrNotFound}, true, Config{})
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/music/search?q=zzz", nil))
	m := decode(t, rec)
	if rec.Code != http.StatusOK || m["status"] != "not_found" {
		t.Fatalf("got %d %v", rec.Code, m)
	}
	if r, ok := m["results"].([]any); !ok || len(r) != 0 {
		t.Fatalf("results = %v", m["results"])
	}
	if _, ok := m["fallback"]; ok {
		t.Fatal("not_found must not be flagged as fallback")
	}
}

func TestSearchUpstreamFallback(t *testing.T) {
	down := &domain.UpstreamError{Op: "search", Status: 503, Err: errors.New("down")}

	f := newFixture(t, stubYT{err: down}, true, Config{})
	m := decode(t, f.do(httptest.NewRequest(http.MethodGet, "/api/music/search?q=abc", nil)))
	if m["status"] != "upstream_error" || m["fallback"] != true {
		t.Fatalf("fallback = %v", m)
	}

	f = newFixture(t, stubYT{err: down}, false, Config{})
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/music/search?q=abc", nil))
	if rec.Code != http.StatusBadGateway || decode(t, rec)["success"] != false {
		t.Fatalf("no fallback: %d %s", rec.Code, rec.Body)
	}
}

func TestMusicOptionsAndMethods(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	for _, path := range []string{"/api/music/search", "/api/music/info"} {
		rec := f.do(httptest.NewRequest(http.MethodOptions, path, nil))
		if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
			t.Fatalf("%s OPTIONS: %d %q", path, rec.Code, rec.Body)
		}
		if rec.Header().Get("Access-Control-Allow-Methods") != "GET, POST, OPTIONS" {
			t.Fatalf("%s missing CORS methods", path)
		}
		if rec := f.do(httptest.NewRequest(http.MethodDelete, path, nil)); rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s DELETE: %d", path, rec.Code)
		}
	}
}

func TestInfoEndpoint(t *testing.T) {
	f := newFixture(t, stubYT{info: domain.VideoInfo{ID: "dQw4w9WgXcQ", Title: "Rick"}}, true, Config{})
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/music/info?url=https://youtu.be/dQw4w9WgXcQ", nil))
	m := decode(t, rec)
	info, _ := m["info"].(map[string]any)
	if rec.Code != http.StatusOK || m["status"] != "ok" || info["title"] != "Rick" {
		t.Fatalf("got %d %v", rec.Code, m)
	}

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/music/info", nil))
	if rec.Code != http.StatusBadRequest || decode(t, rec)["error"] != "URL parameter is required" {
		t.Fatalf("missing url: %d %s", rec.Code, rec.Body)
	}

	f = newFixture(t, stubYT{err: domain.ErrInvalidInput}, true, Config{})
	if rec := f.do(httptest.NewRequest(http.MethodGet, "/api/music/info?url=nope", nil)); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid: %d", rec.Code)
	}

	f = newFixture(t, stubYT{err: domain.ErrNotFound}, true, Config{})
	if rec := f.do(httptest.NewRequest(http.MethodGet, "/api/music/info?url=x", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("not found: %d", rec.Code)
	}
}

func TestInfoUpstreamFallback(t *testing.T) {
	f := newFixture(t, stubYT{err: errors.New("boom")}, true, Config{})
	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/music/info", strings.NewReader(`{"url":"https://youtube.com/watch?v=dQw4w9WgXcQ"}`)))
	m := decode(t, rec)
	info, _ := m["info"].(map[string]any)
	if m["fallback"] != true || info["id"] != "dQw4w9WgXcQ" || info["title"] != "Video Info (Demo Mode)" {
		t.Fatalf("got %v", m)
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	f := newFixture(t, stubYT{}, true, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Start(ctx, "127.0.0.1:0") }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
