package youtube

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

// ytInitialData viene embebido en el HTML de /results
var reInitialData = regexp.MustCompile(`(?s)(?:var ytInitialData|window\["ytInitialData"\])\s*=\s*(\{.+?\});\s*</script>`)

var errNoInitialData = &parseError{"ytInitialData not found in results page"}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

// parseResults recorre ytInitialData y junta los videoRenderer en orden.
func parseResults(page []byte, limit int) ([]domain.SearchResult, error) {
	m := reInitialData.FindSubmatch(page)
	if len(m) != 2 {
		return nil, errNoInitialData
	}
	var root any
	if err := json.Unmarshal(m[1], &root); err != nil {
		return nil, &parseError{"ytInitialData: " + err.Error()}
	}

	out := []domain.SearchResult{}
	seen := map[string]bool{}
	var walk func(v any) bool
	walk = func(v any) bool {
		switch t := v.(type) {
		case map[string]any:
			if vr, ok := t["videoRenderer"].(map[string]any); ok {
				if r, ok := rendererToResult(vr); ok && !seen[r.ID] {
					seen[r.ID] = true
					out = append(out, r)
					if limit > 0 && len(out) >= limit {
						return false
					}
				}
				return true
			}
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if !walk(t[k]) {
					return false
				}
			}
		case []any:
			for _, it := range t {
				if !walk(it) {
					return false
				}
			}
		}
		return true
	}
	walk(root)
	return out, nil
}

func rendererToResult(vr map[string]any) (domain.SearchResult, bool) {
	id := str(vr["videoId"])
	if id == "" {
		return domain.SearchResult{}, false
	}
	r := domain.SearchResult{
		ID:        id,
		Title:     text(vr["title"]),
		URL:       domain.WatchURL(id),
		Thumbnail: lastThumbnail(vr["thumbnail"]),
		Duration:  text(vr["lengthText"]),
		Channel:   text(vr["ownerText"]),
		Views:     digits(text(vr["viewCountText"])),
	}
	if r.Thumbnail == "" {
		r.Thumbnail = domain.ThumbnailURL(id)
	}
	if r.Duration == "" {
		r.Duration = "Unknown"
	}
	if r.Channel == "" {
		r.Channel = firstNonEmpty(text(vr["longBylineText"]), "Unknown")
	}
	if r.Views == "" {
		r.Views = "0"
	}
	return r, true
}

// ---------- helpers JSON ----------

// text soporta {"simpleText": ".."} y {"runs":[{"text":".."}, ...]}
func text(v any) string {
	o, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if s := str(o["simpleText"]); s != "" {
		return s
	}
	runs, _ := o["runs"].([]any)
	var b strings.Builder
	for _, r := range runs {
		if ro, ok := r.(map[string]any); ok {
			b.WriteString(str(ro["text"]))
		}
	}
	return b.String()
}

func lastThumbnail(v any) string {
	o, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	list, _ := o["thumbnails"].([]any)
	for i := len(list) - 1; i >= 0; i-- {
		if t, ok := list[i].(map[string]any); ok {
			if u := str(t["url"]); u != "" {
				return u
			}
		}
	}
	return ""
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
