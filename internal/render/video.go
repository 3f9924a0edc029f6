package render

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	videoLinePattern = regexp.MustCompile(`^\s*<?((?:https?://)?[^\s]+)>?\s*$`)
	embedSrcPattern  = regexp.MustCompile(
		`^https://(?:www\.)?(?:youtube\.com/embed/|youtube-nocookie\.com/embed/|player\.vimeo\.com/video/|dailymotion\.com/embed/video/)`,
	)
	youTubeTimePattern = regexp.MustCompile(`(?i)(\d+)(h|m|s)`)
	listIndexPattern   = regexp.MustCompile(`^\d+\.\s+`)
)

// Embed is a playable iframe resolved from a video page URL.
type Embed struct {
	Platform string `json:"platform"`
	Source   string `json:"source"`
	EmbedURL string `json:"embedUrl"`
}

// ResolveEmbed turns a YouTube, Vimeo or Dailymotion page URL into an
// embeddable player URL.
func ResolveEmbed(raw string) (Embed, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "<"), ">")
	trimmed = withScheme(trimmed)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil {
		return Embed{}, false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Embed{}, false
	}
	if parsed.Hostname() == "" {
		return Embed{}, false
	}

	for _, parse := range []func(*url.URL, string) (Embed, bool){youTubeEmbed, vimeoEmbed, dailymotionEmbed} {
		if embed, ok := parse(parsed, trimmed); ok {
			return embed, true
		}
	}
	return Embed{}, false
}

// applyVideoEmbeds replaces lines holding only a video link with an iframe,
// leaving code blocks, quotes and lists alone.
func applyVideoEmbeds(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	inFence := false
	fenceMarker := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarkerOf(trimmed); marker != "" {
			if inFence {
				if strings.HasPrefix(trimmed, fenceMarker) {
					inFence = false
					fenceMarker = ""
				}
			} else {
				inFence = true
				fenceMarker = marker
			}
			continue
		}
		if inFence || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") || skipLine(trimmed) {
			continue
		}

		match := videoLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		embed, ok := ResolveEmbed(match[1])
		if !ok {
			continue
		}
		lines[i] = embedHTML(embed)
	}

	return strings.Join(lines, "\n")
}

func fenceMarkerOf(line string) string {
	if strings.HasPrefix(line, "```") {
		return "```"
	}
	if strings.HasPrefix(line, "~~~") {
		return "~~~"
	}
	return ""
}

func skipLine(line string) bool {
	if line == "" || strings.HasPrefix(line, ">") {
		return true
	}
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	return listIndexPattern.MatchString(line)
}

func withScheme(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	for _, prefix := range []string{"youtube.com/", "www.youtube.com/", "m.youtube.com/", "youtu.be/", "vimeo.com/", "www.dailymotion.com/", "dailymotion.com/", "dai.ly/"} {
		if strings.HasPrefix(lower, prefix) {
			return "https://" + raw
		}
	}
	return raw
}

func youTubeEmbed(u *url.URL, source string) (Embed, bool) {
	host := strings.ToLower(u.Hostname())
	var id string

	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case hostOrSubdomain(host, "youtube.com"):
		path := strings.Trim(u.Path, "/")
		switch {
		case path == "watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"):
			id = strings.TrimPrefix(path, "shorts/")
		case strings.HasPrefix(path, "embed/"):
			id = strings.TrimPrefix(path, "embed/")
		case strings.HasPrefix(path, "live/"):
			id = strings.TrimPrefix(path, "live/")
		}
	default:
		return Embed{}, false
	}
	if i := strings.Index(id, "/"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return Embed{}, false
	}

	values := url.Values{}
	values.Set("rel", "0")
	values.Set("playsinline", "1")
	if start := youTubeStart(u); start > 0 {
		values.Set("start", strconv.Itoa(start))
	}
	return Embed{
		Platform: "youtube",
		Source:   source,
		EmbedURL: "https://www.youtube.com/embed/" + id + "?" + values.Encode(),
	}, true
}

func youTubeStart(u *url.URL) int {
	query := u.Query()
	value := query.Get("start")
	if value == "" {
		value = query.Get("t")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds > 0 {
			return seconds
		}
		return 0
	}

	total := 0
	for _, match := range youTubeTimePattern.FindAllStringSubmatch(value, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || n <= 0 {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total
}

func vimeoEmbed(u *url.URL, source string) (Embed, bool) {
	if !hostOrSubdomain(u.Hostname(), "vimeo.com") {
		return Embed{}, false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	id := segments[len(segments)-1]
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return Embed{}, false
	}
	return Embed{Platform: "vimeo", Source: source, EmbedURL: "https://player.vimeo.com/video/" + id}, true
}

func dailymotionEmbed(u *url.URL, source string) (Embed, bool) {
	host := strings.ToLower(u.Hostname())
	var id string
	switch {
	case host == "dai.ly":
		id = strings.Trim(u.Path, "/")
	case hostOrSubdomain(host, "dailymotion.com"):
		path := strings.Trim(u.Path, "/")
		if !strings.HasPrefix(path, "video/") {
			return Embed{}, false
		}
		id = strings.TrimPrefix(path, "video/")
	default:
		return Embed{}, false
	}
	if i := strings.IndexAny(id, "/_"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return Embed{}, false
	}
	return Embed{Platform: "dailymotion", Source: source, EmbedURL: "https://www.dailymotion.com/embed/video/" + id}, true
}

func embedHTML(embed Embed) string {
	return fmt.Sprintf(
		`<div class="video-embed" data-video-embed="true" data-video-platform="%s" data-video-source="%s">`+
			`<iframe src="%s" title="%s" loading="lazy" allow="accelerometer; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share" allowfullscreen frameborder="0" referrerpolicy="strict-origin-when-cross-origin"></iframe>`+
			`</div>`,
		htmlstd.EscapeString(embed.Platform),
		htmlstd.EscapeString(embed.Source),
		htmlstd.EscapeString(embed.EmbedURL),
		htmlstd.EscapeString("वीडियो प्लेयर / Video player"),
	)
}

func hostOrSubdomain(host, domain string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
