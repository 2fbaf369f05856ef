package media

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	watchIDRe = regexp.MustCompile(`v=([^&]+)`)
	shortIDRe = regexp.MustCompile(`youtu\.be/([^?]+)`)
)

// YouTubeID returns the video id of a watch or youtu.be link, or "".
func YouTubeID(url string) string {
	var re *regexp.Regexp
	switch {
	case strings.Contains(url, "youtube.com/watch?v="):
		re = watchIDRe
	case strings.Contains(url, "youtu.be/"):
		re = shortIDRe
	default:
		return ""
	}
	if m := re.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

func YouTubeEmbed(id string) string {
	return "https://www.youtube.com/embed/" + id
}

// EmbedURL normalizes a stored lesson video value into something an iframe can load.
// An iframe snippet yields its src, embed and player URLs are kept, YouTube page
// links are converted and anything else is returned unchanged.
func EmbedURL(value string) string {
	if value == "" {
		return ""
	}
	if src, ok := iframeSrc(value); ok {
		return src
	}
	if strings.Contains(value, "/embed/") || strings.Contains(value, "/video/") {
		return value
	}
	if id := YouTubeID(value); id != "" {
		return YouTubeEmbed(id)
	}
	return value
}

func iframeSrc(value string) (string, bool) {
	if !strings.Contains(strings.ToLower(value), "<iframe") {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
	if err != nil {
		return "", false
	}
	src, ok := doc.Find("iframe").First().Attr("src")
	if !ok {
		return "", false
	}
	return src, true
}

// Video kinds for VideoEmbed.
const (
	KindYouTube = "youtube"
	KindVideo   = "video"
)

// VideoEmbed converts a lesson video URL into a player source. YouTube page links
// become embed URLs of kind youtube; other links are treated as direct video files.
// ok is false for YouTube links whose id cannot be found.
func VideoEmbed(url string) (src, kind string, ok bool) {
	v := strings.TrimSpace(url)
	if v == "" {
		return "", "", false
	}
	if !strings.Contains(v, "youtube.com/watch") && !strings.Contains(v, "youtu.be/") {
		return v, KindVideo, true
	}
	var id string
	if _, after, found := strings.Cut(v, "v="); found {
		id, _, _ = strings.Cut(after, "&")
	} else if _, after, found := strings.Cut(v, "youtu.be/"); found {
		id, _, _ = strings.Cut(after, "?")
	}
	if id == "" {
		return "", "", false
	}
	return YouTubeEmbed(id), KindYouTube, true
}
