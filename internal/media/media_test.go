package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{
			name: "iframe snippet",
			in:   `<iframe width="560" height="315" src="https://www.youtube.com/embed/abc123" frameborder="0"></iframe>`,
			want: "https://www.youtube.com/embed/abc123",
		},
		{name: "iframe single quotes", in: `<IFRAME src='https://player.vimeo.com/video/42'></IFRAME>`, want: "https://player.vimeo.com/video/42"},
		{name: "already embed", in: "https://www.youtube.com/embed/xyz", want: "https://www.youtube.com/embed/xyz"},
		{name: "vimeo player", in: "https://player.vimeo.com/video/99", want: "https://player.vimeo.com/video/99"},
		{name: "watch link", in: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", want: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{name: "short link", in: "https://youtu.be/dQw4w9WgXcQ?si=x", want: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{name: "other", in: "https://cdn.example.com/v.mp4", want: "https://cdn.example.com/v.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmbedURL(tt.in))
		})
	}
}

func TestYouTubeID(t *testing.T) {
	assert.Equal(t, "abc", YouTubeID("https://www.youtube.com/watch?v=abc"))
	assert.Equal(t, "abc", YouTubeID("https://youtu.be/abc"))
	assert.Equal(t, "", YouTubeID("https://example.com/watch?v=abc"))
}

func TestVideoEmbed(t *testing.T) {
	src, kind, ok := VideoEmbed(" https://www.youtube.com/watch?v=abc&list=1 ")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/embed/abc", src)
	assert.Equal(t, KindYouTube, kind)

	src, kind, ok = VideoEmbed("https://youtu.be/xyz?t=3")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/embed/xyz", src)
	assert.Equal(t, KindYouTube, kind)

	src, kind, ok = VideoEmbed("https://cdn.example.com/a.mp4")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/a.mp4", src)
	assert.Equal(t, KindVideo, kind)

	for _, bad := range []string{
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?list=PL1",
		"https://www.youtube.com/watch?v=",
		"https://youtu.be/",
	} {
		assert.NotPanics(t, func() {
			_, _, ok = VideoEmbed(bad)
		}, bad)
		assert.False(t, ok, bad)
	}

	_, _, ok = VideoEmbed("   ")
	assert.False(t, ok)
}

func TestDetectMime(t *testing.T) {
	assert.Equal(t, MimeDocx, DetectMime("notes.DOCX", nil))
	assert.Equal(t, MimePDF, DetectMime("slides.pdf", nil))
	assert.Equal(t, MimePlain, DetectMime("readme.md", nil))
	assert.Equal(t, "image/png", DetectMime("cover.png", nil))
	assert.Equal(t, MimePlain, DetectMime("blob", []byte("just some text")))
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText(MimePlain, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = ExtractText("image/png", nil)
	assert.Error(t, err)

	_, err = ExtractText(MimePDF, []byte("not a pdf"))
	assert.Error(t, err)

	assert.True(t, Extractable(MimeDocx))
	assert.False(t, Extractable("video/mp4"))
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "Hello world", HTMLToText("<p>Hello</p>\n<b>world</b><script>x()</script>"))
	assert.Equal(t, "a b", HTMLToText("  a \n b "))
	assert.Equal(t, "Hello...", Preview("<p>Hello world</p>", 5))
	assert.Equal(t, "Hi", Preview("Hi", 5))
}
