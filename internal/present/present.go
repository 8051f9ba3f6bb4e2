// Package present turns a Post into the strings shown to the user. It is
// shared by the terminal client, the CLI and the dashboard.
package present

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/qepting91/reddit-viewer/internal/domain"
)

// PreviewLimit is the number of body characters shown before "Read more".
const PreviewLimit = 300

const redditBase = "https://reddit.com"

// HasBody reports whether p is a text post.
func HasBody(p domain.Post) bool {
	return strings.TrimSpace(p.SelfText) != ""
}

// NeedsExpand reports whether body is longer than the preview.
func NeedsExpand(body string) bool {
	return len([]rune(body)) > PreviewLimit
}

// Preview returns body cut to PreviewLimit characters with a trailing
// ellipsis, or the whole body when expanded.
func Preview(body string, expanded bool) string {
	if expanded || !NeedsExpand(body) {
		return body
	}
	return string([]rune(body)[:PreviewLimit]) + "..."
}

func TimeAgo(createdUTC int64, now time.Time) string {
	return humanize.RelTime(time.Unix(createdUTC, 0), now, "ago", "from now")
}

func UpvotePercent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

func Count(n int) string {
	return humanize.Comma(int64(n))
}

// CanonicalURL is the web link for a permalink path.
func CanonicalURL(permalink string) string {
	return redditBase + permalink
}

// Thumbnail returns the thumbnail URL. Reddit uses placeholders such as
// "self" or "default" for posts without one.
func Thumbnail(p domain.Post) (string, bool) {
	if strings.HasPrefix(p.Thumbnail, "http") {
		return p.Thumbnail, true
	}
	return "", false
}

// Byline is "r/sub · Posted by u/author 3 hours ago".
func Byline(p domain.Post, now time.Time) string {
	return fmt.Sprintf("r/%s · Posted by u/%s %s", p.Subreddit, p.Author, TimeAgo(p.CreatedUTC, now))
}

// Stats is the score/comments/upvote line.
func Stats(p domain.Post) string {
	return fmt.Sprintf("%s points · %s comments · %d%% upvoted",
		Count(p.Score), Count(p.NumComments), UpvotePercent(p.UpvoteRatio))
}

// Text renders the whole post as plain text.
func Text(p domain.Post, now time.Time) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n")
	b.WriteString(Byline(p, now))
	if p.LinkFlairText != "" {
		fmt.Fprintf(&b, " [%s]", p.LinkFlairText)
	}
	b.WriteString("\n\n")

	if HasBody(p) {
		b.WriteString(p.SelfText)
	} else {
		b.WriteString("This is a link post:\n")
		b.WriteString(p.URL)
	}
	b.WriteString("\n")

	if thumb, ok := Thumbnail(p); ok {
		fmt.Fprintf(&b, "Thumbnail: %s\n", thumb)
	}

	b.WriteString("\n")
	b.WriteString(Stats(p))
	b.WriteString("\n")
	fmt.Fprintf(&b, "View on Reddit: %s\n", CanonicalURL(p.Permalink))
	return b.String()
}
