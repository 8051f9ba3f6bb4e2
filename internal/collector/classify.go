package collector

import (
	"fmt"
	"net/http"

	"github.com/qepting91/reddit-viewer/internal/domain"
)

// Classify maps an upstream HTTP status to a FetchError. It returns nil for
// 2xx statuses.
func Classify(status int, body []byte) *domain.FetchError {
	if status >= 200 && status < 300 {
		return nil
	}

	fe := &domain.FetchError{StatusCode: status, Body: body}
	switch status {
	case http.StatusNotFound:
		fe.Kind = domain.KindNotFound
		fe.Message = "Post not found. Please check the URL."
	case http.StatusForbidden:
		fe.Kind = domain.KindForbidden
		fe.Message = "Access forbidden. The post might be private or removed."
	case http.StatusTooManyRequests:
		fe.Kind = domain.KindRateLimited
		fe.Message = "Too many requests. Please wait a moment and try again."
	default:
		fe.Kind = domain.KindUpstreamError
		fe.Message = fmt.Sprintf("Reddit API error: status %d", status)
	}
	return fe
}
