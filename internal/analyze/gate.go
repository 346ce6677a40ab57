package analyze

import (
	"context"
	"net/url"
	"strings"

	"github.com/ppiankov/assay/internal/model"
)

// Messages returned by the input gate
const (
	MsgURLRequired        = "URL is required"
	MsgInvalidURL         = "Please enter a valid URL starting with http:// or https://"
	MsgIrrelevant         = "The provided URL does not appear to contain science or health content that can be analyzed."
	MsgScreenshotRequired = "Screenshot image is required"
)

// Gate rejects submissions that are malformed or obviously out of scope
// before any collaborator is called
type Gate struct {
	blocked []string
}

// NewGate creates a gate that treats blockedHosts (and their subdomains) as
// irrelevant content
func NewGate(blockedHosts []string) *Gate {
	g := &Gate{}
	for _, h := range blockedHosts {
		if h = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "www."); h != "" {
			g.blocked = append(g.blocked, h)
		}
	}
	return g
}

// Check returns an *Error when ref must not be analyzed
func (g *Gate) Check(ref model.ContentRef) error {
	switch ref.Kind {
	case model.ContentURL:
		return g.checkURL(strings.TrimSpace(ref.URL))
	case model.ContentImage:
		if strings.TrimSpace(ref.Handle) == "" {
			return &Error{Message: MsgScreenshotRequired}
		}
		return nil
	default:
		return ErrUnsupportedContent
	}
}

func (g *Gate) checkURL(raw string) error {
	if raw == "" {
		return &Error{Message: MsgURLRequired}
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return &Error{Message: MsgInvalidURL}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return &Error{Message: MsgInvalidURL}
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, b := range g.blocked {
		if host == b || strings.HasSuffix(host, "."+b) {
			return &Error{Message: MsgIrrelevant, Type: TypeIrrelevant}
		}
	}
	return nil
}

// Gated runs g in front of next
func Gated(g *Gate, next Analyzer) Analyzer {
	return Func(func(ctx context.Context, ref model.ContentRef) ([]byte, error) {
		if err := g.Check(ref); err != nil {
			return nil, err
		}
		return next.Analyze(ctx, ref)
	})
}
