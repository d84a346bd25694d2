package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// adapterTimeout bounds each adapter's single outbound request. The timer
// is enforced through context cancellation so a stalled source cannot hold
// the aggregator past its budget.
const adapterTimeout = 10 * time.Second

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// allowedHosts is the only set of hostnames any scraping adapter may
// contact. Requests to anything else are rejected before being sent.
var allowedHosts = map[string]bool{
	"world.openfoodfacts.org": true,
	"calorie.slism.jp":        true,
	"cookpad.com":             true,
	"recipe.rakuten.co.jp":    true,
	"www.kurashiru.com":       true,
}

// ErrHostNotAllowed is returned when an adapter tries to reach a hostname
// outside the allow-list.
var ErrHostNotAllowed = fmt.Errorf("hostname not on the outbound allow-list")

// httpClient is shared by all adapters. Redirects are re-checked against
// the allow-list so a source cannot bounce us to an arbitrary host.
var httpClient = &http.Client{
	Timeout: adapterTimeout + time.Second,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if !allowedHosts[req.URL.Hostname()] {
			return ErrHostNotAllowed
		}
		if len(via) >= 5 {
			return fmt.Errorf("too many redirects")
		}
		return nil
	},
}

func newSourceRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url: %w", err)
	}
	if !allowedHosts[u.Hostname()] {
		return nil, fmt.Errorf("%q: %w", u.Hostname(), ErrHostNotAllowed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "ja,en;q=0.8")
	return req, nil
}

// fetchDocument issues one allow-listed GET and parses the body as HTML.
func fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := newSourceRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// fetchJSON issues one allow-listed GET and decodes the body into out.
func fetchJSON(ctx context.Context, rawURL string, out any) error {
	req, err := newSourceRequest(ctx, rawURL)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
