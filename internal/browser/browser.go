// Package browser extracts the Healthguru web session cookie from installed
// browsers so the CLI can share the web login.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome"
	_ "github.com/browserutils/kooky/browser/chromium"
	_ "github.com/browserutils/kooky/browser/edge"
	_ "github.com/browserutils/kooky/browser/firefox"
	_ "github.com/browserutils/kooky/browser/opera"

	"github.com/dmelo/healthguru/internal/config"
	"github.com/dmelo/healthguru/internal/models"
)

// SupportedBrowser represents a supported browser type
type SupportedBrowser string

const (
	BrowserAuto     SupportedBrowser = "auto"
	BrowserChrome   SupportedBrowser = "chrome"
	BrowserChromium SupportedBrowser = "chromium"
	BrowserFirefox  SupportedBrowser = "firefox"
	BrowserEdge     SupportedBrowser = "edge"
	BrowserOpera    SupportedBrowser = "opera"
)

// String returns the string representation of the browser
func (b SupportedBrowser) String() string {
	return string(b)
}

// ParseBrowser parses a browser string into a SupportedBrowser
func ParseBrowser(s string) (SupportedBrowser, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return BrowserAuto, nil
	case "chrome", "google-chrome":
		return BrowserChrome, nil
	case "chromium":
		return BrowserChromium, nil
	case "firefox", "mozilla", "mozilla-firefox":
		return BrowserFirefox, nil
	case "edge", "microsoft-edge", "msedge":
		return BrowserEdge, nil
	case "opera":
		return BrowserOpera, nil
	default:
		return "", fmt.Errorf("unsupported browser: %s. Supported: chrome, chromium, firefox, edge, opera", s)
	}
}

// ImportSession extracts the Healthguru session cookie for baseURL from the
// given browser (or from all of them when BrowserAuto).
func ImportSession(ctx context.Context, browser SupportedBrowser, baseURL string) (*config.Session, error) {
	host, err := hostOf(baseURL)
	if err != nil {
		return nil, err
	}

	if browser == BrowserAuto {
		return importFromAll(ctx, host)
	}
	return importFromBrowser(ctx, browser, host)
}

func hostOf(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("invalid base URL: %s", baseURL)
	}
	return u.Hostname(), nil
}

func importFromAll(ctx context.Context, host string) (*config.Session, error) {
	browsers := []SupportedBrowser{
		BrowserChrome,
		BrowserFirefox,
		BrowserEdge,
		BrowserChromium,
		BrowserOpera,
	}

	var lastErr error
	for _, b := range browsers {
		sess, err := importFromBrowser(ctx, b, host)
		if err == nil {
			return sess, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("could not find a Healthguru session in any browser: %w", lastErr)
	}
	return nil, fmt.Errorf("could not find a Healthguru session in any supported browser")
}

func importFromBrowser(ctx context.Context, browser SupportedBrowser, host string) (*config.Session, error) {
	stores := kooky.FindAllCookieStores(ctx)

	var matching []kooky.CookieStore
	var browserName string
	for _, store := range stores {
		name := store.Browser()
		if matchesBrowser(strings.ToLower(name), browser) {
			matching = append(matching, store)
			if browserName == "" {
				browserName = name
			}
		} else {
			store.Close()
		}
	}

	if len(matching) == 0 {
		return nil, fmt.Errorf("browser %s not found or no cookie store available", browser)
	}

	var lastErr error
	for _, store := range matching {
		sess, err := sessionFromStore(ctx, store, browserName, host)
		store.Close()
		if err == nil {
			for _, s := range matching {
				s.Close()
			}
			return sess, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("browser %s not found or no cookie store available", browser)
}

func matchesBrowser(browserName string, target SupportedBrowser) bool {
	switch target {
	case BrowserChrome:
		return strings.Contains(browserName, "chrome") && !strings.Contains(browserName, "chromium")
	case BrowserChromium:
		return strings.Contains(browserName, "chromium")
	case BrowserFirefox:
		return strings.Contains(browserName, "firefox")
	case BrowserEdge:
		return strings.Contains(browserName, "edge")
	case BrowserOpera:
		return strings.Contains(browserName, "opera")
	default:
		return false
	}
}

func sessionFromStore(ctx context.Context, store kooky.CookieStore, browserName, host string) (*config.Session, error) {
	cookies := store.TraverseCookies(
		kooky.Valid,
		kooky.DomainContains(host),
		kooky.Name(models.SessionCookieName),
	).OnlyCookies()

	for cookie := range cookies {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if cookie.Value != "" {
			return &config.Session{
				Cookie:  cookie.Value,
				Browser: browserName,
			}, nil
		}
	}

	return nil, fmt.Errorf("no %s session cookie for %s in %s", models.SessionCookieName, host, browserName)
}
