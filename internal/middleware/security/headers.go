package security

import (
	"fmt"
	"net/http"
	"strings"
)

// HTMXSource is the origin the page loads htmx from.
const HTMXSource = "https://unpkg.com"

// HeadersConfig describes the response headers for the dashboard. The page
// is one HTML document with an inline SVG chart, a local stylesheet, a local
// script and htmx from HTMXSource, so the policy only opens what that needs.
type HeadersConfig struct {
	// ScriptSources are allowed in addition to 'self'.
	ScriptSources []string
	// InlineStyles allows style attributes and <style> elements. htmx
	// injects its indicator styles this way.
	InlineStyles bool

	// HSTSMaxAge is sent only on TLS connections; zero disables it.
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	ReferrerPolicy    string
	PermissionsPolicy string
}

// DefaultHeadersConfig returns the policy the dashboard page is served with.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		ScriptSources:     []string{HTMXSource},
		InlineStyles:      true,
		HSTSMaxAge:        31536000, // 1 year
		ReferrerPolicy:    "same-origin",
		PermissionsPolicy: "geolocation=(), microphone=(), camera=(), payment=(), usb=()",
	}
}

// ContentSecurityPolicy renders the CSP header value. Images, fonts and
// media are not used by the page and fall under default-src 'none'.
func (c HeadersConfig) ContentSecurityPolicy() string {
	script := append([]string{"'self'"}, c.ScriptSources...)
	style := []string{"'self'"}
	if c.InlineStyles {
		style = append(style, "'unsafe-inline'")
	}

	directives := []string{
		"default-src 'none'",
		"script-src " + strings.Join(script, " "),
		"style-src " + strings.Join(style, " "),
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'none'",
	}
	return strings.Join(directives, "; ")
}

func (c HeadersConfig) strictTransportSecurity() string {
	v := fmt.Sprintf("max-age=%d", c.HSTSMaxAge)
	if c.HSTSIncludeSubdomains {
		v += "; includeSubDomains"
	}
	return v
}

// HeadersMiddleware applies security headers to responses
type HeadersMiddleware struct {
	config HeadersConfig
	csp    string
}

// NewHeadersMiddleware creates a new security headers middleware
func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	return &HeadersMiddleware{
		config: config,
		csp:    config.ContentSecurityPolicy(),
	}
}

// Middleware returns the HTTP middleware function
func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.applyHeaders(w, r)
		next.ServeHTTP(w, r)
	})
}

func (h *HeadersMiddleware) applyHeaders(w http.ResponseWriter, r *http.Request) {
	headers := w.Header()

	headers.Set("Content-Security-Policy", h.csp)
	headers.Set("X-Content-Type-Options", "nosniff")
	// Legacy browsers that ignore frame-ancestors.
	headers.Set("X-Frame-Options", "DENY")
	headers.Set("Cross-Origin-Opener-Policy", "same-origin")
	headers.Set("Cross-Origin-Resource-Policy", "same-origin")

	if h.config.ReferrerPolicy != "" {
		headers.Set("Referrer-Policy", h.config.ReferrerPolicy)
	}
	if h.config.PermissionsPolicy != "" {
		headers.Set("Permissions-Policy", h.config.PermissionsPolicy)
	}

	if r.TLS != nil && h.config.HSTSMaxAge > 0 {
		headers.Set("Strict-Transport-Security", h.config.strictTransportSecurity())
	}
}

// StaticAssetMiddleware adds caching headers for the embedded static assets.
// File names are not content hashed, so responses stay revalidatable.
func StaticAssetMiddleware(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}
