package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func securityHeadersFor(t *testing.T, r *http.Request) http.Header {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	SecurityHeadersMiddleware()(c)
	return w.Header()
}

func parseCSP(policy string) map[string]string {
	directives := make(map[string]string)
	for _, raw := range strings.Split(policy, ";") {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		directives[fields[0]] = strings.Join(fields[1:], " ")
	}
	return directives
}

func TestSecurityHeadersOnPlainRequest(t *testing.T) {
	headers := securityHeadersFor(t, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	for name, want := range securityHeaders {
		if got := headers.Get(name); got != want {
			t.Fatalf("header %s: expected %q, got %q", name, want, got)
		}
	}
	if got := headers.Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS must not be set on plain HTTP, got %q", got)
	}
}

func TestSecurityHeadersEnableHSTSOverTLS(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "https://blog.example.com/api/v1/posts", nil)
	r.TLS = &tls.ConnectionState{}

	headers := securityHeadersFor(t, r)
	hsts := headers.Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=") || !strings.Contains(hsts, "includeSubDomains") {
		t.Fatalf("unexpected HSTS value: %q", hsts)
	}
}

func TestContentSecurityPolicyLocksDownSources(t *testing.T) {
	directives := parseCSP(buildContentSecurityPolicy())

	if directives["default-src"] != "'none'" {
		t.Fatalf("expected default-src 'none', got %q", directives["default-src"])
	}
	if directives["img-src"] != "'self' data:" {
		t.Fatalf("expected img-src to allow self and data URIs, got %q", directives["img-src"])
	}
	if directives["frame-ancestors"] != "'none'" {
		t.Fatalf("expected frame-ancestors 'none', got %q", directives["frame-ancestors"])
	}
	if directives["connect-src"] != "'self'" {
		t.Fatalf("expected connect-src 'self', got %q", directives["connect-src"])
	}
}
