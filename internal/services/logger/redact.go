package logger

import (
	"net/http"
	"net/url"
)

const redacted = "REDACTED"

var secretParams = []string{"apikey", "key", "appid"}

// RedactURL masks credential query parameters. Unparseable input is returned
// fully masked.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return redacted
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, redacted)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out.Get("Authorization") != "" {
		out.Set("Authorization", redacted)
	}
	return out
}
