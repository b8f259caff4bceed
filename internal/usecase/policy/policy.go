package policy

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const (
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeDomainNotAllowed = "DOMAIN_NOT_ALLOWED"
)

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s)]+`)

type Decision struct {
	Allowed bool
	Status  int
	Reason  string
	Code    string
}

func allow() Decision {
	return Decision{Allowed: true, Status: http.StatusOK}
}

// Evaluator gates agent queries before any work starts.
type Evaluator struct {
	maxQueryChars int
	allowlist     []string
}

func New(maxQueryChars int, allowlistedDomains []string) *Evaluator {
	allow := make([]string, 0, len(allowlistedDomains))
	for _, d := range allowlistedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			allow = append(allow, d)
		}
	}
	return &Evaluator{maxQueryChars: maxQueryChars, allowlist: allow}
}

// EvaluateInvoke checks query size and the hosts of any URLs it mentions. A
// blank query is allowed so the endpoint can report the missing argument.
func (e *Evaluator) EvaluateInvoke(query string) Decision {
	if strings.TrimSpace(query) == "" {
		return allow()
	}

	if n := len(query); n > e.maxQueryChars {
		return Decision{
			Status: http.StatusRequestEntityTooLarge,
			Reason: fmt.Sprintf("Query too large (len=%d > MAX_QUERY_CHARS=%d)", n, e.maxQueryChars),
			Code:   CodePayloadTooLarge,
		}
	}

	if len(e.allowlist) == 0 {
		return allow()
	}
	for _, raw := range ExtractURLs(query) {
		host := hostOf(raw)
		if host != "" && !e.HostAllowed(host) {
			return Decision{
				Status: http.StatusForbidden,
				Reason: "URL domain not allowlisted: " + host,
				Code:   CodeDomainNotAllowed,
			}
		}
	}
	return allow()
}

// HostAllowed matches host against the allowlist, subdomains included. An
// empty allowlist allows everything.
func (e *Evaluator) HostAllowed(host string) bool {
	if len(e.allowlist) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, a := range e.allowlist {
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
