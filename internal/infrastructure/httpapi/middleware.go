package httpapi

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const unauthorizedDetail = "Unauthorized - Invalid or missing API key"

// requireAPIKey checks the Bearer token when an API key is configured.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		want := "Bearer " + s.cfg.APIKey
		got := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			s.deps.Logger.Warn("Unauthorized request - invalid or missing API key", "path", r.URL.Path)
			writeDetail(w, http.StatusUnauthorized, unauthorizedDetail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimiter limits requests per client IP. rps <= 0 disables it.
func rateLimiter(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	type visitor struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
		swept    = time.Now()
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			now := time.Now()
			if now.Sub(swept) > time.Minute {
				for k, v := range visitors {
					if now.Sub(v.lastSeen) > 3*time.Minute {
						delete(visitors, k)
					}
				}
				swept = now
			}
			v, ok := visitors[ip]
			if !ok {
				v = &visitor{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
				visitors[ip] = v
			}
			v.lastSeen = now
			mu.Unlock()

			if !v.limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeDetail(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// policyGate buffers the invoke body, evaluates arguments.query and replays
// the body for the handler.
func (s *Server) policyGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.PolicyEnforcement || s.deps.Policy == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, mcpError("Invalid JSON body", CodeInvalidJSON))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var payload struct {
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, mcpError("Invalid JSON body", CodeInvalidJSON))
			return
		}

		decision := s.deps.Policy.EvaluateInvoke(stringArg(payload.Arguments, "query"))
		if !decision.Allowed {
			s.deps.Logger.Warn("Invoke rejected by policy", "code", decision.Code, "reason", decision.Reason)
			reason := decision.Reason
			if reason == "" {
				reason = "Policy violation"
			}
			writeJSON(w, decision.Status, mcpError(reason, decision.Code))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// stringArg renders args[key] as text. Missing and null values are empty.
func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
