// Package webapi is the HTTP surface for running the ambiguity detector as
// a service, grounded on server/api and server/endpoints' chi-based router
// and server/token.go's bearer-JWT middleware — simplified here to "holds a
// valid signed token", since unambigd has no user/session model to look a
// subject up against.
package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/unambig/internal/ambigerr"
	"github.com/dekarrin/unambig/internal/cache"
	"github.com/dekarrin/unambig/internal/driver"
	"github.com/dekarrin/unambig/internal/grammar"
)

// API holds the dependencies the HTTP handlers need.
type API struct {
	// Secret signs and verifies bearer JWTs.
	Secret []byte

	// UnauthDelay is slept before any 401/403/500 response, to deprioritize
	// naive non-parallel clients probing for valid credentials.
	UnauthDelay time.Duration

	// Cache, if non-nil, stores and replays completed runs.
	Cache *cache.Cache
}

// Router builds the chi mux: bearer-auth-gated POST /v1/check and
// GET /v1/reports/{runID}.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Use(a.requireBearer)
		r.Post("/check", a.handleCheck)
		r.Get("/reports/{runID}", a.handleGetReport)
	})

	return r
}

// checkRequest is the POST /v1/check body.
type checkRequest struct {
	Grammar grammar.Grammar `json:"grammar"`
	Options driver.Options  `json:"options"`
}

// checkResponse is the POST /v1/check response: the run ID (for later
// replay via GET /v1/reports/{runID}) and the per-nonterminal results.
type checkResponse struct {
	RunID   string            `json:"run_id"`
	Results []driver.NTResult `json:"results"`
	Stats   driver.Stats      `json:"stats"`
}

func (a *API) handleCheck(w http.ResponseWriter, req *http.Request) {
	var body checkRequest
	if err := parseJSON(req, &body); err != nil {
		writeError(w, req, a.UnauthDelay, http.StatusBadRequest, err)
		return
	}

	results, stats, err := driver.Run(body.Grammar, body.Options, noopLogger{})
	if err != nil {
		if ambigerr.IsFatal(err) {
			writeError(w, req, a.UnauthDelay, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, req, a.UnauthDelay, http.StatusInternalServerError, err)
		return
	}

	if a.Cache != nil {
		key := cache.Key(fmt.Sprintf("%+v", body.Grammar), body.Options)
		if err := a.Cache.Put(req.Context(), stats.RunID, key, results); err != nil {
			log.Printf("ERROR cache put for run %s: %v", stats.RunID, err)
		}
	}

	writeJSON(w, http.StatusOK, checkResponse{RunID: stats.RunID.String(), Results: results, Stats: stats})
}

func (a *API) handleGetReport(w http.ResponseWriter, req *http.Request) {
	runIDStr := chi.URLParam(req, "runID")
	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		writeError(w, req, a.UnauthDelay, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return
	}

	if a.Cache == nil {
		writeError(w, req, a.UnauthDelay, http.StatusNotFound, fmt.Errorf("no cache configured"))
		return
	}

	run, ok, err := a.Cache.Get(req.Context(), runID)
	if err != nil {
		writeError(w, req, a.UnauthDelay, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, req, a.UnauthDelay, http.StatusNotFound, fmt.Errorf("no cached run %s", runID))
		return
	}

	writeJSON(w, http.StatusOK, run)
}

type authKey int

const authSubject authKey = iota

// requireBearer implements the simplified bearer-token check: a request
// must carry "Authorization: Bearer <token>" signed with a.Secret. There is
// no subject lookup, since unambigd tracks no users or sessions.
func (a *API) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := bearerToken(req)
		if err != nil {
			writeError(w, req, a.UnauthDelay, http.StatusUnauthorized, err)
			return
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
			return a.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("unambigd"), jwt.WithLeeway(time.Minute))
		if err != nil || !parsed.Valid {
			writeError(w, req, a.UnauthDelay, http.StatusForbidden, fmt.Errorf("invalid token"))
			return
		}

		subj, _ := claims.GetSubject()
		ctx := context.WithValue(req.Context(), authSubject, subj)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func bearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// IssueToken mints a bearer token for subject, signed with secret. Intended
// for local tooling and tests rather than a public endpoint, since unambigd
// has no login flow of its own.
func IssueToken(secret []byte, subject string) (string, error) {
	claims := jwt.MapClaims{
		"iss": "unambigd",
		"sub": subject,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer req.Body.Close()
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, req *http.Request, unauthDelay time.Duration, status int, cause error) {
	log.Printf("ERROR %s %s: HTTP-%d %v", req.Method, req.URL.Path, status, cause)
	if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusInternalServerError {
		time.Sleep(unauthDelay)
	}
	writeJSON(w, status, map[string]string{"error": cause.Error()})
}

// noopLogger discards driver progress lines; unambigd logs requests instead
// of per-nonterminal progress.
type noopLogger struct{}

func (noopLogger) Line(format string, args ...any) {}
