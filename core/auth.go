package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// InstalledAppAuth authorizes a desktop user through Google's installed-app
// flow and keeps the resulting token in a TokenStore between runs.
type InstalledAppAuth struct {
	config *oauth2.Config
	store  TokenStore
	log    *zap.Logger

	// openURL presents the consent URL to the user.
	openURL func(url string)
}

func NewInstalledAppAuth(credentialsJSON []byte, store TokenStore, log *zap.Logger, scopes ...string) (*InstalledAppAuth, error) {
	cfg, err := google.ConfigFromJSON(credentialsJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client credentials: %w", err)
	}
	return newInstalledAppAuth(cfg, store, log), nil
}

func newInstalledAppAuth(cfg *oauth2.Config, store TokenStore, log *zap.Logger) *InstalledAppAuth {
	return &InstalledAppAuth{
		config: cfg,
		store:  store,
		log:    log,
		openURL: func(url string) {
			fmt.Fprintf(os.Stderr, "Open the following link in your browser to authorize access:\n%s\n", url)
		},
	}
}

// Client returns an HTTP client authorized with the cached token, refreshing
// it or running the browser flow when needed.
func (a *InstalledAppAuth) Client(ctx context.Context) (*http.Client, error) {
	tok, err := a.store.Load()
	switch {
	case errors.Is(err, ErrNoToken):
		a.log.Info("no cached token, starting browser authorization")
		tok = nil
	case err != nil:
		a.log.Warn("ignoring unreadable cached token", zap.Error(err))
		tok = nil
	case !tok.Valid() && tok.RefreshToken == "":
		a.log.Info("cached token expired and cannot be refreshed")
		tok = nil
	}

	if tok == nil {
		if tok, err = a.authorize(ctx); err != nil {
			return nil, err
		}
		if err := a.store.Save(tok); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
	}

	ts := a.tokenSource(ctx, tok)
	if _, err := ts.Token(); err != nil {
		if !isRevoked(err) {
			return nil, fmt.Errorf("refresh token: %w", err)
		}
		a.log.Info("token expired or revoked, starting browser authorization", zap.Error(err))
		if tok, err = a.authorize(ctx); err != nil {
			return nil, err
		}
		if err := a.store.Save(tok); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
		ts = a.tokenSource(ctx, tok)
	}
	return oauth2.NewClient(ctx, ts), nil
}

func (a *InstalledAppAuth) tokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(tok, &persistingTokenSource{
		src:   a.config.TokenSource(ctx, tok),
		store: a.store,
		last:  tok.AccessToken,
		log:   a.log,
	})
}

func isRevoked(err error) bool {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return re.ErrorCode == "invalid_grant"
	}
	return strings.Contains(err.Error(), "Token has been expired or revoked")
}

// persistingTokenSource writes every newly minted token back to the store.
type persistingTokenSource struct {
	src   oauth2.TokenSource
	store TokenStore
	last  string
	log   *zap.Logger
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		if err := p.store.Save(tok); err != nil {
			p.log.Warn("could not persist refreshed token", zap.Error(err))
		} else {
			p.log.Info("token refreshed", zap.Time("expiry", tok.Expiry))
		}
		p.last = tok.AccessToken
	}
	return tok, nil
}

// authorize runs the consent flow against a loopback listener on an
// ephemeral port and exchanges the returned code for a token.
func (a *InstalledAppAuth) authorize(ctx context.Context) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth redirect: %w", err)
	}
	defer ln.Close()

	cfg := *a.config
	cfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	state := uuid.NewString()

	codes := make(chan string, 1)
	errs := make(chan error, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		if e := q.Get("error"); e != "" {
			io.WriteString(w, "Authorization failed. You may close this window.")
			select {
			case errs <- fmt.Errorf("authorization denied: %s", e):
			default:
			}
			return
		}
		io.WriteString(w, "Authorization complete. You may close this window.")
		select {
		case codes <- q.Get("code"):
		default:
		}
	})}
	go srv.Serve(ln)
	defer srv.Close()

	a.openURL(cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errs:
		return nil, err
	case code := <-codes:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		return tok, nil
	}
}

// ServiceAccountKey reads a service account key from path, or from b64
// (standard base64 of the JSON key) when path is empty.
func ServiceAccountKey(path, b64 string) ([]byte, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return b, nil
	}
	if b64 == "" {
		return nil, errors.New("no service account key configured")
	}
	b, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 service account key: %w", err)
	}
	return b, nil
}

// ServiceAccountClient returns a client authorized as the service account,
// impersonating subject when it is set (domain-wide delegation).
func ServiceAccountClient(ctx context.Context, key []byte, subject string, scopes ...string) (*http.Client, error) {
	jwtCfg, err := google.JWTConfigFromJSON(key, scopes...)
	if err != nil {
		return nil, fmt.Errorf("JWT config: %w", err)
	}
	jwtCfg.Subject = subject
	return jwtCfg.Client(ctx), nil
}

// Scopes requested by both commands; reading and booking events on any of
// the user's calendars.
var Scopes = []string{calendar.CalendarEventsScope}

// Authorize picks service-account credentials when a key is configured
// (required under Lambda) and the installed-app flow otherwise. The returned
// release func frees the token cache.
func Authorize(ctx context.Context, cfg *Config, log *zap.Logger) (*http.Client, func() error, error) {
	noop := func() error { return nil }

	keyB64 := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON_B64")
	if cfg.ServiceAccountFile != "" || keyB64 != "" {
		key, err := ServiceAccountKey(cfg.ServiceAccountFile, keyB64)
		if err != nil {
			return nil, nil, err
		}
		client, err := ServiceAccountClient(ctx, key, cfg.Subject, Scopes...)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using service account credentials", zap.String("subject", cfg.Subject))
		return client, noop, nil
	}
	if IsLambda {
		return nil, nil, errors.New("lambda runs need GOOGLE_SERVICE_ACCOUNT_JSON_B64 or service_account_file")
	}

	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read client credentials: %w", err)
	}
	store, release, err := cfg.TokenStore(cfg.CalendarID)
	if err != nil {
		return nil, nil, err
	}
	auth, err := NewInstalledAppAuth(creds, store, log, Scopes...)
	if err != nil {
		release()
		return nil, nil, err
	}
	client, err := auth.Client(ctx)
	if err != nil {
		release()
		return nil, nil, err
	}
	return client, release, nil
}
