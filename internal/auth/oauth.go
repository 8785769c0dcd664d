package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"trendnest_backend/internal/config"
)

// RegisterOAuthProviders configure gothic (store de session, extraction du
// provider) et enregistre les providers actifs. Appelé une fois dans main.
func RegisterOAuthProviders(sessionCfg config.SessionConfig, oauthCfg config.OAuthConfig, baseURL string) {
	store := sessions.NewCookieStore([]byte(sessionCfg.Secret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := req.FormValue("provider"); provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	if oauthCfg.GoogleClientID != "" && oauthCfg.GoogleClientSecret != "" {
		goth.UseProviders(google.New(
			oauthCfg.GoogleClientID,
			oauthCfg.GoogleClientSecret,
			baseURL+"/api/auth/google/callback",
			"email", "profile",
		))
		log.Println("✅ Google OAuth activé")
	}
}

// GoogleConfig construit la config OAuth2 brute, pour les clients SPA qui
// gèrent eux-mêmes la redirection.
func GoogleConfig(cfg config.OAuthConfig, baseURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  baseURL + "/api/auth/google/callback",
		Scopes:       []string{"email", "profile"},
		Endpoint:     googleoauth.Endpoint,
	}
}
