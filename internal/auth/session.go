package auth

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/sessions"

	"trendnest_backend/internal/config"
)

const sessionName = "trendnest_session"

// SessionResolver porte l'identité dans un cookie signé côté serveur.
// La fenêtre d'inactivité est recalculée à chaque requête : toute requête
// authentifiée repousse l'expiration.
type SessionResolver struct {
	store *sessions.CookieStore
	idle  time.Duration
}

func NewSessionResolver(cfg config.SessionConfig) *SessionResolver {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: 0,
	}
	return &SessionResolver{store: store, idle: cfg.IdleTimeout}
}

// Establish ouvre une session pour le principal donné.
func (r *SessionResolver) Establish(c *gin.Context, p *Principal) error {
	session, _ := r.store.Get(c.Request, sessionName)
	session.Values["user_id"] = p.UserID.String()
	session.Values["username"] = p.Username
	session.Values["admin"] = p.Admin
	session.Values["last_seen"] = time.Now().Unix()
	return session.Save(c.Request, c.Writer)
}

// Destroy invalide la session (logout).
func (r *SessionResolver) Destroy(c *gin.Context) {
	session, _ := r.store.Get(c.Request, sessionName)
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Println("⚠️ Destruction de session échouée:", err)
	}
}

// Resolve lit le cookie, vérifie la fenêtre d'inactivité et la repousse.
func (r *SessionResolver) Resolve(c *gin.Context) (*Principal, error) {
	session, err := r.store.Get(c.Request, sessionName)
	if err != nil || session.IsNew {
		return nil, ErrUnauthenticated
	}

	rawID, ok := session.Values["user_id"].(string)
	if !ok || rawID == "" {
		return nil, ErrUnauthenticated
	}
	userID, err := gocql.ParseUUID(rawID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	lastSeen, ok := session.Values["last_seen"].(int64)
	if !ok || time.Since(time.Unix(lastSeen, 0)) > r.idle {
		session.Options.MaxAge = -1
		_ = session.Save(c.Request, c.Writer)
		return nil, ErrSessionExpired
	}

	session.Values["last_seen"] = time.Now().Unix()
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Println("⚠️ Rafraîchissement de session échoué:", err)
	}

	username, _ := session.Values["username"].(string)
	admin, _ := session.Values["admin"].(bool)
	return &Principal{UserID: userID, Username: username, Admin: admin}, nil
}

// Flash pose un message éphémère rendu sur la prochaine page.
func (r *SessionResolver) Flash(c *gin.Context, message string) {
	session, _ := r.store.Get(c.Request, sessionName)
	session.AddFlash(message)
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Println("⚠️ Enregistrement du flash échoué:", err)
	}
}

// Flashes consomme les messages éphémères en attente.
func (r *SessionResolver) Flashes(c *gin.Context) []string {
	session, _ := r.store.Get(c.Request, sessionName)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save(c.Request, c.Writer)
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
