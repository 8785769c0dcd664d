// Package accounts gère l'inscription et l'authentification par mot de passe.
package accounts

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
	"trendnest_backend/internal/utils"
)

var (
	ErrMissingFields      = errors.New("username, email et password sont requis")
	ErrInvalidEmail       = errors.New("format d'email invalide")
	ErrEmailTaken         = errors.New("cet email est déjà utilisé")
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

type Service struct {
	users    store.UserStore
	activity store.ActivityStore
}

func NewService(users store.UserStore, activity store.ActivityStore) *Service {
	return &Service{users: users, activity: activity}
}

// Register crée un compte. Le compte est vérifié immédiatement, le token de
// vérification est conservé pour un futur flux d'emails.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if !emailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:                gocql.TimeUUID(),
		Username:          username,
		Email:             email,
		Password:          hash,
		VerificationToken: uuid.NewString(),
		IsVerified:        true,
		Role:              "customer",
		CreatedAt:         time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate vérifie les identifiants. Aucun verrouillage : un mot de passe
// erroné renvoie toujours la même erreur, quel que soit le nombre d'essais.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	if err := s.activity.Record(ctx, user.ID, "login"); err != nil {
		log.Println("⚠️ Échec d'enregistrement de l'activité login:", err)
	}
	return user, nil
}

// ByEmail expose la recherche par email (profil, résolution de token).
func (s *Service) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.ByEmail(ctx, email)
}

func (s *Service) ByID(ctx context.Context, id gocql.UUID) (*models.User, error) {
	return s.users.ByID(ctx, id)
}
