package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/database"
	"trendnest_backend/internal/models"
)

// ScyllaUsers persiste les comptes dans les tables users / users_by_email.
// La table users_by_email sert d'index de recherche et de garde d'unicité.
type ScyllaUsers struct {
	db *database.ScyllaManager
}

func NewScyllaUsers(db *database.ScyllaManager) *ScyllaUsers {
	return &ScyllaUsers{db: db}
}

func (s *ScyllaUsers) Create(ctx context.Context, u *models.User) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO users (user_id, username, email, password, verification_token, is_verified, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.Password, u.VerificationToken, u.IsVerified, u.Role, u.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`,
		u.Email, u.ID).WithContext(ctx).Exec()
}

func (s *ScyllaUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	var userID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&userID); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.ByID(ctx, userID)
}

func (s *ScyllaUsers) ByID(ctx context.Context, id gocql.UUID) (*models.User, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	u := models.User{ID: id}
	if err := session.Query(`SELECT username, email, password, verification_token, is_verified, role, created_at
		FROM users WHERE user_id = ?`, id).WithContext(ctx).
		Scan(&u.Username, &u.Email, &u.Password, &u.VerificationToken, &u.IsVerified, &u.Role, &u.CreatedAt); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *ScyllaUsers) EmailTaken(ctx context.Context, email string) (bool, error) {
	session, err := s.db.Session()
	if err != nil {
		return false, err
	}

	var userID gocql.UUID
	err = session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&userID)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ScyllaActivity journalise les actions utilisateur (table user_activity).
type ScyllaActivity struct {
	db *database.ScyllaManager
}

const insertActivityCQL = `INSERT INTO user_activity (user_id, created_at, action) VALUES (?, ?, ?)`

func NewScyllaActivity(db *database.ScyllaManager) *ScyllaActivity {
	return &ScyllaActivity{db: db}
}

func (s *ScyllaActivity) Record(ctx context.Context, userID gocql.UUID, action string) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	entry := models.UserActivity{UserID: userID, Action: action, CreatedAt: time.Now()}
	return session.Query(insertActivityCQL, entry.UserID, entry.CreatedAt, entry.Action).
		WithContext(ctx).Exec()
}
