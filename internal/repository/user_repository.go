package repository

import (
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/models"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByLogin looks a user up by username or email, which are both
// accepted on the login form.
func (r *UserRepository) FindByLogin(login string) (*models.User, error) {
	var user models.User
	query := "SELECT * FROM users WHERE username = ? OR email = ? LIMIT 1"
	if err := r.db.Get(&user, query, login, login); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id int) (*models.User, error) {
	var user models.User
	query := "SELECT * FROM users WHERE id = ? LIMIT 1"
	if err := r.db.Get(&user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(user *models.User) error {
	query := `INSERT INTO users (name, username, email, password_hash, role, is_active)
	          VALUES (:name, :username, :email, :password_hash, :role, :is_active)`
	result, err := r.db.NamedExec(query, user)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	user.ID = int(id)
	return nil
}

func (r *UserRepository) Update(user *models.User) error {
	query := `UPDATE users SET name = :name, username = :username, email = :email,
	          role = :role, is_active = :is_active WHERE id = :id`
	_, err := r.db.NamedExec(query, user)
	return err
}

func (r *UserRepository) UpdatePassword(id int, passwordHash string) error {
	query := "UPDATE users SET password_hash = ? WHERE id = ?"
	_, err := r.db.Exec(query, passwordHash, id)
	return err
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(id int) error {
	query := "UPDATE users SET last_login_at = NOW() WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}
