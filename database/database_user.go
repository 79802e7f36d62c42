package database

import (
	"database/sql"

	"storefront-service/domain"
)

func (d *Database) ListUsers() ([]domain.User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users ORDER BY created_at DESC`
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user := domain.User{}
		err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (d *Database) GetUserByID(id string) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	err := d.db.QueryRow(query, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (d *Database) GetUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	err := d.db.QueryRow(query, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (d *Database) CreateUser(user *domain.User) error {
	query := `INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := d.db.Exec(query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	return err
}

func (d *Database) UpdateUser(user *domain.User) error {
	query := `UPDATE users SET name = $1, email = $2, password_hash = $3 WHERE id = $4`
	result, err := d.db.Exec(query, user.Name, user.Email, user.PasswordHash, user.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (d *Database) DeleteUser(id string) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := d.db.Exec(query, id)
	return err
}
