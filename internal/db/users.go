package db

import (
	"github.com/tgienger/studyhub/internal/models"
)

// CreateUser creates a new user
func (db *DB) CreateUser(name string, role models.Role) (*models.User, error) {
	result, err := db.Exec("INSERT INTO users (name, role) VALUES (?, ?)", name, string(role))
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUser(id)
}

// GetUser retrieves a user by ID
func (db *DB) GetUser(id int64) (*models.User, error) {
	u := &models.User{}
	err := db.QueryRow("SELECT id, name, role, created_at FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByName retrieves a user by name (case-insensitive)
func (db *DB) GetUserByName(name string) (*models.User, error) {
	u := &models.User{}
	err := db.QueryRow("SELECT id, name, role, created_at FROM users WHERE LOWER(name) = LOWER(?)", name).
		Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users ordered by name
func (db *DB) ListUsers() ([]models.User, error) {
	rows, err := db.Query("SELECT id, name, role, created_at FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
