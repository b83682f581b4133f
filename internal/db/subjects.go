package db

import (
	"github.com/tgienger/studyhub/internal/models"
)

// CreateSubject creates a new subject for a user
func (db *DB) CreateSubject(ownerID int64, name, color string) (*models.Subject, error) {
	if color == "" {
		color = "#7aa2f7"
	}
	result, err := db.Exec("INSERT INTO subjects (owner_id, name, color) VALUES (?, ?, ?)", ownerID, name, color)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetSubject(id)
}

// GetSubject retrieves a subject by ID
func (db *DB) GetSubject(id int64) (*models.Subject, error) {
	s := &models.Subject{}
	err := db.QueryRow("SELECT id, owner_id, name, color, created_at FROM subjects WHERE id = ?", id).
		Scan(&s.ID, &s.OwnerID, &s.Name, &s.Color, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSubjects returns all subjects of a user
func (db *DB) ListSubjects(ownerID int64) ([]models.Subject, error) {
	rows, err := db.Query(`
		SELECT id, owner_id, name, color, created_at
		FROM subjects
		WHERE owner_id = ?
		ORDER BY name
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Color, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// DeleteSubject deletes a subject (items keep existing with no subject)
func (db *DB) DeleteSubject(id int64) error {
	_, err := db.Exec("DELETE FROM subjects WHERE id = ?", id)
	return err
}

// GetSubjectByName retrieves one of a user's subjects by name (case-insensitive)
func (db *DB) GetSubjectByName(ownerID int64, name string) (*models.Subject, error) {
	s := &models.Subject{}
	err := db.QueryRow(`
		SELECT id, owner_id, name, color, created_at
		FROM subjects
		WHERE owner_id = ? AND LOWER(name) = LOWER(?)
	`, ownerID, name).Scan(&s.ID, &s.OwnerID, &s.Name, &s.Color, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
