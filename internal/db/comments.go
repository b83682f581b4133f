package db

import (
	"github.com/tgienger/studyhub/internal/models"
)

// CreateComment creates a new comment on an item
func (db *DB) CreateComment(itemID, authorID int64, content string) (*models.Comment, error) {
	result, err := db.Exec(`
		INSERT INTO comments (item_id, author_id, content) VALUES (?, ?, ?)
	`, itemID, authorID, content)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetComment(id)
}

// GetComment retrieves a comment by ID
func (db *DB) GetComment(id int64) (*models.Comment, error) {
	c := &models.Comment{}
	err := db.QueryRow(`
		SELECT id, item_id, author_id, content, created_at
		FROM comments WHERE id = ?
	`, id).Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListItemComments retrieves all comments for an item, oldest first
func (db *DB) ListItemComments(itemID int64) ([]models.Comment, error) {
	rows, err := db.Query(`
		SELECT id, item_id, author_id, content, created_at
		FROM comments
		WHERE item_id = ?
		ORDER BY created_at ASC, id ASC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment deletes a comment
func (db *DB) DeleteComment(id int64) error {
	_, err := db.Exec("DELETE FROM comments WHERE id = ?", id)
	return err
}
