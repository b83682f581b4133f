package tracker

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CreateSubject adds a subject for categorizing the actor's tasks.
func (s *Service) CreateSubject(actor models.Actor, name, color string) (*models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, engine.NewValidationError("subject name is required")
	}
	if color != "" && !hexColor.MatchString(color) {
		return nil, engine.NewValidationError("invalid color %q: want #rrggbb", color)
	}
	if _, err := s.db.GetSubjectByName(actor.ID, name); err == nil {
		return nil, engine.NewValidationError("subject %q already exists", name)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	subject, err := s.db.CreateSubject(actor.ID, name, color)
	if err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	s.mutated("create_subject", actor, subject.ID)
	return subject, nil
}

// Subjects lists the actor's subjects.
func (s *Service) Subjects(actor models.Actor) ([]models.Subject, error) {
	return s.db.ListSubjects(actor.ID)
}

// SubjectByName finds one of the actor's subjects.
func (s *Service) SubjectByName(actor models.Actor, name string) (*models.Subject, error) {
	subject, err := s.db.GetSubjectByName(actor.ID, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.Error{Code: engine.ErrCodeNotFound, Message: fmt.Sprintf("subject %q not found", name)}
	}
	return subject, err
}

// DeleteSubject removes a subject. Tasks tagged with it become uncategorized.
func (s *Service) DeleteSubject(actor models.Actor, id int64) error {
	subject, err := s.db.GetSubject(id)
	if err != nil {
		return notFound(err, "subject", id)
	}
	if subject.OwnerID != actor.ID {
		return engine.NewNotFoundError("subject", id)
	}
	if err := s.db.DeleteSubject(id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	s.mutated("delete_subject", actor, id)
	return nil
}

// AddComment leaves a note on an item the actor can see.
func (s *Service) AddComment(actor models.Actor, itemID int64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, engine.NewValidationError("comment is empty")
	}
	if _, _, err := s.visibleItem(actor, itemID); err != nil {
		return nil, err
	}

	c, err := s.db.CreateComment(itemID, actor.ID, content)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	s.mutated("add_comment", actor, itemID, "comment", c.ID)
	return c, nil
}

// Comments lists the notes on an item the actor can see, oldest first.
func (s *Service) Comments(actor models.Actor, itemID int64) ([]models.Comment, error) {
	if _, _, err := s.visibleItem(actor, itemID); err != nil {
		return nil, err
	}
	return s.db.ListItemComments(itemID)
}

// DeleteComment removes a note. Only its author may do so.
func (s *Service) DeleteComment(actor models.Actor, id int64) error {
	c, err := s.db.GetComment(id)
	if err != nil {
		return notFound(err, "comment", id)
	}
	if c.AuthorID != actor.ID {
		return engine.NewAuthorizationError(c.ItemID, "only the author can delete a comment")
	}
	if err := s.db.DeleteComment(id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.mutated("delete_comment", actor, c.ItemID, "comment", id)
	return nil
}
