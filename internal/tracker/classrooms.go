package tracker

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
)

// CreateClassroom opens a new classroom taught by actor and assigns it a
// join code.
func (s *Service) CreateClassroom(actor models.Actor, c models.Classroom) (*models.Classroom, error) {
	if actor.Role != models.RoleTeacher {
		return nil, engine.NewAuthorizationError(0, "only teachers can create classrooms")
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, engine.NewValidationError("classroom name is required")
	}
	c.TeacherID = actor.ID

	created, err := s.db.CreateClassroom(c)
	if err != nil {
		return nil, fmt.Errorf("create classroom: %w", err)
	}
	s.mutated("create_classroom", actor, created.ID, "code", created.Code)
	return created, nil
}

// JoinClassroom enrolls a student using the classroom's join code.
func (s *Service) JoinClassroom(actor models.Actor, code string) (*models.Classroom, error) {
	if actor.Role != models.RoleStudent {
		return nil, engine.NewAuthorizationError(0, "only students can join classrooms")
	}
	c, err := s.db.GetClassroomByCode(code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.Error{Code: engine.ErrCodeNotFound, Message: fmt.Sprintf("no classroom with code %q", code)}
	}
	if err != nil {
		return nil, err
	}

	added, err := s.db.EnrollStudent(c.ID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("join classroom: %w", err)
	}
	if !added {
		return nil, &engine.Error{Code: engine.ErrCodeValidation, Message: "already in this class", ItemID: c.ID}
	}
	s.mutated("join_classroom", actor, c.ID)
	return s.db.GetClassroom(c.ID)
}

// LeaveClassroom unenrolls the actor. Their completions of the classroom's
// assignments are dropped with the enrollment.
func (s *Service) LeaveClassroom(actor models.Actor, classroomID int64) error {
	c, err := s.visibleClassroom(actor, classroomID)
	if err != nil {
		return err
	}
	if !c.HasStudent(actor.ID) {
		return &engine.Error{Code: engine.ErrCodeValidation, Message: "not enrolled in this class", ItemID: classroomID}
	}
	if err := s.db.UnenrollStudent(classroomID, actor.ID); err != nil {
		return fmt.Errorf("leave classroom: %w", err)
	}
	s.mutated("leave_classroom", actor, classroomID)
	return nil
}

// RemoveStudent unenrolls a student on the teacher's behalf.
func (s *Service) RemoveStudent(actor models.Actor, classroomID, studentID int64) error {
	c, err := s.visibleClassroom(actor, classroomID)
	if err != nil {
		return err
	}
	if !engine.CanModify(*c, actor) {
		return engine.NewAuthorizationError(classroomID, "only the classroom teacher can remove students")
	}
	if !c.HasStudent(studentID) {
		return engine.NewNotFoundError("student", studentID)
	}
	if err := s.db.UnenrollStudent(classroomID, studentID); err != nil {
		return fmt.Errorf("remove student: %w", err)
	}
	s.mutated("remove_student", actor, classroomID, "student", studentID)
	return nil
}

// DeleteClassroom removes a classroom together with all of its assignments.
func (s *Service) DeleteClassroom(actor models.Actor, classroomID int64) error {
	c, err := s.visibleClassroom(actor, classroomID)
	if err != nil {
		return err
	}
	if !engine.CanModify(*c, actor) {
		return engine.NewAuthorizationError(classroomID, "only the classroom teacher can delete it")
	}
	if err := s.db.DeleteClassroom(classroomID); err != nil {
		return notFound(err, "classroom", classroomID)
	}
	s.mutated("delete_classroom", actor, classroomID)
	return nil
}

// Classroom returns a classroom the actor teaches or attends.
func (s *Service) Classroom(actor models.Actor, id int64) (*models.Classroom, error) {
	return s.visibleClassroom(actor, id)
}

// Classrooms lists the classrooms the actor teaches or attends, most
// recently active first.
func (s *Service) Classrooms(actor models.Actor) ([]models.Classroom, error) {
	if actor.Role == models.RoleTeacher {
		return s.db.ListClassroomsForTeacher(actor.ID)
	}
	return s.db.ListClassroomsForStudent(actor.ID)
}

func (s *Service) visibleClassroom(actor models.Actor, id int64) (*models.Classroom, error) {
	c, err := s.db.GetClassroom(id)
	if err != nil {
		return nil, notFound(err, "classroom", id)
	}
	if c.TeacherID != actor.ID && !c.HasStudent(actor.ID) {
		return nil, engine.NewNotFoundError("classroom", id)
	}
	return c, nil
}
