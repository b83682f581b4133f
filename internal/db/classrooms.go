package db

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/tgienger/studyhub/internal/models"
)

// codeLength is the number of characters in a classroom join code
const codeLength = 6

const classroomColumns = `id, name, subject, teacher_id, code, day, time, room, created_at, updated_at`

// CreateClassroom creates a classroom with a fresh join code
func (db *DB) CreateClassroom(c models.Classroom) (*models.Classroom, error) {
	if c.Subject == "" {
		c.Subject = "General"
	}

	code, err := db.newClassCode()
	if err != nil {
		return nil, err
	}

	result, err := db.Exec(`
		INSERT INTO classrooms (name, subject, teacher_id, code, day, time, room)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Name, c.Subject, c.TeacherID, code, c.Day, c.Time, c.Room)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetClassroom(id)
}

// newClassCode returns an unused join code
func (db *DB) newClassCode() (string, error) {
	for {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
		var exists int
		err := db.QueryRow("SELECT 1 FROM classrooms WHERE code = ?", code).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// GetClassroom retrieves a classroom by ID with its enrolled students
func (db *DB) GetClassroom(id int64) (*models.Classroom, error) {
	return db.getClassroom(db, "id = ?", id)
}

// GetClassroomByCode retrieves a classroom by its join code (case-insensitive)
func (db *DB) GetClassroomByCode(code string) (*models.Classroom, error) {
	return db.getClassroom(db, "code = UPPER(?)", strings.TrimSpace(code))
}

func (db *DB) getClassroom(q querier, where string, arg any) (*models.Classroom, error) {
	c := &models.Classroom{}
	err := q.QueryRow("SELECT "+classroomColumns+" FROM classrooms WHERE "+where, arg).
		Scan(&c.ID, &c.Name, &c.Subject, &c.TeacherID, &c.Code, &c.Day, &c.Time, &c.Room, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	students, err := db.classroomStudents(q, c.ID)
	if err != nil {
		return nil, err
	}
	c.StudentIDs = students

	return c, nil
}

func (db *DB) classroomStudents(q querier, classroomID int64) ([]int64, error) {
	rows, err := q.Query(`
		SELECT user_id FROM classroom_students
		WHERE classroom_id = ?
		ORDER BY joined_at, user_id
	`, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListClassroomsForTeacher returns the classrooms a teacher owns
func (db *DB) ListClassroomsForTeacher(teacherID int64) ([]models.Classroom, error) {
	return db.listClassrooms(`
		SELECT `+classroomColumns+` FROM classrooms
		WHERE teacher_id = ?
		ORDER BY updated_at DESC, id DESC
	`, teacherID)
}

// ListClassroomsForStudent returns the classrooms a student is enrolled in
func (db *DB) ListClassroomsForStudent(userID int64) ([]models.Classroom, error) {
	return db.listClassrooms(`
		SELECT c.id, c.name, c.subject, c.teacher_id, c.code, c.day, c.time, c.room, c.created_at, c.updated_at
		FROM classrooms c
		JOIN classroom_students cs ON cs.classroom_id = c.id
		WHERE cs.user_id = ?
		ORDER BY c.updated_at DESC, c.id DESC
	`, userID)
}

func (db *DB) listClassrooms(query string, args ...any) ([]models.Classroom, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classrooms []models.Classroom
	for rows.Next() {
		var c models.Classroom
		if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &c.TeacherID, &c.Code, &c.Day, &c.Time, &c.Room, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		classrooms = append(classrooms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Load students for each classroom
	for i := range classrooms {
		students, err := db.classroomStudents(db, classrooms[i].ID)
		if err != nil {
			return nil, err
		}
		classrooms[i].StudentIDs = students
	}

	return classrooms, nil
}

// EnrollStudent adds a student to a classroom. It reports false if the
// student was already enrolled.
func (db *DB) EnrollStudent(classroomID, userID int64) (bool, error) {
	result, err := db.Exec(`
		INSERT OR IGNORE INTO classroom_students (classroom_id, user_id) VALUES (?, ?)
	`, classroomID, userID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// UnenrollStudent removes a student from a classroom along with their
// completions of its assignments
func (db *DB) UnenrollStudent(classroomID, userID int64) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			DELETE FROM assignment_completions
			WHERE user_id = ? AND item_id IN (SELECT id FROM items WHERE classroom_id = ?)
		`, userID, classroomID); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM classroom_students WHERE classroom_id = ? AND user_id = ?", classroomID, userID)
		return err
	})
}

// DeleteClassroom deletes a classroom and all of its assignments in one transaction
func (db *DB) DeleteClassroom(id int64) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM items WHERE classroom_id = ?", id); err != nil {
			return err
		}
		result, err := tx.Exec("DELETE FROM classrooms WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

// TouchClassroom bumps a classroom's updated_at so it sorts first
func (db *DB) TouchClassroom(id int64) error {
	_, err := db.Exec("UPDATE classrooms SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	return err
}
