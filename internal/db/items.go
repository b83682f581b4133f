package db

import (
	"database/sql"
	"fmt"

	"github.com/tgienger/studyhub/internal/day"
	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
)

const itemSelect = `
	SELECT i.id, i.kind, i.owner_id, i.title, i.description, i.subject_id, i.due_date, i.priority,
	       i.is_done, i.streak, i.classroom_id, i.created_at, i.updated_at, s.name, s.color
	FROM items i
	LEFT JOIN subjects s ON s.id = i.subject_id
`

// CreateItem creates a new item with its kind-specific state
func (db *DB) CreateItem(it models.Item) (*models.Item, error) {
	if !it.Kind.Valid() {
		return nil, fmt.Errorf("invalid item kind %q", it.Kind)
	}
	if it.Priority == 0 {
		it.Priority = models.PriorityMedium
	}
	if it.Task == nil && it.Habit == nil && it.Assignment == nil {
		blank := models.NewItem(it.Kind, it.OwnerID, it.Title)
		it.Task, it.Habit, it.Assignment = blank.Task, blank.Habit, blank.Assignment
	}

	var id int64
	err := db.withTx(func(tx *sql.Tx) error {
		done, streak, classroomID := stateColumns(it)
		result, err := tx.Exec(`
			INSERT INTO items (kind, owner_id, title, description, subject_id, due_date, priority, is_done, streak, classroom_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, string(it.Kind), it.OwnerID, it.Title, it.Description, it.SubjectID, it.DueDate, int(it.Priority), done, streak, classroomID)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
		it.ID = id
		return syncState(tx, models.NewItem(it.Kind, it.OwnerID, it.Title), it)
	})
	if err != nil {
		return nil, err
	}

	return db.GetItem(id)
}

// GetItem retrieves an item by ID with its completion state
func (db *DB) GetItem(id int64) (*models.Item, error) {
	return getItem(db, id)
}

func getItem(q querier, id int64) (*models.Item, error) {
	it, err := scanItem(q.QueryRow(itemSelect+" WHERE i.id = ?", id))
	if err != nil {
		return nil, err
	}
	if err := loadState(q, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItemsByOwner returns a user's items of one kind in creation order
func (db *DB) ListItemsByOwner(ownerID int64, kind models.Kind) ([]models.Item, error) {
	return db.listItems(itemSelect+`
		WHERE i.owner_id = ? AND i.kind = ?
		ORDER BY i.created_at, i.id
	`, ownerID, string(kind))
}

// ListClassroomItems returns the assignments of a classroom in creation order
func (db *DB) ListClassroomItems(classroomID int64) ([]models.Item, error) {
	return db.listItems(itemSelect+`
		WHERE i.classroom_id = ?
		ORDER BY i.created_at, i.id
	`, classroomID)
}

// ListAssignmentsForStudent returns the assignments of every classroom a
// student is enrolled in
func (db *DB) ListAssignmentsForStudent(userID int64) ([]models.Item, error) {
	return db.listItems(itemSelect+`
		JOIN classroom_students cs ON cs.classroom_id = i.classroom_id
		WHERE cs.user_id = ?
		ORDER BY i.created_at, i.id
	`, userID)
}

// ListAssignmentsForTeacher returns the assignments of every classroom a
// teacher owns
func (db *DB) ListAssignmentsForTeacher(teacherID int64) ([]models.Item, error) {
	return db.listItems(itemSelect+`
		JOIN classrooms c ON c.id = i.classroom_id
		WHERE c.teacher_id = ?
		ORDER BY i.created_at, i.id
	`, teacherID)
}

func (db *DB) listItems(query string, args ...any) ([]models.Item, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Load completion state for each item
	for i := range items {
		if err := loadState(db, &items[i]); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// UpdateItem updates the descriptive fields of an item. Completion state is
// only changed through MutateItem.
func (db *DB) UpdateItem(it models.Item) error {
	_, err := db.Exec(`
		UPDATE items SET title = ?, description = ?, subject_id = ?, due_date = ?, priority = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, it.Title, it.Description, it.SubjectID, it.DueDate, int(it.Priority), it.ID)
	return err
}

// DeleteItem deletes an item
func (db *DB) DeleteItem(id int64) error {
	_, err := db.Exec("DELETE FROM items WHERE id = ?", id)
	return err
}

// MutateItem loads an item, hands it to fn and stores the completion state
// fn returns, all in one write transaction. If fn fails nothing is written.
func (db *DB) MutateItem(id int64, fn func(models.Item) (models.Item, error)) (*models.Item, error) {
	return db.mutate(id, func(_ querier, it models.Item) (models.Item, error) {
		return fn(it)
	})
}

// MutateAssignment is MutateItem for assignments. fn also gets the
// assignment's classroom, read in the same transaction, so an enrollment
// check and the write it guards cannot straddle an unenroll.
func (db *DB) MutateAssignment(id int64, fn func(models.Item, models.Classroom) (models.Item, error)) (*models.Item, error) {
	return db.mutate(id, func(q querier, it models.Item) (models.Item, error) {
		if it.Assignment == nil {
			return it, fmt.Errorf("item %d is not an assignment", id)
		}
		c, err := db.getClassroom(q, "id = ?", it.Assignment.ClassroomID)
		if err != nil {
			return it, err
		}
		return fn(it, *c)
	})
}

func (db *DB) mutate(id int64, fn func(querier, models.Item) (models.Item, error)) (*models.Item, error) {
	var out models.Item
	err := db.withTx(func(tx *sql.Tx) error {
		before, err := getItem(tx, id)
		if err != nil {
			return err
		}
		after, err := fn(tx, before.Clone())
		if err != nil {
			return err
		}
		if after.ID != before.ID || after.Kind != before.Kind {
			return fmt.Errorf("mutate item %d: identity changed", id)
		}

		done, streak, _ := stateColumns(after)
		if _, err := tx.Exec(`
			UPDATE items SET is_done = ?, streak = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
		`, done, streak, id); err != nil {
			return err
		}
		if err := syncState(tx, *before, after); err != nil {
			return err
		}
		out = after
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (models.Item, error) {
	var (
		it                   models.Item
		subjectID            sql.NullInt64
		classroomID          sql.NullInt64
		due                  sql.NullTime
		done                 bool
		streak               int
		subjectName, subjCol sql.NullString
	)
	err := r.Scan(&it.ID, &it.Kind, &it.OwnerID, &it.Title, &it.Description, &subjectID, &due, &it.Priority,
		&done, &streak, &classroomID, &it.CreatedAt, &it.UpdatedAt, &subjectName, &subjCol)
	if err != nil {
		return it, err
	}

	if subjectID.Valid {
		id := subjectID.Int64
		it.SubjectID = &id
		it.Subject = &models.Subject{ID: id, OwnerID: it.OwnerID, Name: subjectName.String, Color: subjCol.String}
	}
	if due.Valid {
		t := due.Time
		it.DueDate = &t
	}

	switch it.Kind {
	case models.KindTask:
		it.Task = &models.TaskState{Done: done}
	case models.KindHabit:
		it.Habit = &models.HabitState{Streak: streak}
	case models.KindAssignment:
		it.Assignment = &models.AssignmentState{
			ClassroomID: classroomID.Int64,
			Completions: map[int64]struct{}{},
		}
	default:
		return it, fmt.Errorf("item %d has unknown kind %q", it.ID, it.Kind)
	}
	return it, nil
}

// loadState fills in habit history or assignment completions
func loadState(q querier, it *models.Item) error {
	switch it.Kind {
	case models.KindHabit:
		rows, err := q.Query("SELECT day FROM habit_completions WHERE item_id = ? ORDER BY day", it.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var s string
			if err := rows.Scan(&s); err != nil {
				return err
			}
			k, err := day.Parse(s)
			if err != nil {
				return err
			}
			it.Habit.History = append(it.Habit.History, k)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		// The cached streak never exceeds the run the history supports
		it.Habit.Streak = min(it.Habit.Streak, engine.RecountStreak(it.Habit.History))
		return nil

	case models.KindAssignment:
		rows, err := q.Query("SELECT user_id FROM assignment_completions WHERE item_id = ?", it.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err
			}
			it.Assignment.Completions[id] = struct{}{}
		}
		return rows.Err()
	}
	return nil
}

// stateColumns maps kind-specific state onto the items row
func stateColumns(it models.Item) (done bool, streak int, classroomID *int64) {
	switch {
	case it.Task != nil:
		done = it.Task.Done
	case it.Habit != nil:
		streak = it.Habit.Streak
	case it.Assignment != nil:
		id := it.Assignment.ClassroomID
		classroomID = &id
	}
	return done, streak, classroomID
}

// syncState writes the difference between two versions of an item's history
// or completion set
func syncState(tx *sql.Tx, before, after models.Item) error {
	switch after.Kind {
	case models.KindHabit:
		for _, k := range before.Habit.History {
			if !after.Habit.Has(k) {
				if _, err := tx.Exec("DELETE FROM habit_completions WHERE item_id = ? AND day = ?", after.ID, k.String()); err != nil {
					return err
				}
			}
		}
		for _, k := range after.Habit.History {
			if !before.Habit.Has(k) {
				if _, err := tx.Exec("INSERT OR IGNORE INTO habit_completions (item_id, day) VALUES (?, ?)", after.ID, k.String()); err != nil {
					return err
				}
			}
		}

	case models.KindAssignment:
		for id := range before.Assignment.Completions {
			if !after.Assignment.Has(id) {
				if _, err := tx.Exec("DELETE FROM assignment_completions WHERE item_id = ? AND user_id = ?", after.ID, id); err != nil {
					return err
				}
			}
		}
		for id := range after.Assignment.Completions {
			if !before.Assignment.Has(id) {
				if _, err := tx.Exec("INSERT OR IGNORE INTO assignment_completions (item_id, user_id) VALUES (?, ?)", after.ID, id); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
