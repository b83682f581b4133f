package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/studyhub/internal/day"
	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(t.TempDir(), DriverCgo)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func mustUser(t *testing.T, database *DB, name string, role models.Role) *models.User {
	t.Helper()
	u, err := database.CreateUser(name, role)
	require.NoError(t, err)
	return u
}

func TestOpen_Drivers(t *testing.T) {
	for _, driver := range []string{DriverCgo, DriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			database, err := Open(filepath.Join(t.TempDir(), FileName), driver)
			require.NoError(t, err)
			defer database.Close()

			u, err := database.CreateUser("ada", models.RoleStudent)
			require.NoError(t, err)
			assert.Equal(t, "ada", u.Name)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), FileName), "postgres")
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestSettings(t *testing.T) {
	database := newTestDB(t)

	v, err := database.GetSetting("last_view")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, database.SetSetting("last_view", "habits"))
	require.NoError(t, database.SetSetting("last_view", "tasks"))
	v, err = database.GetSetting("last_view")
	require.NoError(t, err)
	assert.Equal(t, "tasks", v)
}

func TestUsers(t *testing.T) {
	database := newTestDB(t)
	mustUser(t, database, "Grace", models.RoleTeacher)
	mustUser(t, database, "ada", models.RoleStudent)

	u, err := database.GetUserByName("grace")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, u.Role)

	users, err := database.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Grace", users[0].Name)

	_, err = database.CreateUser("ada", models.RoleStudent)
	assert.Error(t, err, "names are unique")
}

func TestClassrooms_EnrollAndCodes(t *testing.T) {
	database := newTestDB(t)
	teacher := mustUser(t, database, "grace", models.RoleTeacher)
	student := mustUser(t, database, "ada", models.RoleStudent)

	c, err := database.CreateClassroom(models.Classroom{Name: "Biology 101", TeacherID: teacher.ID})
	require.NoError(t, err)
	assert.Len(t, c.Code, codeLength)
	assert.Equal(t, "General", c.Subject)

	other, err := database.CreateClassroom(models.Classroom{Name: "Chemistry", TeacherID: teacher.ID})
	require.NoError(t, err)
	assert.NotEqual(t, c.Code, other.Code)

	byCode, err := database.GetClassroomByCode(" " + c.Code + " ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byCode.ID)

	added, err := database.EnrollStudent(c.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = database.EnrollStudent(c.ID, student.ID)
	require.NoError(t, err)
	assert.False(t, added)

	got, err := database.GetClassroom(c.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{student.ID}, got.StudentIDs)

	enrolled, err := database.ListClassroomsForStudent(student.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, c.ID, enrolled[0].ID)

	owned, err := database.ListClassroomsForTeacher(teacher.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestDeleteClassroom_CascadesAssignmentsOnly(t *testing.T) {
	database := newTestDB(t)
	teacher := mustUser(t, database, "grace", models.RoleTeacher)
	student := mustUser(t, database, "ada", models.RoleStudent)

	c, err := database.CreateClassroom(models.Classroom{Name: "Biology", TeacherID: teacher.ID})
	require.NoError(t, err)
	_, err = database.EnrollStudent(c.ID, student.ID)
	require.NoError(t, err)

	a := models.NewItem(models.KindAssignment, teacher.ID, "Lab report")
	a.Assignment.ClassroomID = c.ID
	assignment, err := database.CreateItem(a)
	require.NoError(t, err)

	personal, err := database.CreateItem(models.NewItem(models.KindTask, student.ID, "Groceries"))
	require.NoError(t, err)

	require.NoError(t, database.DeleteClassroom(c.ID))

	_, err = database.GetItem(assignment.ID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	_, err = database.GetClassroom(c.ID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	_, err = database.GetItem(personal.ID)
	assert.NoError(t, err)

	assert.True(t, errors.Is(database.DeleteClassroom(c.ID), sql.ErrNoRows))
}

func TestItems_CreateGetList(t *testing.T) {
	database := newTestDB(t)
	owner := mustUser(t, database, "ada", models.RoleStudent)
	subject, err := database.CreateSubject(owner.ID, "Math", "#ff0000")
	require.NoError(t, err)

	due := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	it := models.NewItem(models.KindTask, owner.ID, "Algebra")
	it.Description = "page 12"
	it.SubjectID = &subject.ID
	it.DueDate = &due
	it.Priority = models.PriorityHigh

	created, err := database.CreateItem(it)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", created.Title)
	assert.Equal(t, models.PriorityHigh, created.Priority)
	require.NotNil(t, created.DueDate)
	assert.True(t, due.Equal(*created.DueDate))
	require.NotNil(t, created.Subject)
	assert.Equal(t, "Math", created.Subject.Name)
	require.NotNil(t, created.Task)
	assert.False(t, created.Task.Done)

	_, err = database.CreateItem(models.NewItem(models.KindHabit, owner.ID, "Read"))
	require.NoError(t, err)

	tasks, err := database.ListItemsByOwner(owner.ID, models.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	habits, err := database.ListItemsByOwner(owner.ID, models.KindHabit)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	require.NotNil(t, habits[0].Habit)

	created.Title = "Algebra II"
	created.DueDate = nil
	created.Priority = models.PriorityLow
	require.NoError(t, database.UpdateItem(*created))

	got, err := database.GetItem(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", got.Title)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, models.PriorityLow, got.Priority)

	require.NoError(t, database.DeleteSubject(subject.ID))
	got, err = database.GetItem(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SubjectID, "deleting a subject leaves items uncategorized")
}

func TestMutateItem_PersistsHabitHistory(t *testing.T) {
	database := newTestDB(t)
	owner := mustUser(t, database, "ada", models.RoleStudent)
	h, err := database.CreateItem(models.NewItem(models.KindHabit, owner.ID, "Read"))
	require.NoError(t, err)

	mon := day.MustParse("2026-10-12")
	tue := day.MustParse("2026-10-13")

	_, err = database.MutateItem(h.ID, func(it models.Item) (models.Item, error) {
		it.Habit.History = []day.Key{mon, tue}
		it.Habit.Streak = 2
		return it, nil
	})
	require.NoError(t, err)

	got, err := database.GetItem(h.ID)
	require.NoError(t, err)
	assert.Equal(t, []day.Key{mon, tue}, got.Habit.History)
	assert.Equal(t, 2, got.Habit.Streak)

	_, err = database.MutateItem(h.ID, func(it models.Item) (models.Item, error) {
		it.Habit.History = it.Habit.History[:1]
		it.Habit.Streak = 1
		return it, nil
	})
	require.NoError(t, err)

	got, err = database.GetItem(h.ID)
	require.NoError(t, err)
	assert.Equal(t, []day.Key{mon}, got.Habit.History)
	assert.Equal(t, 1, got.Habit.Streak)
}

func TestGetItem_ClampsStreakToHistory(t *testing.T) {
	database := newTestDB(t)
	owner := mustUser(t, database, "ada", models.RoleStudent)
	h, err := database.CreateItem(models.NewItem(models.KindHabit, owner.ID, "Read"))
	require.NoError(t, err)

	mon := day.MustParse("2026-10-12")
	tue := day.MustParse("2026-10-13")
	wed := day.MustParse("2026-10-14")
	_, err = database.MutateItem(h.ID, func(it models.Item) (models.Item, error) {
		it.Habit.History = []day.Key{mon, tue, wed}
		it.Habit.Streak = 3
		return it, nil
	})
	require.NoError(t, err)

	// Losing Tuesday's row leaves only a one-day run ending Wednesday
	_, err = database.Exec("DELETE FROM habit_completions WHERE item_id = ? AND day = ?", h.ID, tue.String())
	require.NoError(t, err)

	got, err := database.GetItem(h.ID)
	require.NoError(t, err)
	assert.Equal(t, []day.Key{mon, wed}, got.Habit.History)
	assert.Equal(t, 1, got.Habit.Streak)

	// A streak below the recount is left alone
	_, err = database.Exec("UPDATE items SET streak = 0 WHERE id = ?", h.ID)
	require.NoError(t, err)
	got, err = database.GetItem(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Habit.Streak)
}

func TestMutateItem_RollsBackOnError(t *testing.T) {
	database := newTestDB(t)
	owner := mustUser(t, database, "ada", models.RoleStudent)
	it, err := database.CreateItem(models.NewItem(models.KindTask, owner.ID, "Essay"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = database.MutateItem(it.ID, func(it models.Item) (models.Item, error) {
		it.Task.Done = true
		return it, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := database.GetItem(it.ID)
	require.NoError(t, err)
	assert.False(t, got.Task.Done)

	_, err = database.MutateItem(9999, func(it models.Item) (models.Item, error) { return it, nil })
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMutateItem_AssignmentCompletions(t *testing.T) {
	database := newTestDB(t)
	teacher := mustUser(t, database, "grace", models.RoleTeacher)
	a := mustUser(t, database, "ada", models.RoleStudent)
	b := mustUser(t, database, "alan", models.RoleStudent)

	c, err := database.CreateClassroom(models.Classroom{Name: "Biology", TeacherID: teacher.ID})
	require.NoError(t, err)
	for _, u := range []*models.User{a, b} {
		_, err = database.EnrollStudent(c.ID, u.ID)
		require.NoError(t, err)
	}

	item := models.NewItem(models.KindAssignment, teacher.ID, "Lab report")
	item.Assignment.ClassroomID = c.ID
	created, err := database.CreateItem(item)
	require.NoError(t, err)

	for _, u := range []*models.User{a, b} {
		uid := u.ID
		_, err = database.MutateItem(created.ID, func(it models.Item) (models.Item, error) {
			it.Assignment.Completions[uid] = struct{}{}
			return it, nil
		})
		require.NoError(t, err)
	}

	got, err := database.GetItem(created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Assignment.Completions, 2)
	assert.Equal(t, c.ID, got.Assignment.ClassroomID)

	require.NoError(t, database.UnenrollStudent(c.ID, b.ID))
	got, err = database.GetItem(created.ID)
	require.NoError(t, err)
	assert.True(t, got.Assignment.Has(a.ID))
	assert.False(t, got.Assignment.Has(b.ID))

	forStudent, err := database.ListAssignmentsForStudent(a.ID)
	require.NoError(t, err)
	assert.Len(t, forStudent, 1)
	forTeacher, err := database.ListAssignmentsForTeacher(teacher.ID)
	require.NoError(t, err)
	assert.Len(t, forTeacher, 1)
	inRoom, err := database.ListClassroomItems(c.ID)
	require.NoError(t, err)
	assert.Len(t, inRoom, 1)
}

func TestMutateAssignment_ReadsClassroomInTransaction(t *testing.T) {
	database := newTestDB(t)
	teacher := mustUser(t, database, "grace", models.RoleTeacher)
	ada := mustUser(t, database, "ada", models.RoleStudent)

	c, err := database.CreateClassroom(models.Classroom{Name: "Biology", TeacherID: teacher.ID})
	require.NoError(t, err)
	_, err = database.EnrollStudent(c.ID, ada.ID)
	require.NoError(t, err)

	item := models.NewItem(models.KindAssignment, teacher.ID, "Lab report")
	item.Assignment.ClassroomID = c.ID
	created, err := database.CreateItem(item)
	require.NoError(t, err)

	stale, err := database.GetClassroom(c.ID)
	require.NoError(t, err)
	require.True(t, stale.HasStudent(ada.ID))

	// Ada is removed after the caller read the classroom
	require.NoError(t, database.UnenrollStudent(c.ID, ada.ID))

	actor := ada.Actor()
	_, err = database.MutateAssignment(created.ID, func(it models.Item, current models.Classroom) (models.Item, error) {
		assert.False(t, current.HasStudent(ada.ID))
		return engine.ToggleAssignment(it, current, actor, actor.ID)
	})
	assert.True(t, engine.IsAuthorization(err))

	got, err := database.GetItem(created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Assignment.Completions)

	_, err = database.MutateAssignment(created.ID+100, func(it models.Item, _ models.Classroom) (models.Item, error) {
		return it, nil
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMutateAssignment_RejectsOtherKinds(t *testing.T) {
	database := newTestDB(t)
	owner := mustUser(t, database, "ada", models.RoleStudent)
	task, err := database.CreateItem(models.NewItem(models.KindTask, owner.ID, "Essay"))
	require.NoError(t, err)

	_, err = database.MutateAssignment(task.ID, func(it models.Item, _ models.Classroom) (models.Item, error) {
		return it, nil
	})
	assert.ErrorContains(t, err, "not an assignment")
}

func TestSubjectsAndComments(t *testing.T) {
	database := newTestDB(t)
	owner := mustUser(t, database, "ada", models.RoleStudent)

	_, err := database.CreateSubject(owner.ID, "Physics", "")
	require.NoError(t, err)
	_, err = database.CreateSubject(owner.ID, "Art", "#00ff00")
	require.NoError(t, err)

	subjects, err := database.ListSubjects(owner.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Art", subjects[0].Name)

	physics, err := database.GetSubjectByName(owner.ID, "PHYSICS")
	require.NoError(t, err)
	assert.Equal(t, "#7aa2f7", physics.Color)

	it, err := database.CreateItem(models.NewItem(models.KindTask, owner.ID, "Essay"))
	require.NoError(t, err)
	_, err = database.CreateComment(it.ID, owner.ID, "first")
	require.NoError(t, err)
	second, err := database.CreateComment(it.ID, owner.ID, "second")
	require.NoError(t, err)

	comments, err := database.ListItemComments(it.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)

	require.NoError(t, database.DeleteComment(second.ID))
	comments, err = database.ListItemComments(it.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}
