package engine

import (
	"sort"

	"github.com/tgienger/studyhub/internal/models"
)

// ToggleParticipant flips participantID's membership in the completion set of
// an assignment. Toggling twice restores the original set.
func ToggleParticipant(it models.Item, participantID int64) (models.Item, error) {
	if it.Kind != models.KindAssignment || it.Assignment == nil {
		return it, NewValidationError("item %d is not an assignment", it.ID)
	}
	out := it.Clone()
	if out.Assignment.Has(participantID) {
		delete(out.Assignment.Completions, participantID)
	} else {
		out.Assignment.Completions[participantID] = struct{}{}
	}
	return out, nil
}

// CompletionCount is the number of participants who completed it.
func CompletionCount(it models.Item) int {
	if it.Assignment == nil {
		return 0
	}
	return len(it.Assignment.Completions)
}

// Completers lists the participants who completed it, ascending.
func Completers(it models.Item) []int64 {
	if it.Assignment == nil {
		return nil
	}
	ids := make([]int64, 0, len(it.Assignment.Completions))
	for id := range it.Assignment.Completions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CanModify reports whether actor may edit or delete assignment-level fields
// of items in classroom: only the teacher who owns it.
func CanModify(classroom models.Classroom, actor models.Actor) bool {
	return actor.Role == models.RoleTeacher && classroom.TeacherID == actor.ID
}

// ToggleAssignment flips participantID's completion of it on behalf of actor.
// Participants may only toggle their own membership and must be enrolled in
// the assignment's classroom.
func ToggleAssignment(it models.Item, classroom models.Classroom, actor models.Actor, participantID int64) (models.Item, error) {
	if it.Kind != models.KindAssignment || it.Assignment == nil {
		return it, NewValidationError("item %d is not an assignment", it.ID)
	}
	if it.Assignment.ClassroomID != classroom.ID {
		return it, NewValidationError("assignment %d does not belong to classroom %d", it.ID, classroom.ID)
	}
	if actor.ID != participantID {
		return it, NewAuthorizationError(it.ID, "participants may only toggle their own completion")
	}
	if !classroom.HasStudent(participantID) {
		return it, NewAuthorizationError(it.ID, "user %d is not enrolled in classroom %d", participantID, classroom.ID)
	}
	return ToggleParticipant(it, participantID)
}
