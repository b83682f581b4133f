package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/tgienger/studyhub/internal/day"
	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
)

// itemView is an item as seen by one user at one instant.
type itemView struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Due         string `json:"due,omitempty"`
	DueRelative string `json:"due_relative,omitempty"`
	Subject     string `json:"subject,omitempty"`
	ClassroomID int64  `json:"classroom_id,omitempty"`
	Completions int    `json:"completions,omitempty"`
	Streak      int    `json:"streak,omitempty"`
}

func (s *session) itemView(it models.Item, viewer int64) itemView {
	eng := s.svc.Engine()
	v := itemView{
		ID:          it.ID,
		Kind:        string(it.Kind),
		Title:       it.Title,
		Description: it.Description,
		Status:      strings.ToLower(eng.Classify(it, viewer, s.now).String()),
		Priority:    strings.ToLower(it.Priority.String()),
	}
	if it.DueDate != nil {
		due := eng.Days().Key(*it.DueDate)
		v.Due = due.String()
		v.DueRelative = relativeDay(due, eng.Days().Today(s.now))
	}
	if it.Subject != nil {
		v.Subject = it.Subject.Name
	}
	if it.Assignment != nil {
		v.ClassroomID = it.Assignment.ClassroomID
		v.Completions = engine.CompletionCount(it)
	}
	if it.Habit != nil {
		v.Streak = eng.LiveStreak(it, s.now)
	}
	return v
}

// relativeDay describes due relative to today in whole days
func relativeDay(due, today day.Key) string {
	if due == today {
		return "today"
	}
	// Day starts in UTC are exact multiples of 24h apart.
	return humanize.RelTime(due.Start(time.UTC), today.Start(time.UTC), "ago", "from now")
}

func (v itemView) renderText(w io.Writer) {
	due := v.Due
	if due == "" {
		due = "-"
	}
	var extra string
	if v.Subject != "" {
		extra += " #" + v.Subject
	}
	if v.Kind == string(models.KindAssignment) {
		extra += fmt.Sprintf(" [class %d, %d done]", v.ClassroomID, v.Completions)
	}
	fmt.Fprintf(w, "%4d  %-9s  %-6s  %-10s  %-15s  %s%s\n", v.ID, v.Status, v.Priority, due, v.DueRelative, v.Title, extra)
}

type itemList struct {
	Items []itemView `json:"items"`
}

func (s *session) itemList(items []models.Item, viewer int64) itemList {
	l := itemList{Items: make([]itemView, 0, len(items))}
	for _, it := range items {
		l.Items = append(l.Items, s.itemView(it, viewer))
	}
	return l
}

func (l itemList) renderText(w io.Writer) {
	if len(l.Items) == 0 {
		fmt.Fprintln(w, "No items.")
		return
	}
	for _, v := range l.Items {
		v.renderText(w)
	}
}

type habitView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Streak    int    `json:"streak"`
	DoneToday bool   `json:"done_today"`
}

func newHabitView(h tracker.HabitStatus) habitView {
	return habitView{ID: h.Item.ID, Title: h.Item.Title, Streak: h.Streak, DoneToday: h.DoneToday}
}

func (v habitView) renderText(w io.Writer) {
	mark := " "
	if v.DoneToday {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s]  %s  (streak %s)\n", v.ID, mark, v.Title, days(v.Streak))
}

type habitList struct {
	Habits []habitView `json:"habits"`
}

func (l habitList) renderText(w io.Writer) {
	if len(l.Habits) == 0 {
		fmt.Fprintln(w, "No habits.")
		return
	}
	for _, v := range l.Habits {
		v.renderText(w)
	}
}

type streakView struct {
	TaskStreak int         `json:"task_streak"`
	Habits     []habitView `json:"habits"`
}

func (v streakView) renderText(w io.Writer) {
	fmt.Fprintf(w, "Task streak: %s\n", days(v.TaskStreak))
	for _, h := range v.Habits {
		h.renderText(w)
	}
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

type classroomView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Code     string `json:"code"`
	Day      string `json:"day,omitempty"`
	Time     string `json:"time,omitempty"`
	Room     string `json:"room,omitempty"`
	Students int    `json:"students"`
}

func newClassroomView(c models.Classroom) classroomView {
	return classroomView{
		ID:       c.ID,
		Name:     c.Name,
		Subject:  c.Subject,
		Code:     c.Code,
		Day:      c.Day,
		Time:     c.Time,
		Room:     c.Room,
		Students: len(c.StudentIDs),
	}
}

func (v classroomView) renderText(w io.Writer) {
	fmt.Fprintf(w, "%4d  %s  %s (%s), %s\n", v.ID, v.Code, v.Name, v.Subject, english.Plural(v.Students, "student", ""))
}

type classroomList struct {
	Classrooms []classroomView `json:"classrooms"`
}

func (l classroomList) renderText(w io.Writer) {
	if len(l.Classrooms) == 0 {
		fmt.Fprintln(w, "No classrooms.")
		return
	}
	for _, v := range l.Classrooms {
		v.renderText(w)
	}
}

type userView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (v userView) renderText(w io.Writer) {
	fmt.Fprintf(w, "%4d  %-8s %s\n", v.ID, v.Role, v.Name)
}

type userList struct {
	Users []userView `json:"users"`
}

func (l userList) renderText(w io.Writer) {
	for _, v := range l.Users {
		v.renderText(w)
	}
}

type subjectView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (v subjectView) renderText(w io.Writer) {
	fmt.Fprintf(w, "%4d  %s  %s\n", v.ID, v.Color, v.Name)
}

type subjectList struct {
	Subjects []subjectView `json:"subjects"`
}

func (l subjectList) renderText(w io.Writer) {
	if len(l.Subjects) == 0 {
		fmt.Fprintln(w, "No subjects.")
		return
	}
	for _, v := range l.Subjects {
		v.renderText(w)
	}
}

type commentView struct {
	ID      int64  `json:"id"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

func (v commentView) renderText(w io.Writer) {
	fmt.Fprintf(w, "#%d %s: %s\n", v.ID, v.Author, v.Content)
}

type commentList struct {
	Comments []commentView `json:"comments"`
}

func (l commentList) renderText(w io.Writer) {
	if len(l.Comments) == 0 {
		fmt.Fprintln(w, "No comments.")
		return
	}
	for _, v := range l.Comments {
		v.renderText(w)
	}
}

// result acknowledges a mutation that has nothing else to show.
type result struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

func (r result) renderText(w io.Writer) {
	fmt.Fprintln(w, r.Message)
}
