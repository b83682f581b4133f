package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/tgienger/studyhub/internal/day"
	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
	"github.com/tgienger/studyhub/internal/ui/keys"
	"github.com/tgienger/studyhub/internal/ui/styles"
)

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusBackButton FocusArea = iota
	FocusSearchInput
	FocusSubjectDropdown
	FocusItemList
)

// Edit form fields, in tab order
const (
	fieldTitle = iota
	fieldDesc
	fieldDue
	fieldPriority
	fieldSave
	fieldCount
)

// ItemListView shows either the actor's whole workload or one classroom's
// assignments
type ItemListView struct {
	svc         *tracker.Service
	actor       models.Actor
	clock       func() time.Time
	classroomID int64 // 0 = workload
	classroom   *models.Classroom
	items       []models.Item
	subjects    []models.Subject
	streak      int
	styles      *styles.Styles
	keys        keys.KeyMap
	err         error

	width  int
	height int

	// List state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	filter      engine.Filter
	sort        engine.Sort

	// Subject dropdown state
	subjectDropdownOpen bool
	subjectCursor       int

	// Item creation/editing
	editing      bool
	editingNew   bool
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDue      textinput.Model
	editPriority textinput.Model
	editFocusIdx int

	// Detail view
	viewing             bool
	comments            []models.Comment
	names               map[int64]string // comment authors and completers
	commentInput        textarea.Model
	commentInputFocused bool

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	showHelpPopup bool
}

// NewItemListView creates the workload view, or a classroom's assignment
// view when classroomID is set
func NewItemListView(svc *tracker.Service, actor models.Actor, clock func() time.Time, classroomID int64) *ItemListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 10

	editPriority := textinput.New()
	editPriority.Placeholder = "low/medium/high"
	editPriority.CharLimit = 6

	commentInput := textarea.New()
	commentInput.Placeholder = "Add a comment..."
	commentInput.CharLimit = 2000
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	return &ItemListView{
		svc:          svc,
		actor:        actor,
		clock:        clock,
		classroomID:  classroomID,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		focus:        FocusItemList,
		searchInput:  search,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editDue:      editDue,
		editPriority: editPriority,
		commentInput: commentInput,
		names:        map[int64]string{},
	}
}

// Init initializes the view
func (v *ItemListView) Init() tea.Cmd {
	return v.loadItems
}

type itemsLoadedMsg struct {
	items     []models.Item
	subjects  []models.Subject
	classroom *models.Classroom
	streak    int
}

func (v *ItemListView) loadItems() tea.Msg {
	now := v.clock()
	f := v.filter
	f.Search = strings.TrimSpace(v.searchInput.Value())

	var msg itemsLoadedMsg
	var err error
	if v.classroomID != 0 {
		if msg.classroom, err = v.svc.Classroom(v.actor, v.classroomID); err != nil {
			return errMsg{err}
		}
		msg.items, err = v.svc.ClassroomView(v.actor, v.classroomID, now, f, v.sort)
	} else {
		if msg.subjects, err = v.svc.Subjects(v.actor); err != nil {
			return errMsg{err}
		}
		if msg.streak, err = v.svc.TaskStreak(v.actor, now); err != nil {
			return errMsg{err}
		}
		msg.items, err = v.svc.ListView(v.actor, now, f, v.sort)
	}
	if err != nil {
		return errMsg{err}
	}
	return msg
}

type commentsLoadedMsg struct {
	comments []models.Comment
	names    map[int64]string
}

func (v *ItemListView) loadComments() tea.Msg {
	it := v.selected()
	if it == nil {
		return nil
	}
	comments, err := v.svc.Comments(v.actor, it.ID)
	if err != nil {
		return errMsg{err}
	}
	ids := engine.Completers(*it)
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	names := map[int64]string{}
	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		if u, err := v.svc.User(id); err == nil {
			names[id] = u.Name
		}
	}
	return commentsLoadedMsg{comments: comments, names: names}
}

func (v *ItemListView) selected() *models.Item {
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return nil
	}
	return &v.items[v.cursor]
}

// Update handles messages
func (v *ItemListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.commentInput.SetWidth(inputWidth)
		return v, nil

	case itemsLoadedMsg:
		v.items = msg.items
		v.subjects = msg.subjects
		v.classroom = msg.classroom
		v.streak = msg.streak
		if v.cursor >= len(v.items) {
			v.cursor = max(0, len(v.items)-1)
		}
		if v.viewing && v.selected() == nil {
			v.viewing = false
		}
		return v, nil

	case commentsLoadedMsg:
		v.comments = msg.comments
		for id, name := range msg.names {
			v.names[id] = name
		}
		return v, nil

	case errMsg:
		v.err = msg.err
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewing {
			return v.updateViewing(msg)
		}

		if v.subjectDropdownOpen {
			return v.updateSubjectDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *ItemListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't process hotkeys while typing a search
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusItemList
			return v, v.loadItems
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, tea.Batch(cmd, v.loadItems)
		}
	}

	v.err = nil
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, backHome

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusItemList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusItemList && v.cursor < len(v.items)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusBackButton:
			return v, backHome
		case FocusSubjectDropdown:
			v.openSubjectDropdown()
			return v, nil
		case FocusItemList:
			if v.selected() != nil {
				v.viewing = true
				v.comments = nil
				return v, v.loadComments
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if v.focus == FocusItemList {
			return v, v.toggleSelected()
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if it := v.selected(); it != nil && v.focus == FocusItemList {
			v.startEdit(*it)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNew()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if it := v.selected(); it != nil && v.focus == FocusItemList {
			v.confirmingDelete = true
			v.deleteTargetID = it.ID
			v.deleteTargetName = it.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Subject):
		if v.classroomID == 0 {
			v.focus = FocusSubjectDropdown
			v.openSubjectDropdown()
		}
		return v, nil

	case key.Matches(msg, v.keys.Status):
		v.filter.Status = v.filter.Status.Next()
		return v, v.reload()

	case key.Matches(msg, v.keys.Priority):
		v.filter.Priority = nextPriorityFilter(v.filter.Priority)
		return v, v.reload()

	case key.Matches(msg, v.keys.SortPriority):
		v.sort.Priority = v.sort.Priority.Next()
		return v, v.reload()

	case key.Matches(msg, v.keys.SortDue):
		v.sort.Due = v.sort.Due.Next()
		return v, v.reload()

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

// nextPriorityFilter cycles all → low → medium → high → all
func nextPriorityFilter(p models.Priority) models.Priority {
	if p >= models.PriorityHigh {
		return 0
	}
	return p + 1
}

func (v *ItemListView) reload() tea.Cmd {
	v.cursor = 0
	v.scrollY = 0
	return v.loadItems
}

// toggleSelected flips the selected task, or the actor's own completion of
// the selected assignment
func (v *ItemListView) toggleSelected() tea.Cmd {
	it := v.selected()
	if it == nil {
		return nil
	}

	var err error
	switch it.Kind {
	case models.KindTask:
		_, err = v.svc.ToggleTask(v.actor, it.ID)
	case models.KindAssignment:
		_, err = v.svc.ToggleAssignment(v.actor, it.ID)
	}
	if err != nil {
		v.err = err
		return nil
	}
	return v.loadItems
}

func (v *ItemListView) openSubjectDropdown() {
	v.subjectDropdownOpen = true
	v.subjectCursor = 0
}

func (v *ItemListView) updateSubjectDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.subjectDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.subjectCursor > 0 {
			v.subjectCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.subjectCursor < len(v.subjects) { // +1 for "All"
			v.subjectCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.subjectCursor == 0 {
			v.filter.SubjectID = nil
		} else {
			id := v.subjects[v.subjectCursor-1].ID
			v.filter.SubjectID = &id
		}
		v.subjectDropdownOpen = false
		v.focus = FocusItemList
		return v, v.reload()
	}

	return v, nil
}

func (v *ItemListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewing = false
		if err := v.svc.DeleteItem(v.actor, v.deleteTargetID); err != nil {
			v.err = err
			return v, nil
		}
		return v, v.loadItems
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ItemListView) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.commentInputFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.commentInputFocused = false
			v.commentInput.Blur()
			return v, nil
		case msg.String() == "ctrl+s":
			return v, v.submitComment()
		}
		var cmd tea.Cmd
		v.commentInput, cmd = v.commentInput.Update(msg)
		return v, cmd
	}

	v.err = nil
	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewing = false
		return v, nil
	case key.Matches(msg, v.keys.Toggle):
		return v, v.toggleSelected()
	case key.Matches(msg, v.keys.Edit):
		if it := v.selected(); it != nil {
			v.viewing = false
			v.startEdit(*it)
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.Delete):
		if it := v.selected(); it != nil {
			v.confirmingDelete = true
			v.deleteTargetID = it.ID
			v.deleteTargetName = it.Title
		}
		return v, nil
	case msg.String() == "c":
		v.commentInputFocused = true
		v.commentInput.Focus()
		return v, textarea.Blink
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *ItemListView) submitComment() tea.Cmd {
	it := v.selected()
	content := strings.TrimSpace(v.commentInput.Value())
	if it == nil || content == "" {
		return nil
	}
	if _, err := v.svc.AddComment(v.actor, it.ID, content); err != nil {
		v.err = err
		return nil
	}
	v.commentInput.Reset()
	v.commentInputFocused = false
	v.commentInput.Blur()
	return v.loadComments
}

func (v *ItemListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.err = nil
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.save()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter) && v.editFocusIdx != fieldDesc:
		if v.editFocusIdx == fieldSave {
			return v, v.save()
		}
		v.editFocusIdx++
		v.updateEditFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	case fieldPriority:
		v.editPriority, cmd = v.editPriority.Update(msg)
	}
	return v, cmd
}

func (v *ItemListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + 4) % 4)
	if v.focus == FocusSubjectDropdown && v.classroomID != 0 {
		v.focus = FocusArea((int(v.focus) + dir + 4) % 4)
	}
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *ItemListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// visibleItems is how many two-line rows fit below the header
func (v *ItemListView) visibleItems() int {
	return max((v.height-12)/2, 1)
}

func (v *ItemListView) startNew() {
	v.editing = true
	v.editingNew = true
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDue.Reset()
	v.editPriority.SetValue("medium")
	v.editFocusIdx = fieldTitle
	v.updateEditFocus()
}

func (v *ItemListView) startEdit(it models.Item) {
	v.editing = true
	v.editingNew = false
	v.editTitle.SetValue(it.Title)
	v.editDesc.SetValue(it.Description)
	v.editDue.Reset()
	if it.DueDate != nil {
		v.editDue.SetValue(v.svc.Engine().Days().Key(*it.DueDate).String())
	}
	v.editPriority.SetValue(strings.ToLower(it.Priority.String()))
	v.editFocusIdx = fieldTitle
	v.updateEditFocus()
}

func (v *ItemListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()
	v.editPriority.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	case fieldDue:
		v.editDue.Focus()
	case fieldPriority:
		v.editPriority.Focus()
	}
}

// formInput reads the edit form. The subject is carried over from the item
// being edited; new items start uncategorized.
func (v *ItemListView) formInput() (tracker.ItemInput, error) {
	in := tracker.ItemInput{
		Title:       strings.TrimSpace(v.editTitle.Value()),
		Description: strings.TrimSpace(v.editDesc.Value()),
	}

	p, err := models.ParsePriority(v.editPriority.Value())
	if err != nil {
		return in, err
	}
	in.Priority = p

	if due := strings.TrimSpace(v.editDue.Value()); due != "" {
		t, err := v.svc.Engine().Days().ParseDate(due)
		if err != nil {
			return in, err
		}
		in.DueDate = &t
	}

	if it := v.selected(); !v.editingNew && it != nil {
		in.SubjectID = it.SubjectID
	}
	return in, nil
}

func (v *ItemListView) save() tea.Cmd {
	in, err := v.formInput()
	if err != nil {
		v.err = err
		return nil
	}

	switch {
	case !v.editingNew:
		if it := v.selected(); it != nil {
			_, err = v.svc.UpdateItem(v.actor, it.ID, in)
		}
	case v.classroomID != 0:
		_, err = v.svc.CreateAssignment(v.actor, v.classroomID, in)
	default:
		_, err = v.svc.CreateTask(v.actor, in)
	}
	if err != nil {
		v.err = err
		return nil
	}

	v.err = nil
	v.editing = false
	return v.loadItems
}

// View renders the view
func (v *ItemListView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, v.helpEntries(true), v.width, v.height)
	}

	if v.confirmingDelete {
		return renderConfirm(v.styles, "Delete?", v.deleteTargetName, v.width, v.height)
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.viewing {
		return v.renderDetail()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderList())
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(renderError(v.styles, v.err))
		b.WriteString("\n")
	}
	b.WriteString(renderHelpBar(v.styles, v.helpEntries(false), v.width))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *ItemListView) title() string {
	if v.classroom != nil {
		return v.classroom.Name
	}
	if v.classroomID != 0 {
		return "Class"
	}
	return "Tasks"
}

func (v *ItemListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 30)).Render(v.searchInput.View())

	controls := []string{searchBox}
	if v.classroomID == 0 {
		subjStyle := s.Button
		if v.focus == FocusSubjectDropdown {
			subjStyle = s.ButtonFocused
		}
		label := "All"
		for _, sub := range v.subjects {
			if v.filter.SubjectID != nil && sub.ID == *v.filter.SubjectID {
				label = sub.Name
			}
		}
		if !isNarrow {
			label = "Subject: " + label
		}
		controls = append(controls, subjStyle.Render(label+" ▼"))
	}

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, controls...)
	} else {
		backStyle := s.Button
		if v.focus == FocusBackButton {
			backStyle = s.ButtonFocused
		}
		row := []string{backStyle.Render("← Home")}
		for _, c := range controls {
			row = append(row, "  ", c)
		}
		header = lipgloss.JoinHorizontal(lipgloss.Center, row...)
	}

	title := s.Title.Render(v.title())
	switch {
	case v.classroom != nil && v.actor.Role == models.RoleTeacher:
		title += s.TitleMuted.Render(fmt.Sprintf("  code %s • %s",
			v.classroom.Code, english.Plural(len(v.classroom.StudentIDs), "student", "")))
	case v.classroomID == 0:
		title += "  " + s.Streak.Render(fmt.Sprintf("🔥 %s", english.Plural(v.streak, "day", "")))
	}

	dropdown := ""
	if v.subjectDropdownOpen {
		dropdown = "\n" + v.renderSubjectDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header+dropdown, v.renderFilterLine())
}

// renderFilterLine summarizes the active status, priority and sort settings
func (v *ItemListView) renderFilterLine() string {
	priority := "all"
	if v.filter.Priority != 0 {
		priority = strings.ToLower(v.filter.Priority.String())
	}
	return v.styles.TitleMuted.Render(fmt.Sprintf("status: %s • priority: %s • sort priority: %s • sort due: %s",
		v.filter.Status, priority, v.sort.Priority, v.sort.Due))
}

func (v *ItemListView) renderSubjectDropdown() string {
	s := v.styles

	allStyle := s.ListItem
	if v.subjectCursor == 0 {
		allStyle = s.ListSelected
	}
	rows := []string{allStyle.Render("All")}

	for i, sub := range v.subjects {
		itemStyle := s.ListItem
		if v.subjectCursor == i+1 {
			itemStyle = s.ListSelected
		}
		rows = append(rows, itemStyle.Render(styles.SubjectColor(sub.Color).Render("●")+" "+sub.Name))
	}

	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (v *ItemListView) renderList() string {
	s := v.styles

	if len(v.items) == 0 {
		return s.TitleMuted.Render("Nothing here. Press 'n' to add something.")
	}

	now := v.clock()
	endIdx := min(v.scrollY+v.visibleItems(), len(v.items))

	var rows []string
	for i := v.scrollY; i < endIdx; i++ {
		rows = append(rows, v.renderItem(v.items[i], now, i == v.cursor && v.focus == FocusItemList))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *ItemListView) renderItem(it models.Item, now time.Time, selected bool) string {
	s := v.styles
	eng := v.svc.Engine()
	status := eng.Classify(it, v.actor.ID, now)
	width := clamp(styles.ContentWidth(v.width)-4, 20, 76)

	check := "[ ]"
	titleStyle := s.ItemTitle
	if status == engine.StatusCompleted {
		check = "[x]"
		titleStyle = s.ItemDone
	}

	line := check + " " + titleStyle.Render(it.Title)
	if it.Subject != nil {
		line += s.Subject.Render(styles.SubjectColor(it.Subject.Color).Render("#" + it.Subject.Name))
	}

	meta := []string{
		s.ForStatus(status).Render(status.String()),
		s.ForPriority(it.Priority).Render(strings.ToLower(it.Priority.String())),
	}
	if it.DueDate != nil {
		meta = append(meta, "due "+dueLabel(eng.Days(), *it.DueDate, now))
	}
	if it.Assignment != nil {
		switch {
		case v.actor.Role == models.RoleTeacher && v.classroom != nil:
			meta = append(meta, fmt.Sprintf("%d/%d done", engine.CompletionCount(it), len(v.classroom.StudentIDs)))
		case v.actor.Role == models.RoleTeacher:
			meta = append(meta, fmt.Sprintf("%d done", engine.CompletionCount(it)))
		case v.classroomID == 0:
			meta = append(meta, "class")
		}
	}

	rowStyle := s.ListItem
	if selected {
		rowStyle = s.ListSelected
	}
	return rowStyle.Width(width).Render(line + "\n    " + s.TitleMuted.Render(strings.Join(meta, " • ")))
}

// dueLabel renders a due date relative to today in whole days
func dueLabel(days day.Normalizer, due, now time.Time) string {
	k, today := days.Key(due), days.Today(now)
	if k == today {
		return "today"
	}
	return humanize.RelTime(k.Start(time.UTC), today.Start(time.UTC), "ago", "from now")
}

func (v *ItemListView) helpEntries(full bool) []helpEntry {
	entries := []helpEntry{
		{"↵", "view"},
		{"space", "done"},
		{"n", "new"},
		{"e", "edit"},
		{"d", "del"},
		{"/", "search"},
		{"s", "status"},
	}
	if !full {
		return append(entries, helpEntry{"?", "more"}, helpEntry{"esc", "back"})
	}
	entries = append(entries, helpEntry{"p", "priority filter"})
	if v.classroomID == 0 {
		entries = append(entries, helpEntry{"f", "subject filter"})
	}
	return append(entries,
		helpEntry{"P", "sort by priority"},
		helpEntry{"D", "sort by due date"},
		helpEntry{"esc", "back"},
		helpEntry{"q", "quit"},
	)
}

func (v *ItemListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 20, 50)

	inputStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	heading := "Edit"
	switch {
	case v.editingNew && v.classroomID != 0:
		heading = "New Assignment"
	case v.editingNew:
		heading = "New Task"
	}

	rows := []string{
		s.Title.Render(heading),
		"",
		"Title:",
		inputStyle(fieldTitle).Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		inputStyle(fieldDesc).Render(v.editDesc.View()),
		"",
		"Due:",
		inputStyle(fieldDue).Width(14).Render(v.editDue.View()),
		"",
		"Priority:",
		inputStyle(fieldPriority).Width(14).Render(v.editPriority.View()),
		"",
		btnStyle.Render(" Save "),
	}
	if v.err != nil {
		rows = append(rows, "", renderError(s, v.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ItemListView) renderDetail() string {
	it := v.selected()
	if it == nil {
		return ""
	}

	s := v.styles
	now := v.clock()
	eng := v.svc.Engine()
	status := eng.Classify(*it, v.actor.ID, now)
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	label := s.TitleMuted

	desc := it.Description
	if desc == "" {
		desc = s.TitleMuted.Render("No description")
	}

	due := "None"
	if it.DueDate != nil {
		due = eng.Days().Key(*it.DueDate).String() + " (" + dueLabel(eng.Days(), *it.DueDate, now) + ")"
	}

	subject := "None"
	if it.Subject != nil {
		subject = styles.SubjectColor(it.Subject.Color).Render(it.Subject.Name)
	}

	rows := []string{
		s.Title.MarginBottom(1).Render(it.Title),
		label.Render("Status"),
		s.ForStatus(status).Render(status.String()),
		"",
		label.Render("Priority"),
		s.ForPriority(it.Priority).Render(it.Priority.String()),
		"",
		label.Render("Due"),
		due,
		"",
		label.Render("Subject"),
		subject,
	}
	if it.Assignment != nil {
		rows = append(rows, "", label.Render("Completed by"), v.completedBy(*it))
	}
	rows = append(rows, "",
		label.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(desc),
		"",
		label.Render("Comments"),
		v.renderComments(textWidth),
		"",
	)

	commentStyle := s.Input
	if v.commentInputFocused {
		commentStyle = s.InputFocused
	}
	rows = append(rows, commentStyle.Render(v.commentInput.View()), "")
	if v.err != nil {
		rows = append(rows, renderError(s, v.err), "")
	}

	if v.commentInputFocused {
		rows = append(rows, renderHelpBar(s, []helpEntry{{"ctrl+s", "submit"}, {"esc", "cancel"}}, v.width))
	} else {
		rows = append(rows, renderHelpBar(s, []helpEntry{
			{"space", "done"}, {"e", "edit"}, {"d", "delete"}, {"c", "comment"}, {"esc", "back"},
		}, v.width))
	}

	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(padded, v.width, v.height)
}

func (v *ItemListView) renderComments(width int) string {
	s := v.styles
	if len(v.comments) == 0 {
		return s.TitleMuted.Render("No comments yet")
	}

	var lines []string
	for _, c := range v.comments {
		author := v.name(c.AuthorID)
		lines = append(lines, lipgloss.JoinVertical(lipgloss.Left,
			s.TitleMuted.Render(author+" • "+humanize.Time(c.CreatedAt)),
			lipgloss.NewStyle().Width(width).Render(c.Content),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *ItemListView) name(id int64) string {
	if n, ok := v.names[id]; ok {
		return n
	}
	return fmt.Sprintf("user %d", id)
}

// completedBy names who finished an assignment. Students only see the count.
func (v *ItemListView) completedBy(it models.Item) string {
	ids := engine.Completers(it)
	count := english.Plural(len(ids), "student", "")
	if len(ids) == 0 || v.actor.Role != models.RoleTeacher {
		return count
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = v.name(id)
	}
	return count + ": " + strings.Join(names, ", ")
}
