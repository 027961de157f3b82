// Package ui implements the interactive terminal menu.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/todolist/internal/model"
	"github.com/dori/todolist/internal/ui/theme"
)

type menuItem struct {
	label  string
	action func(m RootModel) (RootModel, tea.Cmd)
}

// RootModel is the main application model that manages screens
type RootModel struct {
	backend backend
	keys    KeyMap
	help    help.Model
	width   int
	height  int

	cursorMode cursor.Mode

	screen Screen
	// parent is the menu to return to from a form, confirmation or result
	parent Screen
	cursor int

	form    *form
	confirm *ConfirmMsg
	result  ResultMsg

	statusMsg string
}

// NewRootModel creates a new root model
func NewRootModel(projects Projects, tasks Tasks, sweeper Sweeper) RootModel {
	h := help.New()
	h.ShowAll = false

	return RootModel{
		backend: backend{
			projects: projects,
			tasks:    tasks,
			sweeper:  sweeper,
			now:      func() time.Time { return time.Now().UTC() },
		},
		keys:       DefaultKeyMap(),
		help:       h,
		screen:     ScreenMain,
		cursorMode: cursor.CursorBlink,
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return nil
}

// Screen returns the screen currently shown
func (m RootModel) Screen() Screen {
	return m.screen
}

func (m RootModel) menuItems() []menuItem {
	switch m.screen {
	case ScreenMain:
		return []menuItem{
			{"Projects", func(m RootModel) (RootModel, tea.Cmd) { return m.enter(ScreenProjects), nil }},
			{"Tasks", func(m RootModel) (RootModel, tea.Cmd) { return m.enter(ScreenTasks), nil }},
			{"Quit", func(m RootModel) (RootModel, tea.Cmd) { return m, tea.Quit }},
		}
	case ScreenProjects:
		b := m.backend
		return []menuItem{
			{"Create project", func(m RootModel) (RootModel, tea.Cmd) {
				return m.openForm("Create project", []field{
					{label: "Name", limit: model.MaxNameLength},
					{label: "Description", placeholder: "optional", limit: model.MaxDescriptionLength},
				}, b.createProject)
			}},
			{"List projects", func(m RootModel) (RootModel, tea.Cmd) { return m, b.listProjects() }},
			{"Edit project", func(m RootModel) (RootModel, tea.Cmd) {
				return m.openForm("Edit project", []field{
					{label: "Project ID"},
					{label: "New name", placeholder: "blank keeps current", limit: model.MaxNameLength},
					{label: "New description", placeholder: "blank keeps current", limit: model.MaxDescriptionLength},
				}, b.editProject)
			}},
			{"Delete project", func(m RootModel) (RootModel, tea.Cmd) {
				return m.openForm("Delete project", []field{{label: "Project ID"}}, b.confirmDeleteProject)
			}},
			{"Back", func(m RootModel) (RootModel, tea.Cmd) { return m.enter(ScreenMain), nil }},
		}
	case ScreenTasks:
		b := m.backend
		return []menuItem{
			{"Create task", func(m RootModel) (RootModel, tea.Cmd) {
				return m.openForm("Create task", []field{
					{label: "Project ID"},
					{label: "Title", limit: model.MaxTitleLength},
					{label: "Description", placeholder: "optional", limit: model.MaxDescriptionLength},
					{label: "Status", placeholder: "1=todo 2=doing 3=done, blank for todo"},
					{label: "Deadline", placeholder: "YYYY-MM-DD, optional"},
				}, b.createTask)
			}},
			{"List tasks of a project", func(m RootModel) (RootModel, tea.Cmd) {
				return m.openForm("List tasks", []field{{label: "Project ID"}}, b.listTasks)
			}},
			{"Edit task", func(m RootModel) (RootModel, tea.Cmd) {
				return m.openForm("Edit task", []field{
					{label: "Task ID"},
					{label: "New title", placeholder: "blank keeps current", limit: model.MaxTitleLength},
					{label: "New description", placeholder: "blank keeps current", limit: model.MaxDescriptionLength},
					{label: "New deadline", placeholder: "YYYY-MM-DD, blank keeps current"},
				}, b.editTask)
			}},
			{"Change task status", func(m RootModel) (RootModel, tea.Cmd) {
				return m.openForm("Change task status", []field{
					{label: "Task ID"},
					{label: "Status", placeholder: "1=todo 2=doing 3=done"},
				}, b.changeStatus)
			}},
			{"Delete task", func(m RootModel) (RootModel, tea.Cmd) {
				return m.openForm("Delete task", []field{{label: "Task ID"}}, b.confirmDeleteTask)
			}},
			{"Close overdue tasks", func(m RootModel) (RootModel, tea.Cmd) { return m, b.closeOverdue() }},
			{"Back", func(m RootModel) (RootModel, tea.Cmd) { return m.enter(ScreenMain), nil }},
		}
	default:
		return nil
	}
}

func (m RootModel) enter(s Screen) RootModel {
	m.screen = s
	m.parent = s
	m.cursor = 0
	m.form = nil
	m.confirm = nil
	return m
}

func (m RootModel) openForm(title string, fields []field, submit func([]string) tea.Cmd) (RootModel, tea.Cmd) {
	f, cmd := newForm(title, fields, m.cursorMode, submit)
	m.form = f
	m.screen = ScreenForm
	return m, cmd
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ResultMsg:
		m.result = msg
		m.form = nil
		m.confirm = nil
		m.screen = ScreenOutput
		return m, nil

	case ConfirmMsg:
		m.confirm = &msg
		m.form = nil
		m.screen = ScreenConfirm
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""

		// ctrl+c always quits; q is text inside a form
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.ThemeCycle) {
			next := theme.Next()
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return m, nil
		}

		switch m.screen {
		case ScreenForm:
			return m.updateForm(msg)
		case ScreenConfirm:
			return m.updateConfirm(msg)
		case ScreenOutput:
			return m.enter(m.parent), nil
		default:
			return m.updateMenu(msg)
		}
	}

	// Cursor blink and other input messages
	if m.screen == ScreenForm && m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m RootModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.menuItems()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.screen != ScreenMain {
			return m.enter(ScreenMain), nil
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return items[m.cursor].action(m)
	}

	// Numeric shortcut, 1-based like the printed menu
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		idx := int(s[0] - '1')
		if idx < len(items) {
			m.cursor = idx
			return items[idx].action(m)
		}
	}
	return m, nil
}

func (m RootModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.enter(m.parent), nil
	case msg.Type == tea.KeyEnter:
		if f.last() {
			return m, f.submit(f.values())
		}
		return m, f.move(1)
	case key.Matches(msg, m.keys.NextField):
		return m, f.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.move(-1)
	}
	return m, f.update(msg)
}

func (m RootModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		action := m.confirm.Action
		m.confirm = nil
		return m, action
	case key.Matches(msg, m.keys.No):
		m.confirm = nil
		m.result = ResultMsg{Title: "Cancelled", Lines: []string{"Nothing was deleted."}}
		m.screen = ScreenOutput
		return m, nil
	}
	return m, nil
}

// View renders the UI
func (m RootModel) View() string {
	styles := theme.Current.Styles

	var content string
	switch m.screen {
	case ScreenForm:
		content = styles.Title.Render(m.form.title) + "\n" + m.form.view()
	case ScreenConfirm:
		content = styles.Warning.Render(m.confirm.Prompt) + "\n\n" +
			styles.HelpKey.Render("y") + styles.HelpDesc.Render(" yes  ") +
			styles.HelpKey.Render("n") + styles.HelpDesc.Render(" no")
	case ScreenOutput:
		content = m.renderResult()
	default:
		content = m.renderMenu()
	}

	sections := []string{m.renderHeader(), content}
	if m.statusMsg != "" {
		sections = append(sections, styles.Info.Render(m.statusMsg))
	}
	sections = append(sections, m.help.View(m.keys))
	return strings.Join(sections, "\n")
}

func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles

	title := styles.Header.Render("todolist")
	crumb := styles.Breadcrumb.Render(fmt.Sprintf("[%s]", m.parent))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, crumb)
}

func (m RootModel) renderMenu() string {
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.Title.Render(m.screen.String() + " menu"))
	b.WriteString("\n")
	for i, item := range m.menuItems() {
		label := fmt.Sprintf("%d. %s", i+1, item.label)
		if i == m.cursor {
			b.WriteString(styles.ItemSelected.Render("> " + label))
		} else {
			b.WriteString(styles.Item.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m RootModel) renderResult() string {
	styles := theme.Current.Styles

	var b strings.Builder
	if m.result.Err != nil {
		b.WriteString(styles.Error.Render(describeError(m.result.Err)))
	} else {
		b.WriteString(styles.Title.Render(m.result.Title))
		b.WriteString("\n")
		b.WriteString(strings.Join(m.result.Lines, "\n"))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.HelpDesc.Render("press any key to continue"))
	return b.String()
}
