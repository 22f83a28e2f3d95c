package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/task-cli/internal/core"
	"github.com/valter-silva-au/task-cli/pkg/models"
)

type browseModel struct {
	mgr    core.TaskManager
	tasks  []models.TaskRecord
	cursor int

	loading bool
	status  string
	err     error
}

// tasksLoadedMsg carries the sorted pending list back to the model.
type tasksLoadedMsg struct {
	tasks []models.TaskRecord
	err   error
}

// taskCompletedMsg reports the outcome of marking the selected task done.
type taskCompletedMsg struct {
	task *models.TaskRecord
	err  error
}

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	priorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newBrowseModel(mgr core.TaskManager) browseModel {
	return browseModel{mgr: mgr, loading: true}
}

func (m browseModel) Init() tea.Cmd {
	return loadTasks(m.mgr)
}

func loadTasks(mgr core.TaskManager) tea.Cmd {
	return func() tea.Msg {
		tasks, err := mgr.ListTasks()
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// completeTask marks the task at the 1-based index of the sorted view done.
func completeTask(mgr core.TaskManager, index int) tea.Cmd {
	return func() tea.Msg {
		rec, err := mgr.CompleteTask(index)
		return taskCompletedMsg{task: rec, err: err}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
			return m, nil
		case "enter", "d":
			if m.loading || len(m.tasks) == 0 {
				return m, nil
			}
			m.loading = true
			return m, completeTask(m.mgr, m.cursor+1)
		case "r":
			m.loading = true
			m.status = ""
			return m, loadTasks(m.mgr)
		}

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(len(m.tasks)-1, 0)
		}
		return m, nil

	case taskCompletedMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Marked item as done: %s", msg.task.Text)
		return m, loadTasks(m.mgr)
	}

	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(browseTitleStyle.Render(" Pending tasks "))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("  Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.loading && m.tasks == nil:
		b.WriteString("  Loading...\n")
	case len(m.tasks) == 0:
		b.WriteString("  There are no pending tasks!\n")
	default:
		for i, t := range m.tasks {
			line := fmt.Sprintf("%d. %s %s", i+1, t.Text, priorityStyle.Render(fmt.Sprintf("[%d]", t.Priority)))
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("  " + m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("up/k down/j: move | enter/d: done | r: reload | q: quit"))
	return b.String()
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively browse pending tasks and mark them done",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTaskManager(); err != nil {
			return err
		}
		p := tea.NewProgram(newBrowseModel(TaskMgr), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
