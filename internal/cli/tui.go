package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/todos"
	"github.com/idilsaglam/todo/internal/ui"
)

// todoItem adapts a todo to bubbles/list.Item
type todoItem struct {
	model.Todo
}

func (i todoItem) TitleText() string {
	box := ui.Current().BoxUnchecked
	if i.Done {
		box = ui.Current().BoxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Todo.Title)
}

// Implement list.Item interface
func (i todoItem) Title() string       { return i.TitleText() }
func (i todoItem) Description() string { return "" }
func (i todoItem) FilterValue() string { return i.Todo.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(todoItem)
	t := ui.Current()
	box, text := t.Muted.Render(t.BoxUnchecked), it.Todo.Title
	if it.Done {
		box, text = t.Success.Render(t.BoxChecked), t.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputRename
)

// browser works on the store directly; every key press that changes
// something goes through a store operation and the view is rebuilt from
// the store's sorted todos.
type browser struct {
	store  *todos.Store
	listID int

	list     list.Model
	ti       textinput.Model
	mode     inputMode
	inputErr string

	width, height int
}

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind  = key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle"))
	deleteBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	allDoneBind = key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "all done"))
	renameBind  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename list"))
)

func newBrowser(st *todos.Store, listID int) browser {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	extra := func() []key.Binding {
		return []key.Binding{toggleBind, addBind, deleteBind, allDoneBind, renameBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	b := browser{store: st, listID: listID, list: l, ti: ti, width: 80, height: 24}
	b.list.SetSize(b.width-2, b.height-4)
	b.refresh(0)
	return b
}

// refresh reloads the list from the store and keeps the cursor on the todo
// with selectID, or near the previous position when it is gone.
func (b *browser) refresh(selectID int) {
	tl, ok := b.store.LoadTodoList(b.listID)
	if !ok {
		return
	}
	prev := b.list.Index()
	sorted := b.store.SortedTodos(tl)
	items := make([]list.Item, len(sorted))
	sel := -1
	for i, td := range sorted {
		items[i] = todoItem{td}
		if td.ID == selectID {
			sel = i
		}
	}
	b.list.SetItems(items)
	if sel < 0 {
		sel = min(prev, len(items)-1)
	}
	if sel >= 0 {
		b.list.Select(sel)
	}

	done, pending := tl.Counts()
	t := ui.Current()
	b.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		tl.Title,
		t.SymDone, done,
		t.SymPending, pending,
		"Total", len(tl.Todos),
	)
}

func (b browser) selected() (todoItem, bool) {
	it, ok := b.list.SelectedItem().(todoItem)
	return it, ok
}

func (b browser) Init() tea.Cmd { return nil }

func (b browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		b.width, b.height = size.Width, size.Height
		b.resize()
		return b, nil
	}
	if b.mode != inputNone {
		return b.updateInput(msg)
	}

	k, isKey := msg.(tea.KeyMsg)
	if !isKey || b.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		b.list, cmd = b.list.Update(msg)
		return b, cmd
	}

	switch k.String() {
	case "q", "esc", "ctrl+c":
		return b, tea.Quit
	case " ", "space":
		if it, ok := b.selected(); ok {
			if it.Done {
				b.store.MarkUndoneTodo(b.listID, it.ID)
			} else {
				b.store.MarkDoneTodo(b.listID, it.ID)
			}
			b.refresh(it.ID)
		}
		return b, nil
	case "d":
		if it, ok := b.selected(); ok {
			if err := b.store.RemoveTodoAt(b.listID, it.ID); err == nil {
				b.refresh(0)
			}
		}
		return b, nil
	case "A":
		if err := b.store.MarkAllDone(b.listID); err == nil {
			it, _ := b.selected()
			b.refresh(it.ID)
		}
		return b, nil
	case "a":
		return b.startInput(inputAdd, "", "New todo title..."), nil
	case "r":
		tl, _ := b.store.LoadTodoList(b.listID)
		return b.startInput(inputRename, tl.Title, "List title..."), nil
	}
	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

func (b browser) startInput(mode inputMode, value, placeholder string) browser {
	b.mode = mode
	b.inputErr = ""
	b.ti.SetValue(value)
	b.ti.CursorEnd()
	b.ti.Placeholder = placeholder
	b.ti.Focus()
	b.resize()
	return b
}

func (b browser) stopInput() browser {
	b.mode = inputNone
	b.inputErr = ""
	b.ti.SetValue("")
	b.ti.Blur()
	b.resize()
	return b
}

func (b browser) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			title := strings.TrimSpace(b.ti.Value())
			if title == "" {
				b.inputErr = "Title cannot be empty"
				return b, nil
			}
			switch b.mode {
			case inputAdd:
				id, err := b.store.AddTodo(b.listID, title)
				if err != nil {
					b.inputErr = err.Error()
					return b, nil
				}
				b = b.stopInput()
				b.refresh(id)
			case inputRename:
				if err := b.store.ChangeListTitle(b.listID, title); err != nil {
					b.inputErr = err.Error()
					return b, nil
				}
				b = b.stopInput()
				it, _ := b.selected()
				b.refresh(it.ID)
			}
			return b, nil
		case "esc":
			return b.stopInput(), nil
		}
	}
	var cmd tea.Cmd
	b.ti, cmd = b.ti.Update(msg)
	return b, cmd
}

func (b *browser) resize() {
	h := b.height - 4
	if b.mode != inputNone {
		h = b.height - 6
	}
	b.list.SetSize(max(b.width-2, 10), max(h, 3))
}

func (b browser) View() string {
	content := b.list.View()
	if b.mode != inputNone {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ui.Current().BorderColor).Padding(0, 1)
		title := "Add new todo"
		if b.mode == inputRename {
			title = "Rename list"
		}
		if b.inputErr != "" {
			title += ": " + ui.Current().Error.Render(b.inputErr)
		}
		content += "\n" + bar.Render(title+"\n"+b.ti.View())
	}
	return ui.PanelString(content)
}

// runBrowser starts the Bubble Tea list for one todo list. Changes go
// straight to the store; the caller saves the session afterwards.
func runBrowser(st *todos.Store, listID int) error {
	p := tea.NewProgram(newBrowser(st, listID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
