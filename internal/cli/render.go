package cli

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/todo/internal/db"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/todos"
	"github.com/idilsaglam/todo/internal/ui"
)

const maxTitle = 80

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxTitle {
		return string(r[:maxTitle-3]) + "..."
	}
	return s
}

func header(title string, done, pending int) []string {
	t := ui.Current()
	return []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			t.Title.Render(title),
			t.Success.Render(t.SymDone), done,
			t.Pending.Render(t.SymPending), pending,
			t.Accent.Render("Total"), done+pending,
		),
		t.Muted.Render(ui.ProgressBar(done, done+pending, 28)),
		"",
	}
}

func listLine(st *todos.Store, l model.TodoList) string {
	t := ui.Current()
	box, style := t.BoxUnchecked, t.Muted
	if st.IsDoneTodoList(l) {
		box, style = t.BoxChecked, t.Success
	}
	done, pending := l.Counts()
	return fmt.Sprintf("%s %s %s %s",
		t.Muted.Render(fmt.Sprintf("%3d.", l.ID)),
		style.Render(box),
		truncate(l.Title),
		t.Muted.Render(fmt.Sprintf("(%d/%d)", done, done+pending)))
}

func todoLine(td model.Todo) string {
	t := ui.Current()
	box, style, title := t.BoxUnchecked, t.Muted, truncate(td.Title)
	if td.Done {
		box, style, title = t.BoxChecked, t.Success, t.Done.Render(title)
	}
	return fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%3d.", td.ID)), style.Render(box), title)
}

// grouped splits already ordered lines into Pending and Done sections.
func grouped(pending, done []string) []string {
	t := ui.Current()
	section := func(name string, lines []string) []string {
		out := []string{t.Accent.Render(name)}
		if len(lines) == 0 {
			return append(out, t.Muted.Render("(none)"))
		}
		return append(out, lines...)
	}
	lines := section("Pending", pending)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func listsPanel(st *todos.Store, group bool) []string {
	sorted := st.SortedTodoLists()
	var pending, done []string
	for _, l := range sorted {
		if st.IsDoneTodoList(l) {
			done = append(done, listLine(st, l))
		} else {
			pending = append(pending, listLine(st, l))
		}
	}
	lines := header("Todo Lists", len(done), len(pending))
	switch {
	case len(sorted) == 0:
		lines = append(lines, ui.Current().Muted.Render("no lists"))
	case group:
		lines = append(lines, grouped(pending, done)...)
	default:
		lines = append(append(lines, pending...), done...)
	}
	lines = append(lines, "", ui.Current().Muted.Render("Tip: create one with `todo new-list \"Groceries\"`"))
	return lines
}

func todosPanel(st *todos.Store, l model.TodoList, group bool) []string {
	var pending, done []string
	for _, td := range st.SortedTodos(l) {
		if td.Done {
			done = append(done, todoLine(td))
		} else {
			pending = append(pending, todoLine(td))
		}
	}
	lines := header(truncate(l.Title), len(done), len(pending))
	switch {
	case len(l.Todos) == 0:
		lines = append(lines, ui.Current().Muted.Render("no todos"))
	case group:
		lines = append(lines, grouped(pending, done)...)
	default:
		lines = append(append(lines, pending...), done...)
	}
	lines = append(lines, "", ui.Current().Muted.Render(fmt.Sprintf("Tip: add with `todo add %d \"Buy milk\"`", l.ID)))
	return lines
}

func resultLines(res *db.Result) []string {
	t := ui.Current()
	lines := []string{t.Title.Render(fmt.Sprintf("%d row(s)", res.Len()))}
	if len(res.Columns) > 0 {
		lines = append(lines, t.Accent.Render(strings.Join(res.Columns, " | ")))
	}
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return lines
}
