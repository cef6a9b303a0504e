package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graft/pkg/asset"
)

const pickerHelp = "↑/↓ navigate  space mark  ⏎ transplant  q quit"

// ActorListModel is the bubbletea model behind "transplant --interactive".
// Space toggles the actor under the cursor; enter confirms the marked set,
// or the cursor actor when nothing is marked.
type ActorListModel struct {
	Actors   []asset.ActorInfo
	Cursor   int
	Marked   map[int]bool
	Selected []asset.ActorInfo
	Height   int // visible rows
	Offset   int // first visible row
}

func NewActorListModel(actors []asset.ActorInfo) ActorListModel {
	return ActorListModel{Actors: actors, Marked: make(map[int]bool), Height: 15}
}

func (m ActorListModel) Init() tea.Cmd { return nil }

func (m ActorListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Title, help, blank line, table borders and footer.
		m.Height = max(msg.Height-6, 5)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			m.move(-1)
		case "j", "down":
			m.move(1)
		case "x", " ":
			if len(m.Actors) > 0 {
				m.Marked[m.Cursor] = !m.Marked[m.Cursor]
			}
		case "enter":
			m.Selected = m.confirm()
			return m, tea.Quit
		}
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the list, and scrolls the
// window so the cursor stays visible.
func (m *ActorListModel) move(delta int) {
	if len(m.Actors) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Actors)-1)
	switch {
	case m.Cursor < m.Offset:
		m.Offset = m.Cursor
	case m.Cursor >= m.Offset+m.Height:
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ActorListModel) confirm() []asset.ActorInfo {
	if len(m.Actors) == 0 {
		return nil
	}
	var picked []asset.ActorInfo
	for i, a := range m.Actors {
		if m.Marked[i] {
			picked = append(picked, a)
		}
	}
	if picked == nil {
		picked = []asset.ActorInfo{m.Actors[m.Cursor]}
	}
	return picked
}

func (m ActorListModel) markedCount() int {
	n := 0
	for _, on := range m.Marked {
		if on {
			n++
		}
	}
	return n
}

func (m ActorListModel) rows() [][]string {
	end := min(m.Offset+m.Height, len(m.Actors))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		gutter := "  "
		if i == m.Cursor {
			gutter = "▸ "
		}
		if m.Marked[i] {
			gutter += "●"
		} else {
			gutter += " "
		}
		a := m.Actors[i]
		rows = append(rows, []string{gutter, strconv.Itoa(a.Ref.Index()), a.Name, a.Class, strconv.Itoa(a.Children)})
	}
	return rows
}

// cellStyle highlights the cursor row, tints marked rows and dims the
// numeric columns.
func (m ActorListModel) cellStyle(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	}
	s := lipgloss.NewStyle()
	if col == 1 || col == 4 {
		s = s.Foreground(colorDim)
	}
	switch i := m.Offset + row; {
	case i == m.Cursor:
		s = s.Foreground(colorCyan).Bold(true)
	case m.Marked[i]:
		s = s.Foreground(colorGreen)
	}
	return s
}

func (m ActorListModel) View() string {
	grid := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Export", "Actor", "Class", "Owned").
		Rows(m.rows()...).
		StyleFunc(m.cellStyle)

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select Actors") + "\n")
	b.WriteString(StyleDim.Render(pickerHelp) + "\n\n")
	b.WriteString(grid.Render() + "\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Actors), m.markedCount())))
	return b.String()
}

// pickActors runs the picker on the terminal. A nil result means the user
// quit without choosing.
func pickActors(actors []asset.ActorInfo) ([]asset.ActorInfo, error) {
	final, err := tea.NewProgram(NewActorListModel(actors)).Run()
	if err != nil {
		return nil, fmt.Errorf("actor picker: %w", err)
	}
	return final.(ActorListModel).Selected, nil
}
