package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ColinFX/UniProtKB-Preprocessing/internal/features"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/segmentio/encoding/json"
)

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#10B981")
	surfaceColor   = lipgloss.Color("#1F2937")
	textColor      = lipgloss.Color("#F3F4F6")
	mutedColor     = lipgloss.Color("#9CA3AF")
	borderColor    = lipgloss.Color("#374151")
)

var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	sequenceStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#111827")).
			Padding(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	emptyStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)

// segmentItem is one corpus line; index counts the segments of its accession.
type segmentItem struct {
	line  features.Line
	index int
}

func (i segmentItem) FilterValue() string {
	return i.line.Accession + " " + i.line.Organism
}

func (i segmentItem) Title() string {
	return fmt.Sprintf("%s #%d", i.line.Accession, i.index+1)
}

func (i segmentItem) Description() string {
	return fmt.Sprintf("%d aa    %s", len(i.line.Sequence), organismName(i.line.Organism))
}

// organismName keeps the scientific name of an "lineage: X, organism: Y" value.
func organismName(s string) string {
	if i := strings.Index(s, "organism: "); i >= 0 {
		return s[i+len("organism: "):]
	}
	return s
}

type mode int

const (
	modeSequence mode = iota
	modeFunction
	modeContext
)

func (m mode) String() string {
	switch m {
	case modeSequence:
		return "Sequence"
	case modeFunction:
		return "Function"
	case modeContext:
		return "Context"
	default:
		return "Unknown"
	}
}

// fieldsByMode lists the annotation fields shown by each non-sequence mode.
var fieldsByMode = map[mode][]features.Field{
	modeFunction: {features.Description, features.Activity, features.Cofactor, features.Pathway, features.Family, features.Domain},
	modeContext:  {features.Organism, features.Location, features.Subunit, features.PTM, features.Tissue, features.Induction},
}

type model struct {
	list          list.Model
	lines         []features.Line
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	selectedIndex int
}

// loadCorpus reads every line of a corpus file.
func loadCorpus(path string) ([]features.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []features.Line
	sc := bufio.NewScanner(f)
	// segments are short but annotation text can be long
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)
	for n := 1; sc.Scan(); n++ {
		if len(strings.TrimSpace(sc.Text())) == 0 {
			continue
		}
		var l features.Line
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		lines = append(lines, l)
	}
	return lines, sc.Err()
}

func newModel(lines []features.Line, title string) model {
	items := make([]list.Item, len(lines))
	seen := make(map[string]int)
	for i, l := range lines {
		items[i] = segmentItem{line: l, index: seen[l.Accession]}
		seen[l.Accession]++
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:        l,
		lines:       lines,
		currentMode: modeSequence,
	}
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		// keys typed into the filter prompt belong to the list
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeSequence
			return m, nil
		case "2":
			m.currentMode = modeFunction
			return m, nil
		case "3":
			m.currentMode = modeContext
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}

	left := containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderRightPanel()),
		m.renderStatusBar(),
	)
}

func (m model) renderRightPanel() string {
	panel := containerStyle.
		Width(m.width*2/3 - 2).
		Height(m.height - 4)

	item, ok := m.list.SelectedItem().(segmentItem)
	if !ok {
		return panel.Render("No segment selected")
	}
	return panel.Render(m.detailLines(item))
}

// detailLines renders the selected segment for the current mode.
func (m model) detailLines(item segmentItem) string {
	header := titleStyle.Render(fmt.Sprintf("%s  segment %d  (%d aa)", item.line.Accession, item.index+1, len(item.line.Sequence)))

	var body []string
	if m.currentMode == modeSequence {
		seqWidth := m.width*2/3 - 6
		if seqWidth < 10 {
			seqWidth = 10
		}
		body = append(body, labelStyle.Render("Sequence:"), sequenceStyle.Width(seqWidth).Render(item.line.Sequence))
	} else {
		for _, f := range fieldsByMode[m.currentMode] {
			v := lineValue(item.line, f)
			if v == "" {
				v = emptyStyle.Render("none")
			}
			body = append(body, labelStyle.Render(f.String()+":"), v, "")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header, ""}, body...)...)
}

func lineValue(l features.Line, f features.Field) string {
	switch f {
	case features.Accession:
		return l.Accession
	case features.Sequence:
		return l.Sequence
	case features.Organism:
		return l.Organism
	case features.Family:
		return l.Family
	case features.Domain:
		return l.Domain
	case features.Location:
		return l.Location
	case features.Subunit:
		return l.Subunit
	case features.Activity:
		return l.Activity
	case features.Cofactor:
		return l.Cofactor
	case features.PTM:
		return l.PTM
	case features.Pathway:
		return l.Pathway
	case features.Tissue:
		return l.Tissue
	case features.Induction:
		return l.Induction
	case features.Description:
		return l.Description
	}
	return ""
}

func (m model) renderStatusBar() string {
	left := fmt.Sprintf("%d/%d segments", m.selectedIndex+1, len(m.lines))
	center := "Mode: " + m.currentMode.String()
	right := "'h' help • 'q' quit"

	spacing := m.width - len(left) - len(center) - len(right) - 6
	content := left + " | " + center
	if spacing > 0 {
		content = left + strings.Repeat(" ", spacing/2) + center + strings.Repeat(" ", spacing-spacing/2) + right
	}
	return statusBarStyle.Width(m.width).Render(content)
}

func (m model) renderHelpModal() string {
	help := `Corpus browser - Help

Navigation:
  ↑/↓, j/k     Navigate segments
  /            Filter by accession or organism

View Modes:
  1            Sequence
  2            Function annotations
  3            Organism and context
  tab          Next mode

General:
  h            Toggle this help
  q, Ctrl+C    Quit

Segments: ` + fmt.Sprintf("%d", len(m.lines))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(help)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func main() {
	path := flag.String("in", "processed/val.jsonl", "corpus file to browse")
	flag.Parse()

	lines, err := loadCorpus(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(newModel(lines, *path), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
