// Package browser provides the Bubble Tea interface for filtering stations
// and reading cut volumes.
package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/verte-zerg/nivela/internal/earthwork"
	"github.com/verte-zerg/nivela/internal/export"
	"github.com/verte-zerg/nivela/internal/model"
)

const (
	inputCategory = iota
	inputMin
	inputMax
)

const scrollStep = 8

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	totalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	columnsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Loader rebuilds the dataset from its source file.
type Loader interface {
	Load(ctx context.Context, path string) (model.Dataset, error)
}

// Config holds the initial state of the browser.
type Config struct {
	Dataset model.Dataset
	Source  string
	Spec    model.FilterSpec
	Options earthwork.Options
	// Loader and Changes enable reloading; both may be nil.
	Loader  Loader
	Changes <-chan struct{}
	Logger  *zap.Logger
}

type datasetMsg struct {
	ds  model.Dataset
	err error
}

type fileChangedMsg struct{}

// Model implements the Bubble Tea browser.
type Model struct {
	dataset model.Dataset
	source  string
	spec    model.FilterSpec
	opts    earthwork.Options
	result  model.Result
	loader  Loader
	changes <-chan struct{}
	logger  *zap.Logger
	copyFn  func(model.Result) (bool, error)

	categories  []string
	categoryIdx int

	width    int
	height   int
	xOffset  int
	lines    []string
	viewport viewport.Model

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	notice string
	errMsg string
}

// NewModel constructs a browser model and computes the first result.
func NewModel(cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		source:   cfg.Source,
		spec:     cfg.Spec,
		opts:     cfg.Options,
		loader:   cfg.Loader,
		changes:  cfg.Changes,
		logger:   logger,
		copyFn:   export.CopyToClipboard,
		viewport: viewport.New(0, 0),
	}
	m.initInputs()
	m.setDataset(cfg.Dataset)
	return m
}

// Result returns the current filtered result.
func (m *Model) Result() model.Result {
	return m.result
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case fileChangedMsg:
		return m, tea.Batch(m.reload(), m.waitForChange())
	case datasetMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.notice = fmt.Sprintf("Reloaded %d stations", len(msg.ds.Rows))
		m.setDataset(msg.ds)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		return m.startFilter()
	case "]":
		m.cycleCategory(1)
		return m, nil
	case "[":
		m.cycleCategory(-1)
		return m, nil
	case "s":
		m.opts.SortByAbscissa = !m.opts.SortByAbscissa
		m.recompute()
		return m, nil
	case "c":
		m.copyResult()
		return m, nil
	case "r":
		return m, m.reload()
	case "left", "h":
		m.scroll(-scrollStep)
		return m, nil
	case "right", "l":
		m.scroll(scrollStep)
		return m, nil
	case "g", "home":
		m.viewport.GotoTop()
		return m, nil
	case "G", "end":
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	var body string
	if m.filterMode {
		body = fitLines(m.renderFilterForm(), m.width, bodyHeight)
	} else {
		body = fitLines(m.renderBody(), m.width, bodyHeight)
	}
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) setDataset(ds model.Dataset) {
	m.dataset = ds
	m.categories = append([]string(nil), ds.Categories...)
	m.categoryIdx = -1
	for i, c := range m.categories {
		if c == m.spec.Category {
			m.categoryIdx = i
		}
	}
	m.recompute()
}

func (m *Model) recompute() {
	m.result = earthwork.Compute(m.dataset, m.spec, m.opts)
	rows := model.Rows(m.result)
	if !m.opts.SortByAbscissa && !earthwork.Ascending(rows) {
		m.logger.Warn("filtered stations are not in ascending abscissa order; volumes follow workbook order",
			zap.String("filter", m.spec.String()))
	}
	m.lines = export.Table(m.result, true)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if len(m.lines) <= 1 {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(strings.Join(m.cutLines(m.lines[1:]), "\n"))
}

func (m *Model) cutLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if m.width <= 0 {
			out[i] = line
			continue
		}
		out[i] = ansi.Cut(line, m.xOffset, m.xOffset+m.width)
	}
	return out
}

func (m *Model) scroll(delta int) {
	widest := 0
	for _, line := range m.lines {
		widest = maxInt(widest, ansi.StringWidth(line))
	}
	limit := maxInt(0, widest-m.width)
	m.xOffset = minInt(maxInt(0, m.xOffset+delta), limit)
	m.refreshViewport()
}

func (m *Model) cycleCategory(delta int) {
	count := len(m.categories)
	if count == 0 {
		return
	}
	// -1 stands for "any category" and sits before the first label.
	next := m.categoryIdx + delta
	if next < -1 {
		next = count - 1
	}
	if next >= count {
		next = -1
	}
	m.categoryIdx = next
	if next < 0 {
		m.spec.Category = ""
	} else {
		m.spec.Category = m.categories[next]
	}
	m.recompute()
}

func (m *Model) copyResult() {
	copied, err := m.copyFn(m.result)
	switch {
	case err != nil:
		m.errMsg = err.Error()
	case !copied:
		m.notice = "Nothing to copy"
	default:
		m.errMsg = ""
		m.notice = "Datos copiados al portapapeles. Puedes pegarlos en Excel."
	}
}

func (m *Model) reload() tea.Cmd {
	if m.loader == nil || m.source == "" {
		m.notice = "No source file to reload"
		return nil
	}
	loader, source := m.loader, m.source
	return func() tea.Msg {
		ds, err := loader.Load(context.Background(), source)
		return datasetMsg{ds: ds, err: err}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = 4
	footerHeight = 1
	if m.errMsg != "" || m.notice != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	m.scroll(0)
}

func (m *Model) renderHeader() string {
	source := m.source
	if source == "" {
		source = "cached dataset"
	}
	title := titleStyle.Render("Carteras de nivelación") + headerStyle.Render("  "+source)
	order := "workbook order"
	if m.opts.SortByAbscissa {
		order = "sorted by abscissa"
	}
	summary := headerStyle.Render(truncateLine(fmt.Sprintf("Filter: %s  stations=%d/%d  %s",
		m.spec.String(), m.result.Len(), len(m.dataset.Rows), order), m.width))
	columns := ""
	if len(m.lines) > 0 && m.result.Len() > 0 {
		columns = columnsStyle.Render(m.cutLines(m.lines[:1])[0])
	}
	return strings.Join([]string{title, summary, m.renderStatus(), columns}, "\n")
}

func (m *Model) renderStatus() string {
	switch res := m.result.(type) {
	case model.InvalidResult:
		return errorStyle.Render(model.PositiveDifferenceWarning)
	case model.ValidResult:
		return totalStyle.Render(fmt.Sprintf("Total Volumen Corte Izquierdo (m³): %s  Total Volumen Corte Derecho (m³): %s",
			strconv.FormatFloat(res.Totals.Left, 'f', 2, 64),
			strconv.FormatFloat(res.Totals.Right, 'f', 2, 64)))
	default:
		return ""
	}
}

func (m *Model) renderBody() string {
	if len(m.dataset.Rows) == 0 {
		return "No stations loaded."
	}
	if m.result.Len() == 0 {
		return "No stations match the filter."
	}
	return m.viewport.View()
}

func (m *Model) renderFooter() string {
	var help string
	if m.filterMode {
		help = "tab/shift+tab: next field  enter: apply  esc: cancel"
	} else {
		help = "Filter: /  Category: [ ]  Sort: s  Copy: c  Reload: r  Scroll: arrows  Quit: q"
	}
	lines := []string{headerStyle.Render(truncateLine(help, m.width))}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(truncateLine(m.errMsg, m.width)))
	} else if m.notice != "" {
		lines = append(lines, noticeStyle.Render(truncateLine(m.notice, m.width)))
	}
	return strings.Join(lines, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
