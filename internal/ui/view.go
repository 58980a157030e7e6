package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

type applyMsg struct {
	fn func(*Root)
}

type animateMsg time.Time

type Root struct {
	theme  Theme
	ascii  bool
	debug  bool
	motion string
	wrap   int
	ctrl   Controller

	mu      sync.Mutex
	program *tea.Program
	running bool

	layout LayoutMode
	cols   int
	rows   int

	card        CardState
	hasCard     bool
	terms       []string
	statusFlash string
	searching   bool

	help     help.Model
	keys     keyMap
	bar      progress.Model
	viewport viewport.Model
	search   textinput.Model
	painter  *Painter
	painted  string
	logger   *clog.Logger
	copyFn   func(string) error

	flipPos float64
	flipVel float64
	spring  harmonica.Spring

	// Screen position of the dot indicator, recorded by View for mouse hits.
	dotsY  int
	dotsX0 int
	dotsN  int

	lastInputEvent string
}

type Options struct {
	ASCIIOnly bool
	Debug     bool
	Theme     string
	// MotionLevel is one of full, reduced or off.
	MotionLevel string
	// Wrap caps the width of the card body. Zero fits the card panel.
	Wrap int
	// Clipboard overrides the system clipboard writer.
	Clipboard func(string) error
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "flashdeck-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motion := normalizeMotionLevel(opts.MotionLevel)
	theme := ThemeForVariant(normalizeTheme(opts.Theme))
	if theme.Name == "paper" {
		h.Styles = help.DefaultLightStyles()
	}
	spring := harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	if motion == "reduced" {
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	}
	bar := progress.New(
		progress.WithWidth(20),
		progress.WithColors(theme.BarFrom, theme.BarTo),
		progress.WithScaled(true),
	)
	if motion == "off" {
		bar.SetSpringOptions(1000.0, 1.0)
	}
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "term"
	search.CharLimit = 80

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	r := &Root{
		theme:    theme,
		ascii:    opts.ASCIIOnly,
		debug:    opts.Debug,
		motion:   motion,
		wrap:     opts.Wrap,
		layout:   LayoutWide,
		cols:     100,
		rows:     30,
		help:     h,
		keys:     defaultKeyMap(),
		bar:      bar,
		viewport: viewport.New(viewport.WithWidth(60), viewport.WithHeight(10)),
		search:   search,
		logger:   logger,
		copyFn:   copyFn,
		spring:   spring,
		flipPos:  1,
	}
	r.painter = NewPainter(theme, 60, opts.ASCIIOnly)
	r.resize(r.cols, r.rows)
	return r
}

func (r *Root) Init() tea.Cmd {
	return nil
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.resize(msg.Width, msg.Height)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, nil
	case animateMsg:
		r.flipPos, r.flipVel = r.spring.Update(r.flipPos, r.flipVel, 1.0)
		if r.flipAnimating() {
			return r, animateTickCmd()
		}
		r.flipPos, r.flipVel = 1, 0
		return r, nil
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.MouseWheelMsg:
		return r.handleMouseWheel(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	v := tea.NewView(r.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetCard(state CardState) {
	r.apply(func(m *Root) {
		m.setCard(state)
	})
}

func (r *Root) SetTerms(terms []string) {
	r.apply(func(m *Root) {
		m.terms = append([]string(nil), terms...)
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) resize(cols, rows int) {
	r.cols, r.rows = max(1, cols), max(1, rows)
	r.layout = DetermineLayoutMode(r.cols, r.rows)
	inner := r.bodyWidth()
	r.viewport.SetWidth(inner)
	r.viewport.SetHeight(max(1, r.bodyHeight()-4))
	if r.painter.Width() != inner {
		r.painter.SetWidth(inner)
		r.repaint(false)
	}
}

// bodyWidth is the text width inside the card panel.
func (r *Root) bodyWidth() int {
	w := cardWidth(r.cols, r.layout) - 4
	if r.wrap > 0 {
		w = min(w, r.wrap)
	}
	return max(8, w)
}

func (r *Root) bodyHeight() int {
	chrome := 5
	if r.help.ShowAll {
		chrome += 3
	}
	return max(3, r.rows-chrome)
}

func (r *Root) setCard(state CardState) {
	changed := !r.hasCard || state.ID != r.card.ID || state.Position != r.card.Position || state.Doc != r.card.Doc
	r.card = state
	r.hasCard = true
	if changed {
		r.repaint(true)
	}
}

func (r *Root) repaint(top bool) {
	if !r.hasCard {
		return
	}
	r.painted = r.painter.Paint(r.card.Doc)
	r.viewport.SetContent(r.painted)
	if top {
		r.viewport.GotoTop()
	}
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if r.searching {
		return r.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, r.keys.Quit):
		if r.ctrl != nil {
			r.ctrl.OnQuit()
		}
		return r, tea.Quit
	case key.Matches(msg, r.keys.Help):
		r.help.ShowAll = !r.help.ShowAll
		r.resize(r.cols, r.rows)
		return r, nil
	case key.Matches(msg, r.keys.Search):
		if len(r.terms) == 0 {
			r.statusFlash = "No terms to search"
			return r, nil
		}
		r.searching = true
		r.search.SetValue("")
		return r, r.search.Focus()
	case key.Matches(msg, r.keys.Up):
		r.viewport.ScrollUp(1)
		return r, nil
	case key.Matches(msg, r.keys.Down):
		r.viewport.ScrollDown(1)
		return r, nil
	case key.Matches(msg, r.keys.PageUp):
		r.viewport.PageUp()
		return r, nil
	case key.Matches(msg, r.keys.PageDown):
		r.viewport.PageDown()
		return r, nil
	case key.Matches(msg, r.keys.Copy):
		r.copyCard()
		return r, nil
	}

	if r.ctrl == nil {
		return r, nil
	}
	switch {
	case key.Matches(msg, r.keys.Previous):
		r.setCard(r.ctrl.OnPrevious())
		r.statusFlash = ""
	case key.Matches(msg, r.keys.Next):
		r.setCard(r.ctrl.OnNext())
		r.statusFlash = ""
	case key.Matches(msg, r.keys.Flip):
		r.setCard(r.ctrl.OnFlip())
		return r, r.startFlip()
	case key.Matches(msg, r.keys.Shuffle):
		r.setCard(r.ctrl.OnShuffle())
		r.statusFlash = "Deck shuffled"
	case key.Matches(msg, r.keys.Reset):
		r.setCard(r.ctrl.OnReset())
		r.statusFlash = "Deck reset to original order"
	case key.Matches(msg, r.keys.Jump):
		if idx, ok := jumpIndex(msg.String()); ok {
			r.jump(idx)
		}
	}
	return r, nil
}

func (r *Root) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		r.searching = false
		r.search.Blur()
		return r, nil
	case "enter":
		query := strings.TrimSpace(r.search.Value())
		r.searching = false
		r.search.Blur()
		if query == "" {
			return r, nil
		}
		idx, ok := nearestTerm(query, r.terms)
		if !ok {
			r.statusFlash = "No match for " + query
			return r, nil
		}
		r.jump(idx)
		return r, nil
	}
	var cmd tea.Cmd
	r.search, cmd = r.search.Update(msg)
	return r, cmd
}

func (r *Root) jump(idx int) {
	if r.ctrl == nil {
		return
	}
	state, err := r.ctrl.OnJump(idx)
	if err != nil {
		r.statusFlash = err.Error()
		r.logger.Debug("jump rejected", "index", idx, "err", err)
		return
	}
	r.setCard(state)
	r.statusFlash = ""
}

func (r *Root) copyCard() {
	if !r.hasCard {
		return
	}
	text := r.card.Term
	if body := r.card.Doc.PlainText(); body != "" {
		text += "\n\n" + body
	}
	if err := r.copyFn(text); err != nil {
		r.statusFlash = "Copy failed: " + err.Error()
		r.logger.Warn("clipboard write failed", "err", err)
		return
	}
	r.statusFlash = "Copied card to clipboard"
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_click:%d,%d button:%v", mouse.X, mouse.Y, mouse.Button))

	if mouse.Button != tea.MouseLeft || r.dotsN == 0 || mouse.Y != r.dotsY {
		return r, nil
	}
	off := mouse.X - r.dotsX0
	if off < 0 || off%2 != 0 || off/2 >= r.dotsN {
		return r, nil
	}
	r.jump(off / 2)
	return r, nil
}

func (r *Root) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	switch mouse.Button {
	case tea.MouseWheelUp:
		r.viewport.ScrollUp(3)
	case tea.MouseWheelDown:
		r.viewport.ScrollDown(3)
	}
	return r, nil
}

func (r *Root) startFlip() tea.Cmd {
	if r.motion == "off" {
		r.flipPos, r.flipVel = 1, 0
		return nil
	}
	r.flipPos, r.flipVel = 0, 0
	return animateTickCmd()
}

func (r *Root) flipAnimating() bool {
	return abs(1-r.flipPos) > 0.01 || abs(r.flipVel) > 0.01
}

func (r *Root) render() string {
	w, h := r.cols, r.rows
	if r.layout == LayoutTooSmall {
		msg := []string{
			"Terminal too small",
			fmt.Sprintf("Current: %dx%d", w, h),
			fmt.Sprintf("Minimum: %dx%d", minCols, minRows),
		}
		r.dotsN = 0
		panel := r.drawPanel("Resize", msg, min(40, w), min(6, h))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, panel)
	}

	bodyH := r.bodyHeight()
	panel := r.cardPanel(bodyH)
	body := lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center, panel)

	lines := []string{r.headerText(), body, r.progressLine()}
	r.dotsY = 1 + bodyH + 1
	lines = append(lines, r.dotLine())
	lines = append(lines, r.helpText(), r.statusText())
	return strings.Join(lines, "\n")
}

func (r *Root) headerText() string {
	width := max(1, r.cols-1)
	if !r.hasCard {
		return r.theme.Header.Width(max(1, r.cols)).Render(trimForWidth("flashdeck", max(1, width-2)))
	}
	parts := []string{firstNonEmptyStr(r.card.DeckName, "flashdeck")}
	parts = append(parts, fmt.Sprintf("Card %d of %d", r.card.Position+1, r.card.Total))
	if r.card.Shuffled {
		parts = append(parts, "shuffled")
	}
	txt := strings.Join(parts, " | ")
	if r.debug {
		txt = fmt.Sprintf("%s | %dx%d %v", txt, r.cols, r.rows, r.layout)
	}
	return r.theme.Header.Width(max(1, r.cols)).Render(trimForWidth(txt, max(1, width-2)))
}

func (r *Root) cardPanel(height int) string {
	cw := cardWidth(r.cols, r.layout)
	if r.flipPos < 1 {
		cw = max(4, int(float64(cw)*max(0.05, r.flipPos)))
	}
	style := lipgloss.NewStyle().
		Border(r.theme.Border).
		BorderForeground(r.theme.BorderColor).
		Padding(0, 1).
		Width(cw).
		Height(max(1, height-2))

	if !r.hasCard {
		return style.Render(r.theme.Muted.Render("No card loaded"))
	}
	if r.flipAnimating() {
		return style.Render("")
	}
	if r.card.Flipped {
		return style.Render(r.backFace())
	}
	return style.Render(r.frontFace(cw - 4))
}

func (r *Root) frontFace(width int) string {
	var lines []string
	if r.card.Category != "" {
		lines = append(lines, r.theme.Badge.Render(r.card.Category), "")
	}
	lines = append(lines, r.theme.Term.Render(wrap(r.card.Term, width)))
	if r.card.Image != "" {
		lines = append(lines, "", r.theme.Muted.Render("[image: "+r.card.Image+"]"))
	}
	lines = append(lines, "", r.theme.Hint.Render("press space to reveal"))
	block := strings.Join(lines, "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

func (r *Root) backFace() string {
	title := r.theme.PanelTitle.Render(r.card.Term)
	body := r.viewport.View()
	more := ""
	if !r.viewport.AtBottom() {
		more = "\n" + r.theme.Muted.Render("↓ more")
	}
	return title + "\n\n" + body + more
}

func (r *Root) progressLine() string {
	if !r.hasCard || r.card.Total == 0 {
		return ""
	}
	width := min(60, max(8, r.cols-4))
	m := r.bar
	m.SetWidth(width)
	bar := m.ViewAs(float64(r.card.Position+1) / float64(r.card.Total))
	return strings.Repeat(" ", max(0, (r.cols-ansi.StringWidth(bar))/2)) + bar
}

// dotLine draws one dot per card with the active card highlighted. Decks too
// large to fit fall back to a counter and disable click-to-jump.
func (r *Root) dotLine() string {
	r.dotsN = 0
	if !r.hasCard || r.card.Total == 0 {
		return ""
	}
	on, off := "●", "○"
	if r.ascii {
		on, off = "*", "."
	}
	n := r.card.Total
	if n*2-1 > r.cols-2 {
		txt := fmt.Sprintf("%d / %d", r.card.Position+1, n)
		return strings.Repeat(" ", max(0, (r.cols-len(txt))/2)) + r.theme.Muted.Render(txt)
	}
	parts := make([]string, n)
	for i := range parts {
		if i == r.card.Position {
			parts[i] = r.theme.DotOn.Render(on)
		} else {
			parts[i] = r.theme.DotOff.Render(off)
		}
	}
	width := n*2 - 1
	r.dotsX0 = max(0, (r.cols-width)/2)
	r.dotsN = n
	return strings.Repeat(" ", r.dotsX0) + strings.Join(parts, " ")
}

func (r *Root) helpText() string {
	if r.searching {
		return r.search.View()
	}
	return r.help.View(r.keys)
}

func (r *Root) statusText() string {
	txt := r.statusFlash
	if txt == "" && r.hasCard && !r.card.Flipped {
		txt = "Think of the definition, then flip the card."
	}
	txt = trimForWidth(txt, max(1, r.cols-3))
	return r.theme.Status.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + title + " "
		runes := []rune(top)
		start := 1
		for i, ch := range []rune(t) {
			pos := start + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padRune(line, innerW)
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(line)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"messageType", msgType,
		"layout", r.layout,
		"cols", r.cols,
		"rows", r.rows,
		"card", r.card.Position,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
