// Package repl is an interactive prompt that expands script lines against
// a loaded project.
//
// Eval mode takes script code lines. A line calling a macro shows the
// macro template with the call's arguments and the project variables
// substituted; any other line shows its variables expanded. Control mode,
// toggled with Esc, takes the commands listed by [helpMessage].
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/log"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help               Print this cruft
  vars [FILTER]      List variables, optionally fuzzy filtered by name
  set NAME VALUE     Assign a local variable
  script [PATH]      Show or select the active script
  macros [FILTER]    List macros, optionally fuzzy filtered by name
  edit               Edit the active script in $EDITOR and reload
  clear              Clear screen
  quit               Exit REPL

Usage:
  Type a script line to expand it, e.g. Echo,%ProjectDir% or MyMacro,a,b
  Type % to complete variable names; the first argument completes commands
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to navigate command history
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode is the kind of line being entered.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

func formatEcho(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// editDoneMsg is sent when the editor exits and the project is reloaded.
type editDoneMsg struct{ err error }

// navState remembers the line being edited while Alt+Up/Down browses
// command history.
type navState struct {
	active bool
	mode   inputMode
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	session    *Session
	input      textinput.Model
	history    *History
	historyIdx int

	matches    fuzzy.Matches
	candidates []string
	wordStart  int
	wordEnd    int
	suggIdx    int
	tabActive  bool
	preTab     string
	preTabPos  int

	nav      navState
	width    int
	quitting bool

	mode  inputMode
	saved [2]savedLine
}

// savedLine is the unsubmitted line of a mode.
type savedLine struct {
	text   string
	cursor int
}

// Run starts the REPL on session. History is kept in historyDir, or only
// in memory when historyDir is empty.
func Run(ctx context.Context, session *Session, historyDir string) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var path string
	if historyDir != "" {
		path = filepath.Join(historyDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	log.TraceContext(ctx, "repl start",
		slog.String("project", session.Project().Root()),
		slog.Int("history", history.Len()))

	p := tea.NewProgram(newModel(ctx, session, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, session *Session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		session:    session,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("🗴 — " + msg.err.Error()))
		}

		return m, tea.Sequence(
			tea.Println(resultStyle.Render("✔ — reloaded "+m.session.Active().RelPath())),
			m.printDiagnostics(),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectMacroCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type a script line or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case call.inCall && m.mode == modeEval:
		if mac, ok := m.session.Macro(call.name); ok {
			b.WriteString(renderSignatureHint(mac.Name, mac.Command.Raw, call.argIndex))
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	log.TraceContext(m.ctx, "repl keypress", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.nav.active = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.nav.active = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(1), nil
		}

		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTab)
			m.input.SetCursor(m.preTabPos)
			refreshMatches(&m, false)

			return m, nil
		}

		m.nav.active = false

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes:
		// Space ends tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.nav.active = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around. A sole
// candidate is accepted at once.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTab = m.input.Value()
		m.preTabPos = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the word under the cursor with replacement.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the matches for the input. With autoConfirm set,
// a sole candidate equal to the typed word is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]savedLine{}
	m.input.SetValue("")

	if err := m.history.Add(input, m.mode); err != nil {
		log.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	echo := tea.Println(formatEcho(m.mode, input))

	if m.mode == modeCtrl {
		log.TraceContext(m.ctx, "repl command", slog.String("input", input))

		return m.executeCommand(input, echo)
	}

	log.TraceContext(m.ctx, "repl eval", slog.String("input", input))

	res, err := m.session.Eval(input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(res.String())), m.printDiagnostics())
}

func (m model) executeCommand(input string, echo tea.Cmd) (model, tea.Cmd) {
	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVars(rest)))

	case "m", "macros":
		return m, tea.Sequence(echo, tea.Println(m.listMacros(rest)))

	case "s", "set":
		key, value, _ := strings.Cut(rest, " ")
		if key == "" {
			return m, tea.Sequence(echo, m.printError(ErrUsage.With(slog.String("usage", "set NAME VALUE"))))
		}

		if err := m.session.Set(key, strings.TrimSpace(value)); err != nil {
			return m, tea.Sequence(echo, m.printError(err))
		}

		return m, echo

	case "script":
		if rest != "" {
			if err := m.session.Use(rest); err != nil {
				return m, tea.Sequence(echo, m.printError(err))
			}
		}

		return m, tea.Sequence(echo,
			tea.Println(resultStyle.Render(m.session.Active().RelPath())),
			m.printDiagnostics())

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		active := m.session.Active()
		if active == nil {
			return m, tea.Sequence(echo, m.printError(ErrNoScript))
		}

		edit := &editCommand{ctx: m.ctx, session: m.session, path: active.Path()}

		return m, tea.Sequence(echo, tea.Exec(edit, func(err error) tea.Msg {
			return editDoneMsg{err: err}
		}))

	default:
		return m, tea.Println(errorStyle.Render("Unknown command: " + name + " (try 'help')"))
	}
}

func (m model) printError(err error) tea.Cmd {
	return tea.Println(errorStyle.Render("error: " + err.Error()))
}

// printDiagnostics prints the session diagnostics gathered since the last
// call, or nothing.
func (m model) printDiagnostics() tea.Cmd {
	entries := m.session.Diagnostics()
	if len(entries) == 0 {
		return nil
	}

	var b strings.Builder

	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}

		style := hintStyle

		switch e.Severity {
		case diag.SeverityError:
			style = errorStyle
		case diag.SeverityWarning:
			style = warnStyle
		}

		b.WriteString(style.Render(e.String()))
	}

	return tea.Println(b.String())
}

// filterNames returns names fuzzily matching filter, best first, or every
// name for an empty filter.
func filterNames(names []string, filter string) []string {
	if filter == "" {
		return names
	}

	var out []string
	for _, match := range fuzzy.Find(filter, names) {
		out = append(out, match.Str)
	}

	return out
}

func (m model) listVars(filter string) string {
	all := m.session.Vars()

	var b strings.Builder

	for _, name := range filterNames(m.session.VarNames(), filter) {
		for _, v := range all {
			if strings.EqualFold(v.Name, name) {
				fmt.Fprintf(&b, "  %%%s%% %s %s\n", v.Name,
					hintStyle.Render("["+v.Tier.String()+"]"), v.Value)
			}
		}
	}

	return b.String()
}

func (m model) listMacros(filter string) string {
	macros := m.session.Macros()

	names := make([]string, len(macros))
	for i, mac := range macros {
		names[i] = mac.Name
	}

	keep := make(map[string]bool)
	for _, name := range filterNames(names, filter) {
		keep[name] = true
	}

	var b strings.Builder

	for _, mac := range macros {
		if keep[mac.Name] {
			fmt.Fprintf(&b, "  %s %s %s\n", mac.Name,
				hintStyle.Render("["+mac.Scope.String()+"]"), mac.Command.Raw)
		}
	}

	return b.String()
}

// historyStep moves through history by step. With sameMode set only
// entries of the current mode are visited; otherwise the mode follows
// the entry. Stepping past the newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.setInput(entry.Line, len(entry.Line))

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("", 0)
	}

	return m
}

// historyCtrl browses control-mode history by step, remembering the line
// being edited and restoring it when browsing runs off either end.
func (m model) historyCtrl(step int) model {
	if !m.nav.active {
		m.nav = navState{
			active: true,
			mode:   m.mode,
			text:   m.input.Value(),
			cursor: m.input.Position(),
		}

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == modeCtrl {
			m.historyIdx = i
			m.setInput(entry.Line, len(entry.Line))

			return m
		}
	}

	m.nav.active = false
	if m.nav.mode != m.mode {
		m = m.switchToMode(m.nav.mode)
	}

	m.historyIdx = m.history.Len()
	m.setInput(m.nav.text, m.nav.cursor)

	return m
}

func (m *model) setInput(text string, cursor int) {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	refreshMatches(m, false)
}

// switchToMode switches to mode, saving the current line and restoring
// the line last entered in mode.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode].text = m.input.Value()
	m.saved[m.mode].cursor = m.input.Position()

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.setInput(m.saved[mode].text, m.saved[mode].cursor)

	return m
}
