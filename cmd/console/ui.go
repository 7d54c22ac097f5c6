package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/adventure-console/pkg/game"
	"github.com/jwebster45206/adventure-console/pkg/gamestate"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const PlaceHolderText = "Write something lovely..."

type entryKind int

const (
	entryExit entryKind = iota
	entryDoodad
	entryNote
	entryCorpse
	entryItem
)

// entry is one selectable line on screen.
type entry struct {
	kind   entryKind
	key    string // direction or slug
	label  string
	usable bool
}

// ConsoleUI is the BubbleTea model that renders a game session.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx      context.Context
	session  *gamestate.Session
	snap     gamestate.Snapshot
	viewport viewport.Model
	textarea textarea.Model
	ready    bool
	width    int
	height   int

	cursor       int
	targetCursor int

	writingNote          bool
	showQuitModal        bool
	showExitDescriptions bool

	status      string
	statusError bool
}

type sessionEventMsg struct {
	event gamestate.Event
}

var titleCaser = cases.Title(language.English)

var (
	mainPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(1)

	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(ctx context.Context, session *gamestate.Session) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(5)
	ta.ShowLineNumbers = false

	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		ctx:                  ctx,
		session:              session,
		snap:                 session.Snapshot(),
		viewport:             vp,
		textarea:             ta,
		showExitDescriptions: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refreshContent()
		return m, nil

	case sessionEventMsg:
		if msg.event.Type == gamestate.EventError && msg.event.Err != nil {
			m.setStatus("Error: "+msg.event.Err.Error(), true)
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.showQuitModal:
			return m.updateQuitModal(msg)
		case m.writingNote:
			return m.updateNoteModal(msg)
		case m.snap.Response != nil:
			return m.updateResponseModal(msg)
		case m.snap.PendingUseTarget != nil:
			return m.updateUseTargetModal(msg)
		}
		return m.updateMain(msg)
	}

	var cmd tea.Cmd
	if m.writingNote {
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// sync pulls a fresh snapshot and redraws.
func (m *ConsoleUI) sync() {
	m.snap = m.session.Snapshot()
	if n := len(m.entries()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := len(m.useTargets()); m.targetCursor >= n {
		m.targetCursor = max(n-1, 0)
	}
	m.refreshContent()
}

func (m *ConsoleUI) setStatus(status string, isError bool) {
	m.status = status
	m.statusError = isError
}

func (m ConsoleUI) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.entries()
	var selected *entry
	if m.cursor < len(entries) {
		selected = &entries[m.cursor]
	}

	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.showQuitModal = true
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "enter":
		if selected == nil {
			return m, nil
		}
		if selected.kind == entryExit {
			return m, m.move(selected.key)
		}
		return m, m.inspect(selected.key)
	case "i":
		if selected != nil && selected.kind != entryExit {
			return m, m.inspect(selected.key)
		}
	case "g":
		if selected != nil && selected.kind == entryDoodad {
			m.setStatus("Picking up "+selected.label+"...", false)
			return m, m.run(func(ctx context.Context) (string, error) {
				return m.session.Get(ctx, selected.key)
			})
		}
	case "u":
		if selected != nil && selected.kind == entryItem && selected.usable {
			m.setStatus("Using "+selected.label+"...", false)
			return m, m.run(func(ctx context.Context) (string, error) {
				return m.session.UseOnSelf(ctx, selected.key)
			})
		}
	case "o":
		if selected != nil && selected.kind == entryItem && selected.usable {
			m.session.SelectUseTool(selected.key)
			m.targetCursor = 0
		}
	case "d":
		m.setStatus("Dying...", false)
		return m, m.run(m.session.DeathWarp)
	case "n":
		m.writingNote = true
		m.textarea.Reset()
		m.textarea.Focus()
		return m, textarea.Blink
	case "t":
		m.showExitDescriptions = !m.showExitDescriptions
	case "r":
		m.setStatus("Refreshing...", false)
		m.session.RefreshRoom()
		m.session.RefreshInventory()
	}

	m.sync()
	return m, nil
}

func (m *ConsoleUI) move(direction string) tea.Cmd {
	m.setStatus("Walking "+direction+"...", false)
	return m.run(func(ctx context.Context) (string, error) {
		return m.session.Move(ctx, direction)
	})
}

func (m *ConsoleUI) inspect(slug string) tea.Cmd {
	m.setStatus("Inspecting...", false)
	return m.run(func(ctx context.Context) (string, error) {
		return m.session.Inspect(ctx, slug)
	})
}

// run performs an intent off the event loop. Results and failures come
// back as session events, so the command itself yields no message.
func (m ConsoleUI) run(intent func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_, _ = intent(ctx)
		return nil
	}
}

func (m ConsoleUI) updateResponseModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.showQuitModal = true
	case "enter", "esc", "x":
		m.session.ClearResponse()
		m.setStatus("", false)
		m.sync()
	case "c":
		if err := clipboard.WriteAll(*m.snap.Response); err != nil {
			m.setStatus("Copy failed: "+err.Error(), true)
		} else {
			m.setStatus("Copied to clipboard", false)
		}
	}
	return m, nil
}

func (m ConsoleUI) updateUseTargetModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	targets := m.useTargets()

	switch msg.String() {
	case "ctrl+c":
		m.showQuitModal = true
	case "esc":
		m.session.CancelUse()
		m.sync()
	case "up", "k":
		if m.targetCursor > 0 {
			m.targetCursor--
		}
	case "down", "j":
		if m.targetCursor < len(targets)-1 {
			m.targetCursor++
		}
	case "enter":
		if len(targets) == 0 {
			return m, nil
		}
		target := targets[m.targetCursor]
		m.setStatus("Using on "+target.label+"...", false)
		// ChooseUseTarget clears the pending tool before the call goes out
		cmd := m.run(func(ctx context.Context) (string, error) {
			return m.session.ChooseUseTarget(ctx, target.key)
		})
		return m, cmd
	}
	return m, nil
}

func (m ConsoleUI) updateNoteModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.writingNote = false
		m.textarea.Blur()
		return m, nil
	case "ctrl+s":
		text := strings.TrimSpace(m.textarea.Value())
		m.writingNote = false
		m.textarea.Blur()
		if text == "" {
			return m, nil
		}
		m.setStatus("Writing note...", false)
		return m, m.run(func(ctx context.Context) (string, error) {
			return m.session.WriteNote(ctx, text)
		})
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateQuitModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "enter", "y", "Y":
		return m, tea.Quit
	case "esc", "n", "N":
		m.showQuitModal = false
	}
	return m, nil
}

// entries lists everything the cursor can land on: exits, doodads, notes
// and corpses in the room, then the inventory.
func (m ConsoleUI) entries() []entry {
	var out []entry
	if room := m.snap.Room; room != nil {
		for _, exit := range room.Exits {
			out = append(out, entry{kind: entryExit, key: exit, label: titleCaser.String(exit)})
		}
		out = appendDoodads(out, entryDoodad, room.Doodads)
		out = appendDoodads(out, entryNote, room.Notes)
		out = appendDoodads(out, entryCorpse, room.Corpses)
	}
	for _, item := range m.snap.Inventory {
		out = append(out, entry{kind: entryItem, key: item.Slug, label: displayName(item.Name, item.Slug), usable: item.Usable})
	}
	return out
}

// useTargets lists what the pending tool can be used on.
func (m ConsoleUI) useTargets() []entry {
	var out []entry
	tool := ""
	if m.snap.PendingUseTarget != nil {
		tool = *m.snap.PendingUseTarget
	}
	for _, item := range m.snap.Inventory {
		if item.Slug != tool {
			out = append(out, entry{kind: entryItem, key: item.Slug, label: displayName(item.Name, item.Slug)})
		}
	}
	if m.snap.Room != nil {
		out = appendDoodads(out, entryDoodad, m.snap.Room.Doodads)
	}
	return out
}

func appendDoodads(out []entry, kind entryKind, doodads []game.Doodad) []entry {
	for _, d := range doodads {
		out = append(out, entry{kind: kind, key: d.Slug, label: displayName(d.Name, d.Slug)})
	}
	return out
}

func displayName(name, slug string) string {
	if name != "" {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}

func (m *ConsoleUI) resize() {
	mainWidth := m.mainWidth()
	m.viewport.Width = mainWidth - 3
	m.viewport.Height = max(m.height-4, 1)
	m.textarea.SetWidth(min(60, max(m.width-10, 20)))
}

func (m ConsoleUI) mainWidth() int {
	return int(float64(m.width) * 0.65)
}

func (m *ConsoleUI) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderRoom(m.viewport.Width))
}

func (m ConsoleUI) renderRoom(width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("CURRENT ROOM") + "\n\n")

	room := m.snap.Room
	if room == nil {
		content.WriteString(loadingStyle.Render("Looking around...") + "\n")
		return content.String()
	}
	content.WriteString(wordwrap.String(room.Description, max(width-2, 10)) + "\n\n")

	index := 0
	content.WriteString(titleStyle.Render("EXITS") + "\n")
	if len(room.Exits) == 0 {
		content.WriteString(promptStyle.Render("  There is no way out.") + "\n")
	}
	for _, exit := range room.Exits {
		content.WriteString(m.renderEntry(index, titleCaser.String(exit)) + "\n")
		index++
		if !m.showExitDescriptions {
			continue
		}
		if desc, ok := m.snap.ExitDescriptions[exit]; ok {
			content.WriteString(descriptionStyle.Render(indent(wordwrap.String(desc, max(width-6, 10)), "    ")) + "\n")
		} else if m.snap.Annotating {
			content.WriteString(loadingStyle.Render("    (peering...)") + "\n")
		}
	}

	sections := []struct {
		title   string
		doodads []game.Doodad
	}{
		{"DOODADS", room.Doodads},
		{"NOTES", room.Notes},
		{"CORPSES", room.Corpses},
	}
	for _, section := range sections {
		content.WriteString("\n" + titleStyle.Render(section.title) + "\n")
		if len(section.doodads) == 0 {
			content.WriteString(promptStyle.Render("  Nothing here.") + "\n")
		}
		for _, d := range section.doodads {
			content.WriteString(m.renderEntry(index, displayName(d.Name, d.Slug)) + "\n")
			index++
		}
	}
	return content.String()
}

func (m ConsoleUI) renderInventory() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("INVENTORY") + "\n\n")

	if m.snap.Inventory == nil {
		content.WriteString(loadingStyle.Render("Checking pockets...") + "\n")
	} else if len(m.snap.Inventory) == 0 {
		content.WriteString(promptStyle.Render("  Empty-handed.") + "\n")
	}

	index := len(m.entries()) - len(m.snap.Inventory)
	for _, item := range m.snap.Inventory {
		label := displayName(item.Name, item.Slug)
		if item.Usable {
			label += " *"
		}
		content.WriteString(m.renderEntry(index, label) + "\n")
		index++
	}

	content.WriteString("\n" + titleStyle.Render("KEYS") + "\n")
	content.WriteString(promptStyle.Render(strings.Join([]string{
		"↑/↓ select   Enter go/inspect",
		"i inspect    g get",
		"u use        o use on...",
		"n note       d deathwarp",
		"t exit descriptions",
		"r refresh    q quit",
	}, "\n")) + "\n")

	if len(m.snap.InFlight) > 0 {
		content.WriteString("\n" + loadingStyle.Render("Waiting on the server...") + "\n")
	}
	return content.String()
}

func (m ConsoleUI) renderEntry(index int, label string) string {
	if index == m.cursor {
		return selectedStyle.Render("▶ " + label)
	}
	return "  " + label
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (m ConsoleUI) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusError {
		return errorStyle.Render(m.status)
	}
	return loadingStyle.Render(m.status)
}

func (m ConsoleUI) renderModal(title, body, help string, width int) string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(title))
	content.WriteString("\n\n")
	content.WriteString(body)
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render(help))

	modal := modalStyle.Width(width).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderResponseModal() string {
	body := wordwrap.String(*m.snap.Response, 56)
	if status := m.renderStatus(); status != "" {
		body += "\n\n" + status
	}
	return m.renderModal("What Happened", body, "Enter/x to dismiss, c to copy", 60)
}

func (m ConsoleUI) renderUseTargetModal() string {
	tool := *m.snap.PendingUseTarget
	if item, ok := game.FindItem(m.snap.Inventory, tool); ok {
		tool = displayName(item.Name, item.Slug)
	}

	var body strings.Builder
	targets := m.useTargets()
	if len(targets) == 0 {
		body.WriteString("There is nothing to use it on.")
	}
	for i, target := range targets {
		if i == m.targetCursor {
			body.WriteString(selectedStyle.Render("▶ " + target.label))
		} else {
			body.WriteString("  " + target.label)
		}
		body.WriteString("\n")
	}
	return m.renderModal(fmt.Sprintf("Use %s on...", tool), body.String(), "↑/↓ to choose, Enter to use, Esc to cancel", 50)
}

func (m ConsoleUI) renderNoteModal() string {
	body := "Please enter the text for your lovely note.\n\n" + m.textarea.View()
	return m.renderModal("Write a Lovely Note", body, "Ctrl+S to write it, Esc to cancel", 64)
}

func (m ConsoleUI) renderQuitModal() string {
	return m.renderModal("Quit Game?", "Are you sure you want to quit your adventure?", "Press Y to quit, N to continue", 50)
}

func (m ConsoleUI) View() string {
	if !m.ready || m.width == 0 || m.height == 0 {
		return "\n  Initializing..."
	}

	switch {
	case m.showQuitModal:
		return m.renderQuitModal()
	case m.writingNote:
		return m.renderNoteModal()
	case m.snap.Response != nil:
		return m.renderResponseModal()
	case m.snap.PendingUseTarget != nil:
		return m.renderUseTargetModal()
	}

	mainWidth := m.mainWidth()
	sideWidth := m.width - mainWidth - 2

	mainPanel := mainPanelStyle.Width(mainWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			m.renderStatus(),
		),
	)
	sidePanel := sidePanelStyle.Width(sideWidth).Height(m.height - 2).Render(m.renderInventory())

	return lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, sidePanel)
}
