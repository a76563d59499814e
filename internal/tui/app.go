// internal/tui/app.go
//
// The interactive release-note form. It uses bubbletea, which follows The
// Elm Architecture: the App struct is the state, Update folds messages into
// new state, and View renders state to a string. The form itself owns no
// document state: every screen is a projection of the session's release
// document, and every edit goes through the session's Mutate entry point, so
// the form and the document can never disagree.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renolabs/reno/internal/logging"
	"github.com/renolabs/reno/internal/note"
	"github.com/renolabs/reno/internal/render"
	"github.com/renolabs/reno/internal/session"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateMenu        appState = iota // Top-level form menu
	stateDateInput                   // Editing the release date
	stateContactPick                 // Picking the point of contact
	stateServiceAdd                  // Picking a catalog service to add
	stateServicePick                 // Picking a selected service to edit
	stateServiceEdit                 // Per-service field menu
	stateTextInput                   // Generic one-line text entry
	stateLinkPick                    // Picking a link within a category
	stateExport                      // Showing the transport string
	stateImport                      // Pasting a transport string
	statePreview                     // Rendered snapshot preview
)

// inputTarget says what a finished text entry should be applied to.
type inputTarget int

const (
	targetVersion inputTarget = iota
	targetChangeDescription
	targetKnownIssues
	targetNewLink
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Faint(true).MarginTop(1)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// App is the main application model. In bubbletea, this holds ALL the state.
type App struct {
	state   appState
	session *session.Session
	log     *logging.Logbook

	// UI components
	menu        list.Model
	contactMenu list.Model
	addMenu     list.Model
	pickMenu    list.Model
	serviceMenu list.Model
	linkMenu    list.Model
	input       textinput.Model

	// What the generic input screen is editing
	inputFor    inputTarget
	editService string
	editLinks   note.LinkCategory

	exported  string
	statusMsg string
	err       error

	width  int
	height int
}

// menuItem implements list.Item for our menus.
type menuItem struct {
	title string
	desc  string
	id    string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates the form over an existing session. The logbook may be nil.
func NewApp(sess *session.Session, log *logging.Logbook) *App {
	a := &App{
		session: sess,
		log:     log,
		state:   stateMenu,
	}
	a.menu = newMenu("Reno · Release Note", nil)
	a.rebuildMenu()
	// Pre-create the secondary menus so a window resize before they are
	// first opened has something to size.
	a.contactMenu = newMenu("", nil)
	a.addMenu = newMenu("", nil)
	a.pickMenu = newMenu("", nil)
	a.serviceMenu = newMenu("", nil)
	a.linkMenu = newMenu("", nil)
	a.input = textinput.New()
	a.input.CharLimit = 0
	log.Info("session %s opened", sess.ID())
	return a
}

func newMenu(title string, items []list.Item) list.Model {
	m := list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.Title = title
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	return m
}

// Init is part of tea.Model. Nothing to kick off at startup.
func (a *App) Init() tea.Cmd {
	return nil
}

// rebuildMenu regenerates the top-level menu from the current document, so
// the menu always reflects the real state (date set or not, which services
// are selected, and so on).
func (a *App) rebuildMenu() {
	snap := a.session.Snapshot()
	date := "(unset)"
	if !snap.Date.IsZero() {
		date = snap.Date.String()
	}
	contact := "(none)"
	if snap.Contact != "" {
		contact = snap.Contact
	}
	items := []list.Item{
		menuItem{id: "date", title: "Release date", desc: date},
		menuItem{id: "contact", title: "Point of contact", desc: contact},
		menuItem{id: "add", title: "Add service", desc: fmt.Sprintf("%d in catalog", len(a.session.Catalog().Services))},
	}
	if len(snap.Services) > 0 {
		names := make([]string, 0, len(snap.Services))
		for _, entry := range snap.Services {
			names = append(names, entry.Name)
		}
		items = append(items, menuItem{id: "edit", title: "Edit service", desc: strings.Join(names, ", ")})
	}
	items = append(items,
		menuItem{id: "preview", title: "Preview", desc: "Rendered release note"},
		menuItem{id: "export", title: "Export", desc: "Copyable transport string"},
		menuItem{id: "import", title: "Import", desc: "Paste a transport string"},
		menuItem{id: "clear", title: "Clear form", desc: "Start over empty"},
		menuItem{id: "quit", title: "Quit", desc: ""},
	)
	a.menu.SetItems(items)
}

// rebuildServiceMenu regenerates the per-service field menu.
func (a *App) rebuildServiceMenu() {
	entry := a.session.Release().Service(a.editService)
	if entry == nil {
		a.state = stateMenu
		return
	}
	items := []list.Item{
		menuItem{id: "config_only", title: "Config only", desc: onOff(entry.ConfigOnly)},
		menuItem{id: "risk", title: "Risk level", desc: fmt.Sprintf("%s: %s", entry.Risk, entry.Risk.Caption())},
		menuItem{id: "benefit", title: "Benefit delivered", desc: fmt.Sprintf("%s: %s", entry.Benefit, entry.Benefit.Caption())},
		menuItem{id: "version", title: "Version", desc: orUnset(entry.Version)},
		menuItem{id: "change", title: "Change description", desc: orUnset(entry.ChangeDescription)},
		menuItem{id: "issues", title: "Known issues", desc: orUnset(entry.KnownIssues)},
	}
	for _, category := range note.LinkCategories {
		links, err := entry.Links(category)
		if err != nil {
			continue
		}
		items = append(items, menuItem{
			id:    "links:" + string(category),
			title: category.Label(),
			desc:  fmt.Sprintf("%d entries", len(links)),
		})
	}
	items = append(items,
		menuItem{id: "remove", title: "Remove service", desc: "Delete this entry from the note"},
		menuItem{id: "back", title: "Back", desc: ""},
	)
	a.serviceMenu = newMenu("Service: "+a.editService, items)
	a.serviceMenu.SetSize(a.width, a.listHeight())
}

// rebuildLinkMenu regenerates the link list for the category being edited.
func (a *App) rebuildLinkMenu() {
	entry := a.session.Release().Service(a.editService)
	if entry == nil {
		a.state = stateMenu
		return
	}
	links, err := entry.Links(a.editLinks)
	if err != nil {
		a.err = err
		a.state = stateServiceEdit
		return
	}
	items := make([]list.Item, 0, len(links)+2)
	for i, link := range links {
		items = append(items, menuItem{id: fmt.Sprintf("link:%d", i), title: link, desc: "enter/d to delete"})
	}
	items = append(items,
		menuItem{id: "new", title: "+ Add link", desc: ""},
		menuItem{id: "back", title: "Back", desc: ""},
	)
	a.linkMenu = newMenu(fmt.Sprintf("%s · %s", a.editService, a.editLinks.Label()), items)
	a.linkMenu.SetSize(a.width, a.listHeight())
}

func (a *App) listHeight() int {
	h := a.height - 4
	if h < 5 {
		h = 5
	}
	return h
}

// Update is the message loop. Every edit funnels through mutate so status
// and logging stay consistent.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, m := range []*list.Model{&a.menu, &a.contactMenu, &a.addMenu, &a.pickMenu, &a.serviceMenu, &a.linkMenu} {
			m.SetSize(msg.Width, a.listHeight())
		}
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-entry screens own the keyboard except for escape/enter.
	switch a.state {
	case stateDateInput, stateTextInput, stateImport:
		return a.handleInputKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		return a.goBack(), nil
	}

	switch a.state {
	case stateMenu:
		return a.handleMenuKey(msg)
	case stateContactPick:
		return a.handleContactKey(msg)
	case stateServiceAdd:
		return a.handleAddKey(msg)
	case stateServicePick:
		return a.handlePickKey(msg)
	case stateServiceEdit:
		return a.handleServiceEditKey(msg)
	case stateLinkPick:
		return a.handleLinkKey(msg)
	case stateExport, statePreview:
		// Any other key returns to the menu.
		a.state = stateMenu
		return a, nil
	}
	return a, nil
}

// goBack pops one screen. The screens form a shallow tree rooted at the
// menu, so "back" is a small switch rather than a real stack.
func (a *App) goBack() *App {
	switch a.state {
	case stateServiceEdit:
		a.state = stateMenu
		a.rebuildMenu()
	case stateLinkPick, stateTextInput:
		a.state = stateServiceEdit
		a.rebuildServiceMenu()
	default:
		a.state = stateMenu
		a.rebuildMenu()
	}
	a.err = nil
	return a
}

func (a *App) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := a.menu.SelectedItem().(menuItem)
		if !ok {
			return a, nil
		}
		return a.openMenuItem(item)
	}
	if msg.String() == "q" {
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *App) openMenuItem(item menuItem) (tea.Model, tea.Cmd) {
	a.err = nil
	a.statusMsg = ""
	switch item.id {
	case "date":
		a.state = stateDateInput
		a.input = textinput.New()
		a.input.Placeholder = "YYYY-MM-DD (blank to unset)"
		a.input.SetValue(a.session.Release().Date.String())
		if a.input.Value() == "" {
			// Seed today's date as a convenience; the model itself never
			// reads the clock.
			a.input.SetValue(time.Now().Format("2006-01-02"))
		}
		a.input.Focus()
	case "contact":
		items := []list.Item{menuItem{id: "", title: "(none)", desc: "No point of contact"}}
		for _, name := range a.session.Catalog().Contacts {
			items = append(items, menuItem{id: name, title: name})
		}
		a.contactMenu = newMenu("Point of contact", items)
		a.contactMenu.SetSize(a.width, a.listHeight())
		a.state = stateContactPick
	case "add":
		snap := a.session.Snapshot()
		var items []list.Item
		for _, name := range a.session.Catalog().Services {
			if snap.Service(name) == nil {
				items = append(items, menuItem{id: name, title: name})
			}
		}
		if len(items) == 0 {
			a.statusMsg = "Every catalog service is already selected."
			return a, nil
		}
		a.addMenu = newMenu("Add service", items)
		a.addMenu.SetSize(a.width, a.listHeight())
		a.state = stateServiceAdd
	case "edit":
		snap := a.session.Snapshot()
		items := make([]list.Item, 0, len(snap.Services))
		for _, entry := range snap.Services {
			items = append(items, menuItem{id: entry.Name, title: entry.Name, desc: "Risk " + string(entry.Risk)})
		}
		a.pickMenu = newMenu("Edit service", items)
		a.pickMenu.SetSize(a.width, a.listHeight())
		a.state = stateServicePick
	case "preview":
		a.state = statePreview
	case "export":
		out, err := a.session.Export()
		if err != nil {
			a.err = err
			a.log.Error("export failed: %v", err)
			return a, nil
		}
		a.exported = out
		a.log.Info("exported %d characters", len(out))
		a.state = stateExport
	case "import":
		a.state = stateImport
		a.input = textinput.New()
		a.input.Placeholder = "Paste transport string"
		a.input.Focus()
	case "clear":
		a.session.Reset()
		a.statusMsg = "Form cleared."
		a.log.Info("form cleared")
		a.rebuildMenu()
	case "quit":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleContactKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := a.contactMenu.SelectedItem().(menuItem)
		if ok {
			a.mutate("set contact", func(r *note.Release) error {
				return r.SetContact(item.id)
			})
		}
		a.state = stateMenu
		a.rebuildMenu()
		return a, nil
	}
	var cmd tea.Cmd
	a.contactMenu, cmd = a.contactMenu.Update(msg)
	return a, cmd
}

func (a *App) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := a.addMenu.SelectedItem().(menuItem)
		if ok && a.mutate("add service "+item.id, func(r *note.Release) error {
			return r.AddService(item.id)
		}) {
			a.editService = item.id
			a.state = stateServiceEdit
			a.rebuildServiceMenu()
			return a, nil
		}
		a.state = stateMenu
		a.rebuildMenu()
		return a, nil
	}
	var cmd tea.Cmd
	a.addMenu, cmd = a.addMenu.Update(msg)
	return a, cmd
}

func (a *App) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if item, ok := a.pickMenu.SelectedItem().(menuItem); ok {
			a.editService = item.id
			a.state = stateServiceEdit
			a.rebuildServiceMenu()
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.pickMenu, cmd = a.pickMenu.Update(msg)
	return a, cmd
}

func (a *App) handleServiceEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := a.serviceMenu.SelectedItem().(menuItem)
		if !ok {
			return a, nil
		}
		return a.openServiceField(item)
	}
	var cmd tea.Cmd
	a.serviceMenu, cmd = a.serviceMenu.Update(msg)
	return a, cmd
}

func (a *App) openServiceField(item menuItem) (tea.Model, tea.Cmd) {
	name := a.editService
	switch {
	case item.id == "config_only":
		entry := a.session.Release().Service(name)
		if entry != nil {
			next := !entry.ConfigOnly
			a.mutate("toggle config-only", func(r *note.Release) error {
				return r.SetConfigOnly(name, next)
			})
		}
		a.rebuildServiceMenu()
	case item.id == "risk":
		entry := a.session.Release().Service(name)
		if entry != nil {
			next := nextRisk(entry.Risk)
			a.mutate("set risk "+string(next), func(r *note.Release) error {
				return r.SetRisk(name, next)
			})
		}
		a.rebuildServiceMenu()
	case item.id == "benefit":
		entry := a.session.Release().Service(name)
		if entry != nil {
			next := nextBenefit(entry.Benefit)
			a.mutate("set benefit "+string(next), func(r *note.Release) error {
				return r.SetBenefit(name, next)
			})
		}
		a.rebuildServiceMenu()
	case item.id == "version", item.id == "change", item.id == "issues":
		entry := a.session.Release().Service(name)
		if entry == nil {
			return a, nil
		}
		a.input = textinput.New()
		switch item.id {
		case "version":
			a.inputFor = targetVersion
			a.input.SetValue(entry.Version)
			a.input.Placeholder = "e.g. v2.14.0"
		case "change":
			a.inputFor = targetChangeDescription
			a.input.SetValue(entry.ChangeDescription)
			a.input.Placeholder = "What changed and why"
		case "issues":
			a.inputFor = targetKnownIssues
			a.input.SetValue(entry.KnownIssues)
			a.input.Placeholder = "Known issues, risks and mitigations"
		}
		a.input.Focus()
		a.state = stateTextInput
	case strings.HasPrefix(item.id, "links:"):
		a.editLinks = note.LinkCategory(strings.TrimPrefix(item.id, "links:"))
		a.state = stateLinkPick
		a.rebuildLinkMenu()
	case item.id == "remove":
		a.mutate("remove service "+name, func(r *note.Release) error {
			return r.RemoveService(name)
		})
		a.state = stateMenu
		a.rebuildMenu()
	case item.id == "back":
		a.state = stateMenu
		a.rebuildMenu()
	}
	return a, nil
}

func (a *App) handleLinkKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "enter" || key == "d" {
		item, ok := a.linkMenu.SelectedItem().(menuItem)
		if !ok {
			return a, nil
		}
		switch {
		case item.id == "new":
			if key != "enter" {
				break
			}
			a.inputFor = targetNewLink
			a.input = textinput.New()
			a.input.Placeholder = "https://…"
			a.input.Focus()
			a.state = stateTextInput
			return a, nil
		case item.id == "back":
			a.state = stateServiceEdit
			a.rebuildServiceMenu()
			return a, nil
		case strings.HasPrefix(item.id, "link:"):
			var index int
			fmt.Sscanf(item.id, "link:%d", &index)
			name, category := a.editService, a.editLinks
			a.mutate("remove link", func(r *note.Release) error {
				return r.RemoveLink(name, category, index)
			})
			a.rebuildLinkMenu()
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.linkMenu, cmd = a.linkMenu.Update(msg)
	return a, cmd
}

// handleInputKey drives the three text-entry screens.
func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		return a.goBack(), nil
	case "enter":
		value := a.input.Value()
		switch a.state {
		case stateDateInput:
			a.mutate("set date", func(r *note.Release) error {
				d, err := note.ParseDate(strings.TrimSpace(value))
				if err != nil {
					return err
				}
				return r.SetDate(d)
			})
			if a.err != nil {
				return a, nil // stay on the input so the user can fix it
			}
			a.state = stateMenu
			a.rebuildMenu()
		case stateImport:
			if err := a.session.Import(strings.TrimSpace(value)); err != nil {
				a.err = err
				a.log.Error("import failed: %v", err)
				return a, nil
			}
			a.statusMsg = "Release note imported."
			a.log.Info("import succeeded")
			a.state = stateMenu
			a.rebuildMenu()
		case stateTextInput:
			a.applyTextInput(value)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) applyTextInput(value string) {
	name := a.editService
	switch a.inputFor {
	case targetVersion:
		a.mutate("set version", func(r *note.Release) error {
			return r.SetVersion(name, value)
		})
	case targetChangeDescription:
		a.mutate("set change description", func(r *note.Release) error {
			return r.SetChangeDescription(name, value)
		})
	case targetKnownIssues:
		a.mutate("set known issues", func(r *note.Release) error {
			return r.SetKnownIssues(name, value)
		})
	case targetNewLink:
		category := a.editLinks
		if !a.mutate("add link", func(r *note.Release) error {
			return r.AddLink(name, category, value)
		}) {
			return // stay on the input, the error is shown below it
		}
		a.state = stateLinkPick
		a.rebuildLinkMenu()
		return
	}
	if a.err != nil {
		return
	}
	a.state = stateServiceEdit
	a.rebuildServiceMenu()
}

// mutate funnels every document edit through the session, records the
// outcome, and reports whether the operation committed.
func (a *App) mutate(what string, op func(*note.Release) error) bool {
	if err := a.session.Mutate(op); err != nil {
		a.err = err
		a.log.Warn("%s rejected: %v", what, err)
		return false
	}
	a.err = nil
	a.log.Info("%s", what)
	return true
}

// View renders the current screen.
func (a *App) View() string {
	var b strings.Builder
	switch a.state {
	case stateMenu:
		b.WriteString(a.menu.View())
		b.WriteString(helpStyle.Render("enter select · q quit"))
	case stateDateInput:
		b.WriteString(titleStyle.Render("Release date"))
		b.WriteString("\n\n" + a.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter save · esc cancel"))
	case stateContactPick:
		b.WriteString(a.contactMenu.View())
	case stateServiceAdd:
		b.WriteString(a.addMenu.View())
	case stateServicePick:
		b.WriteString(a.pickMenu.View())
	case stateServiceEdit:
		b.WriteString(a.serviceMenu.View())
		b.WriteString(helpStyle.Render("enter edit/toggle · esc back"))
	case stateLinkPick:
		b.WriteString(a.linkMenu.View())
		b.WriteString(helpStyle.Render("enter open · d delete · esc back"))
	case stateTextInput:
		b.WriteString(titleStyle.Render(a.editService))
		b.WriteString("\n\n" + a.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter save · esc cancel"))
	case stateExport:
		b.WriteString(titleStyle.Render("Transport string"))
		b.WriteString("\n\n")
		b.WriteString(boxStyle.Width(maxInt(20, a.width-4)).Render(a.exported))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Copy the string above, then press any key to return."))
	case stateImport:
		b.WriteString(titleStyle.Render("Import release note"))
		b.WriteString("\n\n" + a.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter import · esc cancel"))
	case statePreview:
		b.WriteString(render.Summary(a.session.Snapshot()))
		b.WriteString(helpStyle.Render("press any key to return"))
	}
	if a.err != nil {
		b.WriteString("\n" + errorStyle.Render(a.err.Error()))
	} else if a.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render(a.statusMsg))
	}
	return b.String()
}

func nextRisk(level note.RiskLevel) note.RiskLevel {
	for i, l := range note.RiskLevels {
		if l == level {
			return note.RiskLevels[(i+1)%len(note.RiskLevels)]
		}
	}
	return note.RiskLow
}

func nextBenefit(level note.BenefitLevel) note.BenefitLevel {
	for i, l := range note.BenefitLevels {
		if l == level {
			return note.BenefitLevels[(i+1)%len(note.BenefitLevels)]
		}
	}
	return note.BenefitLow
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
