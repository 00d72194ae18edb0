// Package ui is the bubbletea front end of the demo board. It is a plain
// consumer of the results controller: everything it renders is addressed
// by (section, row).
package ui

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"liveview/internal/board"
	"liveview/internal/config"
	"liveview/query"
	"liveview/results"
	"liveview/store"
	"liveview/store/memstore"
)

// ReloadMsg tells the model the config file changed on disk.
type ReloadMsg struct{}

// keyMap defines the demo key bindings.
type keyMap struct {
	Quit   key.Binding
	Sort   key.Binding
	Filter key.Binding
	Group  key.Binding
	Help   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle status filter")),
		Group:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "toggle sections")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Filter, k.Group, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Sort, k.Filter, k.Group}, {k.Help, k.Quit}}
}

// activity survives bubbletea's value copies of the model; the controller
// listener writes into it.
type activity struct {
	initials int
	updates  int
	errors   int
	lastErr  error
}

func (a *activity) note(ev store.ChangeEvent) {
	switch ev := ev.(type) {
	case store.InitialEvent:
		a.initials++
	case store.UpdateEvent:
		a.updates++
	case store.ErrorEvent:
		a.errors++
		a.lastErr = ev.Err
		log.Printf("UI: store error: %v", ev.Err)
	}
}

// sortCycle is the set of orderings the 's' key walks through.
var sortCycle = [][]query.SortKey{
	{{Field: "name"}},
	{{Field: "priority", Descending: true}, {Field: "name"}},
	nil, // natural order
}

// Model is the bubbletea model for the board.
type Model struct {
	cfgPath string
	title   string

	store *memstore.Store[*board.Task]
	ctrl  *results.Controller[*board.Task]

	reload <-chan struct{}

	keys   keyMap
	help   help.Model
	styles *Styles
	act    *activity

	width, height int
	statusMsg     string

	sectionField string
	sectioned    bool
	statusCycle  []string
	statusIdx    int
	sortIdx      int
}

// New builds the model and registers the controller listener.
func New(cfgPath string, cfg *config.Config, st *memstore.Store[*board.Task], ctrl *results.Controller[*board.Task], reload <-chan struct{}) Model {
	m := Model{
		cfgPath:      cfgPath,
		title:        cfg.Title,
		store:        st,
		ctrl:         ctrl,
		reload:       reload,
		keys:         defaultKeyMap(),
		help:         help.New(),
		styles:       NewStyles(),
		act:          &activity{},
		sectionField: cfg.View.SectionField,
		sectioned:    cfg.View.SectionField != "",
		statusCycle:  []string{"", "open", "done"},
	}
	ctrl.RegisterListener(m.act.note)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.waitReload()
}

// waitReload blocks on the watcher channel and turns a file change into a
// message on the program goroutine.
func (m Model) waitReload() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.reload; !ok {
			return nil
		}
		return ReloadMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ReloadMsg:
		cfg, err := config.Load(m.cfgPath)
		if err != nil {
			m.statusMsg = fmt.Sprintf("reload failed: %v", err)
			return m, m.waitReload()
		}
		// Sync mutates the store on this goroutine; the controller
		// forwards the resulting Update events before Sync returns.
		board.Sync(m.store, cfg)
		m.statusMsg = "reloaded " + m.cfgPath
		return m, m.waitReload()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Sort):
		m.sortIdx = (m.sortIdx + 1) % len(sortCycle)
		if err := m.ctrl.UpdateSortKeys(sortCycle[m.sortIdx]); err != nil {
			m.statusMsg = fmt.Sprintf("sort failed: %v", err)
		} else {
			m.statusMsg = "sort: " + describeSort(sortCycle[m.sortIdx])
		}

	case key.Matches(msg, m.keys.Filter):
		m.statusIdx = (m.statusIdx + 1) % len(m.statusCycle)
		status := m.statusCycle[m.statusIdx]
		if err := m.ctrl.UpdatePredicate(board.StatusPredicate(status), m.sectioning()); err != nil {
			m.statusMsg = fmt.Sprintf("filter failed: %v", err)
		} else if status == "" {
			m.statusMsg = "filter: all"
		} else {
			m.statusMsg = "filter: status=" + status
		}

	case key.Matches(msg, m.keys.Group):
		m.sectioned = !m.sectioned
		status := m.statusCycle[m.statusIdx]
		if err := m.ctrl.UpdatePredicate(board.StatusPredicate(status), m.sectioning()); err != nil {
			m.statusMsg = fmt.Sprintf("regroup failed: %v", err)
		} else if m.sectioned {
			m.statusMsg = "sections: by " + m.sectionField
		} else {
			m.statusMsg = "sections: off"
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// sectioning returns the current section configuration, nil when the
// board is flat.
func (m Model) sectioning() *results.Sectioning {
	if !m.sectioned || m.sectionField == "" {
		return nil
	}
	return &results.Sectioning{Field: m.sectionField, Kind: results.KeyString}
}

func describeSort(keys []query.SortKey) string {
	if len(keys) == 0 {
		return "natural"
	}
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		if k.Descending {
			out += "-"
		}
		out += k.Field
	}
	return out
}
