package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/tui/keys"
	"github.com/matheus3301/convo/internal/tui/model"
	"github.com/matheus3301/convo/internal/tui/ui"
	"github.com/matheus3301/convo/internal/tui/views"
	"github.com/rivo/tview"
	"golang.org/x/sync/errgroup"
)

const (
	pageConversations = "conversations"
	pageThread        = "thread"
	pageDetails       = "details"
	pageHelp          = "help"
	pageActions       = "actions"
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	pages    *ui.Pages
	vm       *model.ViewModel
	registry *keys.Registry
	session  string

	sessionInfo *ui.SessionInfo
	menu        *ui.Menu
	crumbs      *ui.Crumbs
	flashBar    *ui.FlashBar
	prompt      *ui.Prompt
	header      *tview.Flex
	body        *tview.Flex

	convList  *views.ConversationList
	thread    *views.MessageThread
	details   *views.ConversationInfo
	help      *views.HelpView
	actions   *views.ActionMenu
	statusBar *views.StatusBar

	components map[string]ui.Component
	reload     chan struct{}
	loops      errgroup.Group

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(c *rpc.Client, sessionName string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:         tview.NewApplication(),
		theme:       theme,
		pages:       ui.NewPages(),
		vm:          model.NewViewModel(c),
		registry:    keys.NewRegistry(),
		session:     sessionName,
		sessionInfo: ui.NewSessionInfo(theme),
		menu:        ui.NewMenu(theme),
		crumbs:      ui.NewCrumbs(theme),
		flashBar:    ui.NewFlashBar(theme),
		prompt:      ui.NewPrompt(theme),
		convList:    views.NewConversationList(theme),
		thread:      views.NewMessageThread(theme),
		details:     views.NewConversationInfo(theme),
		help:        views.NewHelpView(theme),
		actions:     views.NewActionMenu(theme),
		statusBar:   views.NewStatusBar(theme),
		reload:      make(chan struct{}, 1),
		ctx:         ctx,
		cancel:      cancel,
	}
	a.components = map[string]ui.Component{
		pageConversations: a.convList,
		pageThread:        a.thread,
		pageDetails:       a.details,
		pageHelp:          a.help,
		pageActions:       a.actions,
	}

	a.statusBar.SetSession(sessionName)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.Bind(keys.Global,
		keys.Rune('q', func() {
			if a.pages.Depth() > 1 {
				a.back()
				return
			}
			a.Stop()
		}),
		keys.Rune('?', func() { a.push(pageHelp) }),
		keys.Rune(':', func() { a.showPrompt(ui.PromptCommand) }),
	)

	a.registry.Bind(pageConversations,
		keys.Key(tcell.KeyEnter, a.openSelected),
		keys.Rune('a', func() { a.showActions(a.convList.SelectedID()) }),
		keys.Rune('p', func() { a.togglePin(a.convList.SelectedID()) }),
		keys.Key(tcell.KeyTab, a.nextTag),
		keys.Rune('/', func() { a.showPrompt(ui.PromptFilter) }),
		keys.Rune('d', func() { a.showDetails(a.convList.SelectedID()) }),
		keys.Rune('0', func() { a.applyFilter("") }),
	)
	for n := 1; n <= 9; n++ {
		a.registry.Bind(pageConversations, keys.Rune(rune('0'+n), func() {
			if id := a.convList.IDByIndex(n); id != "" {
				a.openConversation(id)
			}
		}))
	}

	a.registry.Bind(pageThread,
		keys.Rune('i', func() { a.app.SetFocus(a.thread.Composer()) }),
		keys.Rune('x', a.deleteSelectedMessage),
		keys.Rune('d', func() { a.showDetails(a.vm.GetActiveID()) }),
	)
}

func (a *App) setupCallbacks() {
	a.thread.SetOnSend(func(text string) {
		a.async("Send", func(ctx context.Context) error {
			if err := a.vm.SendText(ctx, text); err != nil {
				return err
			}
			a.app.QueueUpdateDraw(func() { a.thread.Update(a.vm.GetThread()) })
			return nil
		})
	})

	a.actions.SetOnChoose(func(intent string) {
		id := a.convList.SelectedID()
		a.back()
		if intent == rpc.IntentCancel || id == "" {
			return
		}
		a.async("Action", func(ctx context.Context) error {
			if err := a.vm.Dispatch(ctx, intent, id, ""); err != nil {
				return err
			}
			if intent == rpc.IntentDelete {
				a.vm.Flash.Info("Conversation deleted")
			}
			a.app.QueueUpdateDraw(func() { a.convList.Update(a.vm.GetList()) })
			return nil
		})
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptFilter:
			a.applyFilter(text)
		case ui.PromptCommand:
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)
	a.prompt.SetCompleter(CompleteCommand)
	a.help.SetCommands(CommandHints())

	a.pages.SetOnChange(func(stack []string) {
		names := make([]string, len(stack))
		for i, page := range stack {
			names[i] = page
			if c, ok := a.components[page]; ok {
				names[i] = c.Name()
			}
		}
		a.crumbs.Update(names)
		if c, ok := a.components[a.pages.Current()]; ok {
			a.menu.Update(c.Hints())
		}
	})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.sessionInfo, 0, 1, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(ui.NewLogo(a.theme), 20, 0, false)

	a.pages.AddPage(pageConversations, a.convList, true, false)
	a.pages.AddPage(pageThread, a.thread, true, false)
	a.pages.AddPage(pageDetails, a.details, true, false)
	a.pages.AddPage(pageHelp, a.help, true, false)
	a.pages.AddPage(pageActions, a.actions, false, false)

	a.header = header
	a.body = tview.NewFlex().SetDirection(tview.FlexRow)
	a.layout(false)

	a.app.SetRoot(a.body, true)
	a.pages.Reset(pageConversations)
	a.app.SetFocus(a.convList)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		focused := a.app.GetFocus()

		// Text inputs own every key except Esc, which leaves the composer.
		if focused == a.thread.Composer() {
			if event.Key() == tcell.KeyEscape {
				a.app.SetFocus(a.thread.Messages())
				return nil
			}
			return event
		}
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}
		if a.pages.Current() == pageActions {
			return event
		}

		if event.Key() == tcell.KeyEscape {
			if a.pages.Depth() > 1 {
				a.back()
				return nil
			}
			if a.vm.GetFilter() != "" {
				a.applyFilter("")
				return nil
			}
			return event
		}

		if a.registry.HandleEvent(a.pages.Current(), event) {
			return nil
		}
		return event
	})
}

// push shows a page on top of the stack and focuses it.
func (a *App) push(page string) {
	if a.pages.Current() == page {
		return
	}
	a.pages.Push(page)
	a.refocus()
}

// back pops the current page and restores focus below it.
func (a *App) back() {
	if a.pages.Pop() == pageThread {
		a.async("Close", a.vm.CloseThread)
	}
	a.refocus()
}

// layout arranges the screen, with the prompt between header and pages
// while it is active.
func (a *App) layout(withPrompt bool) {
	a.body.Clear()
	a.body.AddItem(a.header, 7, 0, false)
	if withPrompt {
		a.body.AddItem(a.prompt, 3, 0, true)
	}
	a.body.AddItem(a.pages, 0, 1, !withPrompt).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	a.layout(true)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.layout(false)
	a.refocus()
}

// refocus restores focus to the current page without popping it.
func (a *App) refocus() {
	if c, ok := a.components[a.pages.Current()]; ok {
		a.app.SetFocus(c.FocusTarget())
	}
}

func (a *App) openSelected() {
	if id := a.convList.SelectedID(); id != "" {
		a.openConversation(id)
	}
}

func (a *App) openConversation(id string) {
	a.async("Open", func(ctx context.Context) error {
		if err := a.vm.OpenThread(ctx, id); err != nil {
			return err
		}
		_ = a.vm.LoadConversations(ctx)
		a.app.QueueUpdateDraw(func() {
			a.thread.Update(a.vm.GetThread())
			a.convList.Update(a.vm.GetList())
			a.pages.PopTo(pageConversations)
			a.push(pageThread)
		})
		return nil
	})
}

func (a *App) showActions(id string) {
	if id == "" {
		return
	}
	c := a.vm.Find(id)
	if c == nil {
		return
	}
	a.async("Actions", func(ctx context.Context) error {
		acts, err := a.vm.Actions(ctx, id)
		if err != nil {
			return err
		}
		a.app.QueueUpdateDraw(func() {
			a.actions.Show(c.DisplayName, acts)
			a.pages.PushOverlay(pageActions)
			a.refocus()
		})
		return nil
	})
}

func (a *App) showDetails(id string) {
	c := a.vm.Find(id)
	if c == nil {
		return
	}
	a.details.Update(c)
	a.push(pageDetails)
}

func (a *App) togglePin(id string) {
	if id == "" {
		return
	}
	a.async("Pin", func(ctx context.Context) error {
		c, err := a.vm.TogglePin(ctx, id)
		if err != nil {
			return err
		}
		if c.Pinned {
			a.vm.Flash.Info("Pinned " + c.DisplayName)
		} else {
			a.vm.Flash.Info("Unpinned " + c.DisplayName)
		}
		a.app.QueueUpdateDraw(func() { a.convList.Update(a.vm.GetList()) })
		return nil
	})
}

func (a *App) nextTag() {
	current := ""
	if l := a.vm.GetList(); l != nil {
		current = l.Tag
	}
	a.selectTag(views.NextTag(current))
}

func (a *App) selectTag(tag string) {
	a.async("Tag", func(ctx context.Context) error {
		if err := a.vm.Dispatch(ctx, rpc.IntentSelectTag, "", tag); err != nil {
			return err
		}
		a.app.QueueUpdateDraw(func() { a.convList.Update(a.vm.GetList()) })
		return nil
	})
}

func (a *App) applyFilter(filter string) {
	a.vm.SetFilter(filter)
	a.convList.SetFilter(filter)
	a.requestReload()
}

func (a *App) deleteSelectedMessage() {
	msgID, ok := a.thread.SelectedMessage()
	if !ok {
		return
	}
	a.async("Delete", func(ctx context.Context) error {
		if err := a.vm.DeleteMessage(ctx, msgID); err != nil {
			return err
		}
		a.app.QueueUpdateDraw(func() { a.thread.Update(a.vm.GetThread()) })
		return nil
	})
}

func (a *App) runCommand(cmd Command) {
	selected := a.convList.SelectedID()
	if a.pages.Current() == pageThread {
		selected = a.vm.GetActiveID()
	}

	switch cmd.Name {
	case "quit":
		a.Stop()
	case "help":
		a.push(pageHelp)
	case "open":
		c := a.vm.FindByName(cmd.Args)
		if cmd.Args == "" || c == nil {
			a.vm.Flash.Warn(fmt.Sprintf("No conversation matches %q", cmd.Args))
			return
		}
		a.openConversation(c.ID)
	case "pin", "unpin", "delete":
		if selected == "" {
			a.vm.Flash.Warn("No conversation selected")
			return
		}
		a.async(cmd.Name, func(ctx context.Context) error {
			if err := a.vm.Dispatch(ctx, cmd.Name, selected, ""); err != nil {
				return err
			}
			if cmd.Name == rpc.IntentDelete && a.vm.GetActiveID() == selected {
				a.app.QueueUpdateDraw(func() {
					a.pages.PopTo(pageConversations)
					a.refocus()
				})
			}
			a.app.QueueUpdateDraw(func() { a.convList.Update(a.vm.GetList()) })
			return nil
		})
	case "read":
		if selected == "" {
			return
		}
		a.async("Read", func(ctx context.Context) error {
			if err := a.vm.MarkRead(ctx, selected); err != nil {
				return err
			}
			a.app.QueueUpdateDraw(func() { a.convList.Update(a.vm.GetList()) })
			return nil
		})
	case "tag":
		a.selectTag(strings.ToLower(cmd.Args))
	case "filter":
		a.applyFilter(cmd.Args)
	default:
		a.vm.Flash.Warn(fmt.Sprintf("Unknown command %q", cmd.Name))
	}
}

// async runs fn off the UI goroutine and flashes its error.
func (a *App) async(op string, fn func(ctx context.Context) error) {
	go func() {
		if err := fn(a.ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.vm.Flash.Err(fmt.Errorf("%s failed: %w", op, err))
		}
	}()
}

func (a *App) requestReload() {
	select {
	case a.reload <- struct{}{}:
	default:
	}
}

// Run starts the background loops and blocks until the UI exits. The
// loops are stopped and waited for before it returns.
func (a *App) Run() error {
	a.requestReload()
	for _, loop := range []func(){a.reloadLoop, a.watchLoop, a.flashLoop, a.clockLoop} {
		a.loops.Go(func() error {
			loop()
			return nil
		})
	}

	err := a.app.Run()
	a.cancel()
	_ = a.loops.Wait()
	return err
}

// reloadLoop coalesces reload requests from keys and daemon events.
func (a *App) reloadLoop() {
	for {
		select {
		case <-a.reload:
		case <-a.ctx.Done():
			return
		}
		if err := a.vm.LoadConversations(a.ctx); err != nil {
			if a.ctx.Err() != nil {
				return
			}
			a.vm.Flash.Err(err)
		}
		_ = a.vm.LoadStatus(a.ctx)
		_ = a.vm.ReloadThread(a.ctx)

		a.app.QueueUpdateDraw(func() {
			a.convList.Update(a.vm.GetList())
			if a.vm.GetActiveID() != "" {
				a.thread.Update(a.vm.GetThread())
			}
			a.renderStatus()
		})
	}
}

// watchLoop follows the daemon event stream, reconnecting until the app
// stops.
func (a *App) watchLoop() {
	for {
		err := a.vm.Watch(a.ctx, func(*rpc.EventEnvelope) { a.requestReload() })
		if a.ctx.Err() != nil {
			return
		}
		a.vm.Flash.Warn("Event stream lost: " + err.Error())
		select {
		case <-time.After(2 * time.Second):
			a.requestReload()
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) flashLoop() {
	for {
		select {
		case msg := <-a.vm.Flash.Updates():
			a.app.QueueUpdateDraw(func() { a.flashBar.Show(msg, true) })
		case <-a.ctx.Done():
			return
		}
	}
}

// clockLoop refreshes the status line and expires flash messages.
func (a *App) clockLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = a.vm.LoadStatus(a.ctx)
			a.app.QueueUpdateDraw(func() {
				a.renderStatus()
				a.flashBar.Show(a.vm.Flash.Current())
			})
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) renderStatus() {
	st := a.vm.GetStatus()
	if st == nil {
		return
	}
	a.statusBar.SetStatus(st.Status, st.TotalUnread, st.Outbox.Pending)
	a.sessionInfo.Update(&ui.SessionData{
		Session:       st.Session,
		Status:        st.Status,
		Reason:        st.Reason,
		Conversations: st.ConversationCount,
		Unread:        st.TotalUnread,
		Pending:       st.Outbox.Pending,
		Uptime:        time.Duration(st.UptimeMs) * time.Millisecond,
	})
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
