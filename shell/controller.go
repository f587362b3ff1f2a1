// Package shell composes the session store, conversation registry, and
// message feed into a two-pane presentation: the conversation list and the
// active conversation.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/adrian-25/talk-glide/domain"
	"github.com/adrian-25/talk-glide/realtime"
	"github.com/adrian-25/talk-glide/search"
	"github.com/adrian-25/talk-glide/services"
	"github.com/adrian-25/talk-glide/session"
)

// State of the active-conversation pane for the current selection.
type State int

const (
	Unselected State = iota
	Loading
	Ready
)

// Controller owns the view state. Every load is tagged with the generation
// it was issued for; a response whose generation no longer matches the
// current selection is discarded, so a slow load for conversation A can
// never overwrite a faster one for conversation B.
type Controller struct {
	log           *slog.Logger
	store         *session.Store
	conversations services.IConversationService
	feed          services.IFeedService
	index         *search.Index // optional local search
	hub           *realtime.Hub

	mu         sync.Mutex
	state      State
	selected   uuid.UUID
	generation uint64
	header     services.Header
	messages   []domain.Message
	summaries  []domain.ConversationSummary
	notice     string
	watch      *realtime.Subscription

	listSub        *realtime.Subscription
	unsubSession   func()
	loadDone       chan struct{} // closed when an in-flight load applies or is discarded
	backgroundWork sync.WaitGroup
}

func NewController(
	log *slog.Logger,
	store *session.Store,
	conversations services.IConversationService,
	feed services.IFeedService,
	index *search.Index,
	hub *realtime.Hub,
) *Controller {
	return &Controller{
		log:           log,
		store:         store,
		conversations: conversations,
		feed:          feed,
		index:         index,
		hub:           hub,
	}
}

// Start wires the long-lived subscriptions: the list-scoped notification
// subscription and the session observer. It must be paired with Shutdown.
func (c *Controller) Start(ctx context.Context) {
	c.listSub = c.hub.Subscribe(realtime.Scope{})
	c.backgroundWork.Add(1)
	go func() {
		defer c.backgroundWork.Done()
		for range c.listSub.Events() {
			c.RefreshList(ctx)
		}
	}()

	c.unsubSession = c.store.OnChange(func(_ session.Identity, active bool) {
		if !active {
			c.reset()
		}
	})
}

// Shutdown releases every subscription the controller owns.
func (c *Controller) Shutdown() {
	if c.unsubSession != nil {
		c.unsubSession()
	}
	if c.listSub != nil {
		c.listSub.Close()
	}
	c.mu.Lock()
	watch := c.watch
	c.watch = nil
	c.mu.Unlock()
	if watch != nil {
		watch.Close()
	}
	c.backgroundWork.Wait()
}

// RefreshList re-fetches the conversation list. On failure the prior list is
// kept and a transient notice is surfaced; this is never fatal.
func (c *Controller) RefreshList(ctx context.Context) {
	identity, ok := c.store.Current()
	if !ok {
		return
	}

	summaries, err := c.conversations.ListConversations(ctx, identity.UserID)
	if err != nil {
		c.log.Warn("conversation list refresh failed", "error", err)
		c.setNotice("could not refresh conversations")
		return
	}

	c.mu.Lock()
	c.summaries = summaries
	c.mu.Unlock()
}

// Select switches the active conversation: the previous watch subscription
// is released, the state machine restarts at Loading for the new id, and the
// header and message history load in the background.
func (c *Controller) Select(ctx context.Context, conversationID uuid.UUID) {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.selected = conversationID
	c.state = Loading
	previous := c.watch
	c.watch = nil
	c.loadDone = make(chan struct{})
	done := c.loadDone
	c.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	c.backgroundWork.Add(1)
	go func() {
		defer c.backgroundWork.Done()
		defer close(done)
		c.load(ctx, generation, conversationID)
	}()
}

func (c *Controller) load(ctx context.Context, generation uint64, conversationID uuid.UUID) {
	identity, ok := c.store.Current()
	if !ok {
		return
	}

	header, err := c.feed.LoadHeader(ctx, conversationID, identity.UserID)
	var messages []domain.Message
	if err == nil {
		messages, err = c.feed.LoadMessages(ctx, conversationID)
	}

	if !c.apply(generation, header, messages, err) {
		return
	}
	if err == nil {
		c.startWatch(ctx, generation, conversationID)
	}
}

// apply installs a load result unless the selection has moved on. The
// loading flag clears on every exit path, including failure.
func (c *Controller) apply(generation uint64, header services.Header, messages []domain.Message, err error) bool {
	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return false
	}
	c.state = Ready
	if err != nil {
		c.header = services.Header{}
		c.messages = nil
		c.mu.Unlock()
		c.log.Warn("conversation load failed", "error", err)
		c.setNotice("could not load conversation")
		return true
	}
	c.header = header
	c.messages = messages
	c.mu.Unlock()

	c.indexMessages(messages)
	return true
}

func (c *Controller) startWatch(ctx context.Context, generation uint64, conversationID uuid.UUID) {
	sub := c.feed.Watch(conversationID)

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		sub.Close()
		return
	}
	c.watch = sub
	c.mu.Unlock()

	c.backgroundWork.Add(1)
	go func() {
		defer c.backgroundWork.Done()
		// Every notification triggers a full reload of the authoritative
		// order; the payload itself is never applied.
		for range sub.Events() {
			messages, err := c.feed.LoadMessages(ctx, conversationID)
			c.applyMessages(generation, messages, err)
		}
	}()
}

func (c *Controller) applyMessages(generation uint64, messages []domain.Message, err error) {
	if err != nil {
		c.log.Warn("message reload failed", "error", err)
		c.setNotice("could not reload messages")
		return
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	c.messages = messages
	c.mu.Unlock()

	c.indexMessages(messages)
}

// Send posts to the active conversation. Invalid content is rejected before
// any network call; backend failures become a notice and leave state alone.
func (c *Controller) Send(ctx context.Context, content string) {
	identity, ok := c.store.Current()
	if !ok {
		c.setNotice("not signed in")
		return
	}

	c.mu.Lock()
	conversationID := c.selected
	state := c.state
	c.mu.Unlock()

	if state == Unselected {
		c.setNotice("no conversation selected")
		return
	}

	if err := c.feed.Send(ctx, conversationID, identity.UserID, content); err != nil {
		c.setNotice(fmt.Sprintf("message not sent: %v", err))
	}
}

// SearchLocal queries the advisory local index.
func (c *Controller) SearchLocal(ctx context.Context, input string) []search.Hit {
	if c.index == nil {
		c.setNotice("local search disabled")
		return nil
	}
	hits, err := c.index.Search(ctx, search.ParseQuery(input))
	if err != nil {
		c.log.Warn("local search failed", "error", err)
		c.setNotice("search failed")
		return nil
	}
	return hits
}

// View returns a consistent snapshot for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		State:     c.state,
		Selected:  c.selected,
		Header:    c.header,
		Messages:  append([]domain.Message(nil), c.messages...),
		Summaries: append([]domain.ConversationSummary(nil), c.summaries...),
	}
}

// Notice returns and clears the pending transient notice.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	notice := c.notice
	c.notice = ""
	return notice
}

// View is an immutable snapshot of both panes.
type View struct {
	State     State
	Selected  uuid.UUID
	Header    services.Header
	Messages  []domain.Message
	Summaries []domain.ConversationSummary
}

func (c *Controller) setNotice(text string) {
	c.mu.Lock()
	c.notice = text
	c.mu.Unlock()
}

func (c *Controller) reset() {
	c.mu.Lock()
	c.generation++
	c.state = Unselected
	c.selected = uuid.Nil
	c.header = services.Header{}
	c.messages = nil
	c.summaries = nil
	watch := c.watch
	c.watch = nil
	c.mu.Unlock()
	if watch != nil {
		watch.Close()
	}
}

func (c *Controller) indexMessages(messages []domain.Message) {
	if c.index == nil {
		return
	}
	if err := c.index.IndexMessages(messages); err != nil {
		c.log.Debug("local index update failed", "error", err)
	}
}

// waitForLoad blocks until the most recent Select's load settles.
func (c *Controller) waitForLoad() {
	c.mu.Lock()
	done := c.loadDone
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}
