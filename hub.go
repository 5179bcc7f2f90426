// Spinwheel hubs
//
// Every wheel ID gets one Hub goroutine that owns the wheel's session. All
// browser tabs on /wheel/:wheelid connect over a websocket and send actions;
// the hub applies them one at a time, persists what changed and broadcasts
// the new state to every tab, so all viewers watch the same spin.
//
// A spin is decided the moment it is requested. The hub tells clients where
// the wheel stops, then holds the result back until the animation has run
// for wheel.SpinDuration.

package main

import (
	"context"
	"time"

	"github.com/Seednode/spinwheel/store"
	"github.com/Seednode/spinwheel/wheel"
	"github.com/gorilla/websocket"
)

// Messages coming from clients
type ClientMessage struct {
	Type  string `json:"type"`            // see handleAction
	Name  string `json:"name,omitempty"`  // add / save_list / load_list / delete_list_request
	Text  string `json:"text,omitempty"`  // bulk_add
	Index *int   `json:"index,omitempty"` // remove
	Theme string `json:"theme,omitempty"` // set_theme
	Mode  string `json:"mode,omitempty"`  // set_mode
}

// StateMessage carries everything a client needs to draw the wheel.
type StateMessage struct {
	Type string `json:"type"` // "state"
	wheel.Snapshot
	ListName      string            `json:"list_name"`
	SavedLists    []store.SavedList `json:"saved_lists"`
	Themes        []string          `json:"themes"`
	PendingDelete string            `json:"pending_delete,omitempty"`
	Viewers       int               `json:"viewers"`
}

// SpinMessage starts the animation on every client.
type SpinMessage struct {
	Type       string  `json:"type"` // "spin"
	ID         string  `json:"id"`
	From       float64 `json:"from"`
	Rotation   float64 `json:"rotation"`
	DurationMS int64   `json:"duration_ms"`
	Easing     string  `json:"easing"`
}

// ResultMessage reveals the winner once the spin has settled.
type ResultMessage struct {
	Type   string `json:"type"` // "result"
	ID     string `json:"id"`
	Winner string `json:"winner"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type action struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id      string
	cfg     *Config
	ctx     context.Context
	clients map[*Client]bool

	session       *wheel.Session
	lists         *store.ListStore
	pendingDelete string
	settleAfter   time.Duration

	register chan *Client
	unreg    chan *Client
	actions  chan action
	settles  chan string
	done     chan struct{}

	activity *activity
}

func newHub(ctx context.Context, cfg *Config, wheelID string, lists *store.ListStore, rng wheel.RNG) *Hub {
	h := &Hub{
		id:          wheelID,
		cfg:         cfg,
		ctx:         ctx,
		clients:     make(map[*Client]bool),
		session:     wheel.NewSession(wheel.NewEngine(rng)),
		lists:       lists,
		settleAfter: wheel.SpinDuration,
		register:    make(chan *Client),
		unreg:       make(chan *Client),
		actions:     make(chan action),
		settles:     make(chan string),
		done:        make(chan struct{}),
		activity:    newActivity(),
	}

	h.hydrate()

	return h
}

// hydrate restores the wheel's last entries, theme and mode. Anything missing
// or unreadable keeps the session defaults.
func (h *Hub) hydrate() {
	if entries, ok := h.lists.LoadEntries(h.ctx); ok {
		h.session.Entries.Replace(entries)
	}
	if theme, ok := h.lists.LoadTheme(h.ctx); ok {
		h.session.SetTheme(theme)
	}
	if mode, ok := h.lists.LoadMode(h.ctx); ok {
		h.session.SetMode(wheel.ParseMode(mode))
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.activity.touch()
			h.clients[c] = true

			logf(h.cfg, "WHEEL: Viewer joined %s (%d connected)", h.id, len(h.clients))

			h.broadcastState()

		case c := <-h.unreg:
			h.activity.touch()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.broadcastState()
			}

		case a := <-h.actions:
			h.activity.touch()
			h.handleAction(a)

		case id := <-h.settles:
			h.handleSettle(id)

		case <-h.done:
			for c := range h.clients {
				close(c.send)
				if c.conn != nil {
					_ = c.conn.Close()
				}
				delete(h.clients, c)
			}
			return
		}
	}
}

// stop ends the run loop and disconnects everyone.
func (h *Hub) stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// submit queues an action for the run loop; it gives up if the hub stops.
func (h *Hub) submit(a action) bool {
	select {
	case h.actions <- a:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) handleAction(a action) {
	msg := a.msg
	s := h.session

	var entriesChanged, stateChanged bool

	switch msg.Type {
	case "add":
		entriesChanged = s.Entries.Add(msg.Name)

	case "bulk_add":
		entriesChanged = s.Entries.AddBulk(msg.Text)

	case "remove":
		if msg.Index != nil {
			entriesChanged = s.Entries.RemoveAt(*msg.Index)
		}

	case "clear_request":
		s.RequestClear()
		stateChanged = true

	case "clear_cancel":
		s.CancelClear()
		stateChanged = true

	case "clear_confirm":
		entriesChanged = s.ConfirmClear()
		stateChanged = true

	case "spin":
		h.spin()
		return

	case "dismiss":
		removed, err := s.Dismiss()
		if err != nil {
			logf(h.cfg, "WHEEL: Ignoring dismiss on %s: %v", h.id, err)
			return
		}
		entriesChanged = removed > 0
		stateChanged = true

	case "save_list":
		if h.lists.SaveList(h.ctx, msg.Name, s.Entries.Entries()) {
			logf(h.cfg, "WHEEL: Saved list %q from %s", msg.Name, h.id)
			stateChanged = true
		}

	case "load_list":
		if entries, ok := h.lists.LoadList(h.ctx, msg.Name); ok {
			s.Entries.Replace(entries)
			entriesChanged = true
		}

	case "delete_list_request":
		if _, ok := h.lists.LoadList(h.ctx, msg.Name); ok {
			h.pendingDelete = msg.Name
			stateChanged = true
		}

	case "delete_list_cancel":
		h.pendingDelete = ""
		stateChanged = true

	case "delete_list_confirm":
		if h.pendingDelete != "" {
			h.lists.DeleteList(h.ctx, h.pendingDelete)
			logf(h.cfg, "WHEEL: Deleted list %q from %s", h.pendingDelete, h.id)
			h.pendingDelete = ""
			stateChanged = true
		}

	case "set_theme":
		if !wheel.KnownTheme(msg.Theme) {
			logf(h.cfg, "WHEEL: Ignoring unknown theme %q on %s", msg.Theme, h.id)
			return
		}
		s.SetTheme(msg.Theme)
		h.lists.SaveTheme(h.ctx, s.Theme())
		stateChanged = true

	case "set_mode":
		s.SetMode(wheel.ParseMode(msg.Mode))
		h.lists.SaveMode(h.ctx, string(s.Mode()))
		stateChanged = true

	default:
		// ignore unknown types
		return
	}

	if entriesChanged {
		h.lists.SaveEntries(h.ctx, s.Entries.Entries())
	}

	if entriesChanged || stateChanged {
		h.broadcastState()
	}
}

func (h *Hub) spin() {
	s := h.session
	from := s.Rotation()
	hadResult := s.State() == wheel.Settled

	res, err := s.Spin()

	// Spinning from a settled result dismisses it first, even when the
	// spin itself then fails.
	dismissed := hadResult && s.State() != wheel.Settled
	if dismissed {
		h.lists.SaveEntries(h.ctx, s.Entries.Entries())
	}

	if err != nil {
		logf(h.cfg, "WHEEL: Ignoring spin on %s: %v", h.id, err)
		if dismissed {
			h.broadcastState()
		}
		return
	}

	logf(h.cfg, "WHEEL: Spinning %s, %d entries", h.id, s.Entries.Len())

	h.broadcast(SpinMessage{
		Type:       "spin",
		ID:         res.ID,
		From:       from,
		Rotation:   res.TargetRotation,
		DurationMS: h.settleAfter.Milliseconds(),
		Easing:     wheel.Easing,
	})
	h.broadcastState()

	time.AfterFunc(h.settleAfter, func() {
		select {
		case h.settles <- res.ID:
		case <-h.done:
		}
	})
}

func (h *Hub) handleSettle(id string) {
	pending, ok := h.session.Pending()
	if !ok || pending.ID != id {
		return
	}

	winner, err := h.session.Settle()
	if err != nil {
		return
	}

	logf(h.cfg, "WHEEL: %s landed on %q", h.id, winner)

	h.broadcast(ResultMessage{
		Type:   "result",
		ID:     id,
		Winner: winner,
	})
	h.broadcastState()
}

func (h *Hub) stateMessage() StateMessage {
	snap := h.session.Snapshot()

	return StateMessage{
		Type:          "state",
		Snapshot:      snap,
		ListName:      h.lists.ListName(h.ctx, snap.Entries),
		SavedLists:    h.lists.ListAll(h.ctx),
		Themes:        wheel.Themes(),
		PendingDelete: h.pendingDelete,
		Viewers:       len(h.clients),
	}
}

func (h *Hub) broadcastState() {
	h.broadcast(h.stateMessage())
}

// broadcast sends msg to every client, dropping any that cannot keep up.
func (h *Hub) broadcast(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(64 << 10)

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if !h.submit(action{client: c, msg: msg}) {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
