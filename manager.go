package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/spinwheel/store"
	"github.com/Seednode/spinwheel/wheel"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const wheelIDLength = 8

var validWheelID = regexp.MustCompile(`^[A-Za-z0-9]{1,32}$`)

type activity struct {
	mu   sync.RWMutex
	last time.Time
}

func newActivity() *activity {
	return &activity{last: time.Now()}
}

func (a *activity) touch() {
	a.mu.Lock()
	a.last = time.Now()
	a.mu.Unlock()
}

func (a *activity) since() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// WheelManager holds a hub per wheel ID, so each /wheel/:wheelid is its own
// isolated session. Wheel state outlives its hub in the store; an unloaded
// wheel is rebuilt from there on the next visit.
type WheelManager struct {
	cfg    *Config
	kv     store.KV
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration

	newRNG func() (wheel.RNG, error)
}

func newWheelManager(cfg *Config, kv store.KV) *WheelManager {
	ctx, cancel := context.WithCancel(context.Background())

	wm := &WheelManager{
		cfg:         cfg,
		kv:          kv,
		ctx:         ctx,
		cancel:      cancel,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		newRNG:      wheel.NewRNG,
	}
	if wm.idleTimeout > 0 {
		go wm.reaperLoop()
	}

	return wm
}

// Close stops the reaper and every hub.
func (wm *WheelManager) Close() {
	wm.cancel()

	wm.mu.Lock()
	defer wm.mu.Unlock()

	for id, hub := range wm.hubs {
		hub.stop()
		delete(wm.hubs, id)
	}
}

func (wm *WheelManager) listStore(wheelID string) *store.ListStore {
	return store.New(wm.kv, "wheel:"+wheelID, store.WithLogger(logger(wm.cfg)))
}

func (wm *WheelManager) getHub(wheelID string) (*Hub, error) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if hub, ok := wm.hubs[wheelID]; ok {
		return hub, nil
	}

	rng, err := wm.newRNG()
	if err != nil {
		return nil, err
	}

	hub := newHub(wm.ctx, wm.cfg, wheelID, wm.listStore(wheelID), rng)
	wm.hubs[wheelID] = hub
	go hub.run()

	logf(wm.cfg, "WHEEL: Loaded wheel %s", wheelID)

	return hub, nil
}

func randomWheelID(n int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const max = byte(255 - (256 % len(letters)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b <= max {
				out = append(out, letters[int(b)%len(letters)])
				if len(out) == n {
					return string(out)
				}
			}
		}
	}

	return string(out)
}

// newWheelID returns a random ID that no loaded wheel is using.
func (wm *WheelManager) newWheelID() string {
	for {
		id := randomWheelID(wheelIDLength)

		wm.mu.Lock()
		_, exists := wm.hubs[id]
		wm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically unloads hubs that have been idle longer than idleTimeout.
func (wm *WheelManager) reaperLoop() {
	ticker := time.NewTicker(wm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-wm.ctx.Done():
			return
		case <-ticker.C:
			wm.reap(time.Now().Add(-wm.idleTimeout))
		}
	}
}

func (wm *WheelManager) reap(cutoff time.Time) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for id, hub := range wm.hubs {
		if hub.activity.since().Before(cutoff) {
			delete(wm.hubs, id)
			hub.stop()
			logf(wm.cfg, "WHEEL: Unloaded idle wheel %s", id)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveWS attaches a websocket to the hub named by :wheelid.
func serveWS(cfg *Config, wm *WheelManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		wheelID := ps.ByName("wheelid")
		if !validWheelID.MatchString(wheelID) {
			http.Error(w, "invalid wheel id", http.StatusBadRequest)
			return
		}

		hub, err := wm.getHub(wheelID)
		if err != nil {
			logf(cfg, "ERROR: Loading wheel %s: %v", wheelID, err)
			http.Error(w, "unable to load wheel", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 32),
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		go client.readPump(hub)
	}
}

// qrHandler renders a PNG QR code pointing at the current wheel.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validWheelID.MatchString(ps.ByName("wheelid")) {
			http.Error(w, "invalid wheel id", http.StatusBadRequest)
			return
		}

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:wheelid/qr; strip trailing "/qr" to get the wheel URL.
		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

//go:embed assets/wheel/index.html
var indexHTML []byte

func serveWheelPage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validWheelID.MatchString(ps.ByName("wheelid")) {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)
		_, _ = w.Write(indexHTML)
	}
}

// redirectNewWheel handles GET /wheel by redirecting to a fresh wheel ID.
func redirectNewWheel(cfg *Config, path string, wm *WheelManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		wheelID := wm.newWheelID()
		logf(cfg, "WHEEL: Created wheel %s for %s", wheelID, realIP(r))
		http.Redirect(w, r, cfg.prefix+path+"/"+wheelID, http.StatusTemporaryRedirect)
	}
}

// registerWheel sets up routes so that:
//   - $path               → redirects to a new random wheel
//   - $path/:wheelid      → HTML client
//   - $path/:wheelid/ws   → websocket for that wheel
//   - $path/:wheelid/qr   → PNG QR code for that wheel's URL
func registerWheel(cfg *Config, path string, wm *WheelManager, errs chan<- error, mux *httprouter.Router) {
	mux.GET(cfg.prefix+path, redirectNewWheel(cfg, path, wm))

	mux.GET(cfg.prefix+path+"/:wheelid", serveWheelPage(cfg))

	mux.GET(cfg.prefix+"/assets/wheel/*asset", serveAssets(cfg, errs))

	mux.GET(cfg.prefix+path+"/:wheelid/ws", serveWS(cfg, wm))

	mux.GET(cfg.prefix+path+"/:wheelid/qr", qrHandler(cfg))
}
