package ws

import (
	"sync"
)

var hub *Hub
var once sync.Once

type clients struct {
	sync.Mutex
	// user_id -> device ip -> client
	c map[uint]map[string]*Client
}

type Hub struct {
	clients    *clients
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}

	// presence hooks, wired to redis in main
	OnConnect    func(memberID uint)
	OnDisconnect func(memberID uint)
}

func GetHub() *Hub {
	once.Do(func() {
		hub = &Hub{
			clients:    &clients{c: make(map[uint]map[string]*Client)},
			register:   make(chan *Client),
			unregister: make(chan *Client),
			quit:       make(chan struct{}),
		}
	})
	return hub
}

func (h *Hub) Register() chan<- *Client {
	return h.register
}

func (h *Hub) Clients(uid uint) []*Client {
	h.clients.Lock()
	defer h.clients.Unlock()
	cs := make([]*Client, 0, len(h.clients.c[uid]))
	for _, c := range h.clients.c[uid] {
		cs = append(cs, c)
	}
	return cs
}

func (h *Hub) Client(uid uint, ip string) *Client {
	h.clients.Lock()
	defer h.clients.Unlock()
	if _, ok := h.clients.c[uid]; !ok {
		return nil
	}
	return h.clients.c[uid][ip]
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients.Lock()
			if h.clients.c[c.user.ID] == nil {
				h.clients.c[c.user.ID] = make(map[string]*Client)
			}
			// a reconnect from the same device replaces the old client
			if old := h.clients.c[c.user.ID][c.session.IP]; old != nil {
				old.ClearConsumers()
				close(old.send)
			}
			h.clients.c[c.user.ID][c.session.IP] = c
			h.clients.Unlock()
			if h.OnConnect != nil {
				h.OnConnect(c.user.ID)
			}
		case c := <-h.unregister:
			if c == nil {
				continue
			}
			var last bool
			h.clients.Lock()
			if ips := h.clients.c[c.user.ID]; ips != nil {
				if cl := ips[c.session.IP]; cl == c {
					delete(ips, c.session.IP)
					close(c.send)
				}
				last = len(ips) == 0
			}
			h.clients.Unlock()
			if last && h.OnDisconnect != nil {
				h.OnDisconnect(c.user.ID)
			}
		case <-h.quit:
			h.clients.Lock()
			for _, ips := range h.clients.c {
				for _, c := range ips {
					c.ClearConsumers()
					close(c.send)
				}
			}
			h.clients.c = make(map[uint]map[string]*Client)
			h.clients.Unlock()
			return
		}
	}
}

func (h *Hub) Close() {
	close(h.quit)
}
