package ws

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/gorilla/websocket"
	"github.com/nsqio/go-nsq"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client is one connected device. Messages are authored over REST, so
// the socket is receive-only: each chat the member participates in
// gets an NSQ consumer forwarding into send.
type Client struct {
	sync.Mutex
	logger    *log.Logger
	hub       *Hub
	conn      *websocket.Conn
	user      *model.User
	session   *model.Session
	consumers map[string]*nsq.Consumer
	send      chan []byte
}

type ClientCfg struct {
	Logger  *log.Logger
	Hub     *Hub
	Conn    *websocket.Conn
	User    *model.User
	Session *model.Session
}

func NewClient(cfg *ClientCfg) *Client {
	return &Client{
		logger:    cfg.Logger,
		hub:       cfg.Hub,
		conn:      cfg.Conn,
		user:      cfg.User,
		session:   cfg.Session,
		consumers: make(map[string]*nsq.Consumer),
		send:      make(chan []byte, 256),
	}
}

func (c *Client) Send() chan<- []byte {
	return c.send
}

// ReadPump drains the connection for control frames until the peer
// goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.ClearConsumers()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Printf("error: %v\n", err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(msg)

			// Add queued messages to the current websocket frame.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) AddConsumer(topic string, consumer *nsq.Consumer) error {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.consumers[topic]; ok {
		return errors.New("topic exists")
	}
	c.consumers[topic] = consumer
	return nil
}

func (c *Client) StopConsumer(topic string) error {
	c.Lock()
	defer c.Unlock()
	consumer, ok := c.consumers[topic]
	if !ok {
		return errors.New("topic doesn't exist")
	}
	consumer.Stop()
	delete(c.consumers, topic)
	return nil
}

func (c *Client) ClearConsumers() {
	c.Lock()
	defer c.Unlock()
	for topic, consumer := range c.consumers {
		consumer.Stop()
		delete(c.consumers, topic)
	}
}
