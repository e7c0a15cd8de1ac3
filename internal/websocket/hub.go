package websocket

import (
	"github.com/rs/zerolog/log"
	"github.com/segmentio/encoding/json"
)

// Topics a client can subscribe to. Admin panels receive everything sent to
// TopicAll plus admin-only updates such as stats.
const (
	TopicAll   = "all"
	TopicAdmin = "admin"
)

type topicMessage struct {
	topic   string
	payload []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for every client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	topicBroadcast chan topicMessage
	stop           chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:      make(chan []byte, 256),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		clients:        make(map[*Client]bool),
		topicBroadcast: make(chan topicMessage, 256),
		stop:           make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Str("topic", client.Topic).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		case tm := <-h.topicBroadcast:
			for client := range h.clients {
				if client.Topic == tm.topic {
					h.deliver(client, tm.payload)
				}
			}
		}
	}
}

// Join registers client unless the hub has stopped.
func (h *Hub) Join(client *Client) {
	select {
	case h.Register <- client:
	case <-h.stop:
	}
}

// Leave unregisters client unless the hub has stopped, so a connection
// closing during shutdown does not block.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.stop:
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.stop)
}

// Publish encodes and broadcasts a message to every connected panel.
func (h *Hub) Publish(action string, payload interface{}) {
	h.enqueue(TopicAll, action, payload)
}

// PublishTo encodes and broadcasts a message to clients subscribed to topic.
func (h *Hub) PublishTo(topic, action string, payload interface{}) {
	h.enqueue(topic, action, payload)
}

func (h *Hub) enqueue(topic, action string, payload interface{}) {
	b, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return
	}

	if topic == TopicAll {
		select {
		case h.Broadcast <- b:
		default:
			log.Warn().Str("action", action).Msg("Websocket broadcast queue full, dropping message")
		}
		return
	}

	select {
	case h.topicBroadcast <- topicMessage{topic: topic, payload: b}:
	default:
		log.Warn().Str("action", action).Str("topic", topic).Msg("Websocket broadcast queue full, dropping message")
	}
}

// deliver drops the message for a client that is not keeping up. Send is
// only closed on Unregister, after the client's read loop has stopped
// replying on it.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		log.Warn().Str("topic", client.Topic).Msg("Websocket client too slow, dropping message")
	}
}
