package websocket

import "log"

// Hub maintains the set of active clients grouped by the city they are
// watching, and fans plan activity out to each city's room.
type Hub struct {
	// Registered clients per city.
	rooms map[string]map[*Client]bool

	// Plan activity payloads to fan out, tagged with the city.
	activity chan cityMessage

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client
}

type cityMessage struct {
	city    string
	payload []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		activity:   make(chan cityMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// BroadcastToCity queues a payload for every client watching a city.
// Non-blocking so the Kafka consumer is never stalled by slow clients.
func (h *Hub) BroadcastToCity(city string, payload []byte) {
	select {
	case h.activity <- cityMessage{city: city, payload: payload}:
	default:
		log.Printf("Warning: hub activity channel full, dropping update for city %s", city)
	}
}

// Run starts the hub and listens for messages on its channels.
func (h *Hub) Run() {
	log.Println("WebSocket hub run loop started.")
	for {
		select {
		case client := <-h.register:
			room, ok := h.rooms[client.City]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.City] = room
			}
			room[client] = true
			log.Printf("Client registered: user %d watching %s (%d in room)", client.UserID, client.City, len(room))

		case client := <-h.unregister:
			if room, ok := h.rooms[client.City]; ok && room[client] {
				delete(room, client)
				close(client.send)
				if len(room) == 0 {
					delete(h.rooms, client.City)
				}
				log.Printf("Client unregistered: user %d left %s", client.UserID, client.City)
			}

		case msg := <-h.activity:
			room, ok := h.rooms[msg.city]
			if !ok {
				continue
			}
			for client := range room {
				select {
				case client.send <- msg.payload:
				default:
					// Slow or dead client; drop it from the room.
					log.Printf("Warning: send channel full for user %d in %s, removing client", client.UserID, msg.city)
					close(client.send)
					delete(room, client)
				}
			}
		}
	}
}
