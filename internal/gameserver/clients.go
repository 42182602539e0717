package gameserver

import (
	"sync"

	"github.com/udisondev/rs2go/internal/model"
)

// ClientManager maps players in the world to their connections.
// Thread-safe for concurrent access.
type ClientManager struct {
	mu      sync.RWMutex
	clients map[*model.Player]*GameClient
}

// NewClientManager creates a new client manager.
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[*model.Player]*GameClient, 256),
	}
}

// Register associates a player with its client.
// Called when the player enters the world.
func (cm *ClientManager) Register(client *GameClient) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.clients[client.player] = client
}

// Unregister removes the player's client.
func (cm *ClientManager) Unregister(player *model.Player) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.clients, player)
}

// Client returns the client of a player, nil if not found.
func (cm *ClientManager) Client(player *model.Player) *GameClient {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.clients[player]
}

// Count returns the number of registered clients.
func (cm *ClientManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// ForEach calls fn for every client until fn returns false.
// fn runs without the lock held.
func (cm *ClientManager) ForEach(fn func(*GameClient) bool) {
	cm.mu.RLock()
	snapshot := make([]*GameClient, 0, len(cm.clients))
	for _, c := range cm.clients {
		snapshot = append(snapshot, c)
	}
	cm.mu.RUnlock()

	for _, c := range snapshot {
		if !fn(c) {
			return
		}
	}
}
