// Package sse provides Server-Sent Events client management for post change
// notifications.
package sse

import (
	"sync"

	"github.com/debemdeboas/blogsync/internal/model"
)

// ClientBuffer is the number of messages a slow client may lag behind before
// messages are dropped for it.
const ClientBuffer = 16

type Client struct {
	Msg    chan string
	PostID model.PostID // empty receives every post
}

func NewClient(postID model.PostID) *Client {
	return &Client{
		Msg:    make(chan string, ClientBuffer),
		PostID: postID,
	}
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

// Delete unregisters client and closes its channel. Deleting twice is a no-op.
func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clients[client] {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends msg to the clients following postID. Full clients miss it.
func (s *SSEClients) Broadcast(postID model.PostID, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.PostID == "" || client.PostID == postID {
			select {
			case client.Msg <- msg:
			default:
			}
		}
	}
}

// Close disconnects every client.
func (s *SSEClients) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		delete(s.clients, client)
		close(client.Msg)
	}
}
