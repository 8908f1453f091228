package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastFiltersByPost(t *testing.T) {
	clients := NewSSEClients()
	all := NewClient("")
	one := NewClient("1")
	two := NewClient("2")
	for _, c := range []*Client{all, one, two} {
		clients.Add(c)
	}

	clients.Broadcast("1", "changed")

	assert.Equal(t, "changed", <-all.Msg)
	assert.Equal(t, "changed", <-one.Msg)
	assert.Empty(t, two.Msg)
}

func TestBroadcastDropsForFullClient(t *testing.T) {
	clients := NewSSEClients()
	c := NewClient("")
	clients.Add(c)

	for i := 0; i < ClientBuffer+5; i++ {
		clients.Broadcast("1", "m")
	}
	assert.Len(t, c.Msg, ClientBuffer)
}

func TestDeleteAndClose(t *testing.T) {
	clients := NewSSEClients()
	a, b := NewClient(""), NewClient("")
	clients.Add(a)
	clients.Add(b)

	clients.Delete(a)
	clients.Delete(a)
	_, open := <-a.Msg
	assert.False(t, open)
	assert.Equal(t, 1, clients.Len())

	clients.Close()
	_, open = <-b.Msg
	assert.False(t, open)
	assert.Equal(t, 0, clients.Len())

	clients.Delete(b)
}
