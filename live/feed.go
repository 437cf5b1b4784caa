package live

import (
	"encoding/json"
	"log"
	"sync"
)

// Feed ties store subscriptions to the websocket hub and remembers the
// latest snapshot per collection so a freshly connected client starts
// warm instead of waiting for the next change.
type Feed struct {
	hub  *Hub
	mu   sync.RWMutex
	last map[string][]byte
}

func NewFeed() *Feed {
	f := &Feed{
		hub:  NewHub(),
		last: make(map[string][]byte),
	}
	go f.hub.Run()
	return f
}

func (f *Feed) Close() {
	f.hub.Stop()
}

// snapshotPayload is the wire shape of one feed message.
type snapshotPayload[T any] struct {
	Collection string `json:"collection"`
	Records    []T    `json:"records"`
}

// Watch pumps a store subscription into the feed until the channel is
// closed.
func Watch[T any](f *Feed, collection string, ch <-chan []T) {
	go func() {
		for snap := range ch {
			data, err := json.Marshal(snapshotPayload[T]{Collection: collection, Records: snap})
			if err != nil {
				log.Println("snapshot marshal failed:", err)
				continue
			}
			f.publish(collection, data)
		}
	}()
}

func (f *Feed) publish(collection string, data []byte) {
	f.mu.Lock()
	f.last[collection] = data
	f.mu.Unlock()

	select {
	case f.hub.broadcast <- broadcastMsg{Collection: collection, Data: data}:
	case <-f.hub.quit:
	}
}

func (f *Feed) lastSnapshot(collection string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.last[collection]
	return data, ok
}
