package ws

import (
	"context"
	"sync"

	"bj-service/internal/service/settlement"
	"bj-service/pkg/logger"

	"go.uber.org/zap"
)

type OutgoingMessage struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

// Hub fans settlement reports out to every connected feed subscriber.
type Hub struct {
	mu          sync.Mutex
	seq         int64
	subscribers map[int64]chan OutgoingMessage
	nextID      int64
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[int64]chan OutgoingMessage)}
}

func (h *Hub) Subscribe() (int64, <-chan OutgoingMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	ch := make(chan OutgoingMessage, 16)
	h.subscribers[h.nextID] = ch
	return h.nextID, ch
}

func (h *Hub) Unsubscribe(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(ch)
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Notify implements settlement.Notifier. Subscribers whose buffer is full miss
// the message rather than stall settlement.
func (h *Hub) Notify(_ context.Context, report *settlement.Report) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	msg := OutgoingMessage{Type: "settlement", Seq: h.seq, Data: report}
	for id, ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
			logger.Log.Warn("WS subscriber too slow, dropping settlement",
				zap.Int64("subscriberID", id),
				zap.String("settlementID", report.SettlementID),
			)
		}
	}
}
