package event

import (
	"context"
	"encoding/json"

	"bj-service/internal/service/settlement"
	"bj-service/pkg/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// SettlementEvent is the message published for every settled round document.
type SettlementEvent struct {
	SettlementID string `json:"settlementId"`
	TableRoundID string `json:"tableRoundId"`
	RoundDataID  int64  `json:"roundDataId"`
	Seats        int    `json:"seats"`
	TotalPayout  string `json:"totalPayout"`
	Warnings     int    `json:"warnings"`

	Report *settlement.Report `json:"report"`
}

type Publisher struct {
	conn    Conn
	subject string
}

func NewPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// Connect dials the NATS server and keeps reconnecting for the lifetime of
// the process.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("bj-service"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
}

func NewEvent(report *settlement.Report) SettlementEvent {
	rs := report.Settlement
	return SettlementEvent{
		SettlementID: report.SettlementID,
		TableRoundID: report.TableRoundID,
		RoundDataID:  report.RoundDataID,
		Seats:        len(rs.Seats),
		TotalPayout:  rs.TotalPayout.String(),
		Warnings:     len(rs.Warnings) + len(report.DecodeWarnings),
		Report:       report,
	}
}

// Notify implements settlement.Notifier.
func (p *Publisher) Notify(_ context.Context, report *settlement.Report) {
	data, err := json.Marshal(NewEvent(report))
	if err != nil {
		logger.Log.Error("Failed to encode settlement event", zap.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		logger.Log.Error("Failed to publish settlement event",
			zap.String("subject", p.subject),
			zap.String("settlementID", report.SettlementID),
			zap.Error(err),
		)
	}
}
