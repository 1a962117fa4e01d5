package usecase

import (
	"context"

	"MarketLens/internal/domain/models"
	applogger "MarketLens/pkg/logger"
)

// TradeStream is the live trade feed contract the pump drives.
type TradeStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// StreamPump drains live trades into the tile cache. It reconnects on
// failure until ctx is cancelled; the stream's own reconnect delay
// paces the retry loop.
type StreamPump struct {
	stream TradeStream
	market *MarketData
	log    *applogger.Logger
}

// NewStreamPump creates a pump for stream.
func NewStreamPump(stream TradeStream, market *MarketData, log *applogger.Logger) *StreamPump {
	return &StreamPump{stream: stream, market: market, log: log}
}

// Run pumps trades until ctx is cancelled.
func (p *StreamPump) Run(ctx context.Context) {
	defer p.stream.Close()

	if err := p.stream.Connect(ctx); err != nil {
		p.log.Warn("trade stream connect failed", applogger.Error(err))
	} else if err := p.stream.Subscribe(ctx); err != nil {
		p.log.Warn("trade stream subscribe failed", applogger.Error(err))
		_ = p.stream.Close()
	}

	for ctx.Err() == nil {
		if !p.stream.IsConnected() {
			if err := p.stream.Reconnect(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				p.log.Warn("trade stream reconnect failed", applogger.Error(err))
				continue
			}
		}

		trades, errs := p.stream.Read(ctx)
		p.drain(ctx, trades, errs)
		_ = p.stream.Close()
	}
}

func (p *StreamPump) drain(ctx context.Context, trades <-chan *models.Trade, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case trade, ok := <-trades:
			if !ok {
				return
			}
			p.market.ApplyTrade(ctx, trade)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				p.log.Warn("trade stream read failed", applogger.Error(err))
			}
		}
	}
}
