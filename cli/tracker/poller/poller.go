package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/feed"
	"github.com/daniil11ru/tracker/cli/tracker/types"
	log "github.com/sirupsen/logrus"
)

type Fetcher interface {
	Fetch(ctx context.Context) ([]types.VehicleRecord, error)
}

type Saver interface {
	Run(records []types.VehicleRecord) (int64, error)
}

// Poller periodically moves readings from the remote source into the store.
// The next cycle starts interval after the previous one has finished.
type Poller struct {
	feed     Fetcher
	saver    Saver
	interval time.Duration
	onStored func(added int64)
}

func New(feed Fetcher, saver Saver, interval time.Duration) *Poller {
	return &Poller{
		feed:     feed,
		saver:    saver,
		interval: interval,
	}
}

// OnStored sets a callback invoked after every cycle that stored at least one reading.
func (p *Poller) OnStored(fn func(added int64)) {
	p.onStored = fn
}

func (p *Poller) Run(ctx context.Context) {
	log.WithField("interval", p.interval).Info("Запущен опрос источника")

	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Опрос источника остановлен")
			return
		case <-t.C:
			if _, err := p.Cycle(ctx); err != nil {
				log.WithField("err", err).Error("Ошибка сохранения показаний")
			}
			t.Reset(p.interval)
		}
	}
}

// Cycle performs one fetch-and-store pass. Source failures yield zero readings and no
// error; only a store failure is returned.
func (p *Poller) Cycle(ctx context.Context) (int64, error) {
	records, err := p.feed.Fetch(ctx)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			log.Debug("Запрос к источнику прерван остановкой")
		case errors.Is(err, feed.ErrUnexpectedFormat):
			log.WithField("err", err).Warn("Неожиданный формат ответа источника")
		default:
			log.WithField("err", err).Warn("Ошибка получения данных от источника")
		}
		return 0, nil
	}

	added, err := p.saver.Run(records)
	if err != nil {
		return 0, fmt.Errorf("не удалось сохранить %d показаний: %w", len(records), err)
	}
	log.WithField("readings", added).Debug("Показания сохранены")

	if added > 0 && p.onStored != nil {
		p.onStored(added)
	}

	return added, nil
}
