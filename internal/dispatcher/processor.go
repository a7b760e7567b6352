package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/catalog"
)

// StubProcessor stands in for the AI pipeline while it is off-module. It
// returns placeholder result links after a short delay so the rest of the
// lifecycle can be exercised end to end.
type StubProcessor struct {
	delay time.Duration
}

func NewStubProcessor() *StubProcessor {
	return &StubProcessor{delay: 2 * time.Second}
}

func (p *StubProcessor) Process(ctx context.Context, serviceType string, input map[string]interface{}) ([]string, error) {
	if _, ok := catalog.Get(serviceType); !ok {
		return nil, fmt.Errorf("unknown service type %q", serviceType)
	}

	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	count := 1
	switch serviceType {
	case catalog.SessionPregnancy, catalog.SessionNewborn, catalog.SessionMonthly,
		catalog.SessionSeasonal, catalog.SessionFamily, catalog.SessionHome, catalog.SessionPortrait:
		count = 5
	}

	results := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		results = append(results, fmt.Sprintf("https://storage.example.com/results/%s/photo_%d.jpg", serviceType, i))
	}

	log.Debug().Str("service_type", serviceType).Int("results", count).Msg("stub processing finished")
	return results, nil
}
