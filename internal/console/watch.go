package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-scpi"
)

// Watch sends query once right away and then every interval, printing each
// reply, until ctx is done, count replies were printed or a transport error
// occurs. A count of zero means no limit. Watch leaves the session open.
func (c *Console) Watch(ctx context.Context, query string, interval time.Duration, count int) error {
	query = strings.TrimSpace(query)
	if err := ValidateWatch(query, interval, count); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; count == 0 || n < count; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
		if ctx.Err() != nil {
			return nil
		}

		c.log.Trace().Str("query", query).Int("n", n).Msg("watch")
		events, err := c.Execute(query)
		c.Print(events)
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateWatch checks the arguments of Watch without touching the session
func ValidateWatch(query string, interval time.Duration, count int) error {
	if Classify(query) != KindQuery {
		return fmt.Errorf("%w: watch needs a query ending in '?', got %q", scpi.ErrInvalidConfig, strings.TrimSpace(query))
	}
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %v", scpi.ErrInvalidConfig, interval)
	}
	if count < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", scpi.ErrInvalidConfig, count)
	}
	return nil
}
