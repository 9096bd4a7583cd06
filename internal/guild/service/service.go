package service

import (
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/metrics"
	"github.com/aussiebroadwan/guild/internal/guild/notify"
	"github.com/aussiebroadwan/guild/internal/guild/store"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Store    store.Store
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Retry    Retrier
	// Now is the clock for timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = notify.Discard
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) now() time.Time { return d.Now().UTC() }
