package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/internal/biz/repo"
)

// Janitor periodically purges expired seen-message records so the dedup
// store does not grow without bound.
type Janitor struct {
	seenRepo repo.SeenRepo
	ttl      time.Duration
	interval time.Duration
	logger   *logrus.Logger

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewJanitor creates a janitor purging records older than ttl
func NewJanitor(seenRepo repo.SeenRepo, ttl time.Duration, logger *logrus.Logger) *Janitor {
	return &Janitor{
		seenRepo: seenRepo,
		ttl:      ttl,
		interval: 1 * time.Hour,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the purge loop
func (j *Janitor) Start() {
	if j.running {
		return
	}
	j.running = true
	j.wg.Add(1)
	go j.loop()
	j.logger.WithField("interval", j.interval).Info("janitor started")
}

// Stop stops the purge loop
func (j *Janitor) Stop() {
	if !j.running {
		return
	}
	j.running = false
	close(j.stopCh)
	j.wg.Wait()
	j.logger.Info("janitor stopped")
}

func (j *Janitor) loop() {
	defer j.wg.Done()

	j.purge()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.purge()
		case <-j.stopCh:
			return
		}
	}
}

func (j *Janitor) purge() {
	cutoff := time.Now().Add(-j.ttl)
	removed, err := j.seenRepo.PurgeBefore(context.Background(), cutoff)
	if err != nil {
		j.logger.WithError(err).Warn("janitor purge failed")
		return
	}
	if removed > 0 {
		j.logger.WithField("removed", removed).Debug("purged expired seen records")
	}
}
