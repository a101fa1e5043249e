package main

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"ticketalert/internal/notify"
)

// startScheduler runs the notification sweep on the configured cron
// schedule. Returns nil when no schedule is set; sweeps then only happen
// through the HTTP trigger.
func startScheduler(schedule string, sweeper *notify.Sweeper) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		report, err := sweeper.Run(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("scheduled sweep failed")
			return
		}
		log.Info().
			Int("checked", report.Checked).
			Int("notified", report.Notified).
			Msg("scheduled sweep finished")
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info().Str("schedule", schedule).Msg("sweep scheduler started")
	return c, nil
}
