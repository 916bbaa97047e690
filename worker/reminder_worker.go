package worker

import (
	"log"

	"estatedesk/utils"

	"github.com/robfig/cron/v3"
)

// ReminderWorker periodically runs the due-reminder dispatch so deployments
// without an external scheduler still get follow-up alerts. The schedule
// comes from config; an empty spec leaves dispatch manual-only via the
// /leads/remind endpoint.
type ReminderWorker struct {
	cron      *cron.Cron
	scheduler *utils.FollowUpScheduler
	logger    *log.Logger
}

func NewReminderWorker(scheduler *utils.FollowUpScheduler, logger *log.Logger) *ReminderWorker {
	if logger == nil {
		logger = log.Default()
	}
	return &ReminderWorker{
		cron:      cron.New(),
		scheduler: scheduler,
		logger:    logger,
	}
}

// Setup registers the dispatch job under the given cron spec
func (rw *ReminderWorker) Setup(spec string) error {
	_, err := rw.cron.AddFunc(spec, func() {
		rw.logger.Println("Running scheduled reminder dispatch...")

		sent, err := rw.scheduler.SendDueReminders()
		if err != nil {
			rw.logger.Printf("Reminder dispatch failed: %v", err)
			return
		}
		rw.logger.Printf("Reminder dispatch completed, %d follow-ups processed", sent)
	})
	return err
}

// Start starts the cron scheduler
func (rw *ReminderWorker) Start() {
	rw.logger.Println("Reminder worker started")
	rw.cron.Start()
}

// Stop stops the cron scheduler
func (rw *ReminderWorker) Stop() {
	rw.logger.Println("Reminder worker shutting down...")
	rw.cron.Stop()
}
