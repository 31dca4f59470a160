// Package mailer is the transactional-notification collaborator. Sends are
// synchronous and best-effort from the caller's perspective: whatever the
// transport answers, no retry and no compensating action is taken here.
package mailer

import "funnel/internal/logs"

type Mailer interface {
	Send(subject, message, from string, to []string) error
}

// Log is the no-transport mailer used when no relay is configured; it only
// records the send in the application log.
type Log struct{}

func (Log) Send(subject, message, from string, to []string) error {
	logs.Logger.Infof("mail (log-only): subject=%q from=%s to=%v", subject, from, to)
	return nil
}
