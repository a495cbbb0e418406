// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package attempt

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/pkg/ids"
)

// Policy configures the lockout rule.
type Policy struct {
	Threshold int
	Window    time.Duration
}

// DefaultPolicy locks after 5 consecutive failures within 15 minutes.
func DefaultPolicy() Policy {
	return Policy{Threshold: constants.DefaultLockoutThreshold, Window: constants.DefaultLockoutWindow}
}

// Metrics is the subset of the metrics recorder the tracker reports to.
type Metrics interface {
	RecordLockRequested()
	RecordAuditFailure()
}

// Tracker records login outcomes and enforces the lockout policy.
type Tracker struct {
	store   Store
	locks   LockRequester
	policy  Policy
	metrics Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option customizes a [Tracker].
type Option func(*Tracker)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(tracker *Tracker) { tracker.now = now }
}

// NewTracker wires the tracker.
func NewTracker(store Store, locks LockRequester, policy Policy, metrics Metrics, logger *slog.Logger, opts ...Option) *Tracker {
	tracker := &Tracker{
		store:   store,
		locks:   locks,
		policy:  policy,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(tracker)
	}
	return tracker
}

// # Recording

// RecordSuccess appends a LOGIN_SUCCESS row.
func (tracker *Tracker) RecordSuccess(context context.Context, attempt Attempt) {
	tracker.append(context, attempt, ActionLoginSuccess)
}

// RecordLogout appends a LOGOUT row.
func (tracker *Tracker) RecordLogout(context context.Context, attempt Attempt) {
	tracker.append(context, attempt, ActionLogout)
}

// RecordInvalidState appends a LOGIN_FAILED_INVALID_STATE row. Such failures do
// not count toward the lockout: the account is already unusable.
func (tracker *Tracker) RecordInvalidState(context context.Context, attempt Attempt) {
	tracker.append(context, attempt, ActionLoginFailedInvalidState)
}

/*
RecordFailure appends a LOGIN_FAILED_INVALID_CREDENTIAL row and evaluates the
lockout rule.

Description: The row is committed before the evaluation, so it survives even
if the lock request is lost. A lock request that fails is logged and dropped.

Returns:
  - bool: true when a lock was requested
*/
func (tracker *Tracker) RecordFailure(context context.Context, attempt Attempt) bool {
	now := tracker.now().UTC()

	// 1. Durable audit first
	if !tracker.appendAt(context, attempt, ActionLoginFailedCredential, now) {
		return false
	}

	// 2. Replay the recent window
	records, err := tracker.store.Recent(context, attempt.Username,
		[]Action{ActionLoginSuccess, ActionLoginFailedCredential},
		now.Add(-tracker.policy.Window), now, tracker.policy.Threshold,
	)
	if err != nil {
		tracker.logger.WarnContext(context, "lockout_history_read_failed",
			slog.String("username", attempt.Username),
			slog.Any("error", err),
		)
		return false
	}

	failures := ConsecutiveFailures(records)
	if failures < tracker.policy.Threshold {
		return false
	}

	// 3. Threshold reached
	tracker.metrics.RecordLockRequested()
	if err := tracker.locks.RequestLock(context, attempt.Username); err != nil {
		tracker.logger.WarnContext(context, "lock_request_failed",
			slog.String("username", attempt.Username),
			slog.Any("error", err),
		)
		return false
	}

	tracker.logger.WarnContext(context, "lock_requested",
		slog.String("username", attempt.Username),
		slog.Int("consecutive_failures", failures),
	)
	return true
}

// ConsecutiveFailures scans oldest-first records and returns the number of
// credential failures since the last success.
func ConsecutiveFailures(records []*Record) int {
	count := 0
	for _, record := range records {
		switch record.Action {
		case ActionLoginFailedCredential:
			count++
		case ActionLoginSuccess:
			count = 0
		}
	}
	return count
}

func (tracker *Tracker) append(context context.Context, attempt Attempt, action Action) {
	tracker.appendAt(context, attempt, action, tracker.now().UTC())
}

// appendAt swallows write errors after logging them and reports whether the row landed.
func (tracker *Tracker) appendAt(context context.Context, attempt Attempt, action Action, at time.Time) bool {
	record := &Record{
		ID:          ids.NewULID(at),
		Username:    attempt.Username,
		Action:      action,
		AttemptedAt: at,
		IPAddress:   attempt.IPAddress,
		UserAgent:   attempt.UserAgent,
	}

	if err := tracker.store.Append(context, record); err != nil {
		tracker.metrics.RecordAuditFailure()
		tracker.logger.WarnContext(context, "audit_write_failed",
			slog.String("username", attempt.Username),
			slog.String("action", action.String()),
			slog.Any("error", err),
		)
		return false
	}
	return true
}
