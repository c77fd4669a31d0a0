package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"signup-relay/pkg/clients/mailchimp"
	"signup-relay/pkg/metrics"
	"signup-relay/pkg/models"
	"signup-relay/pkg/utils"
)

// Outcome is the page a submission ends on
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// SignupService defines the interface for relaying signup submissions
type SignupService interface {
	Submit(ctx context.Context, form models.SignupForm) Outcome
}

type signupServiceImpl struct {
	mailchimpClient mailchimp.Client
	logger          *zap.Logger
}

// NewSignupService creates a new signup service
func NewSignupService(mailchimpClient mailchimp.Client, logger *zap.Logger) SignupService {
	return &signupServiceImpl{
		mailchimpClient: mailchimpClient,
		logger:          logger,
	}
}

// Submit makes exactly one call to the mailing-list API. Only a 200 answer
// is a success; transport errors and every other status are a failure.
func (s *signupServiceImpl) Submit(ctx context.Context, form models.SignupForm) Outcome {
	log := s.logger.With(zap.String("email_hash", utils.HashEmail(form.Email)))

	start := time.Now()
	summary, err := s.mailchimpClient.SubscribeMembers(ctx,
		mailchimp.NewSubscribeRequest(form.FirstName, form.LastName, form.Email))
	elapsed := time.Since(start)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	metrics.UpstreamRequestDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	metrics.SignupSubmissions.WithLabelValues(string(outcome)).Inc()

	if err != nil {
		var statusErr *mailchimp.StatusError
		if errors.As(err, &statusErr) {
			log.Warn("signup rejected", zap.Int("status", statusErr.StatusCode), zap.Duration("elapsed", elapsed))
		} else {
			log.Warn("signup failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		}
		return outcome
	}
	if summary == nil {
		summary = &mailchimp.BatchResponse{}
	}

	log.Info("signup relayed",
		zap.Int("total_created", summary.TotalCreated),
		zap.Int("total_updated", summary.TotalUpdated),
		zap.Int("error_count", summary.ErrorCount),
		zap.Duration("elapsed", elapsed),
	)
	for _, e := range summary.Errors {
		log.Debug("member rejected", zap.String("error_code", e.ErrorCode))
	}
	return outcome
}
