// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package leads accepts consultation requests submitted next to a search
// result. Requests are validated and handed to a Sink; nothing is stored.
package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/fund-matcher/internal/bizno"
	"github.com/pdiddy/fund-matcher/internal/metrics"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

var (
	ErrMissingCompany = errors.New("company name is required")
	ErrMissingContact = errors.New("contact name is required")
	ErrMissingPhone   = errors.New("phone number is required")
)

// Validate checks the fields the form marks as required. A business number,
// when given, must have ten digits.
func Validate(app types.Application) error {
	var errs []error
	if strings.TrimSpace(app.CompanyName) == "" {
		errs = append(errs, ErrMissingCompany)
	}
	if strings.TrimSpace(app.ContactName) == "" {
		errs = append(errs, ErrMissingContact)
	}
	if strings.TrimSpace(app.PhoneNumber) == "" {
		errs = append(errs, ErrMissingPhone)
	}
	if app.BizNumber != "" {
		if err := bizno.Validate(app.BizNumber); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Confirmation is the message shown after a request is accepted.
func Confirmation(app types.Application) string {
	return fmt.Sprintf("%s님, 신청이 완료되었습니다! 입력하신 연락처(%s)로 전문 컨설턴트가 24시간 내에 연락드립니다.",
		app.ContactName, app.PhoneNumber)
}

// Sink receives accepted applications.
type Sink interface {
	Submit(ctx context.Context, app types.Application) error
}

// LogSink writes applications to the log.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink returns a sink writing to log.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "leads").Logger()}
}

// Submit logs app.
func (s *LogSink) Submit(_ context.Context, app types.Application) error {
	s.log.Info().
		Str("lead_id", app.ID).
		Str("company", app.CompanyName).
		Str("contact", app.ContactName).
		Str("phone", app.PhoneNumber).
		Str("biz_number", app.BizNumber).
		Str("region", string(app.Region)).
		Str("industry", app.Industry).
		Time("submitted_at", app.SubmittedAt).
		Msg("consultation requested")
	return nil
}

// Intake validates applications, stamps them and forwards them to a sink.
type Intake struct {
	sink Sink
	now  func() time.Time
}

// NewIntake returns an intake forwarding to sink.
func NewIntake(sink Sink) *Intake {
	return &Intake{sink: sink, now: time.Now}
}

// Submit validates app, assigns its ID and submission time, and forwards
// it. It returns the stamped application.
func (in *Intake) Submit(ctx context.Context, app types.Application) (types.Application, error) {
	app.CompanyName = strings.TrimSpace(app.CompanyName)
	app.ContactName = strings.TrimSpace(app.ContactName)
	app.PhoneNumber = strings.TrimSpace(app.PhoneNumber)
	if app.BizType == "" {
		app.BizType = types.DefaultBizType
	}

	if err := Validate(app); err != nil {
		metrics.LeadsTotal.WithLabelValues("rejected").Inc()
		return app, err
	}

	app.ID = uuid.NewString()
	app.SubmittedAt = in.now()
	if err := in.sink.Submit(ctx, app); err != nil {
		metrics.LeadsTotal.WithLabelValues("failed").Inc()
		return app, fmt.Errorf("submitting lead: %w", err)
	}
	metrics.LeadsTotal.WithLabelValues("accepted").Inc()
	return app, nil
}
