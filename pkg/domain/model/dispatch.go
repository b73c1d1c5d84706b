package model

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// RecipientRequest is the input of a single bulk dispatch
type RecipientRequest struct {
	RecipientIDs []types.ClientID `json:"client_ids" yaml:"client_ids"`
	Subject      string           `json:"subject" yaml:"subject"`
	Body         string           `json:"body" yaml:"body"`
	Attachments  []string         `json:"attachments" yaml:"attachments"`
}

// Validate checks the request before any transport is touched.
// Subject is only mandatory for channels that carry one.
func (r *RecipientRequest) Validate(requireSubject bool) error {
	if len(r.RecipientIDs) == 0 {
		return goerr.Wrap(ErrInvalidRequest, "no recipients")
	}
	if strings.TrimSpace(r.Body) == "" || (requireSubject && strings.TrimSpace(r.Subject) == "") {
		return goerr.Wrap(ErrInvalidRequest, "missing subject or body")
	}
	return nil
}

// ContentKind treats any body containing the '<' markup delimiter as HTML
func (r *RecipientRequest) ContentKind() types.ContentKind {
	if strings.Contains(r.Body, "<") {
		return types.ContentKindHTML
	}
	return types.ContentKindPlain
}

// Failure is the per-recipient failure record of a dispatch
type Failure struct {
	RecipientLabel string `json:"recipient"`
	Reason         string `json:"reason"`
}

// DispatchOutcome reports a finished (or deadline-interrupted) dispatch.
// Each resolved recipient contributes exactly one success or one failure;
// warnings are reported separately and do not take part in that count.
type DispatchOutcome struct {
	Channel        types.Channel `json:"channel"`
	TotalRequested int           `json:"total_requested"`
	TotalResolved  int           `json:"total_clients"`
	SentCount      int           `json:"sent_count"`
	Failures       []Failure     `json:"failures"`
	Warnings       []string      `json:"warnings"`
}

// NewDispatchOutcome starts an outcome for a request
func NewDispatchOutcome(channel types.Channel, totalRequested, totalResolved int) *DispatchOutcome {
	return &DispatchOutcome{
		Channel:        channel,
		TotalRequested: totalRequested,
		TotalResolved:  totalResolved,
		Failures:       []Failure{},
		Warnings:       []string{},
	}
}

// RecordSent counts one successful delivery
func (o *DispatchOutcome) RecordSent() {
	o.SentCount++
}

// RecordFailure appends a failure for one recipient
func (o *DispatchOutcome) RecordFailure(label, reason string) {
	o.Failures = append(o.Failures, Failure{RecipientLabel: label, Reason: reason})
}

// Warn appends a non-fatal anomaly
func (o *DispatchOutcome) Warn(format string, args ...any) {
	o.Warnings = append(o.Warnings, fmt.Sprintf(format, args...))
}

// IsPartial reports whether some resolved recipients were not reached
func (o *DispatchOutcome) IsPartial() bool {
	return len(o.Failures) > 0
}

// Attempted returns how many resolved recipients got a result
func (o *DispatchOutcome) Attempted() int {
	return o.SentCount + len(o.Failures)
}

// Summary returns a one-line human readable description
func (o *DispatchOutcome) Summary() string {
	s := fmt.Sprintf("%s dispatch: %d/%d sent", o.Channel, o.SentCount, o.TotalResolved)
	if len(o.Failures) > 0 {
		s += fmt.Sprintf(", %d failed", len(o.Failures))
	}
	if len(o.Warnings) > 0 {
		s += fmt.Sprintf(", %d warnings", len(o.Warnings))
	}
	return s
}
