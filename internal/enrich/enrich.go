// Package enrich decides what context, if any, is prepended to a user
// message before it is appended to a conversation thread.
package enrich

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/auditdesk/assistant-hub/internal/auditdata"
)

// Enricher rewrites a user message before it becomes a turn. firstTurn is
// true only for the first message of a session; enrichment happens at most
// once per session.
type Enricher interface {
	Enrich(message string, firstTurn bool) string
}

// Noop passes every message through unchanged.
type Noop struct{}

// Enrich returns message as-is.
func (Noop) Enrich(message string, _ bool) string {
	return message
}

// The 10-minute window is the control the downstream model audits against.
// Do not reword it.
const auditTemplate = `I need you to audit the following terminated users for SOX compliance.

The requirement is that user accounts must be disabled within 10 minutes of termination.

RELEVANT ACTIVE DIRECTORY DATA:
%s

RELEVANT HR TERMINATION DATA:
%s

USER REQUEST:
%s

Please analyze if each user's account was disabled within 10 minutes of termination and provide a compliance report.`

const referenceTemplate = `For reference, here is the complete audit data available:

ACTIVE DIRECTORY DATA:
%s

HR TERMINATION DATA:
%s

USER REQUEST:
%s`

// AuditEnricher prepends audit reference data to the first turn of a
// session. When the message names specific user ids, both datasets are
// narrowed to those users; otherwise the full datasets are included.
type AuditEnricher struct {
	data *auditdata.Bundle
	log  zerolog.Logger
}

// NewAuditEnricher creates an enricher over data. data (or either dataset
// inside it) may be nil, in which case messages pass through unchanged.
func NewAuditEnricher(data *auditdata.Bundle, log zerolog.Logger) *AuditEnricher {
	return &AuditEnricher{data: data, log: log}
}

// Enrich composes the effective first-turn message. The result is
// deterministic: identical inputs produce byte-identical output, and the
// shared datasets are never mutated.
func (e *AuditEnricher) Enrich(message string, firstTurn bool) string {
	if !firstTurn || !e.data.Complete() {
		return message
	}

	ids := auditdata.ExtractUserIDs(message)
	if len(ids) == 0 {
		adJSON, err := e.data.ActiveDirectory.JSON()
		if err != nil {
			return message
		}
		hrJSON, err := e.data.Terminations.JSON()
		if err != nil {
			return message
		}
		return fmt.Sprintf(referenceTemplate, adJSON, hrJSON, message)
	}

	filteredAD := e.data.ActiveDirectory.Filter(ids)
	filteredHR := e.data.Terminations.Filter(ids)

	adJSON, err := filteredAD.JSON()
	if err != nil {
		return message
	}
	hrJSON, err := filteredHR.JSON()
	if err != nil {
		return message
	}

	e.log.Debug().
		Int("requested_users", len(ids)).
		Int("ad_records", len(filteredAD.Records())).
		Int("hr_records", len(filteredHR.Records())).
		Msg("filtered audit data for first turn")

	return fmt.Sprintf(auditTemplate, adJSON, hrJSON, message)
}
