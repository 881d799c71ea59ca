package domain

import (
	"encoding/json"
	"strings"
)

// Generic reasons produced by the parser when the classifier gives nothing
// usable. The warning composer treats these as substitutable.
const (
	ReasonNoReason     = "No reason provided"
	ReasonUnparseable  = "Message could not be properly evaluated"
	CategoryParseError = "parsing_error"
)

// Decision is the structured verdict for a single message. It is created per
// message and discarded after the transport acts on it.
type Decision struct {
	Allow    bool   `json:"allow"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

// ParseDecision interprets raw classifier output as a JSON decision object.
//
// Missing keys get defensive defaults: allow=false, a generic reason, empty
// category. Output that is not a JSON object resolves to a fixed fail-closed
// decision rather than an error — a reply that arrived but did not parse is
// treated as a moderation failure, not a pass-through allow. The prompt
// instructs pure-JSON output, so no attempt is made to dig JSON out of prose.
func ParseDecision(raw string) Decision {
	trimmed := strings.TrimSpace(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil || fields == nil {
		return Decision{
			Allow:    false,
			Reason:   ReasonUnparseable,
			Category: CategoryParseError,
		}
	}

	d := Decision{
		Allow:    false,
		Reason:   ReasonNoReason,
		Category: "",
	}
	if v, ok := fields["allow"]; ok {
		_ = json.Unmarshal(v, &d.Allow)
	}
	if v, ok := fields["reason"]; ok {
		var reason string
		if json.Unmarshal(v, &reason) == nil {
			d.Reason = reason
		}
	}
	if v, ok := fields["category"]; ok {
		var category string
		if json.Unmarshal(v, &category) == nil {
			d.Category = category
		}
	}
	return d
}
