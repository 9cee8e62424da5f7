package entities

import (
	"fmt"
	"time"
)

// VarianceStatus classifies how a delivered line compares with the order
type VarianceStatus int

const (
	StatusMatch VarianceStatus = iota
	StatusShort
	StatusOver
	StatusMissing
	StatusExtra
)

// String method for VarianceStatus enum
func (s VarianceStatus) String() string {
	switch s {
	case StatusMatch:
		return "match"
	case StatusShort:
		return "short"
	case StatusOver:
		return "over"
	case StatusMissing:
		return "missing"
	case StatusExtra:
		return "extra"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name so stored documents stay readable
func (s VarianceStatus) MarshalText() ([]byte, error) {
	name := s.String()
	if name == "unknown" {
		return nil, fmt.Errorf("invalid variance status: %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a status name
func (s *VarianceStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "match":
		*s = StatusMatch
	case "short":
		*s = StatusShort
	case "over":
		*s = StatusOver
	case "missing":
		*s = StatusMissing
	case "extra":
		*s = StatusExtra
	default:
		return fmt.Errorf("invalid variance status: %q", string(text))
	}
	return nil
}

// VarianceLine is the reconciliation outcome for one item
type VarianceLine struct {
	ItemCode      *ItemCode      `json:"item_code"`
	ItemName      string         `json:"item_name"`
	OrderedQty    float64        `json:"ordered_qty"`
	ReceivedQty   float64        `json:"received_qty"`
	Variance      float64        `json:"variance"`
	Status        VarianceStatus `json:"status"`
	OrderedPrice  *float64       `json:"ordered_price"`
	ReceivedPrice *float64       `json:"received_price"`
}

// VarianceSummary counts variance lines per status
type VarianceSummary struct {
	Matched int `json:"matched"`
	Short   int `json:"short"`
	Over    int `json:"over"`
	Missing int `json:"missing"`
	Extra   int `json:"extra"`
}

// Total returns the number of lines the summary accounts for
func (s VarianceSummary) Total() int {
	return s.Matched + s.Short + s.Over + s.Missing + s.Extra
}

// ReconciliationResult is a complete variance report for one received record
type ReconciliationResult struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     VarianceSummary `json:"summary"`
	Items       []VarianceLine  `json:"items"`
}

// Top-level keys of a persisted variance document
const (
	DocumentKey  = "document"
	MatchedPOKey = "matched_po"
	VarianceKey  = "variance"
)

// VarianceDocument is the free-form JSON blob persisted on a received record.
// Besides the reconciliation output it may carry unrelated keys such as an
// attached source document reference.
type VarianceDocument map[string]any
