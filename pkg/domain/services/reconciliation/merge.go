package reconciliation

import "github.com/vsinha/receiving/pkg/domain/entities"

// MergeResult returns a copy of existing with matched_po and variance
// replaced. Every other top-level key is carried over untouched, so an
// attached source document survives repeated reconciliation. existing is not
// modified.
func MergeResult(
	existing entities.VarianceDocument,
	po entities.PODescriptor,
	result entities.ReconciliationResult,
) entities.VarianceDocument {
	merged := make(entities.VarianceDocument, len(existing)+2)
	for key, value := range existing {
		merged[key] = value
	}
	merged[entities.MatchedPOKey] = po
	merged[entities.VarianceKey] = result
	return merged
}
