package reconciliation

import "github.com/vsinha/receiving/pkg/domain/entities"

// Tabulate counts variance lines per status
func Tabulate(lines []entities.VarianceLine) entities.VarianceSummary {
	var summary entities.VarianceSummary
	for _, line := range lines {
		switch line.Status {
		case entities.StatusMatch:
			summary.Matched++
		case entities.StatusShort:
			summary.Short++
		case entities.StatusOver:
			summary.Over++
		case entities.StatusMissing:
			summary.Missing++
		case entities.StatusExtra:
			summary.Extra++
		}
	}
	return summary
}
