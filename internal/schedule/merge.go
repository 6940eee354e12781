package schedule

import "github.com/Veraticus/duecal/internal/model"

// Merge combines freshly generated instances with the ledger entries recorded
// for the same month. Generated entries come first and recorded entries after;
// when two entries share an identity only the last one survives, so a ledger
// entry always replaces its generated twin. Survivors keep their relative
// order in the concatenation.
//
// Recorded entries need no catalog counterpart. Neither input is modified.
func Merge(generated, recorded []model.ReportInstance) []model.ReportInstance {
	all := make([]model.ReportInstance, 0, len(generated)+len(recorded))
	all = append(all, generated...)
	all = append(all, recorded...)

	last := make(map[model.Identity]int, len(all))
	for i, inst := range all {
		last[inst.Key()] = i
	}

	merged := make([]model.ReportInstance, 0, len(last))
	for i, inst := range all {
		if last[inst.Key()] == i {
			merged = append(merged, inst)
		}
	}

	return merged
}
