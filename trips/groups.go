package trips

import "sort"

// GroupKey identifies one trip group: one train on one service date.
type GroupKey struct {
	TrainIdent string
	TripDate   string
}

// reduceGroups partitions events by key and reduces each group to at most one
// result. Groups carry no cross-group state, so keys are processed in sorted
// order purely for deterministic output. Both the actual- and planned-data
// builders run through this helper; only their reduction policies differ.
func reduceGroups[R any](
	events []PointEvent,
	key func(PointEvent) (GroupKey, bool),
	reduce func(GroupKey, []PointEvent) (R, bool),
) []R {
	groups := make(map[GroupKey][]PointEvent)
	var order []GroupKey
	for _, ev := range events {
		k, ok := key(ev)
		if !ok {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], ev)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].TripDate != order[j].TripDate {
			return order[i].TripDate < order[j].TripDate
		}
		return order[i].TrainIdent < order[j].TrainIdent
	})

	out := make([]R, 0, len(order))
	for _, k := range order {
		if r, ok := reduce(k, groups[k]); ok {
			out = append(out, r)
		}
	}
	return out
}

// firstNonNil returns the first non-nil value selected from the group.
func firstNonNil(group []PointEvent, sel func(PointEvent) *string) *string {
	for _, ev := range group {
		if v := sel(ev); v != nil {
			return v
		}
	}
	return nil
}
