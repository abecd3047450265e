package game

// ProfitTrend averages up to the last three funds deltas. previous is most
// recent first and must hold at least one entry.
func ProfitTrend(current int64, previous []int64) (int64, error) {
	if len(previous) == 0 {
		return 0, ErrEmptyHistory
	}
	first := current - previous[0]
	switch {
	case len(previous) >= 3:
		second := previous[0] - previous[1]
		third := previous[1] - previous[2]
		return (first + second + third) / 3, nil
	case len(previous) == 2:
		second := previous[0] - previous[1]
		return (first + second) / 2, nil
	default:
		return first, nil
	}
}
