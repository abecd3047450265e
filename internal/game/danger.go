package game

// CustomerDanger scores, from 0 to 100, how exposed firm i is on the goods
// side: how much demand is already consumed, and how its output compares to
// its peers.
func CustomerDanger(m Market, i int) int64 {
	scarcity := percentOf(m.Users-m.UsersLeft, m.Users)
	peer := peerDanger(m.Firms, i, func(f Firm) int64 { return f.Usefulness * f.Servings })
	return blendDanger(peer, scarcity)
}

// EmployeeDanger is the labor side counterpart of CustomerDanger, comparing
// offered wages.
func EmployeeDanger(m Market, i int) int64 {
	scarcity := percentOf(m.LaborSupply-m.WorkersLeft, m.LaborSupply)
	peer := peerDanger(m.Firms, i, byWage)
	return blendDanger(peer, scarcity)
}

// peerDanger is 100 when firm i does not beat the mean of the other firms,
// otherwise the excess over the mean as a percentage of its own value.
// Compared as own*n against the peer sum so the mean is never rounded.
func peerDanger(firms []Firm, i int, metric func(Firm) int64) int64 {
	own := metric(firms[i])
	var sum, n int64
	for j, f := range firms {
		if j == i {
			continue
		}
		sum += metric(f)
		n++
	}
	scaled := own * n
	if n == 0 {
		scaled = own
	}
	if scaled <= sum {
		return MaxPercent
	}
	return clampPercent((scaled - sum) * MaxPercent / scaled)
}

func blendDanger(peer, scarcity int64) int64 {
	return clampPercent((peer + ScarcityWeight*clampPercent(scarcity)) / (ScarcityWeight + 1))
}
