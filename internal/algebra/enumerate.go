package algebra

// EnumerateMonomials returns every monomial of total degree 0..maxDegree
// over the given ordered variable names, each with coefficient 1. The
// output order is fixed: ascending total degree, and within a degree,
// decreasing power of the first variable, then (recursively) the same
// rule over the remaining variables. For vars=[S1,S2], maxDegree=3 this
// yields exactly:
//
//	1, S1, S2, S1^2, S1*S2, S2^2, S1^3, S1^2*S2, S1*S2^2, S2^3
//
// Coefficient names derived from this enumeration are reproducible across
// runs because the order never depends on map iteration.
func EnumerateMonomials(vars []string, maxDegree int) []Monomial {
	var out []Monomial
	for deg := 0; deg <= maxDegree; deg++ {
		for _, tuple := range powerTuples(len(vars), deg) {
			vp := make([]VarPower, 0, len(vars))
			for i, p := range tuple {
				if p == 0 {
					continue
				}
				vp = append(vp, VarPower{Name: vars[i], Power: p})
			}
			out = append(out, NewMonomial(1, vp...))
		}
	}
	return out
}

// powerTuples returns every length-k tuple of non-negative integers
// summing to exactly degree, ordered by decreasing first coordinate and
// (recursively) the same rule on the remaining coordinates.
func powerTuples(k, degree int) [][]int {
	if k == 0 {
		if degree == 0 {
			return [][]int{{}}
		}
		return nil
	}
	if k == 1 {
		return [][]int{{degree}}
	}

	var out [][]int
	for first := degree; first >= 0; first-- {
		for _, rest := range powerTuples(k-1, degree-first) {
			tuple := append([]int{first}, rest...)
			out = append(out, tuple)
		}
	}
	return out
}
