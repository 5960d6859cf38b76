package solverbridge

import (
	"strconv"
	"strings"

	"github.com/kmallik/polycert/internal/automaton"
)

// acceptingPolicyPrefix is the coefficient-name prefix the synthesized
// Reach control policy uses before FixModelOutput rewrites it onto every
// non-accepting automaton state: see policy.Decomposed's "Pa" head.
const acceptingPolicyPrefix = "Pa_"

// FixModelOutput rewrites every Pa_<...>_<k>-named coefficient the
// solver returned for the single accepting-component policy into one
// P_<q>_<k> key per non-accepting automaton state q, so that the
// orchestrator's final policy lookup can index coefficients by the state
// the controller is actually evaluated at. k is taken as the trailing
// underscore-separated segment of the source key, which silently drops
// any action-dimension infix the key might carry; this mirrors the
// accepting-policy naming scheme's own flattening and is reproduced
// literally rather than "fixed". Once a Pa_ key has been rewritten onto
// its per-state replacements it is dropped from the output, matching
// fix_model_output's refined_model, which never carries the accepting-
// component keys forward.
func FixModelOutput(model map[string]float64, a *automaton.LDBA) map[string]float64 {
	out := make(map[string]float64, len(model))
	for name, v := range model {
		if strings.HasPrefix(name, acceptingPolicyPrefix) {
			continue
		}
		out[name] = v
	}

	for name, v := range model {
		if !strings.HasPrefix(name, acceptingPolicyPrefix) {
			continue
		}
		k, ok := lastSegment(name)
		if !ok {
			continue
		}
		for _, q := range a.States() {
			if a.IsAccepting(q) {
				continue
			}
			out[stateCoefficientName(q, k)] = v
		}
	}

	return out
}

func lastSegment(name string) (int, bool) {
	idx := strings.LastIndex(name, "_")
	if idx == -1 {
		return 0, false
	}
	k, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return 0, false
	}
	return k, true
}

func stateCoefficientName(q, k int) string {
	return "P_" + strconv.Itoa(q) + "_" + strconv.Itoa(k)
}
