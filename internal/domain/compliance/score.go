package compliance

// Score computes the posture score from controls and open risk findings:
// (passed/total)*100 minus 5 points per finding capped at 20, floored at 0
// and truncated to an integer. Zero controls scores 0. The linear heuristic
// is policy, not an approximation of a richer model.
func Score(controls ControlsPage, findings FindingsPage) int {
	total := len(controls.Data)
	if total == 0 {
		return 0
	}
	passed := 0
	for _, c := range controls.Data {
		if c.Status == ControlStatusPassed {
			passed++
		}
	}
	base := float64(passed) / float64(total) * 100

	penalty := len(findings.Data) * 5
	if penalty > 20 {
		penalty = 20
	}

	final := base - float64(penalty)
	if final < 0 {
		final = 0
	}
	return int(final)
}

// StatusFor maps a score to the verdict status. 80 is the compliance bar.
func StatusFor(score int) string {
	if score >= 80 {
		return StatusCompliant
	}
	return StatusNeedsAttention
}
