package browser

// DarwinCandidates returns the macOS command list.
func DarwinCandidates(url string) []Candidate {
	return []Candidate{
		{
			Name: "open-chrome",
			Args: []string{"open", "-a", "Google Chrome", url},
		},
		{
			Name: "open",
			Args: []string{"open", url},
		},
	}
}
