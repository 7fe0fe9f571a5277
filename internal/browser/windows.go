package browser

// WindowsCandidates returns the Windows command list: Chrome through cmd,
// Chrome through PowerShell, then whatever handles the URL scheme.
func WindowsCandidates(url string) []Candidate {
	return []Candidate{
		{
			Name: "cmd-chrome",
			Args: []string{"cmd", "/c", "start", "", "chrome", url},
		},
		{
			Name: "powershell-chrome",
			Args: []string{"powershell", "-NoProfile", "-Command", "Start-Process chrome '" + url + "'"},
		},
		{
			Name: "cmd-start",
			Args: []string{"cmd", "/c", "start", "", url},
		},
	}
}
