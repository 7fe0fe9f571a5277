package browser

// LinuxCandidates returns the Linux command list. The PowerShell and
// cmd.exe entries reach the Windows host when running under WSL.
func LinuxCandidates(url string) []Candidate {
	return []Candidate{
		{
			Name: "google-chrome",
			Args: []string{"google-chrome", url},
		},
		{
			Name: "chromium-browser",
			Args: []string{"chromium-browser", url},
		},
		{
			Name: "chromium",
			Args: []string{"chromium", url},
		},
		{
			Name: "wsl-powershell",
			Args: []string{"powershell.exe", "-NoProfile", "-Command", "Start-Process chrome '" + url + "'"},
		},
		{
			Name: "wsl-cmd",
			Args: []string{"cmd.exe", "/c", "start", "", "chrome", url},
		},
		{
			Name: "xdg-open",
			Args: []string{"xdg-open", url},
		},
	}
}
