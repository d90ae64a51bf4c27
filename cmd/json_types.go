package cmd

// execResultForJSON is the machine-readable result of `cmdprobe exec`.
type execResultForJSON struct {
	Command  string   `json:"command"`
	Output   string   `json:"output"`
	ExitCode *int     `json:"exit_code,omitempty"`
	Failures []string `json:"failures,omitempty"`
}
