package protocol

// Query statuses.
const (
	StatusSuccess = "success"
	StatusDenied  = "denied"
	StatusError   = "error"
)

// QueryResponse is the structured result returned to MCP clients and printed by the CLI.
type QueryResponse struct {
	// Status indicates the execution status.
	Status string `json:"status"`
	// CorrelationID links related log and audit entries.
	CorrelationID string `json:"correlation_id"`
	// Command is the executed argv.
	Command []string `json:"command,omitempty"`
	// Inputs are the derived point cloud paths.
	Inputs []string `json:"inputs,omitempty"`
	// Warnings report suspicious derived paths.
	Warnings []string `json:"warnings,omitempty"`
	// DryRun is set when the process was not started.
	DryRun bool `json:"dry_run,omitempty"`
	// ExitCode is the lasview exit code.
	ExitCode int `json:"exit_code"`
	// Output is the captured console output.
	Output string `json:"output,omitempty"`
	// Reason is a human-readable failure message.
	Reason string `json:"reason,omitempty"`
}
