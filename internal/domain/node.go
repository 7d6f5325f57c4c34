package domain

// NodeState enumerates the lifecycle states a node can report. The
// numeric values appear verbatim in structured output, so existing
// values must never be renumbered; new states are appended.
type NodeState int

const (
	// StateRunning means the node is provisioned and booted.
	StateRunning NodeState = iota
	// StateRebooting means the node is restarting.
	StateRebooting
	// StateTerminated means the node has been destroyed or is being
	// destroyed.
	StateTerminated
	// StatePending means the node is still provisioning.
	StatePending
	// StateUnknown means the provider reported a state this tool does
	// not recognize.
	StateUnknown
)

var stateNames = map[NodeState]string{
	StateRunning:    "running",
	StateRebooting:  "rebooting",
	StateTerminated: "terminated",
	StatePending:    "pending",
	StateUnknown:    "unknown",
}

// String returns the lowercase label for the state, "unknown" for any
// value outside the defined set.
func (s NodeState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Node represents a compute instance owned by a provider account.
type Node struct {
	UUID      string
	Name      string
	State     NodeState
	PublicIP  string
	PrivateIP string
	FlavorID  string
	ImageID   string

	// Password holds the initial root password when the provider
	// generates one at create time, and is empty otherwise. It is
	// sensitive: never log it. Only structured output may carry it.
	Password string
}

// Size describes a provisionable hardware configuration.
type Size struct {
	ID        string
	Name      string
	RAM       int     // in MB
	Disk      int     // in GB
	Bandwidth float64 // included traffic in TB, 0 when unmetered or unreported
	Price     float64 // monthly price in the provider's billing currency
}

// Image describes an operating system image available for provisioning.
type Image struct {
	ID   string
	Name string
}
