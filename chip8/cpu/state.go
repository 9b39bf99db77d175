package cpu

// State is the execution state seen by the driver.
type State uint8

const (
	// Running executes one instruction per Step.
	Running State = iota
	// AwaitingKey is FX0A blocking with no key held. PC stays on the FX0A.
	AwaitingKey
	// Halted is entered on a fatal fault and is final.
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case AwaitingKey:
		return "AwaitingKey"
	case Halted:
		return "Halted"
	default:
		return "Unknown"
	}
}
