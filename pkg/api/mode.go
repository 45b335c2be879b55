package api

// Mode selects how a session progresses through its content.
type Mode int

const (
	// ModeSingle types one string and stops.
	ModeSingle Mode = 0
	// ModeCorrection types one string, backspaces to where it diverges
	// from a second string, and types the remainder of the second.
	ModeCorrection Mode = 1
	// ModeArray walks a list of items, erasing fully between them.
	ModeArray Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeCorrection:
		return "correction"
	case ModeArray:
		return "array"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m >= ModeSingle && m <= ModeArray
}

// State is the sequencing engine state of a session.
type State string

const (
	StateIdle          State = "IDLE"
	StateTyping        State = "TYPING"
	StateBackspacing   State = "BACKSPACING"
	StateErasing       State = "ERASING"
	StateAdvancingItem State = "ADVANCING_ITEM"
)

// Operation identifies a logical, callback-bearing session operation.
type Operation string

const (
	OperationStart     Operation = "start"
	OperationErase     Operation = "erase"
	OperationBackspace Operation = "backspace"
)

// Phase is one multi-glyph stage within an operation.
type Phase string

const (
	PhaseType      Phase = "type"
	PhaseBackspace Phase = "backspace"
	PhaseErase     Phase = "erase"
)
