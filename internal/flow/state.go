package flow

// State is the single enumerated UI state.
type State int

const (
	Loading State = iota
	Ready
	FileSelected
	Processing
	Success
	Failed
)

var stateNames = [...]string{
	Loading:      "loading",
	Ready:        "ready",
	FileSelected: "file-selected",
	Processing:   "processing",
	Success:      "success",
	Failed:       "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// States lists every state in declaration order.
func States() []State {
	return []State{Loading, Ready, FileSelected, Processing, Success, Failed}
}

// Panel is the one view visible for a state.
type Panel int

const (
	PanelIntake Panel = iota
	PanelResult
	PanelError
)

func (p Panel) String() string {
	switch p {
	case PanelIntake:
		return "intake"
	case PanelResult:
		return "result"
	case PanelError:
		return "error"
	}
	return "unknown"
}

// PanelFor maps a state onto its visible panel.
func PanelFor(s State) Panel {
	switch s {
	case Success:
		return PanelResult
	case Failed:
		return PanelError
	default:
		return PanelIntake
	}
}

// Data is the auxiliary display data supplied when entering a state.
type Data struct {
	FileName string
	Art      string
	Message  string
}

// View is the render instruction produced by a transition. Only the fields
// belonging to Panel are populated.
type View struct {
	State    State
	Panel    Panel
	FileName string
	Art      string
	Message  string
}

// File is a user-chosen blob: display name, declared MIME type and where
// to read it from.
type File struct {
	Name string
	Type string
	Path string
	Size int64
}
