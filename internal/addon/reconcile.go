package addon

// Stage is one matching heuristic of the reconciliation protocol.
// Stages are totally ordered by decreasing accuracy.
type Stage int

const (
	// StageSourceID matches folders against source ids recorded in
	// their metadata files.
	StageSourceID Stage = iota
	// StageFolderName matches folder name sets against the catalogue.
	StageFolderName
	// StageInterfaceVersion matches on declared interface version,
	// the weakest heuristic and the terminal stage.
	StageInterfaceVersion
)

var stageNames = map[Stage]string{
	StageSourceID:         "source_id",
	StageFolderName:       "folder_name",
	StageInterfaceVersion: "interface_version",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// FirstStage is where a fresh reconciliation session starts.
const FirstStage = StageSourceID

// Next returns the following stage, or false if s is terminal.
func (s Stage) Next() (Stage, bool) {
	if s >= StageInterfaceVersion {
		return s, false
	}
	return s + 1, true
}

// Stages returns all stages in protocol order.
func Stages() []Stage {
	return []Stage{StageSourceID, StageFolderName, StageInterfaceVersion}
}

// Match pairs one unreconciled folder group with its ranked candidate
// add-ons. Matches may be empty when no candidate was found.
type Match struct {
	Folders []Folder `json:"folders"`
	Matches []Addon  `json:"matches"`
}
