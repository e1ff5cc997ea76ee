package ledger

import "fmt"

// ResolutionType identifies the kind of standing transfer a sub-transaction
// represents. Report code switches on it, so values outside the known set are
// rejected rather than passed through.
type ResolutionType string

const (
	WorldwideWorkFromContributionBoxes     ResolutionType = "WORLDWIDE_WORK_FROM_CONTRIBUTION_BOXES"
	WorldwideWorkResolution                ResolutionType = "WORLDWIDE_WORK_RESOLUTION"
	KingdomHallAndAssemblyHallWorldwide    ResolutionType = "KINGDOM_HALL_AND_ASSEMBLY_HALL_WORLDWIDE"
	GlobalAssistanceArrangement            ResolutionType = "GLOBAL_ASSISTANCE_ARRANGEMENT"
	TravelingOverseerAssistanceArrangement ResolutionType = "TRAVELING_OVERSEER_ASSISTANCE_ARRANGEMENT"
)

// ResolutionTypes lists every known resolution type.
func ResolutionTypes() []ResolutionType {
	return []ResolutionType{
		WorldwideWorkFromContributionBoxes,
		WorldwideWorkResolution,
		KingdomHallAndAssemblyHallWorldwide,
		GlobalAssistanceArrangement,
		TravelingOverseerAssistanceArrangement,
	}
}

// Known reports whether t is one of the defined resolution types.
func (t ResolutionType) Known() bool {
	for _, known := range ResolutionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseResolutionType parses the persisted name of a resolution type.
func ParseResolutionType(s string) (ResolutionType, error) {
	t := ResolutionType(s)
	if !t.Known() {
		return "", NewParseError("resolution type", s, nil)
	}
	return t, nil
}

func (t ResolutionType) String() string { return string(t) }

func (t ResolutionType) MarshalText() ([]byte, error) {
	if !t.Known() {
		return nil, NewInvariantError("serialize resolution type", fmt.Sprintf("unknown type %q", string(t)))
	}
	return []byte(t), nil
}

func (t *ResolutionType) UnmarshalText(text []byte) error {
	parsed, err := ParseResolutionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
