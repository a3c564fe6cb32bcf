package domain

import "fmt"

// ResetBoundary names how deep a recovery reset reaches. The boundary is
// an explicit parameter: callers must say whether downstream links lose
// their resolution, never guess. Confirmed addresses survive every
// boundary.
type ResetBoundary string

const (
	// ResetFlagsOnly clears the in-progress and completed flags without
	// touching any link. This is the consistency-repair boundary.
	ResetFlagsOnly ResetBoundary = "flags"
	// ResetCredential additionally forgets the credential link's
	// resolution and its staged parameters.
	ResetCredential ResetBoundary = "credential"
	// ResetAchievement forgets the achievement and credential links and
	// their staged parameters. Used by "issue another achievement".
	ResetAchievement ResetBoundary = "achievement"
)

// ParseResetBoundary maps a boundary name to its value.
func ParseResetBoundary(s string) (ResetBoundary, error) {
	switch ResetBoundary(s) {
	case ResetFlagsOnly, ResetCredential, ResetAchievement:
		return ResetBoundary(s), nil
	}
	return "", fmt.Errorf("unknown reset boundary %q", s)
}
