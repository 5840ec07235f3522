package mesh

import "fmt"

// Stage is the pipeline's progress through mesh generation.
type Stage int

const (
	StageEmpty Stage = iota
	StageBoundariesLoaded
	StageRegularized
	StageComposed
	StageTriangulated
	StageSmoothed
)

var stageNames = [...]string{
	StageEmpty:            "empty",
	StageBoundariesLoaded: "boundaries-loaded",
	StageRegularized:      "regularized",
	StageComposed:         "composed",
	StageTriangulated:     "triangulated",
	StageSmoothed:         "smoothed",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// in reports whether s is one of stages.
func (s Stage) in(stages ...Stage) bool {
	for _, t := range stages {
		if s == t {
			return true
		}
	}
	return false
}
