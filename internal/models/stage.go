package models

import "fmt"

// Stage identifies one step of the promotion pipeline. Changes flow
// development -> staging -> production, and every promotion comparison
// is between a stage and its immediate predecessor.
type Stage int

const (
	StageDevelopment Stage = iota
	StageStaging
	StageProduction
)

// ParseStage converts CLI input into a Stage.
func ParseStage(s string) (Stage, error) {
	switch s {
	case "development", "dev":
		return StageDevelopment, nil
	case "staging":
		return StageStaging, nil
	case "production":
		return StageProduction, nil
	}
	return 0, fmt.Errorf("unknown stage: %q (expected development, staging or production)", s)
}

func (s Stage) String() string {
	switch s {
	case StageDevelopment:
		return "development"
	case StageStaging:
		return "staging"
	case StageProduction:
		return "production"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}
