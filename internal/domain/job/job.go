// Package job provides the job and step model edited by the job editor.
package job

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// DefaultColor is used when a job has no color.
const DefaultColor = "#ff9131"

// UnassignedIndex marks a job that has not been placed among its siblings.
const UnassignedIndex = -1

// Job errors.
var (
	ErrInvalidColor   = errors.New("invalid color")
	ErrDuplicateStep  = errors.New("duplicate step id")
	ErrUnknownLOIType = errors.New("unknown location of interest type")
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LOIType is a geometry kind data collectors may add while executing a job.
type LOIType string

// Location of interest types.
const (
	LOIPoints   LOIType = "points"
	LOIPolygons LOIType = "polygons"
)

// ParseLOIType parses a location of interest type.
func ParseLOIType(s string) (LOIType, error) {
	switch LOIType(strings.ToLower(strings.TrimSpace(s))) {
	case LOIPoints:
		return LOIPoints, nil
	case LOIPolygons:
		return LOIPolygons, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLOIType, s)
	}
}

// AllowedLoiTypes builds the allowed LOI list. Points always precede polygons.
func AllowedLoiTypes(points, polygons bool) []LOIType {
	types := make([]LOIType, 0, 2)
	if points {
		types = append(types, LOIPoints)
	}
	if polygons {
		types = append(types, LOIPolygons)
	}
	return types
}

// Job is a named, colored set of steps plus the LOI kinds collectors may add.
type Job struct {
	// ID is empty until the job is persisted.
	ID string
	// Index is the job's position among its siblings, UnassignedIndex when new.
	Index           int
	Color           string
	Name            string
	Steps           map[string]Step
	AllowedLoiTypes []LOIType
}

// New creates an unsaved job with the default color and no steps.
func New() Job {
	return Job{
		Index: UnassignedIndex,
		Color: DefaultColor,
		Steps: map[string]Step{},
	}
}

// IsNew reports whether the job has not been persisted yet.
func (j Job) IsNew() bool {
	return j.ID == ""
}

// ColorOrDefault returns the job color, falling back to DefaultColor.
func (j Job) ColorOrDefault() string {
	if j.Color == "" {
		return DefaultColor
	}
	return j.Color
}

// Allows reports whether collectors may add geometries of the given type.
func (j Job) Allows(t LOIType) bool {
	for _, allowed := range j.AllowedLoiTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// OrderedSteps returns the job's steps sorted by their index.
func (j Job) OrderedSteps() []Step {
	return StepsFromMap(j.Steps)
}

// Clone returns a deep copy of the job.
func (j Job) Clone() Job {
	clone := j
	clone.Steps = make(map[string]Step, len(j.Steps))
	for id, s := range j.Steps {
		clone.Steps[id] = s.Clone()
	}
	if j.AllowedLoiTypes != nil {
		clone.AllowedLoiTypes = append([]LOIType(nil), j.AllowedLoiTypes...)
	}
	return clone
}

// ValidateColor checks that a color is a #rrggbb hex value.
func ValidateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return fmt.Errorf("%w: %q (expected #rrggbb)", ErrInvalidColor, color)
	}
	return nil
}

// NormalizeName trims surrounding whitespace and applies NFC normalization.
// It is for display; stored names are only trimmed.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// IDGenerator produces new identifiers.
type IDGenerator func() string

// NewID generates a random identifier.
func NewID() string {
	return uuid.NewString()
}

// StepsFromMap returns the steps ordered by Index. Ties are broken by ID so
// the result is deterministic. A step without an ID takes its map key.
func StepsFromMap(steps map[string]Step) []Step {
	ordered := make([]Step, 0, len(steps))
	for key, s := range steps {
		s = s.Clone()
		if s.ID == "" {
			s.ID = key
		}
		ordered = append(ordered, s)
	}
	sort.SliceStable(ordered, func(i, k int) bool {
		if ordered[i].Index != ordered[k].Index {
			return ordered[i].Index < ordered[k].Index
		}
		return ordered[i].ID < ordered[k].ID
	})
	return ordered
}

// StepsToMap keys steps by identifier. Each step's Index is set to its
// position in the slice. Steps and options without an identifier get one
// from newID.
func StepsToMap(steps []Step, newID IDGenerator) (map[string]Step, error) {
	if newID == nil {
		newID = NewID
	}
	out := make(map[string]Step, len(steps))
	for i, s := range steps {
		s = s.Clone()
		if s.ID == "" {
			s.ID = newID()
		}
		if s.MultipleChoice != nil {
			for k := range s.MultipleChoice.Options {
				if s.MultipleChoice.Options[k].ID == "" {
					s.MultipleChoice.Options[k].ID = newID()
				}
			}
		}
		if _, exists := out[s.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStep, s.ID)
		}
		s.Index = i
		out[s.ID] = s
	}
	return out, nil
}
