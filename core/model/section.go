package model

import "fmt"

// SectionType classifies a track section.
type SectionType int

const (
	SectionPlatform SectionType = iota
	SectionMainLine
	SectionJunction
)

// String returns a human-readable representation of the section type.
func (t SectionType) String() string {
	switch t {
	case SectionPlatform:
		return "PLATFORM"
	case SectionMainLine:
		return "MAIN_LINE"
	case SectionJunction:
		return "JUNCTION"
	default:
		return "unknown"
	}
}

// ParseSectionType converts a string to a SectionType. Unknown values map to
// SectionMainLine.
func ParseSectionType(s string) SectionType {
	switch s {
	case "PLATFORM":
		return SectionPlatform
	case "MAIN_LINE":
		return SectionMainLine
	case "JUNCTION":
		return SectionJunction
	default:
		return SectionMainLine
	}
}

// TrackSection represents a piece of shared railway infrastructure. Sections
// are immutable from the engine's perspective.
type TrackSection struct {
	ID           string
	Name         string
	Type         SectionType
	Capacity     int // trains that may occupy the section simultaneously, >= 1
	LengthKm     float64
	MaxSpeedKmh  int
	SignalBlocks int
}

// Validate checks the section configuration.
func (s TrackSection) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("section id is required")
	}
	if s.Capacity < 1 {
		return fmt.Errorf("section %s: capacity must be at least 1", s.ID)
	}
	return nil
}

func (s TrackSection) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.ID)
}

// SectionIndex builds a lookup map from a section list.
func SectionIndex(sections []TrackSection) map[string]TrackSection {
	idx := make(map[string]TrackSection, len(sections))
	for _, s := range sections {
		idx[s.ID] = s
	}
	return idx
}
