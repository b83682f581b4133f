package models

import (
	"fmt"
	"strings"
)

// Kind discriminates the item variants
type Kind string

const (
	KindTask       Kind = "task"
	KindHabit      Kind = "habit"
	KindAssignment Kind = "assignment"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindTask, KindHabit, KindAssignment:
		return true
	}
	return false
}

// Priority of an item. The zero value is not valid; items default to Medium.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority accepts Low, Medium or High in any case
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m", "":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("invalid priority %q: must be Low, Medium or High", s)
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	parsed, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Role of a user
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole accepts student or teacher
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleTeacher:
		return r, nil
	}
	return "", fmt.Errorf("invalid role %q: must be student or teacher", s)
}
