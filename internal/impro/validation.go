package impro

import (
	"fmt"

	"github.com/f3rmion/caucus/internal/caucus"
)

// Limits on what the setup screen lets the instructor request.
const (
	DefaultPlacesCount = 1
	MinPlacesCount     = 1
	MaxPlacesCount     = 10
	MinStudents        = 1
	MaxStudents        = 50
)

// Validation messages.
const (
	MsgNoStudentSelected = "select at least one student"
	MsgTooManyStudents   = "too many students selected"
	MsgPlaceRequired     = "at least one place required"
)

// ValidateStudentSelection checks the set of selected student ids against the
// course. It returns "" when the selection is valid, otherwise the message to
// show. Selecting more ids than the course has students is rejected as a
// guard against ids that do not belong to the course.
func ValidateStudentSelection(selected map[string]bool, course caucus.Course) string {
	n := 0
	for _, on := range selected {
		if on {
			n++
		}
	}
	if n == 0 {
		return MsgNoStudentSelected
	}
	if n > len(course.Students) {
		return MsgTooManyStudents
	}
	return ""
}

// ValidatePlacesCount checks a requested number of places against the size of
// the place pool. It returns "" when valid.
func ValidatePlacesCount(placesCount, availablePlaces int) string {
	if placesCount < 1 {
		return MsgPlaceRequired
	}
	if placesCount > availablePlaces {
		return fmt.Sprintf("maximum %d %s available", availablePlaces, plural(availablePlaces, "place", "places"))
	}
	return ""
}
