package impro

import (
	"context"
	"fmt"
	"slices"

	"github.com/f3rmion/caucus/internal/caucus"
)

// DeletePlaceMessage is the confirmation asked before removing a place.
func DeletePlaceMessage(placeName string) string {
	return fmt.Sprintf("Remove place %q from the impro?", placeName)
}

// DeleteStudentMessage is the confirmation asked before removing a student.
func DeleteStudentMessage(studentName string) string {
	return fmt.Sprintf("Remove student %q from the impro?", studentName)
}

// DeletePlace removes the place at index. It does not guard against removing
// the last place.
func DeletePlace(imp *caucus.Impro, index int) error {
	if index < 0 || index >= len(imp.Places) {
		return newError(ErrInvalidInput, "place index %d out of range", index)
	}
	imp.Places = slices.Delete(imp.Places, index, index+1)
	return nil
}

// DeleteAssignment removes the assignment at index. It does not guard against
// removing the last assignment.
func DeleteAssignment(imp *caucus.Impro, index int) error {
	if index < 0 || index >= len(imp.Assignments) {
		return newError(ErrInvalidInput, "assignment index %d out of range", index)
	}
	imp.Assignments = slices.Delete(imp.Assignments, index, index+1)
	return nil
}

// ConfirmAndDeletePlace asks confirm before removing the place at index.
// It reports whether the place was removed.
func ConfirmAndDeletePlace(ctx context.Context, confirm caucus.Confirmer, imp *caucus.Impro, index int) (bool, error) {
	if index < 0 || index >= len(imp.Places) {
		return false, newError(ErrInvalidInput, "place index %d out of range", index)
	}
	ok, err := confirm.ConfirmDeletion(ctx, DeletePlaceMessage(imp.Places[index].Name))
	if err != nil {
		return false, fmt.Errorf("confirming deletion: %w", err)
	}
	if !ok {
		return false, nil
	}
	return true, DeletePlace(imp, index)
}

// ConfirmAndDeleteAssignment asks confirm before removing the assignment at
// index. It reports whether the assignment was removed.
func ConfirmAndDeleteAssignment(ctx context.Context, confirm caucus.Confirmer, imp *caucus.Impro, index int) (bool, error) {
	if index < 0 || index >= len(imp.Assignments) {
		return false, newError(ErrInvalidInput, "assignment index %d out of range", index)
	}
	ok, err := confirm.ConfirmDeletion(ctx, DeleteStudentMessage(imp.Assignments[index].Student.Name))
	if err != nil {
		return false, fmt.Errorf("confirming deletion: %w", err)
	}
	if !ok {
		return false, nil
	}
	return true, DeleteAssignment(imp, index)
}
