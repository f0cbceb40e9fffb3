package impro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/impro"
)

func TestValidateStudentSelection(t *testing.T) {
	course := caucus.Course{ID: "k", Students: []caucus.Student{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	tests := []struct {
		name     string
		selected map[string]bool
		want     string
	}{
		{"empty", map[string]bool{}, impro.MsgNoStudentSelected},
		{"nil", nil, impro.MsgNoStudentSelected},
		{"only deselected", map[string]bool{"a": false}, impro.MsgNoStudentSelected},
		{"valid subset", map[string]bool{"a": true, "c": true}, ""},
		{"whole course", map[string]bool{"a": true, "b": true, "c": true}, ""},
		{"more than course", map[string]bool{"a": true, "b": true, "c": true, "x": true}, impro.MsgTooManyStudents},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, impro.ValidateStudentSelection(tt.selected, course))
		})
	}
}

func TestValidatePlacesCount(t *testing.T) {
	tests := []struct {
		count, available int
		want             string
	}{
		{0, 5, "at least one place required"},
		{-2, 5, "at least one place required"},
		{1, 1, ""},
		{2, 5, ""},
		{3, 1, "maximum 1 place available"},
		{6, 5, "maximum 5 places available"},
		{1, 0, "maximum 0 place available"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, impro.ValidatePlacesCount(tt.count, tt.available),
			"count=%d available=%d", tt.count, tt.available)
	}
}
