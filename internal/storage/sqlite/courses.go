package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/caucus/internal/caucus"
)

// ListCourses returns every course with its students, newest course first.
func (s *Store) ListCourses(ctx context.Context) ([]caucus.Course, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM courses ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	courses := []caucus.Course{}
	index := map[string]int{}
	for rows.Next() {
		var c caucus.Course
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		c.Students = []caucus.Student{}
		index[c.ID] = len(courses)
		courses = append(courses, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	srows, err := s.db.QueryContext(ctx, "SELECT id, course_id, name FROM students ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer srows.Close()
	for srows.Next() {
		var st caucus.Student
		var courseID string
		if err := srows.Scan(&st.ID, &courseID, &st.Name); err != nil {
			return nil, fmt.Errorf("scanning student: %w", err)
		}
		if i, ok := index[courseID]; ok {
			courses[i].Students = append(courses[i].Students, st)
		}
	}
	return courses, srows.Err()
}

// GetCourse returns the course with the given id, or caucus.ErrNotFound.
func (s *Store) GetCourse(ctx context.Context, id string) (caucus.Course, error) {
	c := caucus.Course{ID: id}
	err := s.db.QueryRowContext(ctx, "SELECT name FROM courses WHERE id = ?", id).Scan(&c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return caucus.Course{}, caucus.ErrNotFound
	}
	if err != nil {
		return caucus.Course{}, fmt.Errorf("reading course: %w", err)
	}
	c.Students, err = s.listStudents(ctx, id)
	if err != nil {
		return caucus.Course{}, err
	}
	return c, nil
}

// FindCourse resolves ref as a course id, then as a case-insensitive name.
func (s *Store) FindCourse(ctx context.Context, ref string) (caucus.Course, error) {
	c, err := s.GetCourse(ctx, ref)
	if !errors.Is(err, caucus.ErrNotFound) {
		return c, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM courses WHERE lower(name) = lower(?) ORDER BY seq DESC", strings.TrimSpace(ref))
	if err != nil {
		return caucus.Course{}, fmt.Errorf("finding course: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return caucus.Course{}, fmt.Errorf("scanning course: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return caucus.Course{}, fmt.Errorf("finding course: %w", err)
	}

	switch len(ids) {
	case 0:
		return caucus.Course{}, caucus.ErrNotFound
	case 1:
		return s.GetCourse(ctx, ids[0])
	default:
		return caucus.Course{}, fmt.Errorf("course name %q matches %d courses, use an id", ref, len(ids))
	}
}

// CreateCourse inserts an empty course.
func (s *Store) CreateCourse(ctx context.Context, name string) (caucus.Course, error) {
	name, err := cleanName(name)
	if err != nil {
		return caucus.Course{}, err
	}
	c := caucus.Course{ID: newID(), Name: name, Students: []caucus.Student{}}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO courses (id, name, created_at) VALUES (?, ?, ?)", c.ID, c.Name, nowMillis(),
	); err != nil {
		return caucus.Course{}, fmt.Errorf("inserting course: %w", err)
	}
	return c, nil
}

// PutCourse inserts or replaces a course and its whole roster, keeping ids.
func (s *Store) PutCourse(ctx context.Context, c caucus.Course) (caucus.Course, error) {
	name, err := cleanName(c.Name)
	if err != nil {
		return caucus.Course{}, err
	}
	c.Name = name
	if c.ID == "" {
		c.ID = newID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return caucus.Course{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO courses (id, name, created_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET name = excluded.name",
		c.ID, c.Name, nowMillis(),
	); err != nil {
		return caucus.Course{}, fmt.Errorf("upserting course: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM students WHERE course_id = ?", c.ID); err != nil {
		return caucus.Course{}, fmt.Errorf("clearing roster: %w", err)
	}
	students := make([]caucus.Student, 0, len(c.Students))
	for _, st := range c.Students {
		stName, err := cleanName(st.Name)
		if err != nil {
			return caucus.Course{}, err
		}
		if st.ID == "" {
			st.ID = newID()
		}
		st.Name = stName
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO students (id, course_id, name, created_at) VALUES (?, ?, ?, ?) "+
				"ON CONFLICT(id) DO UPDATE SET course_id = excluded.course_id, name = excluded.name",
			st.ID, c.ID, st.Name, nowMillis(),
		); err != nil {
			return caucus.Course{}, fmt.Errorf("inserting student: %w", err)
		}
		students = append(students, st)
	}
	if err := tx.Commit(); err != nil {
		return caucus.Course{}, fmt.Errorf("committing course: %w", err)
	}
	c.Students = students
	return c, nil
}

// RenameCourse changes a course name. Returns caucus.ErrNotFound for unknown ids.
func (s *Store) RenameCourse(ctx context.Context, id, newName string) (caucus.Course, error) {
	newName, err := cleanName(newName)
	if err != nil {
		return caucus.Course{}, err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE courses SET name = ? WHERE id = ?", newName, id)
	if err != nil {
		return caucus.Course{}, fmt.Errorf("renaming course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return caucus.Course{}, caucus.ErrNotFound
	}
	return s.GetCourse(ctx, id)
}

// RemoveCourse deletes a course and its students.
func (s *Store) RemoveCourse(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM students WHERE course_id = ?", id); err != nil {
		return false, fmt.Errorf("removing students: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("removing course: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing removal: %w", err)
	}
	return n > 0, nil
}

// AddStudent appends a student to a course roster.
func (s *Store) AddStudent(ctx context.Context, courseID, name string) (caucus.Student, error) {
	name, err := cleanName(name)
	if err != nil {
		return caucus.Student{}, err
	}
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return caucus.Student{}, err
	}
	st := caucus.Student{ID: newID(), Name: name}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO students (id, course_id, name, created_at) VALUES (?, ?, ?, ?)",
		st.ID, courseID, st.Name, nowMillis(),
	); err != nil {
		return caucus.Student{}, fmt.Errorf("inserting student: %w", err)
	}
	return st, nil
}

// RenameStudent changes the name of a student of a course.
func (s *Store) RenameStudent(ctx context.Context, courseID, studentID, newName string) (caucus.Student, error) {
	newName, err := cleanName(newName)
	if err != nil {
		return caucus.Student{}, err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE students SET name = ? WHERE id = ? AND course_id = ?", newName, studentID, courseID)
	if err != nil {
		return caucus.Student{}, fmt.Errorf("renaming student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return caucus.Student{}, caucus.ErrNotFound
	}
	return caucus.Student{ID: studentID, Name: newName}, nil
}

// RemoveStudent removes a student from a course roster.
func (s *Store) RemoveStudent(ctx context.Context, courseID, studentID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM students WHERE id = ? AND course_id = ?", studentID, courseID)
	if err != nil {
		return false, fmt.Errorf("removing student: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) listStudents(ctx context.Context, courseID string) ([]caucus.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM students WHERE course_id = ? ORDER BY seq ASC", courseID)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer rows.Close()
	out := []caucus.Student{}
	for rows.Next() {
		var st caucus.Student
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("scanning student: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
