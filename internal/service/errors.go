package service

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailExists indicates the email is already registered.
	ErrEmailExists = errors.New("email already registered")
	// ErrCourseNotFound indicates the course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrDuplicateCourse indicates the (code, semester) pair is taken.
	ErrDuplicateCourse = errors.New("course with this code already exists in the semester")
	// ErrChapterNotFound indicates the chapter does not exist in the course.
	ErrChapterNotFound = errors.New("chapter not found")
	// ErrAssignmentNotFound indicates the assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrNoFile indicates the multipart request carried no file.
	ErrNoFile = errors.New("no file uploaded")
	// ErrInvalidDueDate indicates the due date is not RFC3339.
	ErrInvalidDueDate = errors.New("due_date must be an RFC3339 timestamp")
)
