package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/charlesng35/hrms/pkg/errors"
)

var (
	// ErrUnauthenticated is returned when an operation needs an actor and none is on the context.
	ErrUnauthenticated = apperrors.ErrUnauthorized
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	// ErrDuplicateEmail signals a user with the email already exists in any organisation.
	ErrDuplicateEmail = apperrors.New("DUPLICATE_EMAIL", "User with this email already exists", http.StatusConflict)

	ErrUserNotFound       = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	ErrEmployeeNotFound   = apperrors.New("EMPLOYEE_NOT_FOUND", "Employee not found", http.StatusNotFound)
	ErrTeamNotFound       = apperrors.New("TEAM_NOT_FOUND", "Team not found", http.StatusNotFound)
	ErrAssignmentNotFound = apperrors.New("ASSIGNMENT_NOT_FOUND", "Assignment not found", http.StatusNotFound)

	// ErrPartialNotFound is returned when a batch references employees outside the organisation.
	ErrPartialNotFound = apperrors.New("PARTIAL_NOT_FOUND", "One or more employees not found", http.StatusBadRequest)
	// ErrEmployeeIDsRequired rejects an empty assignment request.
	ErrEmployeeIDsRequired = apperrors.NewBadRequest("employeeIds array is required")
)

// ErrValidation builds a 400 carrying the supplied message.
func ErrValidation(message string) *apperrors.AppError {
	return apperrors.NewBadRequest(message)
}

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "duplicate")
}
