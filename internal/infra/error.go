package infra

import (
	"context"
	"errors"
	"log/slog"

	"villa-reservation/internal/pkg/errs"
)

type RepositoryErrorKind string

const (
	KindNotFound     RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure    RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey RepositoryErrorKind = "DUPLICATE_KEY"
	// KindConflict is a commit-time overlap with an occupying booking.
	KindConflict RepositoryErrorKind = "CONFLICT"
)

// expected kinds are part of normal booking traffic and only logged at debug.
var expectedKinds = map[RepositoryErrorKind]bool{
	KindNotFound:     true,
	KindConflict:     true,
	KindDuplicateKey: true,
}

// RepositoryError tags a storage failure with a kind the usecases branch on.
// The driver error stays reachable through Unwrap.
type RepositoryError struct {
	Kind  RepositoryErrorKind
	msg   string
	cause error
}

func (e RepositoryError) Error() string {
	if e.cause == nil {
		return string(e.Kind) + ": " + e.msg
	}
	return string(e.Kind) + ": " + e.msg + ": " + e.cause.Error()
}

func (e RepositoryError) Unwrap() error {
	return e.cause
}

func WrapRepoErr(kind RepositoryErrorKind, msg string, err error) error {
	level := slog.LevelError
	if expectedKinds[kind] {
		level = slog.LevelDebug
	}
	slog.Log(context.Background(), level, "repository error: "+msg, slog.String("kind", string(kind)))

	if err != nil {
		err = errs.Wrap(err, msg)
	}
	return RepositoryError{Kind: kind, msg: msg, cause: err}
}

// KindOf returns the repository kind carried by err, or "" when err did not come
// from a repository.
func KindOf(err error) RepositoryErrorKind {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
