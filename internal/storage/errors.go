package storage

import (
	"context"
	"errors"
	"io/fs"
	"syscall"

	"github.com/lib/pq"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassQuota
	ErrorClassCanceled
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassTransient:
		return "transient"
	case ErrorClassQuota:
		return "quota"
	case ErrorClassCanceled:
		return "canceled"
	default:
		return "permanent"
	}
}

// ClassifyError labels a medium failure for logging. The store never retries,
// so the class only tells an operator what went wrong.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassCanceled
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "53100", "53200", "54000":
			return ErrorClassQuota
		case "40001", "40P01", "55P03", "57P01", "08000", "08003", "08006":
			return ErrorClassTransient
		}
		return ErrorClassPermanent
	}

	if errors.Is(err, syscall.ENOSPC) {
		return ErrorClassQuota
	}
	if errors.Is(err, fs.ErrPermission) {
		return ErrorClassPermanent
	}

	return ErrorClassPermanent
}
