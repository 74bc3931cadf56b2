package service

import (
	"errors"

	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

func asDomainError(err error) (*apperrors.DomainError, bool) {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
