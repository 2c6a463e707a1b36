package domain

import "errors"

var (
	ErrUnknownKind        = errors.New("unknown resource kind")
	ErrStateNotFound      = errors.New("resource state not found")
	ErrHistoryNotFound    = errors.New("history not found")
	ErrUnparsableDuration = errors.New("unparsable duration")
)
