package repositories

import "errors"

var (
	ErrDealNotFound     = errors.New("deal not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrSpeakerNotFound  = errors.New("speaker not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateProject = errors.New("project already exists for deal")
	ErrDuplicateEmail   = errors.New("email already registered")
)
