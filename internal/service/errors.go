package service

import "errors"

var (
	ErrUnknownClass   = errors.New("unknown class")
	ErrUnknownSlot    = errors.New("slot not found in class schedule")
	ErrSlotNotOnDate  = errors.New("slot does not take place on this date")
	ErrUnknownSubject = errors.New("unknown subject")
	ErrInvalidMinutes = errors.New("reminder lead time must be between 1 and 1440 minutes")
	ErrInvalidGrade   = errors.New("grade must be between 0 and 20")
	ErrEmptyText      = errors.New("text must not be empty")
	ErrTaskNotFound   = errors.New("task not found")
)
