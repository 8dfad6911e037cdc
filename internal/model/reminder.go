package model

// Reminder настройка напоминания для слота
type Reminder struct {
	SlotID        string `json:"slotId"`
	MinutesBefore int    `json:"minutesBefore"` // например 5, 10, 15
	Active        bool   `json:"active"`
}

// ReminderLeadTimes варианты, которые предлагаются пользователю
var ReminderLeadTimes = []int{5, 10, 15, 30}
