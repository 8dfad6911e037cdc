package model

// ScheduleOverride временная замена предмета в слоте на конкретную дату
type ScheduleOverride struct {
	Date         string `json:"date"` // "YYYY-MM-DD"
	SlotID       string `json:"slotId"`
	NewSubjectID string `json:"newSubjectId"`
}

// Matches проверяет, относится ли замена к дате и слоту
func (o ScheduleOverride) Matches(date, slotID string) bool {
	return o.Date == date && o.SlotID == slotID
}
