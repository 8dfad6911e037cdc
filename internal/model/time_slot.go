package model

// DayOfWeek название дня недели, как оно хранится в шаблоне расписания
type DayOfWeek string

const (
	Monday    DayOfWeek = "Segunda-feira"
	Tuesday   DayOfWeek = "Terça-feira"
	Wednesday DayOfWeek = "Quarta-feira"
	Thursday  DayOfWeek = "Quinta-feira"
	Friday    DayOfWeek = "Sexta-feira"
	Saturday  DayOfWeek = "Sábado"
	Sunday    DayOfWeek = "Domingo"
)

// Weekdays индексируется как time.Weekday: 0 = Sunday, 6 = Saturday
var Weekdays = [7]DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// SchoolDays дни, которые показываются в недельной сетке
var SchoolDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday}

// Index возвращает номер дня (0 = Sunday) или -1 для неизвестного значения
func (d DayOfWeek) Index() int {
	for i, day := range Weekdays {
		if day == d {
			return i
		}
	}
	return -1
}

// Форматы дат и времени документа
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Служебные идентификаторы предметов
const (
	SubjectFree  = "FREE"
	SubjectBreak = "BREAK"
)

// TimeSlot одна еженедельная пара в шаблоне расписания
type TimeSlot struct {
	ID        string    `json:"id"`
	Day       DayOfWeek `json:"day"`
	StartTime string    `json:"startTime"` // "HH:mm"
	EndTime   string    `json:"endTime"`   // "HH:mm"
	SubjectID string    `json:"subjectId"`
}

// SlotID строит идентификатор слота из дня и времени начала.
// Два слота с одинаковым днём и началом получают один и тот же ID.
func SlotID(day DayOfWeek, startTime string) string {
	return string(day) + "-" + startTime
}

// NewTimeSlot создаёт слот с детерминированным ID
func NewTimeSlot(day DayOfWeek, startTime, endTime, subjectID string) TimeSlot {
	return TimeSlot{
		ID:        SlotID(day, startTime),
		Day:       day,
		StartTime: startTime,
		EndTime:   endTime,
		SubjectID: subjectID,
	}
}
