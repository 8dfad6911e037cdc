package model

// DefaultClassID класс, который используется, если ничего не выбрано
const DefaultClassID = "12-CH"

// TaskType тип задания
type TaskType string

const (
	TaskTypeHomework TaskType = "HOMEWORK"
	TaskTypeExam     TaskType = "EXAM"
	TaskTypeProject  TaskType = "PROJECT"
)

// TaskPriority приоритет задания
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

type Task struct {
	ID          string       `json:"id"`
	SubjectID   string       `json:"subjectId"`
	Title       string       `json:"title"`
	DueDate     string       `json:"dueDate"` // ISO 8601
	IsCompleted bool         `json:"isCompleted"`
	Type        TaskType     `json:"type"`
	Priority    TaskPriority `json:"priority"`
}

type Note struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Grade оценка по шкале 0-20
type Grade struct {
	ID        string  `json:"id"`
	SubjectID string  `json:"subjectId"`
	Name      string  `json:"name"` // например "Teste 1"
	Value     float64 `json:"value"`
	CreatedAt string  `json:"createdAt"`
}

// AttendanceRecord счётчики посещаемости по предмету
type AttendanceRecord struct {
	SubjectID   string `json:"subjectId"`
	Present     int    `json:"present"`
	Absent      int    `json:"absent"`
	MaxAbsences int    `json:"maxAbsences"`
}

// ResourceType тип материала в библиотеке
type ResourceType string

const (
	ResourceTypeLink  ResourceType = "LINK"
	ResourceTypePDF   ResourceType = "PDF"
	ResourceTypeVideo ResourceType = "VIDEO"
)

type Resource struct {
	ID        string       `json:"id"`
	SubjectID string       `json:"subjectId"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Type      ResourceType `json:"type"`
	CreatedAt string       `json:"createdAt"`
}

type Flashcard struct {
	ID        string `json:"id"`
	Front     string `json:"front"`
	Back      string `json:"back"`
	SubjectID string `json:"subjectId"`
}

type SchoolEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Type  string `json:"type"` // HOLIDAY, EXAM, OTHER
}

type Question struct {
	ID         string `json:"id"`
	SubjectID  string `json:"subjectId"`
	Text       string `json:"text"`
	IsAnswered bool   `json:"isAnswered"`
}

type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
}

// AppData весь сохраняемый документ приложения.
// Имена полей совпадают с форматом резервных копий.
type AppData struct {
	UserName             string                      `json:"userName,omitempty"`
	Tasks                []Task                      `json:"tasks"`
	Notes                []Note                      `json:"notes"`
	Grades               []Grade                     `json:"grades"`
	Resources            []Resource                  `json:"resources"`
	Attendance           map[string]AttendanceRecord `json:"attendance"`
	CustomSubjectDetails map[string]SubjectDetails   `json:"customSubjectDetails"`
	ScheduleOverrides    []ScheduleOverride          `json:"scheduleOverrides"`
	StudyActivityDates   []string                    `json:"studyActivityDates"`
	Reminders            []Reminder                  `json:"reminders"`
	SelectedClassID      string                      `json:"selectedClassId"`

	Flashcards     []Flashcard   `json:"flashcards"`
	SchoolEvents   []SchoolEvent `json:"schoolEvents"`
	Questions      []Question    `json:"questions"`
	Contacts       []Contact     `json:"contacts"`
	ScratchpadData string        `json:"scratchpadData,omitempty"`
}

// NewAppData возвращает пустой документ со значениями по умолчанию
func NewAppData() *AppData {
	data := &AppData{}
	data.Normalize()
	return data
}

// Normalize подставляет значения по умолчанию для отсутствующих ключей.
// Любой читатель документа должен вызывать его после загрузки.
func (d *AppData) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Notes == nil {
		d.Notes = []Note{}
	}
	if d.Grades == nil {
		d.Grades = []Grade{}
	}
	if d.Resources == nil {
		d.Resources = []Resource{}
	}
	if d.Attendance == nil {
		d.Attendance = map[string]AttendanceRecord{}
	}
	if d.CustomSubjectDetails == nil {
		d.CustomSubjectDetails = map[string]SubjectDetails{}
	}
	if d.ScheduleOverrides == nil {
		d.ScheduleOverrides = []ScheduleOverride{}
	}
	if d.StudyActivityDates == nil {
		d.StudyActivityDates = []string{}
	}
	if d.Reminders == nil {
		d.Reminders = []Reminder{}
	}
	if d.Flashcards == nil {
		d.Flashcards = []Flashcard{}
	}
	if d.SchoolEvents == nil {
		d.SchoolEvents = []SchoolEvent{}
	}
	if d.Questions == nil {
		d.Questions = []Question{}
	}
	if d.Contacts == nil {
		d.Contacts = []Contact{}
	}
	if d.SelectedClassID == "" {
		d.SelectedClassID = DefaultClassID
	}
}

// ActiveReminder ищет включённое напоминание для слота
func (d *AppData) ActiveReminder(slotID string) (Reminder, bool) {
	for _, r := range d.Reminders {
		if r.SlotID == slotID && r.Active {
			return r, true
		}
	}
	return Reminder{}, false
}

// PendingTasks количество невыполненных заданий
func (d *AppData) PendingTasks() int {
	count := 0
	for _, t := range d.Tasks {
		if !t.IsCompleted {
			count++
		}
	}
	return count
}
