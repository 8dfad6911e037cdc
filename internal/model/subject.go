package model

// Subject справочная запись о предмете
type Subject struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ShortName      string `json:"shortName"`
	Color          string `json:"color"` // суффикс цвета, например "blue-500"
	TeacherName    string `json:"teacherName,omitempty"`
	TeacherContact string `json:"teacherContact,omitempty"`
	Goals          string `json:"goals,omitempty"`
	IsPriority     bool   `json:"isPriority,omitempty"`
}

// SubjectDetails пользовательские правки предмета. Пустые поля не меняют каталог.
type SubjectDetails struct {
	Name           *string `json:"name,omitempty"`
	ShortName      *string `json:"shortName,omitempty"`
	Color          *string `json:"color,omitempty"`
	TeacherName    *string `json:"teacherName,omitempty"`
	TeacherContact *string `json:"teacherContact,omitempty"`
	Goals          *string `json:"goals,omitempty"`
	IsPriority     *bool   `json:"isPriority,omitempty"`
}

// Apply накладывает правки на предмет
func (d SubjectDetails) Apply(s Subject) Subject {
	if d.Name != nil {
		s.Name = *d.Name
	}
	if d.ShortName != nil {
		s.ShortName = *d.ShortName
	}
	if d.Color != nil {
		s.Color = *d.Color
	}
	if d.TeacherName != nil {
		s.TeacherName = *d.TeacherName
	}
	if d.TeacherContact != nil {
		s.TeacherContact = *d.TeacherContact
	}
	if d.Goals != nil {
		s.Goals = *d.Goals
	}
	if d.IsPriority != nil {
		s.IsPriority = *d.IsPriority
	}
	return s
}
