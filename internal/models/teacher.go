package models

// Teacher is a row of the Teachers table.
type Teacher struct {
	TeacherID string `json:"teacher_id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Grade     string `json:"grade,omitempty"`
	Term      string `json:"term,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Password  string `json:"password"`
}

// TeacherFilter pages through the teacher roster.
type TeacherFilter struct {
	Page     int
	PageSize int
}

// Row lays the teacher out by column name.
func (t Teacher) Row() Row {
	return Row{
		ColTeacherID: t.TeacherID,
		ColName:      t.Name,
		ColSubject:   t.Subject,
		ColGrade:     t.Grade,
		ColTerm:      t.Term,
		ColPhone:     t.Phone,
		ColAddress:   t.Address,
		ColPassword:  t.Password,
	}
}

// TeacherFromRow reads a Teachers row.
func TeacherFromRow(row Row) Teacher {
	return Teacher{
		TeacherID: row[ColTeacherID],
		Name:      row[ColName],
		Subject:   row[ColSubject],
		Grade:     row[ColGrade],
		Term:      row[ColTerm],
		Phone:     row[ColPhone],
		Address:   row[ColAddress],
		Password:  row[ColPassword],
	}
}
