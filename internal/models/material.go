package models

// MaterialScope controls who sees a published material.
type MaterialScope string

const (
	MaterialScopeGlobal  MaterialScope = "Global"
	MaterialScopeSubject MaterialScope = "Subject"
)

// Valid reports whether the scope is one of the known values.
func (s MaterialScope) Valid() bool {
	return s == MaterialScopeGlobal || s == MaterialScopeSubject
}

// Material is a row of the Materials table.
type Material struct {
	Type      MaterialScope `json:"type"`
	Title     string        `json:"title"`
	Link      string        `json:"link"`
	TeacherID string        `json:"teacher_id"`
	Timestamp string        `json:"timestamp"`
}

// MaterialFilter narrows a materials listing.
type MaterialFilter struct {
	Scope     MaterialScope
	TeacherID string
}

// Row lays the material out by column name.
func (m Material) Row() Row {
	return Row{
		ColType:      string(m.Type),
		ColTitle:     m.Title,
		ColLink:      m.Link,
		ColTeacherID: m.TeacherID,
		ColTimestamp: m.Timestamp,
	}
}

// MaterialFromRow reads a Materials row.
func MaterialFromRow(row Row) Material {
	return Material{
		Type:      MaterialScope(row[ColType]),
		Title:     row[ColTitle],
		Link:      row[ColLink],
		TeacherID: row[ColTeacherID],
		Timestamp: row[ColTimestamp],
	}
}
