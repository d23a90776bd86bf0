package models

import (
	"strings"
	"unicode"
)

// TableName identifies one of the logical tables of the tabular store.
type TableName string

const (
	TableStudents  TableName = "Students"
	TableTeachers  TableName = "Teachers"
	TableMaterials TableName = "Materials"
)

// Row is a single record addressed by column name. Every cell is text.
type Row map[string]string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// TableSchema maps a logical table onto its ordered, named columns.
type TableSchema struct {
	Name     TableName
	SQLTable string
	Key      string
	Columns  []string
}

// Has reports whether column belongs to the schema.
func (s TableSchema) Has(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Values returns the row cells in column order, empty where absent.
func (s TableSchema) Values(row Row) []string {
	values := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		values[i] = row[c]
	}
	return values
}

// RowFromValues builds a Row from cells given in column order.
func (s TableSchema) RowFromValues(values []string) Row {
	row := make(Row, len(s.Columns))
	for i, c := range s.Columns {
		if i < len(values) {
			row[c] = values[i]
		} else {
			row[c] = ""
		}
	}
	return row
}

var schemas = map[TableName]TableSchema{
	TableStudents: {
		Name:     TableStudents,
		SQLTable: "students",
		Key:      ColStudentID,
		Columns: []string{
			ColStudentID, ColName, ColPhotoLink, ColReligion, ColDateOfBirth,
			ColCertificate, ColCertificateDate, ColCertificateSeatNumber, ColTotalScore, ColPercentage,
			ColStudentMobile, ColLandline, ColParentPhone, ColCountryOfBirth, ColGovernorate,
			ColAddress, ColNationality, ColNationalID, ColNationalIDIssuer, ColGender,
			ColGradeLevel,
			ColTotalFees, ColPaidFees, ColPassword, ColRegistrationDate,
		},
	},
	TableTeachers: {
		Name:     TableTeachers,
		SQLTable: "teachers",
		Key:      ColTeacherID,
		Columns:  []string{ColTeacherID, ColName, ColSubject, ColGrade, ColTerm, ColPhone, ColAddress, ColPassword},
	},
	TableMaterials: {
		Name:     TableMaterials,
		SQLTable: "materials",
		Key:      ColTitle,
		Columns:  []string{ColType, ColTitle, ColLink, ColTeacherID, ColTimestamp},
	},
}

// SchemaFor returns the schema registered for the table.
func SchemaFor(name TableName) (TableSchema, bool) {
	s, ok := schemas[name]
	return s, ok
}

// Tables lists every known table.
func Tables() []TableName {
	return []TableName{TableStudents, TableTeachers, TableMaterials}
}

// SnakeCase converts a column name such as NationalIDIssuer into national_id_issuer.
func SnakeCase(column string) string {
	runes := []rune(column)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
