package models

// Student is a row of the Students table in the canonical (full) layout.
// Optional personal fields are left empty when not collected.
type Student struct {
	StudentID             string  `json:"student_id"`
	Name                  string  `json:"name"`
	PhotoLink             string  `json:"photo_link,omitempty"`
	Religion              string  `json:"religion,omitempty"`
	DateOfBirth           string  `json:"date_of_birth,omitempty"`
	Certificate           string  `json:"certificate,omitempty"`
	CertificateDate       string  `json:"certificate_date,omitempty"`
	CertificateSeatNumber string  `json:"certificate_seat_number,omitempty"`
	TotalScore            float64 `json:"total_score"`
	Percentage            float64 `json:"percentage"`
	StudentMobile         string  `json:"student_mobile,omitempty"`
	Landline              string  `json:"landline,omitempty"`
	ParentPhone           string  `json:"parent_phone,omitempty"`
	CountryOfBirth        string  `json:"country_of_birth,omitempty"`
	Governorate           string  `json:"governorate,omitempty"`
	Address               string  `json:"address,omitempty"`
	Nationality           string  `json:"nationality,omitempty"`
	NationalID            string  `json:"national_id,omitempty"`
	NationalIDIssuer      string  `json:"national_id_issuer,omitempty"`
	Gender                string  `json:"gender,omitempty"`
	GradeLevel            string  `json:"grade_level,omitempty"`
	TotalFees             float64 `json:"total_fees"`
	PaidFees              float64 `json:"paid_fees"`
	Password              string  `json:"password"`
	RegistrationDate      string  `json:"registration_date"`
}

// StudentFilter narrows a student search.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}

// Row lays the student out by column name.
func (s Student) Row() Row {
	return Row{
		ColStudentID:             s.StudentID,
		ColName:                  s.Name,
		ColPhotoLink:             s.PhotoLink,
		ColReligion:              s.Religion,
		ColDateOfBirth:           s.DateOfBirth,
		ColCertificate:           s.Certificate,
		ColCertificateDate:       s.CertificateDate,
		ColCertificateSeatNumber: s.CertificateSeatNumber,
		ColTotalScore:            FormatAmount(s.TotalScore),
		ColPercentage:            FormatAmount(s.Percentage),
		ColStudentMobile:         s.StudentMobile,
		ColLandline:              s.Landline,
		ColParentPhone:           s.ParentPhone,
		ColCountryOfBirth:        s.CountryOfBirth,
		ColGovernorate:           s.Governorate,
		ColAddress:               s.Address,
		ColNationality:           s.Nationality,
		ColNationalID:            s.NationalID,
		ColNationalIDIssuer:      s.NationalIDIssuer,
		ColGender:                s.Gender,
		ColGradeLevel:            s.GradeLevel,
		ColTotalFees:             FormatAmount(s.TotalFees),
		ColPaidFees:              FormatAmount(s.PaidFees),
		ColPassword:              s.Password,
		ColRegistrationDate:      s.RegistrationDate,
	}
}

// StudentFromRow reads a Students row. Unparseable numeric cells read as zero,
// matching how the sheet treats them on display.
func StudentFromRow(row Row) Student {
	amount := func(col string) float64 {
		v, err := ParseAmount(row[col])
		if err != nil {
			return 0
		}
		return v
	}
	return Student{
		StudentID:             row[ColStudentID],
		Name:                  row[ColName],
		PhotoLink:             row[ColPhotoLink],
		Religion:              row[ColReligion],
		DateOfBirth:           row[ColDateOfBirth],
		Certificate:           row[ColCertificate],
		CertificateDate:       row[ColCertificateDate],
		CertificateSeatNumber: row[ColCertificateSeatNumber],
		TotalScore:            amount(ColTotalScore),
		Percentage:            amount(ColPercentage),
		StudentMobile:         row[ColStudentMobile],
		Landline:              row[ColLandline],
		ParentPhone:           row[ColParentPhone],
		CountryOfBirth:        row[ColCountryOfBirth],
		Governorate:           row[ColGovernorate],
		Address:               row[ColAddress],
		Nationality:           row[ColNationality],
		NationalID:            row[ColNationalID],
		NationalIDIssuer:      row[ColNationalIDIssuer],
		Gender:                row[ColGender],
		GradeLevel:            row[ColGradeLevel],
		TotalFees:             amount(ColTotalFees),
		PaidFees:              amount(ColPaidFees),
		Password:              row[ColPassword],
		RegistrationDate:      row[ColRegistrationDate],
	}
}
