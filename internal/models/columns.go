package models

// Column names shared by the table schemas.
const (
	ColStudentID             = "StudentID"
	ColName                  = "Name"
	ColPhotoLink             = "PhotoLink"
	ColReligion              = "Religion"
	ColDateOfBirth           = "DateOfBirth"
	ColCertificate           = "Certificate"
	ColCertificateDate       = "CertificateDate"
	ColCertificateSeatNumber = "CertificateSeatNumber"
	ColTotalScore            = "TotalScore"
	ColPercentage            = "Percentage"
	ColStudentMobile         = "StudentMobile"
	ColLandline              = "Landline"
	ColParentPhone           = "ParentPhone"
	ColCountryOfBirth        = "CountryOfBirth"
	ColGovernorate           = "Governorate"
	ColAddress               = "Address"
	ColNationality           = "Nationality"
	ColNationalID            = "NationalID"
	ColNationalIDIssuer      = "NationalIDIssuer"
	ColGender                = "Gender"
	ColGradeLevel            = "GradeLevel"
	ColTotalFees             = "TotalFees"
	ColPaidFees              = "PaidFees"
	ColPassword              = "Password"
	ColRegistrationDate      = "RegistrationDate"

	ColTeacherID = "TeacherID"
	ColSubject   = "Subject"
	ColGrade     = "Grade"
	ColTerm      = "Term"
	ColPhone     = "Phone"

	ColType      = "Type"
	ColTitle     = "Title"
	ColLink      = "Link"
	ColTimestamp = "Timestamp"
)
