package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

const registrationDateLayout = "2006-01-02"

// RegisterStudentRequest holds the admission form. Only the name is required;
// every other personal field is optional and stored as given.
type RegisterStudentRequest struct {
	Name                  string  `json:"name" validate:"required,max=200"`
	PhotoLink             string  `json:"photo_link" validate:"omitempty,url"`
	Religion              string  `json:"religion"`
	DateOfBirth           string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Certificate           string  `json:"certificate"`
	CertificateDate       string  `json:"certificate_date"`
	CertificateSeatNumber string  `json:"certificate_seat_number"`
	TotalScore            float64 `json:"total_score" validate:"gte=0"`
	Percentage            float64 `json:"percentage" validate:"gte=0,lte=100"`
	StudentMobile         string  `json:"student_mobile"`
	Phone                 string  `json:"phone"`
	Landline              string  `json:"landline"`
	ParentPhone           string  `json:"parent_phone"`
	CountryOfBirth        string  `json:"country_of_birth"`
	Governorate           string  `json:"governorate"`
	Address               string  `json:"address"`
	Nationality           string  `json:"nationality"`
	NationalID            string  `json:"national_id"`
	NationalIDIssuer      string  `json:"national_id_issuer"`
	Gender                string  `json:"gender"`
	GradeLevel            string  `json:"grade_level"`
	TotalFees             float64 `json:"total_fees" validate:"gte=0,lte=1000000000000"`
}

// RegisterTeacherRequest holds the teacher onboarding form.
type RegisterTeacherRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Subject string `json:"subject" validate:"required"`
	Grade   string `json:"grade"`
	Term    string `json:"term"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// RegistrationConfig tunes registration behaviour.
type RegistrationConfig struct {
	UniqueTeacherIDs bool
}

// RegistrationService creates student and teacher records.
type RegistrationService struct {
	store     TableStore
	ids       *IdentifierGenerator
	metrics   *MetricsService
	cfg       RegistrationConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(store TableStore, ids *IdentifierGenerator, metrics *MetricsService, cfg RegistrationConfig, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if ids == nil {
		ids = NewIdentifierGenerator(0)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		store:     store,
		ids:       ids,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterStudent appends a new student with a fresh identifier, no payments
// and no credential.
func (s *RegistrationService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.PhotoLink = strings.TrimSpace(req.PhotoLink)
	req.DateOfBirth = strings.TrimSpace(req.DateOfBirth)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	keys, err := s.store.KeyValues(ctx, models.TableStudents)
	if err != nil {
		return nil, storeFailure(err, "failed to read student ids")
	}
	id, err := s.ids.StudentID(keySet(keys))
	if err != nil {
		return nil, err
	}

	mobile := strings.TrimSpace(req.StudentMobile)
	if mobile == "" {
		mobile = strings.TrimSpace(req.Phone)
	}
	student := models.Student{
		StudentID:             id,
		Name:                  req.Name,
		PhotoLink:             req.PhotoLink,
		Religion:              strings.TrimSpace(req.Religion),
		DateOfBirth:           req.DateOfBirth,
		Certificate:           strings.TrimSpace(req.Certificate),
		CertificateDate:       strings.TrimSpace(req.CertificateDate),
		CertificateSeatNumber: strings.TrimSpace(req.CertificateSeatNumber),
		TotalScore:            req.TotalScore,
		Percentage:            req.Percentage,
		StudentMobile:         mobile,
		Landline:              strings.TrimSpace(req.Landline),
		ParentPhone:           strings.TrimSpace(req.ParentPhone),
		CountryOfBirth:        strings.TrimSpace(req.CountryOfBirth),
		Governorate:           strings.TrimSpace(req.Governorate),
		Address:               strings.TrimSpace(req.Address),
		Nationality:           strings.TrimSpace(req.Nationality),
		NationalID:            strings.TrimSpace(req.NationalID),
		NationalIDIssuer:      strings.TrimSpace(req.NationalIDIssuer),
		Gender:                strings.TrimSpace(req.Gender),
		GradeLevel:            strings.TrimSpace(req.GradeLevel),
		TotalFees:             req.TotalFees,
		RegistrationDate:      s.now().Format(registrationDateLayout),
	}

	if err := s.store.Append(ctx, models.TableStudents, student.Row()); err != nil {
		return nil, storeFailure(err, "failed to register student")
	}
	s.metrics.RecordRegistration("student")
	s.logger.Info("student registered", zap.String("student_id", id), zap.Float64("total_fees", student.TotalFees))
	return &student, nil
}

// RegisterTeacher appends a new teacher together with a generated password.
func (s *RegistrationService) RegisterTeacher(ctx context.Context, req RegisterTeacherRequest) (*models.Teacher, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	var existing map[string]struct{}
	if s.cfg.UniqueTeacherIDs {
		keys, err := s.store.KeyValues(ctx, models.TableTeachers)
		if err != nil {
			return nil, storeFailure(err, "failed to read teacher ids")
		}
		existing = keySet(keys)
	}
	id, err := s.ids.TeacherID(existing)
	if err != nil {
		return nil, err
	}
	password, err := s.ids.Password()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate password")
	}

	teacher := models.Teacher{
		TeacherID: id,
		Name:      req.Name,
		Subject:   req.Subject,
		Grade:     strings.TrimSpace(req.Grade),
		Term:      strings.TrimSpace(req.Term),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Password:  password,
	}
	if err := s.store.Append(ctx, models.TableTeachers, teacher.Row()); err != nil {
		return nil, storeFailure(err, "failed to register teacher")
	}
	s.metrics.RecordRegistration("teacher")
	s.logger.Info("teacher registered", zap.String("teacher_id", id), zap.String("subject", teacher.Subject))
	return &teacher, nil
}
