package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// PaymentRequest holds a single fee payment.
type PaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0,lte=1000000000000"`
}

// LedgerService reads balances and records fee payments. The first accepted
// payment issues the student's login password.
type LedgerService struct {
	store     TableStore
	ids       *IdentifierGenerator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLedgerService constructs the ledger service.
func NewLedgerService(store TableStore, ids *IdentifierGenerator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if ids == nil {
		ids = NewIdentifierGenerator(0)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{store: store, ids: ids, metrics: metrics, validator: validate, logger: logger}
}

// ledgerSnapshot is the state carried from BalanceCheck into PaymentAccepted.
type ledgerSnapshot struct {
	rowIndex  int64
	paidCell  string
	password  string
	balance   models.LedgerBalance
	total     int64
	paid      int64
	remaining int64
}

// Balance returns the fee position of a student without mutating anything.
func (s *LedgerService) Balance(ctx context.Context, studentID string) (*models.LedgerBalance, error) {
	snap, err := s.lookup(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &snap.balance, nil
}

// Pay applies a payment in (0, remaining]. A settled student is reported as
// already_settled without touching the store. A concurrent payment that moved
// PaidFees first makes this one fail with CONFLICT.
func (s *LedgerService) Pay(ctx context.Context, studentID string, req PaymentRequest) (*models.PaymentReceipt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	snap, err := s.lookup(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if snap.remaining <= 0 {
		s.metrics.RecordPayment(string(models.PaymentOutcomeAlreadySettled), 0)
		return &models.PaymentReceipt{LedgerBalance: snap.balance, Outcome: models.PaymentOutcomeAlreadySettled}, nil
	}

	amount := models.ToCents(req.Amount)
	if amount <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment must be at least 0.01")
	}
	if amount > snap.remaining {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("payment %s exceeds remaining balance %s",
				models.FormatAmount(models.FromCents(amount)), models.FormatAmount(snap.balance.Remaining)))
	}

	newPaid := snap.paid + amount
	swapped, err := s.store.CompareAndSwapCell(ctx, models.TableStudents, snap.rowIndex, models.ColPaidFees,
		snap.paidCell, models.FormatAmount(models.FromCents(newPaid)))
	if err != nil {
		return nil, storeFailure(err, "failed to record payment")
	}
	if !swapped {
		return nil, appErrors.Clone(appErrors.ErrConflict, "fees changed by another payment, reload the balance and retry")
	}

	password, issued, err := s.ensurePassword(ctx, snap)
	if err != nil {
		return nil, err
	}

	remaining := snap.total - newPaid
	receipt := &models.PaymentReceipt{
		LedgerBalance: models.LedgerBalance{
			StudentID: snap.balance.StudentID,
			Name:      snap.balance.Name,
			TotalFees: snap.balance.TotalFees,
			PaidFees:  models.FromCents(newPaid),
			Remaining: models.FromCents(remaining),
			Settled:   remaining <= 0,
		},
		Outcome:        models.PaymentOutcomePaid,
		Amount:         models.FromCents(amount),
		Password:       password,
		PasswordIssued: issued,
	}
	s.metrics.RecordPayment(string(models.PaymentOutcomePaid), receipt.Amount)
	s.logger.Info("fee payment recorded",
		zap.String("student_id", receipt.StudentID),
		zap.Float64("amount", receipt.Amount),
		zap.Float64("remaining", receipt.Remaining),
		zap.Bool("password_issued", issued))
	return receipt, nil
}

// lookup covers the Lookup and BalanceCheck steps.
func (s *LedgerService) lookup(ctx context.Context, studentID string) (*ledgerSnapshot, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	rowIndex, err := s.store.FindRowByKey(ctx, models.TableStudents, studentID)
	if err != nil {
		return nil, storeFailure(err, "failed to look up student")
	}
	row, err := s.store.ReadRow(ctx, models.TableStudents, rowIndex)
	if err != nil {
		return nil, storeFailure(err, "failed to read student")
	}

	total, err := models.ParseAmount(row[models.ColTotalFees])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored total fees are not numeric")
	}
	paid, err := models.ParseAmount(row[models.ColPaidFees])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored paid fees are not numeric")
	}

	snap := &ledgerSnapshot{
		rowIndex: rowIndex,
		paidCell: row[models.ColPaidFees],
		password: row[models.ColPassword],
		total:    models.ToCents(total),
		paid:     models.ToCents(paid),
	}
	snap.remaining = snap.total - snap.paid
	snap.balance = models.LedgerBalance{
		StudentID: row[models.ColStudentID],
		Name:      row[models.ColName],
		TotalFees: models.FromCents(snap.total),
		PaidFees:  models.FromCents(snap.paid),
		Remaining: models.FromCents(snap.remaining),
		Settled:   snap.remaining <= 0,
	}
	return snap, nil
}

// ensurePassword issues a password when none exists. Existing passwords are
// returned untouched.
func (s *LedgerService) ensurePassword(ctx context.Context, snap *ledgerSnapshot) (string, bool, error) {
	if snap.password != "" {
		return snap.password, false, nil
	}
	candidate, err := s.ids.Password()
	if err != nil {
		return "", false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate password")
	}
	swapped, err := s.store.CompareAndSwapCell(ctx, models.TableStudents, snap.rowIndex, models.ColPassword, "", candidate)
	if err != nil {
		return "", false, storeFailure(err, "failed to store password")
	}
	if swapped {
		return candidate, true, nil
	}

	// Another payment issued one in between; report that one instead.
	row, err := s.store.ReadRow(ctx, models.TableStudents, snap.rowIndex)
	if err != nil {
		return "", false, storeFailure(err, "failed to read password")
	}
	if row[models.ColPassword] == "" {
		return "", false, appErrors.Clone(appErrors.ErrConflict, "password changed concurrently")
	}
	return row[models.ColPassword], false, nil
}
