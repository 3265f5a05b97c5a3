package credit

import (
	"context"
	"errors"
	"time"

	"almacen/internal/core/apperror"
	"almacen/internal/core/appctx"
	"almacen/internal/core/id"
	"almacen/internal/core/tx"
	"almacen/internal/core/types"
	"almacen/internal/domain"
	"almacen/internal/domain/catalogs/customer"
	"almacen/pkg/logger"
)

// Movement list limits.
const (
	DefaultMovementLimit = 20
	MaxMovementLimit     = 100
)

// RegisterInput describes a movement to record.
type RegisterInput struct {
	CustomerID id.ID
	Kind       Kind
	Amount     types.Money
	SaleID     *id.ID
	Notes      string
}

// Service coordinates the credit ledger: it locks the customer, validates
// the movement, and writes the movement together with the new materialized
// balance in one transaction.
type Service struct {
	customers customer.Repository
	movements Repository
	txManager tx.Manager
	audit     domain.AuditLogger
	log       *logger.Logger
}

// NewService creates a credit service. audit may be nil.
func NewService(
	customers customer.Repository,
	movements Repository,
	txManager tx.Manager,
	audit domain.AuditLogger,
	log *logger.Logger,
) *Service {
	return &Service{
		customers: customers,
		movements: movements,
		txManager: txManager,
		audit:     audit,
		log:       log,
	}
}

// RegisterMovement records a ledger movement and updates the customer's
// balance atomically. The customer row is locked for the duration, so
// concurrent movements for the same customer serialize; persistent row
// contention surfaces as a conflict error after a bounded retry.
// Returns the movement and the customer with its refreshed balance, so
// callers can confirm the outcome without a second read.
func (s *Service) RegisterMovement(ctx context.Context, input RegisterInput) (*Movement, *customer.Customer, error) {
	if id.IsNil(input.CustomerID) {
		return nil, nil, apperror.NewValidation("customer id is required")
	}
	if !input.Kind.Valid() {
		return nil, nil, apperror.NewUnsupportedMovementKind(string(input.Kind))
	}

	var (
		movement *Movement
		cust     *customer.Customer
	)

	err := s.txManager.RunInRetryableTransaction(ctx, func(ctx context.Context) error {
		var err error
		cust, err = s.customers.GetForUpdate(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		if err := s.checkEligibility(cust, input); err != nil {
			return err
		}

		newBalance, err := NextBalance(input.Kind, input.Amount, cust.Balance)
		if err != nil {
			return s.mapRuleError(err, cust, input)
		}

		movement = &Movement{
			ID:           id.New(),
			CustomerID:   cust.ID,
			Kind:         input.Kind,
			Amount:       input.Amount,
			BalanceAfter: newBalance,
			SaleID:       input.SaleID,
			Notes:        input.Notes,
			RecordedBy:   appctx.GetUserID(ctx),
			CreatedAt:    time.Now().UTC(),
		}

		if err := s.movements.Create(ctx, movement); err != nil {
			return err
		}
		if err := s.customers.UpdateBalance(ctx, cust.ID, newBalance); err != nil {
			return err
		}
		cust.Balance = newBalance

		if s.audit != nil {
			if err := s.audit.RecordChange(ctx, "credit_movement", movement.ID, domain.AuditMovement, map[string]any{
				"customer_id":   movement.CustomerID.String(),
				"kind":          string(movement.Kind),
				"amount":        movement.Amount.String(),
				"balance_after": movement.BalanceAfter.String(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.WithContext(ctx).Infow("credit movement registered",
		"customer_id", movement.CustomerID,
		"kind", movement.Kind,
		"amount", movement.Amount,
		"balance_after", movement.BalanceAfter,
	)

	return movement, cust, nil
}

// checkEligibility enforces the customer-level rules that do not belong to
// the balance arithmetic: the account must exist and, for purchases, credit
// must be enabled and the limit must hold.
func (s *Service) checkEligibility(cust *customer.Customer, input RegisterInput) error {
	if cust.DeletionMark {
		return apperror.NewNotFound("customer", cust.ID)
	}

	if input.Kind != KindPurchase {
		return nil
	}

	if !cust.CreditEnabled || !cust.Active {
		return apperror.NewCreditNotAvailable(cust.ID.String())
	}
	if input.Amount.IsPositive() && !cust.CanPurchase(input.Amount) {
		return apperror.NewCreditLimitExceeded(
			cust.ID.String(),
			input.Amount.String(),
			cust.AvailableCredit().String(),
		)
	}
	return nil
}

// mapRuleError attaches customer context to the pure-function sentinels.
func (s *Service) mapRuleError(err error, cust *customer.Customer, input RegisterInput) error {
	switch {
	case errors.Is(err, ErrNonPositiveAmount):
		return apperror.NewValidation("amount must be positive").
			WithDetail("amount", input.Amount.String())
	case errors.Is(err, ErrZeroAdjustment):
		return apperror.NewValidation("adjustment amount cannot be zero")
	case errors.Is(err, ErrOverpayment):
		return apperror.NewOverpayment(
			cust.ID.String(),
			input.Amount.String(),
			cust.Balance.String(),
		)
	case errors.Is(err, ErrUnsupportedKind):
		return apperror.NewUnsupportedMovementKind(string(input.Kind))
	default:
		return err
	}
}

// EnsureCanCharge locks the customer row and verifies a credit purchase of
// the given amount would be accepted. Document services call it inside their
// transaction before writing anything, so a doomed sale fails before it
// touches stock. RegisterMovement repeats the check when the charge lands;
// the row stays locked in between, so the answer cannot change.
func (s *Service) EnsureCanCharge(ctx context.Context, customerID id.ID, amount types.Money) error {
	if id.IsNil(customerID) {
		return apperror.NewValidation("customer id is required")
	}

	cust, err := s.customers.GetForUpdate(ctx, customerID)
	if err != nil {
		return err
	}
	return s.checkEligibility(cust, RegisterInput{
		CustomerID: customerID,
		Kind:       KindPurchase,
		Amount:     amount,
	})
}

// Account returns the customer's current credit state.
func (s *Service) Account(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return s.customers.GetByID(ctx, customerID)
}

// CanPurchase reports whether a credit purchase of the given amount would be
// accepted for the customer right now. This is advisory: the authoritative
// check runs again under lock when the movement is registered.
func (s *Service) CanPurchase(ctx context.Context, customerID id.ID, amount types.Money) (bool, error) {
	cust, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return false, err
	}
	return cust.CanPurchase(amount), nil
}

// AvailableCredit returns the customer's remaining purchasing capacity.
func (s *Service) AvailableCredit(ctx context.Context, customerID id.ID) (types.Money, error) {
	cust, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return types.Zero(), err
	}
	return cust.AvailableCredit(), nil
}

// ListMovements returns the customer's most recent movements, newest first.
// The limit is clamped to [1, MaxMovementLimit]; zero or negative values get
// the default.
func (s *Service) ListMovements(ctx context.Context, customerID id.ID, limit int) ([]*Movement, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	if limit > MaxMovementLimit {
		limit = MaxMovementLimit
	}

	return s.movements.ListByCustomer(ctx, customerID, limit)
}

// Debtors returns customers with outstanding debt, largest first.
func (s *Service) Debtors(ctx context.Context) ([]*customer.Customer, error) {
	return s.customers.ListDebtors(ctx)
}
