package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// Subscription prices per shop-class role, in USD.
const (
	shopSubscriptionPrice  = 24.99
	eliteSubscriptionPrice = 50.00
)

// BillingService owns subscription charges for shop-class accounts.
type BillingService struct {
	users    ports.UserRepository
	payments ports.PaymentRepository
	charger  ports.CardCharger
	logger   zerolog.Logger
}

func NewBillingService(
	users ports.UserRepository,
	payments ports.PaymentRepository,
	charger ports.CardCharger,
	logger zerolog.Logger,
) *BillingService {
	return &BillingService{users: users, payments: payments, charger: charger, logger: logger}
}

// Subscribe charges the role's subscription price through the gateway and
// flips the account to paid. Only shop-class roles carry a subscription.
func (s *BillingService) Subscribe(ctx context.Context, actor ports.Actor, cardToken string) (*domain.Payment, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	var amount float64
	switch user.Role {
	case domain.RoleShop:
		amount = shopSubscriptionPrice
	case domain.RoleElite:
		amount = eliteSubscriptionPrice
	default:
		return nil, domain.ErrForbidden
	}

	paymentID := uuid.NewString()
	ref, err := s.charger.Charge(ctx, cardToken, toCents(amount), "subscription-"+paymentID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("subscription charge declined")
		return nil, err
	}

	payment := &domain.Payment{
		ID:             paymentID,
		UserID:         user.ID,
		Amount:         amount,
		Type:           domain.PaymentSubscription,
		Status:         domain.PaymentCompleted,
		TransactionRef: ref,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.users.SetPaid(ctx, user.ID, true); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("subscription activated")
	return payment, nil
}
