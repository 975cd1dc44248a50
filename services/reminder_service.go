package services

import (
	"context"
	"time"

	repositories "github.com/costaendriw/delivery-system/repository"

	"go.uber.org/zap"
)

// reminderLeadDays is how many days before the expected reorder date the
// reminder fires.
const reminderLeadDays = 3

// ReminderRunResult summarizes one batch run.
type ReminderRunResult struct {
	RemindersSent int       `json:"reminders_sent"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReminderService scans customers once a day and nudges the ones whose last
// delivery is close to their consumption cadence. It mutates nothing.
type ReminderService struct {
	customerRepo repositories.CustomerRepository
	orderRepo    repositories.OrderRepository
	whatsapp     WhatsAppSender
	logger       *zap.Logger
	now          func() time.Time
}

func NewReminderService(
	customerRepo repositories.CustomerRepository,
	orderRepo    repositories.OrderRepository,
	whatsapp WhatsAppSender,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		whatsapp:     whatsapp,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CheckAndSendReminders walks every customer, finds the most recent completed
// delivery and sends a reminder when the truncated days elapsed reach the
// customer's cadence minus the lead time. Customers without a delivered order
// are skipped; per-customer send failures don't abort the scan.
func (s *ReminderService) CheckAndSendReminders(ctx context.Context) (*ReminderRunResult, error) {
	const pageSize = 500

	remindersSent := 0
	now := s.now()

	for skip := 0; ; skip += pageSize {
		customers, err := s.customerRepo.FindAll(ctx, skip, pageSize)
		if err != nil {
			return nil, err
		}
		if len(customers) == 0 {
			break
		}

		for _, customer := range customers {
			lastOrder, err := s.orderRepo.LastDelivered(ctx, customer.ID)
			if err != nil {
				s.logger.Warn("failed to fetch last delivery",
					zap.String("customer_id", customer.ID.String()),
					zap.Error(err),
				)
				continue
			}
			if lastOrder == nil || lastOrder.DeliveredAt == nil {
				// No delivery anchor, cadence can't be estimated.
				continue
			}

			daysSinceDelivery := int(now.Sub(*lastOrder.DeliveredAt).Hours() / 24)
			reminderThreshold := customer.ConsumptionPatternDays - reminderLeadDays

			if daysSinceDelivery < reminderThreshold {
				continue
			}

			daysRemaining := customer.ConsumptionPatternDays - daysSinceDelivery
			if daysRemaining < 0 {
				daysRemaining = 0
			}

			result := s.whatsapp.SendReminder(ctx, customer.Name, customer.Phone, daysRemaining)
			if result.Success {
				remindersSent++
			} else {
				s.logger.Warn("reminder message failed",
					zap.String("customer_id", customer.ID.String()),
					zap.String("error", result.Error),
				)
			}
		}

		if len(customers) < pageSize {
			break
		}
	}

	s.logger.Info("reminder batch finished", zap.Int("reminders_sent", remindersSent))

	return &ReminderRunResult{
		RemindersSent: remindersSent,
		Timestamp:     now,
	}, nil
}
