package service

import (
	"context"
	"log"
	"time"

	"github.com/adisurya/circulation-engine/internal/repository"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
	"github.com/adisurya/circulation-engine/pkg/utils"
)

// ReminderService emits due-date reminders for open loans according to each
// policy's reminder schedule. Reminders are log-worthy events only; delivery
// is someone else's problem.
type ReminderService struct {
	loanRepo repository.LoanRepository
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
	policies *PolicyCatalog
	now      func() time.Time
}

func NewReminderService(
	loanRepo repository.LoanRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	policies *PolicyCatalog,
) *ReminderService {
	return &ReminderService{
		loanRepo: loanRepo,
		itemRepo: itemRepo,
		userRepo: userRepo,
		policies: policies,
		now:      time.Now,
	}
}

// SendDueDateReminders walks all open loans and logs a reminder for each one
// whose effective due date is exactly a reminder offset away. A loan gets at
// most one reminder per day. Returns the number of reminders emitted.
func (s *ReminderService) SendDueDateReminders(ctx context.Context) (int, error) {
	loans, err := s.loanRepo.GetActive(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	now := s.now()
	today := utils.TruncateToDay(now)
	sent := 0

	for _, loan := range loans {
		item, err := s.itemRepo.GetByID(ctx, loan.ItemID)
		if err != nil {
			log.Printf("reminder: failed to load item %s for loan %s: %v", loan.ItemID, loan.ID, err)
			continue
		}

		policy, err := s.policies.Lookup(ctx, item.PolicyType)
		if err != nil {
			log.Printf("reminder: failed to load policy for item %s: %v", item.ID, err)
			continue
		}

		daysUntilDue := utils.DaysBetween(today, loan.EffectiveDueDate())

		due := false
		for _, d := range policy.ReminderDays {
			if int(d) == daysUntilDue {
				due = true
				break
			}
		}
		if !due {
			continue
		}

		if loan.LastReminderSent != nil && !utils.TruncateToDay(*loan.LastReminderSent).Before(today) {
			continue
		}

		username := ""
		if user, err := s.userRepo.GetByID(ctx, loan.UserID); err == nil {
			username = user.Username
		}

		log.Printf("NOTIFICATION: Loan %s for item '%s' is due in %d day(s) for user '%s'",
			loan.ID, item.Title, daysUntilDue, username)

		if err := s.loanRepo.UpdateLastReminderSent(ctx, loan.ID, now); err != nil {
			log.Printf("reminder: failed to record reminder for loan %s: %v", loan.ID, err)
			continue
		}

		sent++
	}

	return sent, nil
}
