package service

import (
	"strings"
	"time"

	"github.com/mmynk/sharepay/internal/calculator"
	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/pkg/api"
)

const dateOnly = "2006-01-02"

// parseDate accepts RFC 3339 timestamps and plain dates. Blank input
// yields nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, dateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, models.ErrInvalidDate
}

func parseOptionalAmount(s *string) (*float64, error) {
	if s == nil {
		return nil, nil
	}
	amount, err := calculator.ParseAmount(*s)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

func toAPIUser(u *models.User) api.User {
	return api.User{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &api.Group{ID: g.ID, Name: g.Name, Tag: g.Tag, Members: members}
}

func toAPISplit(s *models.ExpenseSplit) api.Split {
	return api.Split{
		ID:         s.ID,
		ExpenseID:  s.ExpenseID,
		UserID:     s.UserID,
		Amount:     s.Amount,
		IsSettled:  s.IsSettled,
		ReceiptRef: s.ReceiptRef,
		SettledAt:  s.SettledAt,
	}
}

func toAPISplits(splits []*models.ExpenseSplit) []api.Split {
	out := make([]api.Split, 0, len(splits))
	for _, s := range splits {
		out = append(out, toAPISplit(s))
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date.UTC().Format(time.RFC3339),
		Location:    e.Location,
		ReceiptRef:  e.ReceiptRef,
		CreatedAt:   e.CreatedAt,
		Splits:      toAPISplits(e.Splits),
	}
}
