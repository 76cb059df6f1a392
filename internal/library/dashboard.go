package library

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
)

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Dashboard summarizes the library at the current time. Days are UTC days.
func (s *Service) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var dashboard *model.Dashboard
	err := s.store.View(func(tx *store.Tx) error {
		policy, err := tx.GetPolicySetting()
		if err != nil {
			return err
		}
		now := s.now()
		books := tx.ListBooks(&model.FindBook{})
		dashboard = &model.Dashboard{
			TotalBooks:      len(books),
			TotalUsers:      len(tx.ListUsers(&model.FindUser{})),
			OverdueRecords:  []*model.BorrowRecordView{},
			OutstandingFine: decimal.Zero,
			Categories:      []model.StatData{},
		}

		for _, r := range tx.ListBorrowRecords(&model.FindBorrowRecord{}) {
			if sameDay(r.BorrowDate, now) {
				dashboard.BorrowedToday++
			}
			if r.ReturnDate != nil && sameDay(*r.ReturnDate, now) {
				dashboard.ReturnedToday++
			}
			if !r.IsOpen() {
				continue
			}
			dashboard.ActiveLoans++
			if r.EffectiveStatus(now) == model.BorrowStatusOverdue {
				view := recordView(tx, r, now, policy.DailyFineRate)
				dashboard.OverdueRecords = append(dashboard.OverdueRecords, view)
				dashboard.OutstandingFine = dashboard.OutstandingFine.Add(view.CurrentFine)
			}
		}

		counts := map[string]int{}
		for _, b := range books {
			counts[b.Category]++
		}
		for name, value := range counts {
			dashboard.Categories = append(dashboard.Categories, model.StatData{Name: name, Value: value})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(dashboard.Categories, func(i, j int) bool {
		return dashboard.Categories[i].Name < dashboard.Categories[j].Name
	})
	sort.SliceStable(dashboard.OverdueRecords, func(i, j int) bool {
		return dashboard.OverdueRecords[i].DueDate.Before(dashboard.OverdueRecords[j].DueDate)
	})
	return dashboard, nil
}
