package library

import (
	"context"

	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
	"github.com/zeroverload/SmartLib/internal/validator"
)

func (s *Service) GetSettings(ctx context.Context) (*model.SystemSettingPolicy, error) {
	var policy *model.SystemSettingPolicy
	err := s.store.View(func(tx *store.Tx) error {
		var err error
		policy, err = tx.GetPolicySetting()
		return err
	})
	return policy, err
}

// UpdateSettings replaces the lending policy. It applies to every later
// borrow and fine computation, including loans already open.
func (s *Service) UpdateSettings(ctx context.Context, policy *model.SystemSettingPolicy) (*model.SystemSettingPolicy, error) {
	if err := validator.ValidatePolicySettings(policy); err != nil {
		return nil, invalidInput(err)
	}
	if err := s.store.Update(ctx, func(tx *store.Tx) error {
		return tx.UpsertPolicySetting(policy)
	}); err != nil {
		return nil, err
	}

	log.Info("Policy updated",
		zap.String("daily_fine_rate", policy.DailyFineRate.String()),
		zap.Int("max_borrow_limit", policy.MaxBorrowLimit),
		zap.Bool("maintenance_mode", policy.MaintenanceMode))
	return policy, nil
}

func (s *Service) Announcement(ctx context.Context) (*model.Announcement, error) {
	policy, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Announcement{Text: policy.Announcement, MaintenanceMode: policy.MaintenanceMode}, nil
}
