package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/util"
)

// fallbackPolicy is used until a policy setting has been written.
func fallbackPolicy() *model.SystemSettingPolicy {
	return &model.SystemSettingPolicy{
		DailyFineRate:  decimal.RequireFromString("0.5"),
		MaxBorrowLimit: 10,
	}
}

func (tx *Tx) GetSystemSetting(name string) *model.SystemSetting {
	for i := range tx.snap.settings {
		if tx.snap.settings[i].Name == name {
			setting := tx.snap.settings[i]
			return &setting
		}
	}
	return nil
}

func (tx *Tx) UpsertSystemSetting(setting *model.SystemSetting) error {
	switch setting.Name {
	case model.SettingTypePolicy:
		if _, err := setting.GetPolicy(); err != nil {
			return errors.Wrap(err, "invalid policy setting")
		}
	case model.SettingTypeSecurity:
		if _, err := setting.GetSecurity(); err != nil {
			return errors.Wrap(err, "invalid security setting")
		}
	default:
		log.Debug("Unsupported system setting key", zap.String("setting", setting.Name))
		return errors.Errorf("Unsupported system setting key: %v", setting.Name)
	}

	if err := tx.write(CollectionSystemSettings); err != nil {
		return err
	}
	for i := range tx.snap.settings {
		if tx.snap.settings[i].Name == setting.Name {
			tx.snap.settings[i] = *setting
			return nil
		}
	}
	tx.snap.settings = append(tx.snap.settings, *setting)
	return nil
}

// GetPolicySetting returns the stored policy or the built-in fallback.
func (tx *Tx) GetPolicySetting() (*model.SystemSettingPolicy, error) {
	setting := tx.GetSystemSetting(model.SettingTypePolicy)
	if setting == nil {
		return fallbackPolicy(), nil
	}
	policy, err := setting.GetPolicy()
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal policy setting")
	}
	return policy, nil
}

func (tx *Tx) UpsertPolicySetting(policy *model.SystemSettingPolicy) error {
	return tx.UpsertSystemSetting(&model.SystemSetting{
		Name:        model.SettingTypePolicy,
		Value:       policy.ToJSON(),
		Description: "Lending policy",
	})
}

// GetOrUpsertSecuritySetting returns the security setting, generating the JWT
// secret on first use.
func (s *Store) GetOrUpsertSecuritySetting(ctx context.Context) (*model.SystemSettingSecurity, error) {
	var security *model.SystemSettingSecurity
	err := s.Update(ctx, func(tx *Tx) error {
		if setting := tx.GetSystemSetting(model.SettingTypeSecurity); setting != nil {
			current, err := setting.GetSecurity()
			if err != nil {
				return errors.Wrap(err, "failed to unmarshal security settings")
			}
			if current.JWTSecret != "" {
				security = current
				return nil
			}
		}

		log.Debug("No JWT secret found, create it")
		security = &model.SystemSettingSecurity{JWTSecret: util.GenUUID()}
		return tx.UpsertSystemSetting(&model.SystemSetting{
			Name:        model.SettingTypeSecurity,
			Value:       security.ToJSON(),
			Description: "Token signing secret",
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get security settings")
	}
	return security, nil
}
