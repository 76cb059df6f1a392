package model

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	SettingTypePolicy   = "SETTINGS_POLICY"
	SettingTypeSecurity = "SETTINGS_SECURITY"
)

type SystemSetting struct {
	Name        string `json:"name,omitempty"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// SystemSettingPolicy is the lending policy consulted by every borrow and fine.
type SystemSettingPolicy struct {
	DailyFineRate   decimal.Decimal `json:"daily_fine_rate"`
	MaxBorrowLimit  int             `json:"max_borrow_limit"`
	Announcement    string          `json:"announcement"`
	MaintenanceMode bool            `json:"maintenance_mode"`
}

func (s *SystemSettingPolicy) ToJSON() string {
	b, _ := json.Marshal(s)
	return string(b)
}

type SystemSettingSecurity struct {
	JWTSecret string `json:"jwt_secret,omitempty"`
}

func (s *SystemSettingSecurity) ToJSON() string {
	b, _ := json.Marshal(s)
	return string(b)
}

func (s *SystemSetting) GetPolicy() (*SystemSettingPolicy, error) {
	var policy SystemSettingPolicy
	err := json.Unmarshal([]byte(s.Value), &policy)
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (s *SystemSetting) GetSecurity() (*SystemSettingSecurity, error) {
	var security SystemSettingSecurity
	err := json.Unmarshal([]byte(s.Value), &security)
	if err != nil {
		return nil, err
	}
	return &security, nil
}

// Announcement is the public part of the policy.
type Announcement struct {
	Text            string `json:"announcement"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}
