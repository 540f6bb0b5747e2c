// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the fund-matcher service:
// the business profile entered by the user, the fund records produced from
// the model response, the per-session search state, and configuration.
package types

import "time"

// DefaultBizType is the business type assumed when the form leaves it blank.
const DefaultBizType = "개인사업자"

// BusinessInfo is the profile a user submits to start a search. It lives only
// for the duration of a session and is never persisted.
type BusinessInfo struct {
	// BizNumber is the business registration number, usually formatted
	// as 123-45-67890.
	BizNumber string `json:"bizNumber" yaml:"biz_number"`

	// Region is the administrative region the business is located in.
	Region Region `json:"region" yaml:"region"`

	// Industry is free text describing the line of business.
	Industry string `json:"industry" yaml:"industry"`

	// BizType distinguishes individual from corporate businesses.
	BizType string `json:"bizType" yaml:"biz_type"`
}

// Application is a consultation request captured from the lead form after
// a search. It extends the searched BusinessInfo with contact details.
type Application struct {
	BusinessInfo `yaml:",inline"`

	// ID identifies the submission in logs.
	ID string `json:"id" yaml:"id"`

	CompanyName string `json:"companyName" yaml:"company_name"`
	ContactName string `json:"contactName" yaml:"contact_name"`
	PhoneNumber string `json:"phoneNumber" yaml:"phone_number"`

	SubmittedAt time.Time `json:"submittedAt" yaml:"submitted_at"`
}
