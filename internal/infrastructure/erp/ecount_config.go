package erp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults for the ECount API client
const (
	// DefaultTimeout bounds every network call to the ECount API
	DefaultTimeout = 10 * time.Second
	// DefaultSessionSkew is subtracted from a session's reported expiry to
	// force proactive renewal before the remote invalidates it
	DefaultSessionSkew = 30 * time.Second
	// DefaultSessionValidity is assumed when a login response carries no
	// parsable expiry timestamp
	DefaultSessionValidity = 10 * time.Minute
	// DefaultLanguage is the response language requested on login
	DefaultLanguage = "ko-KR"
)

// Errors for ECount configuration
var (
	ErrEcountConfigMissingCompanyCode = errors.New("ecount: company code is required")
	ErrEcountConfigMissingUserID      = errors.New("ecount: user ID is required")
	ErrEcountConfigMissingCertKey     = errors.New("ecount: API cert key is required")
	ErrEcountConfigMissingZone        = errors.New("ecount: zone is required")
)

// EcountConfig holds configuration for the ECount ERP API integration
type EcountConfig struct {
	// CompanyCode is the ECount company identifier
	CompanyCode string
	// UserID is the API user within the company
	UserID string
	// APICertKey is the API credential issued by ECount
	APICertKey string
	// Zone selects the regional API cluster, e.g. "CC"
	Zone string
	// Language is the response language, e.g. "ko-KR"
	Language string
	// BaseURL overrides the zone-derived API endpoint when set
	BaseURL string
	// Timeout bounds each network call
	Timeout time.Duration
	// SessionSkew is the proactive session-renewal safety margin
	SessionSkew time.Duration
}

// NewEcountConfig creates a new ECount configuration with defaults
func NewEcountConfig(companyCode, userID, apiCertKey, zone string) *EcountConfig {
	return &EcountConfig{
		CompanyCode: companyCode,
		UserID:      userID,
		APICertKey:  apiCertKey,
		Zone:        zone,
		Language:    DefaultLanguage,
		Timeout:     DefaultTimeout,
		SessionSkew: DefaultSessionSkew,
	}
}

// Validate validates the ECount configuration and fills in defaults
func (c *EcountConfig) Validate() error {
	if strings.TrimSpace(c.CompanyCode) == "" {
		return ErrEcountConfigMissingCompanyCode
	}
	if strings.TrimSpace(c.UserID) == "" {
		return ErrEcountConfigMissingUserID
	}
	if strings.TrimSpace(c.APICertKey) == "" {
		return ErrEcountConfigMissingCertKey
	}
	if strings.TrimSpace(c.Zone) == "" {
		return ErrEcountConfigMissingZone
	}
	if c.BaseURL == "" {
		c.BaseURL = fmt.Sprintf("https://sboapi%s.ecount.com", strings.ToUpper(c.Zone))
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SessionSkew <= 0 {
		c.SessionSkew = DefaultSessionSkew
	}
	return nil
}
