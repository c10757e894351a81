package erp

import (
	"encoding/json"
	"strings"
)

// ---------------------------------------------------------------------------
// Common ECount API Response Types
// ---------------------------------------------------------------------------

// ecountStatus tolerates the remote reporting Status as a JSON number or a
// quoted string; both occur in practice.
type ecountStatus string

// UnmarshalJSON implements json.Unmarshaler
func (s *ecountStatus) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*s = ecountStatus(n.String())
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	*s = ecountStatus(str)
	return nil
}

// ---------------------------------------------------------------------------
// Login Types
// ---------------------------------------------------------------------------

// EcountLoginResponse is the response envelope of the OAPILogin endpoint
type EcountLoginResponse struct {
	Status  ecountStatus     `json:"Status,omitempty"`
	Message string           `json:"Message,omitempty"`
	Data    *EcountLoginData `json:"Data,omitempty"`
}

// EcountLoginData carries the issued session. Some deployments nest the
// session one level deeper under Datas.
type EcountLoginData struct {
	SessionID  string           `json:"SESSION_ID,omitempty"`
	ExpireTime string           `json:"EXPIRE_TIME,omitempty"`
	Datas      *EcountLoginData `json:"Datas,omitempty"`
}

// SessionID returns the session token wherever the response nested it
func (r *EcountLoginResponse) SessionID() string {
	if r.Data == nil {
		return ""
	}
	if r.Data.SessionID != "" {
		return r.Data.SessionID
	}
	if r.Data.Datas != nil {
		return r.Data.Datas.SessionID
	}
	return ""
}

// ExpireTime returns the compact expiry timestamp wherever the response nested it
func (r *EcountLoginResponse) ExpireTime() string {
	if r.Data == nil {
		return ""
	}
	if r.Data.ExpireTime != "" {
		return r.Data.ExpireTime
	}
	if r.Data.Datas != nil {
		return r.Data.Datas.ExpireTime
	}
	return ""
}

// ---------------------------------------------------------------------------
// SaveBasicProduct Types
// ---------------------------------------------------------------------------

// ecountSaveRequest is the list-of-one envelope the save endpoint expects
type ecountSaveRequest struct {
	Key         string           `json:"KEY"`
	ProductList []ecountSaveLine `json:"ProductList"`
}

// ecountSaveLine wraps one flat record with its line marker
type ecountSaveLine struct {
	Line      string            `json:"Line"`
	BulkDatas map[string]string `json:"BulkDatas"`
}

// EcountSaveResponse is the response envelope of the SaveBasicProduct endpoint
type EcountSaveResponse struct {
	Status  ecountStatus    `json:"Status,omitempty"`
	Message string          `json:"Message,omitempty"`
	Data    *EcountSaveData `json:"Data,omitempty"`
}

// EcountSaveData contains the per-line results
type EcountSaveData struct {
	ResultDetails []EcountResultDetail `json:"ResultDetails,omitempty"`
}

// EcountResultDetail is the per-record outcome. IsSuccess is a pointer
// because its absence means "fall back to the coarse status code".
type EcountResultDetail struct {
	Line       string `json:"Line,omitempty"`
	IsSuccess  *bool  `json:"IsSuccess,omitempty"`
	TotalError string `json:"TotalError,omitempty"`
	Message    string `json:"Message,omitempty"`
}

// firstDetail returns the first per-line result, or nil
func (r *EcountSaveResponse) firstDetail() *EcountResultDetail {
	if r.Data == nil || len(r.Data.ResultDetails) == 0 {
		return nil
	}
	return &r.Data.ResultDetails[0]
}

// IsSuccess reports whether the save succeeded: the per-record indicator when
// present, otherwise the coarse status code prefix.
func (r *EcountSaveResponse) IsSuccess() bool {
	if detail := r.firstDetail(); detail != nil && detail.IsSuccess != nil {
		return *detail.IsSuccess
	}
	return strings.HasPrefix(string(r.Status), "2")
}

// ErrorMessage returns the most specific failure text the response carries
func (r *EcountSaveResponse) ErrorMessage() string {
	if detail := r.firstDetail(); detail != nil && detail.TotalError != "" {
		return detail.TotalError
	}
	return r.Message
}
