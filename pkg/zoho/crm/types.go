package zohocrm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TokenRecord is the payload of a successful token refresh. AccessToken and
// APIDomain may be empty when the server omits them; the remaining fields
// are informational only.
type TokenRecord struct {
	AccessToken  string `json:"access_token"`
	APIDomain    string `json:"api_domain"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresInSec int64  `json:"expires_in_sec"`
}

// authErrorResponse is the error envelope of the OAuth endpoint, which
// differs from the CRM one.
type authErrorResponse struct {
	Error *string `json:"error"`
}

// PageInfo is the pagination block returned alongside record pages.
type PageInfo struct {
	MoreRecords bool `json:"more_records"`
	PerPage     int  `json:"per_page"`
	Count       int  `json:"count"`
	Page        int  `json:"page"`
}

// RecordPage is the success envelope of Get and GetMany. Records are kept
// raw so callers bring their own types; Get always yields a single-element
// Data slice. Info is only present on GetMany responses.
type RecordPage struct {
	Data []json.RawMessage `json:"data"`
	Info *PageInfo         `json:"info,omitempty"`
}

// Decode unmarshals the whole data array into v, which must be a pointer to
// a slice of the caller's record type.
func (p *RecordPage) Decode(v any) error {
	raw, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("failed to re-encode records: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode records: %w", err)
	}
	return nil
}

// BulkResponse is the success envelope of Insert and UpdateMany. A
// transport-level success does not mean every record went through: each
// entry carries its own status, and entries with errors are NOT promoted to
// an operation-level failure. Always inspect each entry.
type BulkResponse struct {
	Data []RecordResult `json:"data"`
}

// RecordResult is the per-record outcome inside a BulkResponse.
type RecordResult struct {
	Code    string
	Message string
	Status  string
	Details RecordResultDetails
}

// Succeeded reports whether this record was written.
func (r *RecordResult) Succeeded() bool {
	return strings.EqualFold(r.Status, "success")
}

// RecordResultDetails is the two-variant union inside a bulk entry: exactly
// one of Success or Error is set, resolved by the entry's status field. Raw
// holds the undecoded payload in case a response ever deviates from either
// shape.
type RecordResultDetails struct {
	Success *SuccessDetails
	Error   map[string]any
	Raw     json.RawMessage
}

// SuccessDetails carries the id and audit metadata of a written record.
type SuccessDetails struct {
	ID           string     `json:"id"`
	CreatedTime  string     `json:"Created_Time"`
	ModifiedTime string     `json:"Modified_Time"`
	CreatedBy    RecordUser `json:"Created_By"`
	ModifiedBy   RecordUser `json:"Modified_By"`
}

// RecordUser identifies the Zoho user attached to audit fields.
type RecordUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r *RecordResult) UnmarshalJSON(data []byte) error {
	var aux struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Status  string          `json:"status"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Code = aux.Code
	r.Message = aux.Message
	r.Status = aux.Status
	r.Details = RecordResultDetails{Raw: aux.Details}

	if len(aux.Details) == 0 {
		return nil
	}

	if strings.EqualFold(aux.Status, "success") {
		var details SuccessDetails
		if err := json.Unmarshal(aux.Details, &details); err != nil {
			return fmt.Errorf("failed to decode success details: %w", err)
		}
		r.Details.Success = &details
		return nil
	}

	var details map[string]any
	if err := json.Unmarshal(aux.Details, &details); err != nil {
		return fmt.Errorf("failed to decode error details: %w", err)
	}
	r.Details.Error = details
	return nil
}
