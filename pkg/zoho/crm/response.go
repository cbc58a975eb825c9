package zohocrm

import "encoding/json"

// decodeAPIResponse classifies a raw CRM response body and, on success,
// unmarshals it into out. The order is fixed and shared by every API
// method:
//
//  1. the structured error envelope, checked first so a well-formed error
//     is never misread as a degenerate success payload;
//  2. the operation's success shape;
//  3. anything else non-empty -> *UnexpectedResponseError with the body
//     verbatim;
//  4. an empty body -> ErrEmptyResponse.
//
// encoding/json happily ignores missing fields, so both probes check for
// the presence of the envelope's keys instead of relying on a bare
// unmarshal succeeding.
func decodeAPIResponse(body []byte, out any) error {
	if apiErr := probeAPIError(body); apiErr != nil {
		return apiErr
	}

	var envelope struct {
		Data *json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		if err := json.Unmarshal(body, out); err == nil {
			return nil
		}
	}

	if len(body) > 0 {
		return &UnexpectedResponseError{Raw: string(body)}
	}
	return ErrEmptyResponse
}

// probeAPIError returns the decoded error envelope if the body is one. The
// envelope matches only when the code, message and status keys are all
// present.
func probeAPIError(body []byte) *APIError {
	var probe struct {
		Code    *string        `json:"code"`
		Message *string        `json:"message"`
		Status  *string        `json:"status"`
		Details map[string]any `json:"details"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil
	}
	if probe.Code == nil || probe.Message == nil || probe.Status == nil {
		return nil
	}
	return &APIError{
		Code:    *probe.Code,
		Message: *probe.Message,
		Status:  *probe.Status,
		Details: probe.Details,
	}
}
