package zohocrm

import (
	"context"
	"fmt"
	"net/http"

	httpclient "github.com/AEtheve/zohoxide-crm/pkg/http"
	"go.uber.org/zap"
)

// Get fetches a single record from a CRM module.
//
// Zoho wraps the record in a data array even though it always has length 1,
// and the array is returned as-is; use RecordPage.Decode with a
// single-element slice of your record type:
//
//	page, err := client.Get(ctx, "Accounts", "4000000123456")
//	if err != nil { ... }
//	var accounts []Account
//	if err := page.Decode(&accounts); err != nil { ... }
//
// A structured error from the API surfaces as *APIError; an unparseable
// non-empty body as *UnexpectedResponseError; an empty body as
// ErrEmptyResponse.
func (c *Client) Get(ctx context.Context, module, id string) (*RecordPage, error) {
	endpoint := fmt.Sprintf("%s/crm/v2/%s/%s", c.APIDomain(), module, id)

	var page RecordPage
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}

	c.logger.Info("Fetched record",
		zap.String("module", module),
		zap.String("id", id))
	return &page, nil
}

// GetMany fetches a page of records from a CRM module. params is an
// optional pre-encoded query string (see EncodeParams) controlling paging,
// custom views and so on; pass "" for the server defaults.
//
// https://www.zoho.com/crm/developer/docs/api/get-records.html
func (c *Client) GetMany(ctx context.Context, module, params string) (*RecordPage, error) {
	endpoint := fmt.Sprintf("%s/crm/v2/%s", c.APIDomain(), module)
	if params != "" {
		endpoint += "?" + params
	}

	var page RecordPage
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}

	c.logger.Info("Fetched records",
		zap.String("module", module),
		zap.Int("count", len(page.Data)))
	return &page, nil
}

// Insert creates records in a CRM module. records is any JSON-serializable
// slice; it is sent wrapped in the data field Zoho requires.
//
// A nil error does not mean every record was created: failures are reported
// per entry in the response, and it is up to you to handle them (see
// BulkResponse).
//
// https://www.zoho.com/crm/developer/docs/api/insert-records.html
func (c *Client) Insert(ctx context.Context, module string, records any) (*BulkResponse, error) {
	return c.bulkWrite(ctx, http.MethodPost, module, records)
}

// UpdateMany updates records in a CRM module. Each record must carry its
// Zoho id. The same per-entry failure caveat as Insert applies.
//
// https://www.zoho.com/crm/developer/docs/api/update-records.html
func (c *Client) UpdateMany(ctx context.Context, module string, records any) (*BulkResponse, error) {
	return c.bulkWrite(ctx, http.MethodPut, module, records)
}

func (c *Client) bulkWrite(ctx context.Context, method, module string, records any) (*BulkResponse, error) {
	endpoint := fmt.Sprintf("%s/crm/v2/%s", c.APIDomain(), module)

	// Zoho requires incoming records to be wrapped in a data field.
	body := map[string]any{"data": records}

	var result BulkResponse
	if err := c.call(ctx, method, endpoint, body, &result); err != nil {
		return nil, err
	}

	succeeded := 0
	for i := range result.Data {
		if result.Data[i].Succeeded() {
			succeeded++
		}
	}
	c.logger.Info("Wrote records",
		zap.String("method", method),
		zap.String("module", module),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(result.Data)-succeeded))

	return &result, nil
}

// call ensures a token is held, issues one authorized request with the
// configured timeout, and classifies the response body into out. All four
// API methods go through here.
func (c *Client) call(ctx context.Context, method, endpoint string, body, out any) error {
	token, err := c.ensureAccessToken(ctx)
	if err != nil {
		return err
	}

	headers := map[string]string{
		"Authorization": "Zoho-oauthtoken " + token,
	}

	c.logger.Debug("Calling CRM API",
		zap.String("method", method),
		zap.String("endpoint", endpoint))

	resp, err := c.httpClient.Do(httpclient.RequestOptions{
		Method:  method,
		URL:     endpoint,
		Headers: headers,
		Body:    body,
		Context: ctx,
		Timeout: c.config.Timeout,
	})
	if err != nil {
		c.logger.Error("CRM API request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("endpoint", endpoint))
		return err
	}

	if err := decodeAPIResponse(resp.Body, out); err != nil {
		c.logger.Error("CRM API returned an error",
			zap.Error(err),
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode))
		return err
	}

	return nil
}
