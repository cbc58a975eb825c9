package zohocrm

import "net/url"

// EncodeParams URL-encodes a parameter map into a query string suitable for
// GetMany. Key order in the output is not guaranteed.
//
//	params := zohocrm.EncodeParams(map[string]string{
//		"cvid":     "YOUR_VIEW_ID",
//		"page":     "2",
//		"per_page": "50",
//	})
//	accounts, err := client.GetMany(ctx, "Accounts", params)
func EncodeParams(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	return values.Encode()
}
