package zohocrm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	zohocrm "github.com/AEtheve/zohoxide-crm/pkg/zoho/crm"
)

func TestEncodeParams(t *testing.T) {
	t.Run("joins pairs with ampersands", func(t *testing.T) {
		encoded := zohocrm.EncodeParams(map[string]string{
			"page": "2",
			"cvid": "00000",
		})

		// Key order is not guaranteed.
		switch encoded {
		case "page=2&cvid=00000", "cvid=00000&page=2":
		default:
			t.Fatalf("params did not encode properly: %q", encoded)
		}
	})

	t.Run("escapes values", func(t *testing.T) {
		encoded := zohocrm.EncodeParams(map[string]string{"criteria": "(Email:equals:a@b.c)"})
		require.Equal(t, "criteria=%28Email%3Aequals%3Aa%40b.c%29", encoded)
	})

	t.Run("empty map", func(t *testing.T) {
		require.Empty(t, zohocrm.EncodeParams(nil))
	})
}
