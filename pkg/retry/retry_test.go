package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AEtheve/zohoxide-crm/pkg/retry"
)

var fastOpts = retry.Options{
	MaxElapsed:      500 * time.Millisecond,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func TestDo(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		result, err := retry.Do(context.Background(), fastOpts, func() (string, error) {
			attempts++
			if attempts < 3 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		require.Equal(t, "ok", result)
		require.Equal(t, 3, attempts)
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		permanentErr := errors.New("not worth retrying")
		attempts := 0
		_, err := retry.Do(context.Background(), fastOpts, func() (int, error) {
			attempts++
			return 0, retry.Permanent(permanentErr)
		})
		require.ErrorIs(t, err, permanentErr)
		require.Equal(t, 1, attempts)
	})

	t.Run("budget runs out", func(t *testing.T) {
		_, err := retry.Do(context.Background(), fastOpts, func() (int, error) {
			return 0, errors.New("always failing")
		})
		require.Error(t, err)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := retry.Do(ctx, fastOpts, func() (int, error) {
			return 0, errors.New("transient")
		})
		require.Error(t, err)
	})
}
