// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimitTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	t.Run("Passes requests through", func(t *testing.T) {
		client := &http.Client{Transport: NewRateLimitTransport(0, 0, nil)}
		for i := 0; i < 3; i++ {
			resp, err := client.Get(ts.URL)
			require.NoError(t, err)
			resp.Body.Close()
		}
	})

	t.Run("Waiting respects the request context", func(t *testing.T) {
		client := &http.Client{Transport: NewRateLimitTransport(rate.Every(time.Hour), 1, nil)}

		resp, err := client.Get(ts.URL)
		require.NoError(t, err)
		resp.Body.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
		require.NoError(t, err)

		_, err = client.Do(req)
		require.Error(t, err)
	})
}
