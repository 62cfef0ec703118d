package livequery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvokerSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/createGroup", r.URL.Path)
		assert.Equal(t, "Bearer token42", r.Header.Get("Authorization"))

		var envelope map[string]map[string]interface{}
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&envelope))
		assert.Equal(t, "Group 1", envelope["data"]["name"])

		w.Write([]byte(`{"data":{"groupId":"g1"}}`))
	}))
	defer server.Close()

	invoker := NewInvoker(server.URL, func(ctx context.Context) (string, error) {
		return "token42", nil
	}, nil)

	var result struct {
		GroupID string `json:"groupId"`
	}
	err := invoker.Invoke(context.Background(), "createGroup", map[string]string{"name": "Group 1"}, &result)

	assert.Nil(t, err)
	assert.Equal(t, "g1", result.GroupID)
	assert.False(t, invoker.Pending())
	assert.Nil(t, invoker.Err())
}

func TestInvokerRemoteErrorVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"error":{"status":3,"message":"Group Group 1 has already been scored for this"}}`))
	}))
	defer server.Close()

	invoker := NewInvoker(server.URL, nil, nil)

	err := invoker.Invoke(context.Background(), "submitScore", map[string]string{}, nil)

	assert.NotNil(t, err)
	assert.Equal(t, "Group Group 1 has already been scored for this", err.Error())

	remoteErr, ok := err.(*RemoteError)
	assert.True(t, ok)
	assert.Equal(t, 3, remoteErr.Status)

	assert.False(t, invoker.Pending())
	assert.Equal(t, err, invoker.Err())
}

func TestInvokerErrClearedAfterSuccess(t *testing.T) {
	var fail bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.Write([]byte(`{"error":{"status":13,"message":"Unknown error"}}`))
			return
		}
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	invoker := NewInvoker(server.URL, nil, nil)

	fail = true
	assert.NotNil(t, invoker.Invoke(context.Background(), "resetGame", map[string]string{}, nil))
	assert.NotNil(t, invoker.Err())

	fail = false
	assert.Nil(t, invoker.Invoke(context.Background(), "resetGame", map[string]string{}, nil))
	assert.Nil(t, invoker.Err())
}

func TestInvokerRetriesThrottling(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	invoker := NewInvoker(server.URL, nil, nil)

	err := invoker.Invoke(context.Background(), "makeAnnouncement", map[string]string{}, nil)

	assert.Nil(t, err)
	assert.Equal(t, 2, attempts)
}
