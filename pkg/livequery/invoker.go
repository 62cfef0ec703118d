package livequery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"

	httputils "github.com/oweek/raceday-backend/internal/utils/http"
)

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error *struct {
		Status int    `json:"status"`
		Msg    string `json:"message"`
	} `json:"error"`
}

//RemoteError Failure reported by the function layer. The message is the
//remote one, verbatim, fit to show to the user.
type RemoteError struct {
	Status int
	Msg    string
}

func (e *RemoteError) Error() string {
	return e.Msg
}

//Invoker Submits named actions to the function layer and waits for the
//result. Throttling (HTTP 429) is retried with the backend-supplied delay;
//nothing else is retried and no local state is touched, the caller observes
//the effect through its views.
type Invoker struct {
	baseURL string
	token   func(ctx context.Context) (string, error)
	client  *http.Client

	mu      sync.Mutex
	pending bool
	lastErr error
}

//NewInvoker Creates an invoker rooted at baseURL. token supplies the bearer
//token per call and may be nil for unauthenticated actions. logf receives
//retry chatter and may be nil.
func NewInvoker(baseURL string, token func(ctx context.Context) (string, error), logf func(format string, args ...interface{})) *Invoker {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Invoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  httputils.NewThrottlingAwareClient(&http.Client{}, logf),
	}
}

//Invoke Calls the named action with payload wrapped in the callable envelope.
//On success the response data is decoded into result (which may be nil); on a
//remote failure the returned error is a RemoteError carrying the remote
//message.
func (i *Invoker) Invoke(ctx context.Context, action string, payload interface{}, result interface{}) error {
	i.setPending(true)

	err := i.invoke(ctx, action, payload, result)

	i.mu.Lock()
	i.pending = false
	i.lastErr = err
	i.mu.Unlock()

	return err
}

func (i *Invoker) invoke(ctx context.Context, action string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"data": payload})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/"+action, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if i.token != nil {
		token, err := i.token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var remoteErr errorEnvelope
	if err := json.Unmarshal(raw, &remoteErr); err == nil && remoteErr.Error != nil {
		return &RemoteError{Status: remoteErr.Error.Status, Msg: remoteErr.Error.Msg}
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("action %v failed with HTTP %v", action, resp.StatusCode)
	}

	if result == nil {
		return nil
	}

	var data dataEnvelope
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	return json.Unmarshal(data.Data, result)
}

//Pending Reports whether a call is in flight.
func (i *Invoker) Pending() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending
}

//Err Returns the error of the most recently finished call, nil after a
//success.
func (i *Invoker) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastErr
}

func (i *Invoker) setPending(p bool) {
	i.mu.Lock()
	i.pending = p
	i.mu.Unlock()
}
