package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"signup-relay/pkg/clients/mailchimp"
	"signup-relay/pkg/metrics"
	"signup-relay/pkg/models"
)

type stubClient struct {
	calls    []mailchimp.BatchRequest
	response *mailchimp.BatchResponse
	err      error
}

func (s *stubClient) SubscribeMembers(ctx context.Context, batch mailchimp.BatchRequest) (*mailchimp.BatchResponse, error) {
	s.calls = append(s.calls, batch)
	return s.response, s.err
}

var ada = models.SignupForm{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

func TestSignupService_Submit_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		response *mailchimp.BatchResponse
		err      error
		expected Outcome
	}{
		{name: "accepted", response: &mailchimp.BatchResponse{TotalCreated: 1}, expected: OutcomeSuccess},
		{name: "accepted without summary", expected: OutcomeSuccess},
		{name: "accepted with member errors", response: &mailchimp.BatchResponse{ErrorCount: 1, Errors: []mailchimp.MemberError{{ErrorCode: "ERROR_CONTACT_EXISTS"}}}, expected: OutcomeSuccess},
		{name: "bad request", err: &mailchimp.StatusError{StatusCode: http.StatusBadRequest}, expected: OutcomeFailure},
		{name: "server error", err: &mailchimp.StatusError{StatusCode: http.StatusInternalServerError}, expected: OutcomeFailure},
		{name: "network error", err: errors.New("dial tcp: connection refused"), expected: OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{response: tt.response, err: tt.err}
			svc := NewSignupService(client, zaptest.NewLogger(t))

			outcome := svc.Submit(context.Background(), ada)

			assert.Equal(t, tt.expected, outcome)
			require.Len(t, client.calls, 1)
			assert.Equal(t, mailchimp.NewSubscribeRequest("Ada", "Lovelace", "ada@example.com"), client.calls[0])
		})
	}
}

func TestSignupService_Submit_PassesFieldsVerbatim(t *testing.T) {
	client := &stubClient{response: &mailchimp.BatchResponse{}}
	svc := NewSignupService(client, zaptest.NewLogger(t))

	svc.Submit(context.Background(), models.SignupForm{FirstName: " ada", LastName: "LOVELACE ", Email: " Ada@Example.com"})

	require.Len(t, client.calls, 1)
	m := client.calls[0].Members[0]
	assert.Equal(t, " ada", m.MergeFields.FirstName)
	assert.Equal(t, "LOVELACE ", m.MergeFields.LastName)
	assert.Equal(t, " Ada@Example.com", m.EmailAddress)
	assert.Equal(t, mailchimp.StatusSubscribed, m.Status)
}

func TestSignupService_Submit_CountsOutcomes(t *testing.T) {
	success := testutil.ToFloat64(metrics.SignupSubmissions.WithLabelValues(string(OutcomeSuccess)))
	failure := testutil.ToFloat64(metrics.SignupSubmissions.WithLabelValues(string(OutcomeFailure)))

	NewSignupService(&stubClient{}, zaptest.NewLogger(t)).Submit(context.Background(), ada)
	NewSignupService(&stubClient{err: errors.New("boom")}, zaptest.NewLogger(t)).Submit(context.Background(), ada)

	assert.Equal(t, success+1, testutil.ToFloat64(metrics.SignupSubmissions.WithLabelValues(string(OutcomeSuccess))))
	assert.Equal(t, failure+1, testutil.ToFloat64(metrics.SignupSubmissions.WithLabelValues(string(OutcomeFailure))))
}

// Runs the real client against a fake API to cover the three scenarios end to end.
func TestSignupService_Submit_AgainstFakeAPI(t *testing.T) {
	for _, tc := range []struct {
		name     string
		status   int
		closed   bool
		expected Outcome
	}{
		{name: "status 200", status: http.StatusOK, expected: OutcomeSuccess},
		{name: "status 400", status: http.StatusBadRequest, expected: OutcomeFailure},
		{name: "connection refused", closed: true, expected: OutcomeFailure},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{}`))
			}))
			if tc.closed {
				srv.Close()
			} else {
				defer srv.Close()
			}

			logger := zaptest.NewLogger(t)
			client := mailchimp.NewClient(srv.URL, "list", "relay", "key-us10", 0, logger)
			outcome := NewSignupService(client, logger).Submit(context.Background(), ada)
			assert.Equal(t, tc.expected, outcome)
		})
	}
}

func TestSignupService_Submit_LogsNoRawEmail(t *testing.T) {
	const email = "ada@example.com"
	form := models.SignupForm{FirstName: "Ada", LastName: "Lovelace", Email: email}

	tests := []struct {
		name     string
		response *mailchimp.BatchResponse
		err      error
	}{
		{
			name: "member error inside 200",
			response: &mailchimp.BatchResponse{ErrorCount: 1, Errors: []mailchimp.MemberError{{
				EmailAddress: email,
				Error:        email + " is already a list member",
				ErrorCode:    "ERROR_CONTACT_EXISTS",
			}}},
		},
		{
			name: "rejected with body echoing the email",
			err:  &mailchimp.StatusError{StatusCode: http.StatusBadRequest, Body: `{"detail":"` + email + ` looks fake or invalid"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			svc := NewSignupService(&stubClient{response: tt.response, err: tt.err}, zap.New(core))

			svc.Submit(context.Background(), form)

			require.NotZero(t, logs.Len())
			for _, entry := range logs.All() {
				assert.NotContains(t, entry.Message, email)
				for k, v := range entry.ContextMap() {
					assert.NotContains(t, fmt.Sprint(v), email, "field %s", k)
				}
			}
		})
	}
}
