package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	client "github.com/africahr/go-leave-client"
	"github.com/africahr/go-leave-client/leave"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestSubmitPayloadValidate(t *testing.T) {
	valid := leave.SubmitPayload{
		LeaveType: "ANNUAL",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Reason:    "family visit",
	}
	assert.NoError(t, valid.Validate())

	t.Run("bad date format", func(t *testing.T) {
		p := valid
		p.StartDate = "01/09/2026"
		assert.Error(t, p.Validate())
	})

	t.Run("missing reason", func(t *testing.T) {
		p := valid
		p.Reason = ""
		assert.Error(t, p.Validate())
	})

	t.Run("missing type", func(t *testing.T) {
		p := valid
		p.LeaveType = ""
		assert.Error(t, p.Validate())
	})
}

func TestClientSubmitRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/leave/requests", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var p leave.SubmitPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "ANNUAL", p.LeaveType)

		json.NewEncoder(w).Encode(leave.Request{
			ID:        7,
			LeaveType: p.LeaveType,
			StartDate: p.StartDate,
			EndDate:   p.EndDate,
			Status:    leave.StatusPending,
		})
	}))
	defer srv.Close()

	c := leave.New(srv.URL, staticToken("t1"))
	req, err := c.SubmitRequest(context.Background(), leave.SubmitPayload{
		LeaveType: "ANNUAL",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Reason:    "family visit",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), req.ID)
	assert.Equal(t, leave.StatusPending, req.Status)
}

func TestClientSubmitRequestValidatesFirst(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := leave.New(srv.URL, staticToken("t1"))
	_, err := c.SubmitRequest(context.Background(), leave.SubmitPayload{})
	assert.True(t, client.IsValidationError(err))
	assert.False(t, called)
}

func TestClientListRequestsAndBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/leave/requests":
			json.NewEncoder(w).Encode([]leave.Request{
				{ID: 1, Status: leave.StatusApproved},
				{ID: 2, Status: leave.StatusPending},
			})
		case "/leave/balance":
			json.NewEncoder(w).Encode([]leave.Balance{
				{LeaveType: "ANNUAL", TotalDays: 21, UsedDays: 5, RemainingDays: 16},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := leave.New(srv.URL, staticToken("t1"))

	reqs, err := c.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, leave.StatusApproved, reqs[0].Status)

	balances, err := c.Balances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, float64(16), balances[0].RemainingDays)
}

func TestClientApproveReject(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		seen = append(seen, r.URL.Path)
	}))
	defer srv.Close()

	c := leave.New(srv.URL, staticToken("t1"))
	require.NoError(t, c.Approve(context.Background(), 7))
	require.NoError(t, c.Reject(context.Background(), 8))
	assert.Equal(t, []string{"/leave/requests/7/approve", "/leave/requests/8/reject"}, seen)
}

func TestClientUnauthorizedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := leave.New(srv.URL, staticToken("stale"))
	_, err := c.ListRequests(context.Background())
	assert.True(t, client.IsUnauthorized(err))
}

func TestClientServerFailureCarriesMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	}))
	defer srv.Close()

	c := leave.New(srv.URL, staticToken("t1"))
	_, err := c.Balances(context.Background())
	assert.True(t, client.IsServerError(err))
}

func TestClientLeaveTypeAdministration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/leave-types":
			json.NewEncoder(w).Encode([]leave.Type{{ID: 1, Code: "ANNUAL"}})
		case r.Method == http.MethodPost && r.URL.Path == "/admin/leave-types":
			var in leave.Type
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in.ID = 2
			json.NewEncoder(w).Encode(in)
		case r.Method == http.MethodPut && r.URL.Path == "/admin/leave-types/2":
			var in leave.Type
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			json.NewEncoder(w).Encode(in)
		case r.Method == http.MethodDelete && r.URL.Path == "/admin/leave-types/2":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := leave.New(srv.URL, staticToken("t1"))
	ctx := context.Background()

	types, err := c.ListTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)

	created, err := c.CreateType(ctx, leave.Type{Name: "Sick Leave", Code: "SICK", RequiresMedicalCertificate: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	created.DefaultBalance = 10
	updated, err := c.UpdateType(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, float64(10), updated.DefaultBalance)

	require.NoError(t, c.DeleteType(ctx, 2))
}
