package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second, func() string { return "tok-123" })
}

func TestHTTPClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))

	_, err := c.PendingApplications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestHTTPClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, 5*time.Second, nil)
	_, err := c.PendingApplications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestHTTPClient_Login_FlatResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/login", r.URL.Path)
		w.Write([]byte(`{"id":5,"username":"ana","role":"APPLICANT","token":"jwt-a"}`))
	}))

	p, err := c.Login(context.Background(), Credentials{Username: "ana", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, models.RoleApplicant, p.Role)
	assert.Equal(t, "jwt-a", p.Credential)
}

func TestHTTPClient_Login_NestedResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":7,"username":"rex","role":"REVIEWER"},"token":"jwt-b"}`))
	}))

	p, err := c.Login(context.Background(), Credentials{Username: "rex", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, models.RoleReviewer, p.Role)
	assert.Equal(t, "jwt-b", p.Credential)
}

func TestHTTPClient_Login_BadCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))

	_, err := c.Login(context.Background(), Credentials{Username: "ana", Password: "wrong"})
	require.ErrorIs(t, err, common.ErrAuthentication)
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{name: "forbidden", code: http.StatusForbidden, want: common.ErrAuthorization},
		{name: "not found", code: http.StatusNotFound, want: common.ErrNotFound},
		{name: "conflict", code: http.StatusConflict, want: common.ErrInvalidTransition},
		{name: "bad request", code: http.StatusBadRequest, want: common.ErrValidation},
		{name: "server error", code: http.StatusInternalServerError, want: common.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			_, err := c.ApplicationByID(context.Background(), 1)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPClient_ApplicationStatus_NormalizesSentinel(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/application/9/application-status", r.URL.Path)
		w.Write([]byte("not_submitted"))
	}))

	status, err := c.ApplicationStatus(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotSubmitted, status)
}

func TestHTTPClient_SetDecision_SendsReason(t *testing.T) {
	var gotBody string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/application/3/status", r.URL.Path)
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	err := c.SetDecision(context.Background(), 3, models.StatusRejected, "insufficient experience")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"REJECTED","rejectionReason":"insufficient experience"}`, gotBody)
}

func TestHTTPClient_UploadDocuments_Multipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/upload/4", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "resume.pdf", files[0].Filename)
		w.WriteHeader(http.StatusOK)
	}))

	err := c.UploadDocuments(context.Background(), 4, []models.Upload{
		{FileName: "resume.pdf", MimeType: "application/pdf", SizeBytes: 3, Content: []byte("pdf")},
	})
	require.NoError(t, err)
}

func TestHTTPClient_Notifications_MixedTimestampEncodings(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"recipientId":2,"message":"a","timestamp":"2025-01-02T00:00:00Z"},
			{"id":2,"recipientId":2,"message":"b","timestamp":[2025,1,3,8,15,0]}
		]`))
	}))

	events, err := c.Notifications(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[1].Timestamp.After(events[0].Timestamp.Time))
}

func TestHTTPClient_DownloadAndViewDocument(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/documents/download/9", "/documents/view/9":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	body, contentType, err := c.DownloadDocument(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF-"), body)

	body, contentType, err = c.ViewDocument(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.NotEmpty(t, body)

	_, _, err = c.DownloadDocument(context.Background(), 10)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestHTTPClient_CanceledContextIsNotUnavailable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("PENDING"))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ApplicationStatus(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, common.ErrUnavailable)

	_, _, err = c.DownloadDocument(ctx, 9)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, common.ErrUnavailable)

	_, err = c.PendingApplications(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.PendingApplications(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
}
