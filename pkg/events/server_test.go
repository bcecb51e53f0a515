package events_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/directory"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/events"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/listener"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store/mem"
)

var testSecret = []byte("event-secret")

func newTestServer(t *testing.T) (*events.Server, *mem.Store, *directory.MemDirectory) {
	t.Helper()

	s := mem.New()
	users := directory.NewMemDirectory()
	log := logrus.New()
	log.SetOutput(io.Discard)
	l := listener.New(s, s, s, users, log)

	return events.NewServer(l, nil, testSecret, "127.0.0.1", "0"), s, users
}

func signedToken(t *testing.T, secret []byte) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "platform",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func postEvent(server *events.Server, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/events/login", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func TestLoginEventConvertsInvitation(t *testing.T) {
	server, s, users := newTestServer(t)

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)
	_, err = s.AddInvitation(org.ID, "alice@example.com", "admin", nil)
	require.NoError(t, err)
	users.AddUser(directory.User{ID: "alice", RealmID: "realm", Username: "alice", Email: "alice@example.com"})

	rec := postEvent(server, signedToken(t, testSecret),
		`{"type":"LOGIN","realm_id":"realm","user_id":"alice"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	member, err := s.HasMembership(org.ID, "alice")
	require.NoError(t, err)
	assert.True(t, member)
}

func TestLoginEventRequiresToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := postEvent(server, "", `{"realm_id":"realm","user_id":"alice"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginEventRejectsWrongSecret(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := postEvent(server, signedToken(t, []byte("other-secret")),
		`{"realm_id":"realm","user_id":"alice"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginEventRejectsMalformedPayload(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := postEvent(server, signedToken(t, testSecret), `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postEvent(server, signedToken(t, testSecret), `{"type":"LOGIN"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNonLoginEventsAcknowledged(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := postEvent(server, signedToken(t, testSecret),
		`{"type":"LOGOUT","realm_id":"realm","user_id":"alice"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHealthWithoutDatabase(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
