package relationship

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fogrup/fogrup-backend/db"
	"github.com/fogrup/fogrup-backend/db/model"
	"github.com/fogrup/fogrup-backend/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) (*Handlers, *gorm.DB) {
	t.Helper()
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(d))
	l := log.New(io.Discard, "", 0)
	svc := &service.RelationshipService{DB: d, Logger: l}
	return NewHandlers(l, svc), d
}

func seedUser(t *testing.T, d *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Email: name + "@example.com", Displayname: name}
	require.NoError(t, d.Create(u).Error)
	return u
}

func asUser(r *http.Request, u *model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "user", u))
}

func TestCreateHandler(t *testing.T) {
	h, d := setup(t)
	u1 := seedUser(t, d, "alice")
	u2 := seedUser(t, d, "bob")

	body := `{"targetId": ` + jsonID(u2.ID) + `, "type": "mentor"}`
	r := httptest.NewRequest(http.MethodPost, "/relationships", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.create(w, asUser(r, u1))

	require.Equal(t, http.StatusOK, w.Code)
	var out OutRelationship
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, "mentor", out.Role)

	// same pair again conflicts
	r = httptest.NewRequest(http.MethodPost, "/relationships", strings.NewReader(body))
	w = httptest.NewRecorder()
	h.create(w, asUser(r, u1))
	assert.Equal(t, http.StatusConflict, w.Code)

	// missing fields are a 400
	r = httptest.NewRequest(http.MethodPost, "/relationships", strings.NewReader(`{"type":"mentor"}`))
	w = httptest.NewRecorder()
	h.create(w, asUser(r, u1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondHandler(t *testing.T) {
	h, d := setup(t)
	u1 := seedUser(t, d, "alice")
	u2 := seedUser(t, d, "bob")

	rel, err := h.svc.Create(context.Background(), u1.ID, u2.ID, model.RelTypeMentor)
	require.NoError(t, err)

	send := func(u *model.User, status string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPut, "/relationships/0", strings.NewReader(`{"status":"`+status+`"}`))
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("relationshipID", jsonID(rel.ID))
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()
		h.respond(w, asUser(r, u))
		return w
	}

	// the initiator cannot answer their own request
	assert.Equal(t, http.StatusForbidden, send(u1, "confirmed").Code)

	w := send(u2, "confirmed")
	require.Equal(t, http.StatusOK, w.Code)
	var out OutRelationship
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, "confirmed", out.Status)
	assert.Equal(t, "downline", out.Role)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
