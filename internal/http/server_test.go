package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"contact-agenda-go/internal/config"
	"contact-agenda-go/internal/models"
	"contact-agenda-go/internal/store"
	"contact-agenda-go/internal/testutil"
)

type env struct {
	t     *testing.T
	r     *gin.Engine
	store *store.Store
	cfg   *config.Config
	cat   *models.Category
}

func itoa(i int) string { return strconv.Itoa(i) }

func newEnv(t *testing.T) *env {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		AllowOrigins:      "*",
		AdminBearer:       "s3cret",
		ReqTimeoutSec:     5,
		MaxUploadMB:       1,
		MediaRoot:         t.TempDir(),
		BcryptCost:        bcrypt.MinCost,
		PasswordMinLength: 8,
	}
	st := store.New(testutil.NewDB(t))
	log := logrus.New()
	log.SetOutput(io.Discard)

	cat := &models.Category{Name: "Colega"}
	require.NoError(t, st.SaveCategory(context.Background(), cat))

	return &env{t: t, r: NewServer(cfg, Deps{Store: st, Log: log}), store: st, cfg: cfg, cat: cat}
}

func (e *env) do(method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *env) admin(method, path string, body any) *httptest.ResponseRecorder {
	return e.do(method, path, body, map[string]string{"Authorization": "Bearer s3cret"})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *env) contactBody(first, last string) map[string]any {
	return map[string]any{
		"first_name": first,
		"last_name":  last,
		"phone":      "555-0101",
		"email":      strings.ToLower(first) + "@example.com",
		"category":   e.cat.ID,
	}
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	w := e.do("GET", "/health", nil, nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])
}

func TestCORSPreflight(t *testing.T) {
	e := newEnv(t)
	w := e.do("OPTIONS", "/v1/contacts", nil, nil)
	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCreateContactJSON(t *testing.T) {
	e := newEnv(t)

	w := e.do("POST", "/v1/contacts", e.contactBody("Ana", "Lima"), nil)
	require.Equal(t, 201, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, true, got["show"])
	assert.Equal(t, "", got["picture"])
	assert.Equal(t, "Colega", got["category"].(map[string]any)["name"])

	id := int(got["id"].(float64))
	w = e.do("GET", "/v1/contacts/"+itoa(id), nil, nil)
	assert.Equal(t, 200, w.Code)
}

func TestCreateContactValidation(t *testing.T) {
	e := newEnv(t)

	w := e.do("POST", "/v1/contacts", e.contactBody("Rui", "Rui"), nil)
	require.Equal(t, 422, w.Code)
	got := decode(t, w)
	assert.Equal(t, "validation_failed", got["error"])
	errs := got["errors"].(map[string]any)
	assert.Equal(t, []any{"Last name cannot be the same as first name."}, errs["last_name"])

	body := e.contactBody("ABC", "Lima")
	body["category"] = 999
	w = e.do("POST", "/v1/contacts", body, nil)
	require.Equal(t, 422, w.Code)
	errs = decode(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "first_name")
	assert.Contains(t, errs, "category")
}

func TestCreateContactSchema(t *testing.T) {
	e := newEnv(t)

	w := e.do("POST", "/v1/contacts", `{"first_name": 3}`, nil)
	assert.Equal(t, 422, w.Code)
	assert.Equal(t, "schema_invalid", decode(t, w)["error"])

	w = e.do("POST", "/v1/contacts", `{not json`, nil)
	assert.Equal(t, 400, w.Code)
}

func multipartContact(t *testing.T, fields map[string]string, picture []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if picture != nil {
		fw, err := mw.CreateFormFile("picture", "face.png")
		require.NoError(t, err)
		_, err = fw.Write(picture)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateContactMultipartWithPicture(t *testing.T) {
	e := newEnv(t)
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 3, 3))))

	body, ct := multipartContact(t, map[string]string{
		"first_name": "Bia", "last_name": "Souza", "phone": "1", "email": "bia@example.com",
		"category": itoa(int(e.cat.ID)),
	}, img.Bytes())
	w := e.do("POST", "/v1/contacts", body.String(), map[string]string{"Content-Type": ct})
	require.Equal(t, 201, w.Code, w.Body.String())

	pic := decode(t, w)["picture"].(string)
	assert.True(t, strings.HasPrefix(pic, "picture/"))
	_, err := os.Stat(filepath.Join(e.cfg.MediaRoot, filepath.FromSlash(pic)))
	assert.NoError(t, err)

	w = e.do("GET", "/media/"+pic, nil, nil)
	assert.Equal(t, 200, w.Code)
}

func TestCreateContactMultipartRejectsNonImage(t *testing.T) {
	e := newEnv(t)
	body, ct := multipartContact(t, map[string]string{
		"first_name": "Bia", "last_name": "Souza", "phone": "1", "email": "bia@example.com",
		"category": itoa(int(e.cat.ID)),
	}, []byte("definitely not an image"))
	w := e.do("POST", "/v1/contacts", body.String(), map[string]string{"Content-Type": ct})
	require.Equal(t, 422, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "picture")

	body, ct = multipartContact(t, map[string]string{"first_name": "Bia", "category": "abc"}, nil)
	w = e.do("POST", "/v1/contacts", body.String(), map[string]string{"Content-Type": ct})
	require.Equal(t, 422, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "category")
}

func TestHiddenContactsArePrivate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	hidden := models.NewContact()
	hidden.FirstName, hidden.LastName, hidden.Phone, hidden.Email = "Hid", "Den", "1", "h@x.com"
	hidden.CategoryID = e.cat.ID
	hidden.Show = false
	require.NoError(t, e.store.SaveContact(ctx, hidden))

	w := e.do("POST", "/v1/contacts", e.contactBody("Ana", "Lima"), nil)
	require.Equal(t, 201, w.Code)

	w = e.do("GET", "/v1/contacts", nil, nil)
	require.Equal(t, 200, w.Code)
	got := decode(t, w)
	assert.Equal(t, float64(1), got["total"])

	path := "/v1/contacts/" + itoa(int(hidden.ID))
	assert.Equal(t, 404, e.do("GET", path, nil, nil).Code)
	assert.Equal(t, 404, e.do("DELETE", path, nil, nil).Code)
	assert.Equal(t, 200, e.admin("GET", "/admin/contacts/"+itoa(int(hidden.ID)), nil).Code)
}

func TestListContactsSearchAndPaging(t *testing.T) {
	e := newEnv(t)
	for _, n := range []string{"Ana", "Bruno", "Carla", "Davi", "Eva", "Fabio", "Gil", "Hugo", "Ines", "Joana", "Kaique", "Lara"} {
		w := e.do("POST", "/v1/contacts", e.contactBody(n, "Teixeira"), nil)
		require.Equal(t, 201, w.Code, w.Body.String())
	}

	w := e.do("GET", "/v1/contacts?page=2", nil, nil)
	got := decode(t, w)
	assert.Equal(t, float64(2), got["pages"])
	assert.Len(t, got["contacts"], 2)

	w = e.do("GET", "/v1/contacts?page=9", nil, nil)
	got = decode(t, w)
	assert.Equal(t, float64(2), got["page"])

	w = e.do("GET", "/v1/contacts?q=carla", nil, nil)
	got = decode(t, w)
	assert.Equal(t, float64(1), got["total"])
}

func TestUpdateAndDeleteContact(t *testing.T) {
	e := newEnv(t)
	w := e.do("POST", "/v1/contacts", e.contactBody("Ana", "Lima"), nil)
	require.Equal(t, 201, w.Code)
	path := "/v1/contacts/" + itoa(int(decode(t, w)["id"].(float64)))

	w = e.do("PUT", path, e.contactBody("Ana", "Moraes"), nil)
	require.Equal(t, 200, w.Code, w.Body.String())
	assert.Equal(t, "Moraes", decode(t, w)["last_name"])

	w = e.do("PUT", path, e.contactBody("Ana", "Ana"), nil)
	assert.Equal(t, 422, w.Code)

	assert.Equal(t, 200, e.do("DELETE", path, nil, nil).Code)
	assert.Equal(t, 404, e.do("GET", path, nil, nil).Code)
	assert.Equal(t, 400, e.do("GET", "/v1/contacts/abc", nil, nil).Code)
}

func registration() map[string]any {
	return map[string]any{
		"first_name": "Marina",
		"last_name":  "Costa",
		"email":      "marina@example.com",
		"username":   "marina",
		"password1":  "violet-Harbor-42",
		"password2":  "violet-Harbor-42",
	}
}

func TestRegisterAndUpdateUser(t *testing.T) {
	e := newEnv(t)

	w := e.do("POST", "/v1/auth/register", registration(), nil)
	require.Equal(t, 201, w.Code, w.Body.String())
	user := decode(t, w)
	assert.NotContains(t, user, "password_hash")
	path := "/v1/users/" + itoa(int(user["id"].(float64)))

	w = e.do("POST", "/v1/auth/register", registration(), nil)
	require.Equal(t, 422, w.Code)
	errs := decode(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "username")

	update := map[string]any{
		"first_name": "Marina", "last_name": "Souza", "email": "marina@example.com", "username": "marina",
	}
	w = e.do("PUT", path+"?commit=false", update, nil)
	require.Equal(t, 200, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, false, got["committed"])
	assert.Equal(t, "Souza", got["user"].(map[string]any)["last_name"])

	w = e.do("GET", path, nil, nil)
	assert.Equal(t, "Costa", decode(t, w)["last_name"])

	update["password1"], update["password2"] = "amber-Canyon-77", "amber-Canyon-78"
	w = e.do("PUT", path, update, nil)
	require.Equal(t, 422, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "password2")

	update["password2"] = "amber-Canyon-77"
	w = e.do("PUT", path, update, nil)
	require.Equal(t, 200, w.Code, w.Body.String())
	w = e.do("GET", path, nil, nil)
	assert.Equal(t, "Souza", decode(t, w)["last_name"])

	assert.Equal(t, 404, e.do("GET", "/v1/users/999", nil, nil).Code)
}

func TestAdminRequiresBearer(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, 401, e.do("GET", "/admin/contacts", nil, nil).Code)
	assert.Equal(t, 401, e.do("GET", "/admin/contacts", nil, map[string]string{"Authorization": "Bearer nope"}).Code)
	assert.Equal(t, 401, e.do("GET", "/admin/contacts", nil, map[string]string{"Authorization": "Token s3cret"}).Code)
	assert.Equal(t, 200, e.admin("GET", "/admin/contacts", nil).Code)
}

func TestAdminBypassesForms(t *testing.T) {
	e := newEnv(t)

	body := e.contactBody("ABC", "ABC")
	body["show"] = false
	w := e.admin("POST", "/admin/contacts", body)
	require.Equal(t, 201, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, false, created["show"])
	id := itoa(int(created["id"].(float64)))

	body["category"] = 999
	assert.Equal(t, 400, e.admin("PUT", "/admin/contacts/"+id, body).Code)

	w = e.admin("PATCH", "/admin/contacts", map[string]any{"changes": map[string]any{id: map[string]any{"show": true}}})
	require.Equal(t, 200, w.Code, w.Body.String())
	assert.Equal(t, 200, e.do("GET", "/v1/contacts/"+id, nil, nil).Code)

	w = e.admin("PATCH", "/admin/contacts", map[string]any{"changes": map[string]any{id: map[string]any{"email": "x@y.z"}}})
	assert.Equal(t, 400, w.Code)

	w = e.admin("GET", "/admin/contacts?q=abc", nil)
	require.Equal(t, 200, w.Code)
	cl := decode(t, w)
	assert.Equal(t, float64(1), cl["total"])
	assert.Equal(t, []any{"id", "first_name", "last_name", "email", "phone", "show"}, cl["columns"])

	assert.Equal(t, 404, e.admin("GET", "/admin/contacts?page=5", nil).Code)
	assert.Equal(t, 200, e.admin("DELETE", "/admin/contacts/"+id, nil).Code)
}

func TestAdminCategories(t *testing.T) {
	e := newEnv(t)

	w := e.admin("POST", "/admin/categories", map[string]any{"name": "Família"})
	require.Equal(t, 201, w.Code)
	id := itoa(int(decode(t, w)["id"].(float64)))

	w = e.admin("PUT", "/admin/categories/"+id, map[string]any{"name": "Familia"})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "Familia", decode(t, w)["name"])

	w = e.admin("GET", "/admin/categories", nil)
	require.Equal(t, 200, w.Code)
	assert.Len(t, decode(t, w)["rows"], 2)

	assert.Equal(t, 422, e.admin("POST", "/admin/categories", map[string]any{"name": ""}).Code)

	require.Equal(t, 201, e.do("POST", "/v1/contacts", e.contactBody("Ana", "Lima"), nil).Code)
	assert.Equal(t, 409, e.admin("DELETE", "/admin/categories/"+itoa(int(e.cat.ID)), nil).Code)
	assert.Equal(t, 200, e.admin("DELETE", "/admin/categories/"+id, nil).Code)
	assert.Equal(t, 404, e.admin("DELETE", "/admin/categories/"+id, nil).Code)
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{MediaRoot: t.TempDir(), BcryptCost: bcrypt.MinCost}
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := NewServer(cfg, Deps{Store: store.New(testutil.NewDB(t)), Log: log})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/categories", nil))
	assert.Equal(t, 403, w.Code)
}

func TestOverlongPasswordIsAFieldError(t *testing.T) {
	e := newEnv(t)
	long := "violet-Harbor-42-" + strings.Repeat("x", 70)

	body := registration()
	body["password1"], body["password2"] = long, long
	w := e.do("POST", "/v1/auth/register", body, nil)
	require.Equal(t, 422, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["errors"], "password2")

	w = e.do("POST", "/v1/auth/register", registration(), nil)
	require.Equal(t, 201, w.Code, w.Body.String())
	path := "/v1/users/" + itoa(int(decode(t, w)["id"].(float64)))

	update := map[string]any{
		"first_name": "Marina", "last_name": "Costa", "email": "marina@example.com", "username": "marina",
		"password1": long, "password2": long,
	}
	w = e.do("PUT", path, update, nil)
	require.Equal(t, 422, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["errors"], "password1")
}
