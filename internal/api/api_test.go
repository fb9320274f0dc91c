package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aethra/sitecheck/internal/auth"
	"github.com/aethra/sitecheck/internal/checklist"
	"github.com/aethra/sitecheck/internal/config"
	"github.com/aethra/sitecheck/internal/models"
	"github.com/aethra/sitecheck/internal/seed"
)

type testEnv struct {
	router   *gin.Engine
	svc      *checklist.Service
	identity *auth.IdentityService
	operator uuid.UUID
	project  *models.Project
	template *models.ChecklistTemplate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Project{},
		&models.ConstructionArea{},
		&models.ChecklistTemplate{},
		&models.ChecklistSubSection{},
		&models.ChecklistItemTemplate{},
		&models.ChecklistInstance{},
		&models.ChecklistItemResponse{},
	))
	require.NoError(t, db.Exec(`CREATE TABLE instance_events (
		id TEXT PRIMARY KEY,
		instance_id TEXT NOT NULL,
		actor TEXT NOT NULL,
		action TEXT NOT NULL,
		from_status TEXT,
		to_status TEXT,
		changed_fields TEXT,
		created_at DATETIME
	)`).Error)

	svc := checklist.NewService(db)
	identity := auth.NewIdentityService("test-secret")
	handler := NewHandler(svc, seed.NewImporter(db), identity, "seed/checklists.xlsx")
	router := SetupRouter(handler, &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	})

	project, err := svc.CreateProject(checklist.ProjectInput{Code: "ATH-01", Name: "Athens Metro Extension"})
	require.NoError(t, err)
	template, err := svc.CreateTemplate(checklist.TemplateInput{
		Name:          "Daily Safety Walk",
		NameLocalized: "Έλεγχος Ασφαλείας",
		Level:         models.LevelProject,
		SubSections: []checklist.SubSectionInput{
			{Name: "Site Access", NameLocalized: "Πρόσβαση", Order: 1, Items: []checklist.ItemInput{
				{Name: "Gates secured", NameLocalized: "Πύλες", Order: 1},
			}},
		},
	})
	require.NoError(t, err)

	return &testEnv{
		router:   router,
		svc:      svc,
		identity: identity,
		operator: uuid.New(),
		project:  project,
		template: template,
	}
}

func (e *testEnv) do(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("X-User-ID", e.operator.String())
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/api/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestMutatingEndpointsRequireIdentity(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodPost, "/api/projects", checklist.ProjectInput{Code: "X", Name: "Y"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Reads stay open
	w = e.do(http.MethodGet, "/api/templates", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerTokenIdentity(t *testing.T) {
	e := newTestEnv(t)

	token, err := e.identity.MintToken(uuid.New(), "Site Engineer")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString(`{"code":"THE-02","name":"Thessaloniki Port"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString(`{"code":"Z","name":"Z"}`))
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTemplatePayloadShape(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/api/templates/"+e.template.ID.String(), nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"nameLocalized"`)
	assert.Contains(t, body, `"subSections"`)
	assert.Contains(t, body, `"isRequired"`)
	assert.NotContains(t, body, `"name_localized"`)
	assert.NotContains(t, body, `"sub_sections"`)
}

func TestInstanceLifecycleOverHTTP(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodPost, "/api/instances", gin.H{
		"projectId":  e.project.ID,
		"templateId": e.template.ID,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var inst models.ChecklistInstance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inst))
	assert.Equal(t, models.StatusDraft, inst.Status)

	itemID := e.template.SubSections[0].Items[0].ID
	path := fmt.Sprintf("/api/instances/%s/responses/%s", inst.ID, itemID)

	w = e.do(http.MethodPut, path, gin.H{"value": "ok", "completed": true}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ChecklistItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Second write lands on the same row
	w = e.do(http.MethodPut, path, gin.H{"value": "redone", "completed": false}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var again models.ChecklistItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, resp.ID, again.ID)
	assert.Equal(t, "redone", again.ResponseValue)

	w = e.do(http.MethodPost, "/api/instances/"+inst.ID.String()+"/status", gin.H{"status": "completed"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/api/instances/"+inst.ID.String()+"/status", gin.H{"status": "draft"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = e.do(http.MethodGet, "/api/instances/"+inst.ID.String()+"/events", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestErrorShapes(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/api/templates/"+uuid.NewString(), nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = e.do(http.MethodGet, "/api/templates/not-a-uuid", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Template referenced by an instance refuses deletion
	_, err := e.svc.CreateInstance(e.project.ID, e.template.ID, nil, e.operator)
	require.NoError(t, err)
	w = e.do(http.MethodDelete, "/api/templates/"+e.template.ID.String(), nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}
