package checklist

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aethra/sitecheck/internal/models"
)

// newTestDB opens an in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	// sqlite has no array type, so the audit table is created by hand with
	// a plain text column for the changed-fields list
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

	return db
}

// fixture wires a service with one project and one two-section template
type fixture struct {
	svc      *Service
	db       *gorm.DB
	operator uuid.UUID
	project  *models.Project
	template *models.ChecklistTemplate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	svc := NewService(db)

	project, err := svc.CreateProject(ProjectInput{Code: "ATH-01", Name: "Athens Metro Extension"})
	require.NoError(t, err)

	template, err := svc.CreateTemplate(TemplateInput{
		Name:          "Daily Safety Walk",
		NameLocalized: "Καθημερινός Έλεγχος Ασφαλείας",
		Level:         models.LevelProject,
		GroupName:     "safety",
		SubSections: []SubSectionInput{
			{
				Name:          "Site Access",
				NameLocalized: "Πρόσβαση Εργοταξίου",
				Order:         1,
				Items: []ItemInput{
					{Name: "Gates secured", NameLocalized: "Ασφαλισμένες πύλες", Order: 1, ItemType: "checkbox", IsRequired: true},
					{Name: "Signage visible", NameLocalized: "Ορατή σήμανση", Order: 2, ItemType: "checkbox"},
				},
			},
			{
				Name:          "Equipment",
				NameLocalized: "Εξοπλισμός",
				Order:         2,
				Items: []ItemInput{
					{Name: "Crane inspection log", NameLocalized: "Ημερολόγιο ελέγχου γερανού", Order: 1, ItemType: "text", MustNote: true},
				},
			},
		},
	})
	require.NoError(t, err)

	return &fixture{
		svc:      svc,
		db:       db,
		operator: uuid.New(),
		project:  project,
		template: template,
	}
}

// item returns the item at the given section/item position of the fixture
// template, both zero-based
func (f *fixture) item(section, item int) models.ChecklistItemTemplate {
	return f.template.SubSections[section].Items[item]
}

// newInstance creates a draft instance of the fixture template
func (f *fixture) newInstance(t *testing.T) *models.ChecklistInstance {
	t.Helper()
	inst, err := f.svc.CreateInstance(f.project.ID, f.template.ID, nil, f.operator)
	require.NoError(t, err)
	return inst
}
