package checklist

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcerr "github.com/aethra/sitecheck/internal/errors"
	"github.com/aethra/sitecheck/internal/models"
)

func TestCreateInstanceStartsInDraft(t *testing.T) {
	f := newFixture(t)

	inst := f.newInstance(t)
	assert.Equal(t, models.StatusDraft, inst.Status)
	assert.Nil(t, inst.CompletedAt)
	assert.Equal(t, f.operator, inst.CreatedBy)

	// The template hierarchy rides along, ordered
	require.NotNil(t, inst.Template)
	require.Len(t, inst.Template.SubSections, 2)
	assert.Equal(t, "Site Access", inst.Template.SubSections[0].Name)

	payload, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"responses":[]`)
	assert.NotContains(t, string(payload), `"responses":null`)
}

func TestCreateInstanceValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateInstance(uuid.New(), f.template.ID, nil, f.operator)
	var ve *svcerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "projectId", ve.Field)

	_, err = f.svc.CreateInstance(f.project.ID, uuid.New(), nil, f.operator)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "templateId", ve.Field)

	_, err = f.svc.CreateInstance(f.project.ID, f.template.ID, nil, uuid.Nil)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "createdBy", ve.Field)
}

func TestCreateInstanceRejectsForeignArea(t *testing.T) {
	f := newFixture(t)

	other, err := f.svc.CreateProject(ProjectInput{Code: "THE-02", Name: "Thessaloniki Port"})
	require.NoError(t, err)
	foreignArea, err := f.svc.CreateArea(other.ID, AreaInput{Name: "Pier 4"})
	require.NoError(t, err)

	_, err = f.svc.CreateInstance(f.project.ID, f.template.ID, &foreignArea.ID, f.operator)
	var ve *svcerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "areaId", ve.Field)

	ownArea, err := f.svc.CreateArea(f.project.ID, AreaInput{Name: "Block A", NameLocalized: "Τομέας Α"})
	require.NoError(t, err)
	inst, err := f.svc.CreateInstance(f.project.ID, f.template.ID, &ownArea.ID, f.operator)
	require.NoError(t, err)
	require.NotNil(t, inst.Area)
	assert.Equal(t, "Block A", inst.Area.Name)
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)

	t.Run("draft to in_progress to completed", func(t *testing.T) {
		inst := f.newInstance(t)

		inst, err := f.svc.TransitionStatus(inst.ID, models.StatusInProgress, f.operator)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, inst.Status)
		assert.Nil(t, inst.CompletedAt)

		inst, err = f.svc.TransitionStatus(inst.ID, models.StatusCompleted, f.operator)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, inst.Status)
		require.NotNil(t, inst.CompletedAt)
	})

	t.Run("draft straight to completed", func(t *testing.T) {
		inst := f.newInstance(t)
		inst, err := f.svc.TransitionStatus(inst.ID, models.StatusCompleted, f.operator)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, inst.Status)
		require.NotNil(t, inst.CompletedAt)
	})

	t.Run("backward and repeated moves are rejected", func(t *testing.T) {
		inst := f.newInstance(t)
		_, err := f.svc.TransitionStatus(inst.ID, models.StatusCompleted, f.operator)
		require.NoError(t, err)

		for _, to := range []models.InstanceStatus{models.StatusDraft, models.StatusInProgress, models.StatusCompleted} {
			_, err := f.svc.TransitionStatus(inst.ID, to, f.operator)
			var ve *svcerr.ValidationError
			require.ErrorAs(t, err, &ve, "completed -> %s must be rejected", to)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		inst := f.newInstance(t)
		_, err := f.svc.TransitionStatus(inst.ID, "archived", f.operator)
		var ve *svcerr.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestTransitionWritesAuditEvent(t *testing.T) {
	f := newFixture(t)
	inst := f.newInstance(t)

	_, err := f.svc.TransitionStatus(inst.ID, models.StatusInProgress, f.operator)
	require.NoError(t, err)

	events, err := f.svc.InstanceEvents(inst.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventStatusChanged, events[0].Action)
	assert.Equal(t, string(models.StatusDraft), events[0].FromStatus)
	assert.Equal(t, string(models.StatusInProgress), events[0].ToStatus)
	assert.Equal(t, f.operator, events[0].Actor)
	assert.Contains(t, []string(events[0].ChangedFields), "status")

	_, err = f.svc.TransitionStatus(inst.ID, models.StatusCompleted, f.operator)
	require.NoError(t, err)

	events, err = f.svc.InstanceEvents(inst.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Contains(t, []string(events[1].ChangedFields), "completed_at")
}

func TestDeleteInstanceRemovesResponsesAndEvents(t *testing.T) {
	f := newFixture(t)
	inst := f.newInstance(t)

	_, err := f.svc.RecordResponse(inst.ID, f.item(0, 0).ID, "ok", true, nil, f.operator)
	require.NoError(t, err)
	_, err = f.svc.TransitionStatus(inst.ID, models.StatusInProgress, f.operator)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteInstance(inst.ID))

	_, err = f.svc.GetInstance(inst.ID)
	var nf *svcerr.NotFoundError
	require.ErrorAs(t, err, &nf)

	var responses, events int64
	f.db.Model(&models.ChecklistItemResponse{}).Where("instance_id = ?", inst.ID).Count(&responses)
	f.db.Model(&models.InstanceEvent{}).Where("instance_id = ?", inst.ID).Count(&events)
	assert.Zero(t, responses)
	assert.Zero(t, events)
}

func TestListInstances(t *testing.T) {
	f := newFixture(t)

	instances, err := f.svc.ListInstances(f.project.ID)
	require.NoError(t, err)
	assert.NotNil(t, instances)
	assert.Empty(t, instances)

	f.newInstance(t)
	f.newInstance(t)

	instances, err = f.svc.ListInstances(f.project.ID)
	require.NoError(t, err)
	assert.Len(t, instances, 2)
}
