package controller

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"testing"
	"time"

	"estatedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeadApp(t *testing.T) (*testEnv, *models.User) {
	t.Helper()
	env := newTestEnv(t)

	admin := &models.User{
		Email:        "admin@example.com",
		PasswordHash: "x",
		Name:         "Admin",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, env.DB.Create(admin).Error)

	lc := NewLeadController(env.DB, env.Scheduler, env.Notifier, log.New(io.Discard, "", 0))
	group := env.App.Group("/leads", asUser(admin))
	group.Post("/", lc.CreateLead)
	group.Delete("/:id", lc.DeleteLead)
	group.Post("/:id/follow-ups", lc.AddFollowUp)
	group.Patch("/:id/follow-ups/:followUpId/complete", lc.CompleteFollowUp)

	return env, admin
}

func TestCreateLeadManually(t *testing.T) {
	env, _ := newLeadApp(t)

	resp, err := env.App.Test(jsonRequest(t, http.MethodPost, "/leads/", map[string]interface{}{
		"name":  "Manual Entry",
		"email": "manual@example.com",
		"phone": "+971501234567",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var lead models.Lead
	require.NoError(t, env.DB.First(&lead).Error)
	assert.Equal(t, models.LeadSourceManual, lead.Source)
	assert.Equal(t, models.PriorityMedium, lead.Priority)
	require.NotNil(t, lead.NextFollowUpAt)
}

func TestCompleteFollowUpEndpoint(t *testing.T) {
	env, admin := newLeadApp(t)

	lead := &models.Lead{Name: "Pipeline Lead", Email: "p@example.com", Phone: "+12345678901"}
	require.NoError(t, env.DB.Create(lead).Error)

	followUp := &models.FollowUp{
		LeadID: lead.ID,
		DueAt:  time.Now().Add(time.Hour),
		Type:   models.FollowUpTypeCall,
		Title:  "Call back",
	}
	require.NoError(t, env.DB.Create(followUp).Error)

	path := fmt.Sprintf("/leads/%d/follow-ups/%d/complete", lead.ID, followUp.ID)

	resp, err := env.App.Test(jsonRequest(t, http.MethodPatch, path, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var done models.FollowUp
	require.NoError(t, env.DB.First(&done, followUp.ID).Error)
	require.NotNil(t, done.CompletedAt)
	require.NotNil(t, done.CompletedByID)
	assert.Equal(t, admin.ID, *done.CompletedByID)

	// Re-completing is a conflict, not a silent overwrite
	resp, err = env.App.Test(jsonRequest(t, http.MethodPatch, path, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Unknown follow-up under a real lead
	resp, err = env.App.Test(jsonRequest(t, http.MethodPatch, fmt.Sprintf("/leads/%d/follow-ups/9999/complete", lead.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddFollowUpEndpoint(t *testing.T) {
	env, _ := newLeadApp(t)

	lead := &models.Lead{Name: "Busy Lead", Email: "b@example.com", Phone: "+12345678901"}
	require.NoError(t, env.DB.Create(lead).Error)

	resp, err := env.App.Test(jsonRequest(t, http.MethodPost, fmt.Sprintf("/leads/%d/follow-ups", lead.ID), map[string]interface{}{
		"due_at": time.Now().Add(3 * time.Hour).Format(time.RFC3339),
		"title":  "Site visit",
		"type":   "site_visit",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var reloaded models.Lead
	require.NoError(t, env.DB.First(&reloaded, lead.ID).Error)
	require.NotNil(t, reloaded.NextFollowUpAt)

	// Missing due_at
	resp, err = env.App.Test(jsonRequest(t, http.MethodPost, fmt.Sprintf("/leads/%d/follow-ups", lead.ID), map[string]interface{}{
		"title": "No date",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown lead
	resp, err = env.App.Test(jsonRequest(t, http.MethodPost, "/leads/9999/follow-ups", map[string]interface{}{
		"due_at": time.Now().Add(time.Hour).Format(time.RFC3339),
		"title":  "Ghost",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteLeadEndpoint(t *testing.T) {
	env, _ := newLeadApp(t)

	lead := &models.Lead{Name: "Gone Lead", Email: "g@example.com", Phone: "+12345678901"}
	require.NoError(t, env.DB.Create(lead).Error)
	require.NoError(t, env.DB.Create(&models.FollowUp{
		LeadID: lead.ID,
		DueAt:  time.Now().Add(time.Hour),
		Title:  "Orphaned otherwise",
	}).Error)

	resp, err := env.App.Test(jsonRequest(t, http.MethodDelete, fmt.Sprintf("/leads/%d", lead.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var followUpCount int64
	env.DB.Unscoped().Model(&models.FollowUp{}).Where("lead_id = ?", lead.ID).Count(&followUpCount)
	assert.Zero(t, followUpCount)

	resp, err = env.App.Test(jsonRequest(t, http.MethodDelete, fmt.Sprintf("/leads/%d", lead.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
