package utils

import (
	"fmt"
	"testing"
	"time"

	"estatedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestScheduler(t *testing.T) (*FollowUpScheduler, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewFollowUpScheduler(db, nil, nil), db
}

func reloadLead(t *testing.T, db *gorm.DB, id uint) *models.Lead {
	t.Helper()
	var lead models.Lead
	require.NoError(t, db.First(&lead, id).Error)
	return &lead
}

func TestCreateLeadWithFirstFollowUp(t *testing.T) {
	s, db := newTestScheduler(t)

	lead := &models.Lead{
		Name:   "Asha Verma",
		Email:  "asha@example.com",
		Phone:  "+12345678901",
		Source: models.LeadSourcePropertyDetail,
	}
	require.NoError(t, s.CreateLeadWithFirstFollowUp(lead))
	require.NotZero(t, lead.ID)

	require.NotNil(t, lead.NextFollowUpAt)
	assert.WithinDuration(t, time.Now().Add(FirstFollowUpDelay), *lead.NextFollowUpAt, 5*time.Second)

	var followUps []models.FollowUp
	require.NoError(t, db.Where("lead_id = ?", lead.ID).Find(&followUps).Error)
	require.Len(t, followUps, 1)
	assert.Equal(t, models.FollowUpTypeCall, followUps[0].Type)
	assert.Equal(t, "First follow-up with Asha Verma", followUps[0].Title)
	assert.True(t, followUps[0].DueAt.Equal(*lead.NextFollowUpAt))
}

func TestAddFollowUpRecomputesPointer(t *testing.T) {
	s, db := newTestScheduler(t)
	lead := createTestLead(t, db, "Pointer Lead")

	later := time.Now().Add(48 * time.Hour)
	_, err := s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: later, Title: "Later call"})
	require.NoError(t, err)

	got := reloadLead(t, db, lead.ID)
	require.NotNil(t, got.NextFollowUpAt)
	assert.WithinDuration(t, later, *got.NextFollowUpAt, time.Second)

	// An earlier follow-up pulls the pointer forward
	sooner := time.Now().Add(2 * time.Hour)
	_, err = s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: sooner, Title: "Sooner call"})
	require.NoError(t, err)

	got = reloadLead(t, db, lead.ID)
	require.NotNil(t, got.NextFollowUpAt)
	assert.WithinDuration(t, sooner, *got.NextFollowUpAt, time.Second)

	// A later one leaves it alone
	_, err = s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(72 * time.Hour), Title: "Much later"})
	require.NoError(t, err)

	got = reloadLead(t, db, lead.ID)
	require.NotNil(t, got.NextFollowUpAt)
	assert.WithinDuration(t, sooner, *got.NextFollowUpAt, time.Second)
}

func TestAddFollowUpValidation(t *testing.T) {
	s, db := newTestScheduler(t)
	lead := createTestLead(t, db, "Validation Lead")

	_, err := s.AddFollowUp(lead.ID, AddFollowUpInput{Title: "No due date"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(time.Hour)})
	require.ErrorAs(t, err, &vErr)

	_, err = s.AddFollowUp(9999, AddFollowUpInput{DueAt: time.Now().Add(time.Hour), Title: "Ghost"})
	require.ErrorIs(t, err, ErrLeadNotFound)

	// Type defaults to call when omitted
	followUp, err := s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(time.Hour), Title: "Default type"})
	require.NoError(t, err)
	assert.Equal(t, models.FollowUpTypeCall, followUp.Type)
}

func TestCompleteFollowUp(t *testing.T) {
	s, db := newTestScheduler(t)
	lead := createTestLead(t, db, "Completion Lead")
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin, true)

	first, err := s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(2 * time.Hour), Title: "First"})
	require.NoError(t, err)
	second, err := s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(48 * time.Hour), Title: "Second"})
	require.NoError(t, err)

	// Completing the earliest moves the pointer to the remaining one
	done, err := s.CompleteFollowUp(lead.ID, first.ID, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	require.NotNil(t, done.CompletedByID)
	assert.Equal(t, admin.ID, *done.CompletedByID)

	got := reloadLead(t, db, lead.ID)
	require.NotNil(t, got.NextFollowUpAt)
	assert.WithinDuration(t, second.DueAt, *got.NextFollowUpAt, time.Second)

	// Completion is one-way
	_, err = s.CompleteFollowUp(lead.ID, first.ID, admin.ID)
	require.ErrorIs(t, err, ErrFollowUpCompleted)

	// Completing the last one clears the pointer
	_, err = s.CompleteFollowUp(lead.ID, second.ID, admin.ID)
	require.NoError(t, err)

	got = reloadLead(t, db, lead.ID)
	assert.Nil(t, got.NextFollowUpAt)
}

func TestCompleteFollowUpNotFound(t *testing.T) {
	s, db := newTestScheduler(t)
	lead := createTestLead(t, db, "Lookup Lead")
	other := createTestLead(t, db, "Other Lead")

	followUp, err := s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(time.Hour), Title: "Mine"})
	require.NoError(t, err)

	_, err = s.CompleteFollowUp(lead.ID, 9999, 1)
	require.ErrorIs(t, err, ErrFollowUpNotFound)

	// A follow-up is only addressable under its own lead
	_, err = s.CompleteFollowUp(other.ID, followUp.ID, 1)
	require.ErrorIs(t, err, ErrFollowUpNotFound)
}

func TestDeleteLeadCascades(t *testing.T) {
	s, db := newTestScheduler(t)
	lead := createTestLead(t, db, "Doomed Lead")

	_, err := s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(time.Hour), Title: "One"})
	require.NoError(t, err)
	_, err = s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(2 * time.Hour), Title: "Two"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteLead(lead.ID))

	var leadCount, followUpCount int64
	db.Unscoped().Model(&models.Lead{}).Where("id = ?", lead.ID).Count(&leadCount)
	db.Unscoped().Model(&models.FollowUp{}).Where("lead_id = ?", lead.ID).Count(&followUpCount)
	assert.Zero(t, leadCount)
	assert.Zero(t, followUpCount)

	require.ErrorIs(t, s.DeleteLead(lead.ID), ErrLeadNotFound)
}

func TestListAlertsWindowing(t *testing.T) {
	s, db := newTestScheduler(t)
	now := time.Now()

	overdue := createTestLead(t, db, "Overdue")
	require.NoError(t, db.Model(overdue).Update("next_follow_up_at", now.Add(-time.Hour)).Error)

	upcoming := createTestLead(t, db, "Upcoming")
	require.NoError(t, db.Model(upcoming).Update("next_follow_up_at", now.Add(23*time.Hour)).Error)

	distant := createTestLead(t, db, "Distant")
	require.NoError(t, db.Model(distant).Update("next_follow_up_at", now.Add(25*time.Hour)).Error)

	createTestLead(t, db, "No pointer")

	alerts, err := s.ListAlerts("")
	require.NoError(t, err)

	require.Len(t, alerts.OverdueLeads, 1)
	assert.Equal(t, overdue.ID, alerts.OverdueLeads[0].ID)
	require.Len(t, alerts.UpcomingLeads, 1)
	assert.Equal(t, upcoming.ID, alerts.UpcomingLeads[0].ID)
}

func TestListAlertsAssigneeFilter(t *testing.T) {
	s, db := newTestScheduler(t)
	agent := createTestUser(t, db, "agent@example.com", models.RoleAgent, true)
	now := time.Now()

	mine := createTestLead(t, db, "Mine")
	require.NoError(t, db.Model(mine).Updates(map[string]interface{}{
		"next_follow_up_at": now.Add(-time.Hour),
		"assigned_to_id":    agent.ID,
	}).Error)

	orphan := createTestLead(t, db, "Orphan")
	require.NoError(t, db.Model(orphan).Update("next_follow_up_at", now.Add(-time.Hour)).Error)

	alerts, err := s.ListAlerts("unassigned")
	require.NoError(t, err)
	require.Len(t, alerts.OverdueLeads, 1)
	assert.Equal(t, orphan.ID, alerts.OverdueLeads[0].ID)

	alerts, err = s.ListAlerts(fmt.Sprint(agent.ID))
	require.NoError(t, err)
	require.Len(t, alerts.OverdueLeads, 1)
	assert.Equal(t, mine.ID, alerts.OverdueLeads[0].ID)
}

func TestSendDueRemindersIdempotent(t *testing.T) {
	s, db := newTestScheduler(t)
	lead := createTestLead(t, db, "Reminder Lead")

	due, err := s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(time.Hour), Title: "Due soon"})
	require.NoError(t, err)
	_, err = s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(72 * time.Hour), Title: "Far out"})
	require.NoError(t, err)

	sent, err := s.SendDueReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	var stamped models.FollowUp
	require.NoError(t, db.First(&stamped, due.ID).Error)
	assert.NotNil(t, stamped.EmailReminderSentAt)

	// A second pass finds nothing left to dispatch
	sent, err = s.SendDueReminders()
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSendDueRemindersSkipsCompleted(t *testing.T) {
	s, db := newTestScheduler(t)
	lead := createTestLead(t, db, "Completed Lead")
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin, true)

	followUp, err := s.AddFollowUp(lead.ID, AddFollowUpInput{DueAt: time.Now().Add(time.Hour), Title: "Handled"})
	require.NoError(t, err)
	_, err = s.CompleteFollowUp(lead.ID, followUp.ID, admin.ID)
	require.NoError(t, err)

	sent, err := s.SendDueReminders()
	require.NoError(t, err)
	assert.Zero(t, sent)
}
