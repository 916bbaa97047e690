package utils

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"estatedesk/models"

	"gorm.io/gorm"
)

const (
	// FirstFollowUpDelay is how far out the auto-scheduled first follow-up
	// for a fresh lead is due
	FirstFollowUpDelay = 24 * time.Hour

	// AlertWindow bounds how far ahead due-soon detection looks
	AlertWindow = 24 * time.Hour
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrFollowUpNotFound  = errors.New("follow-up not found")
	ErrFollowUpCompleted = errors.New("follow-up already completed")
)

// ValidationError marks a caller mistake that must be reported before any write
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// FollowUpScheduler owns follow-up task records and keeps each lead's
// next_follow_up_at pointer equal to the earliest due_at among its incomplete
// follow-ups. Pointer recomputation is serialized per lead so concurrent
// add/complete calls against the same lead cannot race the cached value.
type FollowUpScheduler struct {
	DB       *gorm.DB
	Notifier *Notifier
	Logger   *log.Logger

	mu        sync.Mutex
	leadLocks map[uint]*sync.Mutex
}

func NewFollowUpScheduler(db *gorm.DB, notifier *Notifier, logger *log.Logger) *FollowUpScheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &FollowUpScheduler{
		DB:        db,
		Notifier:  notifier,
		Logger:    logger,
		leadLocks: make(map[uint]*sync.Mutex),
	}
}

func (s *FollowUpScheduler) lockLead(leadID uint) *sync.Mutex {
	s.mu.Lock()
	lock, ok := s.leadLocks[leadID]
	if !ok {
		lock = &sync.Mutex{}
		s.leadLocks[leadID] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock
}

// AddFollowUpInput is the caller-supplied shape for a new follow-up task
type AddFollowUpInput struct {
	DueAt time.Time
	Type  string
	Title string
	Notes string
}

// AddFollowUp creates a follow-up under the given lead and recomputes the
// lead's next-due pointer
func (s *FollowUpScheduler) AddFollowUp(leadID uint, input AddFollowUpInput) (*models.FollowUp, error) {
	if input.DueAt.IsZero() {
		return nil, &ValidationError{Msg: "due_at is required"}
	}
	if input.Title == "" {
		return nil, &ValidationError{Msg: "title is required"}
	}
	if input.Type == "" {
		input.Type = models.FollowUpTypeCall
	}

	var lead models.Lead
	if err := s.DB.First(&lead, leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	lock := s.lockLead(leadID)
	defer lock.Unlock()

	followUp := models.FollowUp{
		LeadID: leadID,
		DueAt:  input.DueAt,
		Type:   input.Type,
		Title:  input.Title,
		Notes:  input.Notes,
	}
	if err := s.DB.Create(&followUp).Error; err != nil {
		return nil, err
	}

	if err := s.recomputeNextFollowUp(s.DB, leadID); err != nil {
		return nil, err
	}

	return &followUp, nil
}

// CompleteFollowUp marks a follow-up done and recomputes the owning lead's
// pointer. Completion is one-way: completing an already-completed follow-up
// is rejected with ErrFollowUpCompleted.
func (s *FollowUpScheduler) CompleteFollowUp(leadID, followUpID, completedBy uint) (*models.FollowUp, error) {
	var followUp models.FollowUp
	if err := s.DB.Where("id = ? AND lead_id = ?", followUpID, leadID).First(&followUp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFollowUpNotFound
		}
		return nil, err
	}

	if followUp.IsCompleted() {
		return nil, ErrFollowUpCompleted
	}

	lock := s.lockLead(leadID)
	defer lock.Unlock()

	now := time.Now()
	followUp.CompletedAt = &now
	followUp.CompletedByID = &completedBy
	if err := s.DB.Model(&followUp).Updates(map[string]interface{}{
		"completed_at":    now,
		"completed_by_id": completedBy,
	}).Error; err != nil {
		return nil, err
	}

	if err := s.recomputeNextFollowUp(s.DB, leadID); err != nil {
		return nil, err
	}

	return &followUp, nil
}

// CreateLeadWithFirstFollowUp persists a fresh lead together with its
// auto-scheduled first follow-up (a call, due in 24 hours) in one transaction
func (s *FollowUpScheduler) CreateLeadWithFirstFollowUp(lead *models.Lead) error {
	dueAt := time.Now().Add(FirstFollowUpDelay)
	lead.NextFollowUpAt = &dueAt

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lead).Error; err != nil {
			return err
		}
		followUp := models.FollowUp{
			LeadID: lead.ID,
			DueAt:  dueAt,
			Type:   models.FollowUpTypeCall,
			Title:  "First follow-up with " + lead.Name,
		}
		return tx.Create(&followUp).Error
	})
}

// DeleteLead removes a lead and every follow-up bound to it in a single
// transaction, so no dangling lead_id references survive
func (s *FollowUpScheduler) DeleteLead(leadID uint) error {
	var lead models.Lead
	if err := s.DB.First(&lead, leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeadNotFound
		}
		return err
	}

	lock := s.lockLead(leadID)
	defer lock.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("lead_id = ?", leadID).Delete(&models.FollowUp{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&lead).Error
	})
}

// recomputeNextFollowUp writes the earliest due_at among the lead's
// incomplete follow-ups to the lead, or NULL when none remain
func (s *FollowUpScheduler) recomputeNextFollowUp(db *gorm.DB, leadID uint) error {
	var next models.FollowUp
	err := db.Where("lead_id = ? AND completed_at IS NULL", leadID).
		Order("due_at ASC").
		First(&next).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Model(&models.Lead{}).Where("id = ?", leadID).
			Update("next_follow_up_at", nil).Error
	}
	if err != nil {
		return err
	}

	return db.Model(&models.Lead{}).Where("id = ?", leadID).
		Update("next_follow_up_at", next.DueAt).Error
}

// Alerts partitions leads by how urgent their next follow-up is and lists the
// raw follow-up tasks due inside the window
type Alerts struct {
	OverdueLeads  []models.Lead     `json:"overdue_leads"`
	UpcomingLeads []models.Lead     `json:"upcoming_leads"`
	FollowUpsDue  []models.FollowUp `json:"follow_ups_due"`
}

// AssignedUnassigned is the sentinel meaning "leads with no owner"
const AssignedUnassigned = "unassigned"

// ListAlerts windows all leads whose pointer falls within the next 24 hours,
// split into overdue (before now) and upcoming. assignedTo narrows to one
// owner; the "unassigned" sentinel selects ownerless leads.
func (s *FollowUpScheduler) ListAlerts(assignedTo string) (*Alerts, error) {
	now := time.Now()
	horizon := now.Add(AlertWindow)

	leadQuery := s.DB.Where("next_follow_up_at IS NOT NULL AND next_follow_up_at <= ?", horizon)
	followUpQuery := s.DB.Where("completed_at IS NULL AND due_at <= ?", horizon)

	switch assignedTo {
	case "":
	case AssignedUnassigned:
		leadQuery = leadQuery.Where("assigned_to_id IS NULL")
		followUpQuery = followUpQuery.Where("lead_id IN (?)",
			s.DB.Model(&models.Lead{}).Select("id").Where("assigned_to_id IS NULL"))
	default:
		ownerID := ParseUint(assignedTo)
		leadQuery = leadQuery.Where("assigned_to_id = ?", ownerID)
		followUpQuery = followUpQuery.Where("lead_id IN (?)",
			s.DB.Model(&models.Lead{}).Select("id").Where("assigned_to_id = ?", ownerID))
	}

	var leads []models.Lead
	if err := leadQuery.Order("next_follow_up_at ASC").Preload("AssignedTo").Find(&leads).Error; err != nil {
		return nil, err
	}

	alerts := &Alerts{
		OverdueLeads:  []models.Lead{},
		UpcomingLeads: []models.Lead{},
		FollowUpsDue:  []models.FollowUp{},
	}
	for _, lead := range leads {
		if lead.NextFollowUpAt.Before(now) {
			alerts.OverdueLeads = append(alerts.OverdueLeads, lead)
		} else {
			alerts.UpcomingLeads = append(alerts.UpcomingLeads, lead)
		}
	}

	if err := followUpQuery.Order("due_at ASC").Preload("Lead").Find(&alerts.FollowUpsDue).Error; err != nil {
		return nil, err
	}

	return alerts, nil
}

// SendDueReminders walks every incomplete follow-up due within 24 hours whose
// reminder has not been dispatched yet: the assignee (when resolvable) gets a
// direct reminder, all admins are alerted, and the follow-up is stamped so it
// is never selected again. One item's failure never aborts the rest; the
// returned count is follow-ups processed, not emails confirmed delivered.
func (s *FollowUpScheduler) SendDueReminders() (int, error) {
	horizon := time.Now().Add(AlertWindow)

	var due []models.FollowUp
	err := s.DB.Where("completed_at IS NULL AND email_reminder_sent_at IS NULL AND due_at <= ?", horizon).
		Preload("Lead").
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		followUp := &due[i]
		if err := s.remindOne(followUp); err != nil {
			s.Logger.Printf("Error processing reminder for follow-up %d: %v", followUp.ID, err)
			continue
		}
		sent++
	}

	return sent, nil
}

func (s *FollowUpScheduler) remindOne(followUp *models.FollowUp) error {
	lead := followUp.Lead
	if lead == nil {
		return fmt.Errorf("follow-up %d has no lead", followUp.ID)
	}

	if s.Notifier != nil {
		if lead.AssignedToID != nil {
			var assignee models.User
			if err := s.DB.First(&assignee, *lead.AssignedToID).Error; err != nil {
				s.Logger.Printf("Assignee %d for lead %d not resolvable: %v", *lead.AssignedToID, lead.ID, err)
			} else {
				s.Notifier.NotifyAssignee(&assignee, lead, followUp)
			}
		}

		s.Notifier.NotifyFollowUpDue(lead, followUp)
	}

	// Stamp the sent marker last so a failed stamp leaves the item eligible
	// for the next run rather than silently dropped
	now := time.Now()
	return s.DB.Model(followUp).Update("email_reminder_sent_at", now).Error
}
