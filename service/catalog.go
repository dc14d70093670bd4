package service

import (
	"errors"
	"log"
	"strings"

	"github.com/Stasoks/HR-Site/models"
	"github.com/Stasoks/HR-Site/utils"
	"gorm.io/gorm"
)

// CatalogService owns task definitions and the eligibility view workers
// see. It has no dependency on the assignment engine beyond reading
// open assignments for the can_take annotation.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type TaskSpec struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	RequiredProof  string  `json:"required_proof"`
	Reward         float64 `json:"reward"`
	LevelRequired  string  `json:"level_required"`
	TimeLimitHours *int    `json:"time_limit_hours"`
}

func (spec TaskSpec) validate() (models.Level, error) {
	if strings.TrimSpace(spec.Title) == "" {
		return "", validationErr("title is required")
	}
	if strings.TrimSpace(spec.Description) == "" {
		return "", validationErr("description is required")
	}
	if strings.TrimSpace(spec.RequiredProof) == "" {
		return "", validationErr("required_proof is required")
	}
	if spec.Reward < 0 {
		return "", validationErr("reward must not be negative")
	}
	level, ok := models.ParseLevel(spec.LevelRequired)
	if !ok {
		return "", validationErr("level_required must be one of basic, silver, gold, platinum")
	}
	if spec.TimeLimitHours != nil && *spec.TimeLimitHours <= 0 {
		return "", validationErr("time_limit_hours must be a positive number of hours")
	}
	return level, nil
}

// Create enforces the per-level active task cap. The cap is checked at
// creation only; reactivating a toggled-off task never re-checks it.
func (s *CatalogService) Create(caller Caller, spec TaskSpec) (*models.Task, error) {
	level, err := spec.validate()
	if err != nil {
		return nil, err
	}

	unlock := lockLevel(level.String())
	defer unlock()

	var task *models.Task
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Task{}).
			Where("level_required = ? AND is_active = ?", level, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active >= models.MaxActiveTasksPerLevel {
			return &CapacityError{Level: level}
		}

		task = &models.Task{
			Title:          spec.Title,
			Description:    spec.Description,
			RequiredProof:  spec.RequiredProof,
			Reward:         spec.Reward,
			LevelRequired:  level,
			TimeLimitHours: spec.TimeLimitHours,
			IsActive:       true,
			CreatedBy:      caller.UserID,
		}
		return tx.Create(task).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *CatalogService) Update(taskID uint, spec TaskSpec) (*models.Task, error) {
	level, err := spec.validate()
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	task.Title = spec.Title
	task.Description = spec.Description
	task.RequiredProof = spec.RequiredProof
	task.Reward = spec.Reward
	task.LevelRequired = level
	task.TimeLimitHours = spec.TimeLimitHours

	if err := s.db.Save(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Toggle flips is_active. Existing assignments are unaffected.
func (s *CatalogService) Toggle(taskID uint, isActive bool) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	task.IsActive = isActive
	if err := s.db.Save(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes the task together with its assignments. Cascading is
// an explicit administrative decision, never automatic. Stored proof
// files of the cascaded assignments are cleaned up after the commit.
func (s *CatalogService) Delete(taskID uint) error {
	var orphanedFiles []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		var assignments []models.Assignment
		if err := tx.Where("task_id = ?", taskID).Find(&assignments).Error; err != nil {
			return err
		}
		for _, a := range assignments {
			orphanedFiles = append(orphanedFiles, a.ProofFileList()...)
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		return err
	}
	for _, key := range orphanedFiles {
		if err := utils.DeleteProofFile(key); err != nil {
			log.Printf("[CATALOG] failed to delete proof file %s: %v", key, err)
		}
	}
	return nil
}

func (s *CatalogService) Get(taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// AvailableTask is one catalog row annotated for a specific caller.
type AvailableTask struct {
	models.Task
	CanTake bool `json:"can_take"`
}

// LevelGroup is the per-level slice of the available view. CanTake on
// the group reflects rank eligibility only; the per-task flag also
// accounts for held assignments.
type LevelGroup struct {
	CanTake bool            `json:"can_take"`
	Tasks   []AvailableTask `json:"tasks"`
}

// ListAvailable partitions active tasks by level for the caller.
func (s *CatalogService) ListAvailable(caller Caller) (map[string]LevelGroup, error) {
	var user models.User
	if err := s.db.First(&user, caller.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var tasks []models.Task
	if err := s.db.Where("is_active = ?", true).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	held, err := s.openTaskIDs(caller.UserID)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]LevelGroup, 4)
	for _, level := range models.Levels() {
		groups[level.String()] = LevelGroup{
			CanTake: user.Level.AtLeast(level),
			Tasks:   make([]AvailableTask, 0),
		}
	}
	for _, t := range tasks {
		group := groups[t.LevelRequired.String()]
		group.Tasks = append(group.Tasks, AvailableTask{
			Task:    t,
			CanTake: user.Level.AtLeast(t.LevelRequired) && !held[t.ID],
		})
		groups[t.LevelRequired.String()] = group
	}
	return groups, nil
}

// openTaskIDs returns the set of task ids the user currently holds a
// non-terminal assignment for.
func (s *CatalogService) openTaskIDs(userID uint) (map[uint]bool, error) {
	var open []models.Assignment
	if err := s.db.Where("user_id = ? AND status IN ?", userID, models.NonTerminalStatuses()).
		Find(&open).Error; err != nil {
		return nil, err
	}
	held := make(map[uint]bool, len(open))
	for _, a := range open {
		held[a.TaskID] = true
	}
	return held, nil
}

// AssignmentView joins an assignment with its task for the worker lists.
type AssignmentView struct {
	AssignmentID   uint                    `json:"assignment_id"`
	TaskID         uint                    `json:"task_id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	RequiredProof  string                  `json:"required_proof"`
	Reward         float64                 `json:"reward"`
	LevelRequired  models.Level            `json:"level_required"`
	Status         models.AssignmentStatus `json:"status"`
	Proof          string                  `json:"proof"`
	ProofLinks     []string                `json:"proof_links,omitempty"`
	AdminComment   string                  `json:"admin_comment,omitempty"`
	TakenAt        string                  `json:"taken_at"`
	ExpiresAt      *string                 `json:"expires_at"`
	SubmittedAt    *string                 `json:"submitted_at"`
	ReviewedAt     *string                 `json:"reviewed_at"`
	TimeLimitHours *int                    `json:"time_limit_hours"`
}

// Worker list filters over the caller's assignments.
const (
	FilterMyTasks  = "my_tasks"
	FilterRevision = "revision"
	FilterDone     = "done"
)

func statusesForFilter(filter string) ([]models.AssignmentStatus, error) {
	switch filter {
	case FilterMyTasks:
		return []models.AssignmentStatus{models.StatusTaken, models.StatusSubmitted}, nil
	case FilterRevision:
		return []models.AssignmentStatus{models.StatusRevision}, nil
	case FilterDone:
		return []models.AssignmentStatus{models.StatusApproved, models.StatusRejected}, nil
	default:
		return nil, validationErr("filter must be one of available, my_tasks, revision, done")
	}
}

// ListMine returns the caller's assignments for one of the worker
// filters, newest first, joined with their task fields.
func (s *CatalogService) ListMine(caller Caller, filter string) ([]AssignmentView, error) {
	statuses, err := statusesForFilter(filter)
	if err != nil {
		return nil, err
	}

	var assignments []models.Assignment
	if err := s.db.Where("user_id = ? AND status IN ?", caller.UserID, statuses).
		Order("taken_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []AssignmentView{}, nil
	}

	taskIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		taskIDs = append(taskIDs, a.TaskID)
	}
	var tasks []models.Task
	if err := s.db.Where("id IN ?", taskIDs).Find(&tasks).Error; err != nil {
		return nil, err
	}
	taskByID := make(map[uint]models.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	views := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		t := taskByID[a.TaskID]
		views = append(views, AssignmentView{
			AssignmentID:   a.ID,
			TaskID:         a.TaskID,
			Title:          t.Title,
			Description:    t.Description,
			RequiredProof:  t.RequiredProof,
			Reward:         t.Reward,
			LevelRequired:  t.LevelRequired,
			Status:         a.Status,
			Proof:          a.Proof,
			ProofLinks:     a.ProofLinkList(),
			AdminComment:   a.AdminComment,
			TakenAt:        formatUTC(a.TakenAt),
			ExpiresAt:      formatUTCPtr(a.ExpiresAt),
			SubmittedAt:    formatUTCPtr(a.SubmittedAt),
			ReviewedAt:     formatUTCPtr(a.ReviewedAt),
			TimeLimitHours: t.TimeLimitHours,
		})
	}
	return views, nil
}

// TaskStats are the per-caller counters shown on the worker dashboard.
type TaskStats struct {
	Available int64 `json:"available"`
	MyTasks   int64 `json:"my_tasks"`
	Revision  int64 `json:"revision"`
	Done      int64 `json:"done"`
}

func (s *CatalogService) Stats(caller Caller) (TaskStats, error) {
	var stats TaskStats

	groups, err := s.ListAvailable(caller)
	if err != nil {
		return stats, err
	}
	for _, group := range groups {
		for _, t := range group.Tasks {
			if t.CanTake {
				stats.Available++
			}
		}
	}

	count := func(statuses []models.AssignmentStatus, dst *int64) error {
		return s.db.Model(&models.Assignment{}).
			Where("user_id = ? AND status IN ?", caller.UserID, statuses).
			Count(dst).Error
	}
	if err := count([]models.AssignmentStatus{models.StatusTaken, models.StatusSubmitted}, &stats.MyTasks); err != nil {
		return stats, err
	}
	if err := count([]models.AssignmentStatus{models.StatusRevision}, &stats.Revision); err != nil {
		return stats, err
	}
	if err := count([]models.AssignmentStatus{models.StatusApproved, models.StatusRejected}, &stats.Done); err != nil {
		return stats, err
	}
	return stats, nil
}

// TaskWithStats decorates a task with its historical claim counters for
// the admin catalog list.
type TaskWithStats struct {
	models.Task
	TotalAssignments int64 `json:"total_assignments"`
	TotalApproved    int64 `json:"total_approved"`
}

type TaskListData struct {
	TotalAssignments int64           `json:"total_assignments"`
	TotalPaid        float64         `json:"total_paid"`
	Tasks            []TaskWithStats `json:"tasks"`
}

// AdminList returns every task with claim counts and the total rewards
// paid out through approvals.
func (s *CatalogService) AdminList() (TaskListData, error) {
	var data TaskListData
	data.Tasks = make([]TaskWithStats, 0)

	var tasks []models.Task
	if err := s.db.Order("id ASC").Find(&tasks).Error; err != nil {
		return data, err
	}

	type taskCount struct {
		TaskID uint
		Cnt    int64
	}
	countByTask := func(statuses []models.AssignmentStatus) (map[uint]int64, error) {
		var counts []taskCount
		q := s.db.Model(&models.Assignment{}).
			Select("task_id, COUNT(*) as cnt").
			Group("task_id")
		if statuses != nil {
			q = q.Where("status IN ?", statuses)
		}
		if err := q.Scan(&counts).Error; err != nil {
			return nil, err
		}
		m := make(map[uint]int64, len(counts))
		for _, c := range counts {
			m[c.TaskID] = c.Cnt
		}
		return m, nil
	}

	all, err := countByTask(nil)
	if err != nil {
		return data, err
	}
	approved, err := countByTask([]models.AssignmentStatus{models.StatusApproved})
	if err != nil {
		return data, err
	}

	for _, t := range tasks {
		data.Tasks = append(data.Tasks, TaskWithStats{
			Task:             t,
			TotalAssignments: all[t.ID],
			TotalApproved:    approved[t.ID],
		})
		data.TotalAssignments += all[t.ID]
		data.TotalPaid += t.Reward * float64(approved[t.ID])
	}
	return data, nil
}
