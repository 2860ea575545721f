package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/storage"
)

type TripRequest struct {
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Destination string   `json:"destination" validate:"required,max=200"`
	Type        string   `json:"type" validate:"required,oneof=day holiday"`
	CostRupees  float64  `json:"cost_rupees" validate:"gte=0"`
	Notes       string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Photos      []string `json:"photos,omitempty" validate:"omitempty,dive,url"`
}

func ValidateTripRequest(req *TripRequest) error {
	return validate.Struct(req)
}

func CreateTrip(ctx context.Context, repo storage.LifeRepository, user *internal.User, req *TripRequest) (*internal.Trip, error) {
	trip := &internal.Trip{
		HouseholdID: user.HouseholdID,
		Date:        req.Date,
		Destination: req.Destination,
		Type:        req.Type,
		CostRupees:  req.CostRupees,
		Photos:      req.Photos,
	}
	if req.Notes != "" {
		trip.Notes = &req.Notes
	}
	if err := repo.SaveTrip(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

type MilestoneRequest struct {
	MilestoneType string   `json:"milestone_type" validate:"required,oneof=dog baby travel financial"`
	Title         string   `json:"title" validate:"required,max=200"`
	TargetDate    string   `json:"target_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Checklist     []string `json:"checklist,omitempty" validate:"omitempty,dive,max=300"`
}

func ValidateMilestoneRequest(req *MilestoneRequest) error {
	return validate.Struct(req)
}

func CreateMilestone(ctx context.Context, repo storage.LifeRepository, user *internal.User, req *MilestoneRequest) (*internal.Milestone, error) {
	checklist := make([]internal.ChecklistItem, 0, len(req.Checklist))
	for _, task := range req.Checklist {
		checklist = append(checklist, internal.ChecklistItem{Task: task})
	}
	m := &internal.Milestone{
		HouseholdID:   user.HouseholdID,
		MilestoneType: req.MilestoneType,
		Title:         req.Title,
		Checklist:     checklist,
		Status:        "planned",
		CreatedAt:     time.Now(),
	}
	if req.TargetDate != "" {
		m.TargetDate = &req.TargetDate
	}
	if err := repo.SaveMilestone(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ToggleChecklistItem flips one checklist entry and recomputes the milestone
// status: completed when every item is done, in_progress when any is.
func ToggleChecklistItem(ctx context.Context, repo storage.LifeRepository, user *internal.User, milestoneID string, itemIndex int) (*internal.Milestone, error) {
	m, err := repo.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if m.HouseholdID != user.HouseholdID {
		return nil, internal.NewAppError(404, "milestone not found")
	}
	if itemIndex < 0 || itemIndex >= len(m.Checklist) {
		return nil, internal.NewAppError(400, fmt.Sprintf("checklist index %d out of range", itemIndex))
	}

	m.Checklist[itemIndex].Completed = !m.Checklist[itemIndex].Completed

	done := 0
	for _, item := range m.Checklist {
		if item.Completed {
			done++
		}
	}
	switch {
	case done == len(m.Checklist):
		m.Status = "completed"
	case done > 0:
		m.Status = "in_progress"
	default:
		m.Status = "planned"
	}

	if err := repo.UpdateMilestoneChecklist(ctx, m.ID, m.Checklist, m.Status); err != nil {
		return nil, err
	}
	return m, nil
}

type SavingsUpdateRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

func ValidateSavingsUpdateRequest(req *SavingsUpdateRequest) error {
	return validate.Struct(req)
}

// UpdateSavings sets a goal's current amount, verifying it belongs to the
// caller's household first.
func UpdateSavings(ctx context.Context, repo storage.LifeRepository, user *internal.User, goalID string, amount float64) (*internal.SavingsGoal, error) {
	goals, err := repo.ListSavingsGoals(ctx, user.HouseholdID)
	if err != nil {
		return nil, err
	}
	var goal *internal.SavingsGoal
	for i := range goals {
		if goals[i].ID == goalID {
			goal = &goals[i]
			break
		}
	}
	if goal == nil {
		return nil, internal.NewAppError(404, "savings goal not found")
	}
	if err := repo.UpdateSavingsAmount(ctx, goalID, amount); err != nil {
		return nil, err
	}
	goal.CurrentAmount = amount
	return goal, nil
}
