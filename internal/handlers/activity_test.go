package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sporthub-backend/internal/services"
)

type sweepActivityStub struct {
	services.ActivityService
	result *services.SweepResult
}

func (s *sweepActivityStub) AutoUpdateActivityStatus(ctx context.Context) (*services.SweepResult, error) {
	return s.result, nil
}

type sweepRegistrationStub struct {
	services.RegistrationService
	marked []uuid.UUID
}

func (s *sweepRegistrationStub) MarkAbsentForEnded(ctx context.Context, activityIDs []uuid.UUID) error {
	s.marked = append(s.marked, activityIDs...)
	return nil
}

// The on-demand sweep endpoint must run the same two steps as the
// ticker: promote statuses, then mark absentees on whatever ended.
func TestSweep_MarksAbsenteesOnEndedActivities(t *testing.T) {
	gin.SetMode(gin.TestMode)

	endedID := uuid.New()
	activity := &sweepActivityStub{result: &services.SweepResult{Closed: 1, Ended: []uuid.UUID{endedID}}}
	regs := &sweepRegistrationStub{}
	h := NewActivityHandler(activity, regs)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/activities/sweep", nil)

	h.Sweep(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(regs.marked) != 1 || regs.marked[0] != endedID {
		t.Fatalf("expected ended activity forwarded to absentee pass, got %v", regs.marked)
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
}

func TestSweep_SkipsAbsenteePassWhenNothingEnded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	activity := &sweepActivityStub{result: &services.SweepResult{}}
	regs := &sweepRegistrationStub{}
	h := NewActivityHandler(activity, regs)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/activities/sweep", nil)

	h.Sweep(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(regs.marked) != 0 {
		t.Fatalf("expected no absentee pass, got %v", regs.marked)
	}
}
