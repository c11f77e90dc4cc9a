package services

import (
	"context"
	"strings"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/events"
	"github.com/opencampus/academics-service/internal/mailer"
	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
)

func leaveFixture(t *testing.T) *models.LeaveRequest {
	t.Helper()
	return &models.LeaveRequest{
		ID:        7,
		UserID:    "user-1",
		StartDate: datatypes.Date(mustDate(t, "2025-06-10")),
		EndDate:   datatypes.Date(mustDate(t, "2025-06-12")),
		Reason:    "Family function",
		Status:    models.LeavePending,
	}
}

func TestNotificationService_NotifyLeaveRequested(t *testing.T) {
	repo := newMockRepository()
	repo.user.ListFn = func(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
		if filters.Role == nil || *filters.Role != models.RoleAdmin {
			t.Errorf("List() filters = %+v, want ADMIN role filter", filters)
		}
		return []*models.User{
			{ID: "admin-1", FirstName: "Admin", Email: "admin@example.edu"},
			{ID: "admin-2", FirstName: "NoMail"},
		}, 2, nil
	}

	publisher := events.NewMockEventPublisher(testLogger())
	mock := mailer.NewMockMailer()
	svc := NewNotificationService(repo, publisher, mock, testLogger())

	applicant := &models.User{ID: "user-1", FirstName: "Asha", LastName: "Verma"}
	if err := svc.NotifyLeaveRequested(context.Background(), leaveFixture(t), applicant); err != nil {
		t.Fatalf("NotifyLeaveRequested() error = %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventLeaveRequested {
		t.Fatalf("published events = %+v, want one leave.requested", published)
	}
	if published[0].Data["start_date"] != "2025-06-10" {
		t.Errorf("event start_date = %v, want 2025-06-10", published[0].Data["start_date"])
	}

	sent := mock.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	// Admins without an email address are silently dropped.
	if len(sent[0].To) != 1 || sent[0].To[0].Address != "admin@example.edu" {
		t.Errorf("recipients = %+v, want only admin@example.edu", sent[0].To)
	}
	if sent[0].Subject != "New leave request pending review" {
		t.Errorf("subject = %q", sent[0].Subject)
	}
	if !strings.Contains(sent[0].TextBody, "Asha Verma") {
		t.Errorf("body = %q, want applicant name", sent[0].TextBody)
	}
}

func TestNotificationService_NotifyLeaveRequested_NoAdmins(t *testing.T) {
	publisher := events.NewMockEventPublisher(testLogger())
	mock := mailer.NewMockMailer()
	svc := NewNotificationService(newMockRepository(), publisher, mock, testLogger())

	if err := svc.NotifyLeaveRequested(context.Background(), leaveFixture(t), nil); err != nil {
		t.Fatalf("NotifyLeaveRequested() error = %v", err)
	}
	if len(mock.SentMessages()) != 0 {
		t.Error("no admins on file, nothing should be mailed")
	}
}

func TestNotificationService_NotifyLeaveDecided(t *testing.T) {
	publisher := events.NewMockEventPublisher(testLogger())
	mock := mailer.NewMockMailer()
	svc := NewNotificationService(newMockRepository(), publisher, mock, testLogger())

	leave := leaveFixture(t)
	leave.Status = models.LeaveApproved
	applicant := &models.User{ID: "user-1", FirstName: "Asha", LastName: "Verma", Email: "asha@example.edu"}

	if err := svc.NotifyLeaveDecided(context.Background(), leave, applicant); err != nil {
		t.Fatalf("NotifyLeaveDecided() error = %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventLeaveStatusChanged {
		t.Fatalf("published events = %+v, want one leave.status_changed", published)
	}
	if published[0].Data["status"] != "APPROVED" {
		t.Errorf("event status = %v, want APPROVED", published[0].Data["status"])
	}

	sent := mock.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if sent[0].Subject != "Your leave request was APPROVED" {
		t.Errorf("subject = %q", sent[0].Subject)
	}
}

func TestNotificationService_NotifyLeaveDecided_NoEmail(t *testing.T) {
	publisher := events.NewMockEventPublisher(testLogger())
	mock := mailer.NewMockMailer()
	svc := NewNotificationService(newMockRepository(), publisher, mock, testLogger())

	leave := leaveFixture(t)
	leave.Status = models.LeaveRejected

	if err := svc.NotifyLeaveDecided(context.Background(), leave, &models.User{ID: "user-1"}); err != nil {
		t.Fatalf("NotifyLeaveDecided() error = %v", err)
	}
	if len(mock.SentMessages()) != 0 {
		t.Error("applicant without an email should not be mailed")
	}
}

func TestNotificationService_NotifyAnnouncementPosted(t *testing.T) {
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewNotificationService(newMockRepository(), publisher, mailer.NewMockMailer(), testLogger())

	announcement := &models.Announcement{ID: 5, Title: "Exam schedule", PostedByID: "admin-1"}
	if err := svc.NotifyAnnouncementPosted(context.Background(), announcement); err != nil {
		t.Fatalf("NotifyAnnouncementPosted() error = %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventAnnouncementPosted {
		t.Fatalf("published events = %+v, want one announcement.posted", published)
	}
	if published[0].Data["title"] != "Exam schedule" {
		t.Errorf("event title = %v, want Exam schedule", published[0].Data["title"])
	}
}

func TestNotificationService_MailFailureSurfaces(t *testing.T) {
	repo := newMockRepository()
	repo.user.ListFn = func(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
		return []*models.User{{ID: "admin-1", Email: "admin@example.edu"}}, 1, nil
	}

	mock := mailer.NewMockMailer()
	mock.FailNext = true
	svc := NewNotificationService(repo, events.NewMockEventPublisher(testLogger()), mock, testLogger())

	err := svc.NotifyLeaveRequested(context.Background(), leaveFixture(t), nil)
	if err == nil {
		t.Fatal("NotifyLeaveRequested() error = nil, want mail failure")
	}
	if !strings.Contains(err.Error(), "failed to email admins") {
		t.Errorf("error = %v, want wrapped mail failure", err)
	}
}
