package services

import (
	"context"
	"fmt"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/models"
)

// NotificationService stores petition decision notices for students.
type NotificationService struct {
	notifications NotificationRepository
	students      StudentRepository
	now           Clock
}

func NewNotificationService(notifications NotificationRepository, students StudentRepository) *NotificationService {
	return &NotificationService{notifications: notifications, students: students, now: systemClock}
}

// NotifyDecision records a notice for the petition's student. project may be
// nil when it could not be loaded.
func (s *NotificationService) NotifyDecision(ctx context.Context, petition *models.Petition, project *models.Project) error {
	studentID := petition.StudentID()
	if studentID.IsZero() {
		return nil
	}
	projectName := "the project"
	if project != nil && project.Name != "" {
		projectName = project.Name
	}

	var message string
	switch petition.Status {
	case models.StatusApproved:
		message = fmt.Sprintf("Your petition for %s was approved.", projectName)
	case models.StatusRejected:
		message = fmt.Sprintf("Your petition for %s was rejected.", projectName)
		if petition.RejectionReason != nil && *petition.RejectionReason != "" {
			message = fmt.Sprintf("Your petition for %s was rejected: %s", projectName, *petition.RejectionReason)
		}
	default:
		return nil
	}

	n := &models.Notification{
		StudentID:  studentID,
		PetitionID: petition.ID,
		ProjectID:  petition.ProjectID(),
		Message:    message,
		CreatedAt:  s.now(),
	}
	return storeError(s.notifications.Insert(ctx, n), "failed to store notification")
}

// ListForEmail returns the notifications of the student owning email, newest
// first.
func (s *NotificationService) ListForEmail(ctx context.Context, email string) ([]models.Notification, error) {
	student, err := s.students.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	if student == nil {
		return []models.Notification{}, nil
	}
	notifications, err := s.notifications.FindByStudent(ctx, student.ID)
	if err != nil {
		return nil, storeError(err, "failed to list notifications")
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, email, idHex string) error {
	id, err := ParseID("id", idHex)
	if err != nil {
		return err
	}
	student, err := s.students.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return storeError(err, "failed to load student")
	}
	if student == nil {
		return apperrors.NotFound("notification not found")
	}
	ok, err := s.notifications.MarkRead(ctx, id, student.ID)
	if err != nil {
		return storeError(err, "failed to update notification")
	}
	if !ok {
		return apperrors.NotFound("notification not found")
	}
	return nil
}
