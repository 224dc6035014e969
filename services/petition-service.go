package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/logging"
	"social-service/portal-service/metrics"
	"social-service/portal-service/models"
)

type PetitionService struct {
	petitions PetitionRepository
	projects  ProjectRepository
	students  StudentRepository
	notifier  Notifier
	now       Clock
}

// NewPetitionService wires the petition workflow. notifier may be nil.
func NewPetitionService(petitions PetitionRepository, projects ProjectRepository, students StudentRepository, notifier Notifier) *PetitionService {
	return &PetitionService{
		petitions: petitions,
		projects:  projects,
		students:  students,
		notifier:  notifier,
		now:       systemClock,
	}
}

// WithClock replaces the time source, for tests.
func (s *PetitionService) WithClock(now Clock) *PetitionService {
	s.now = now
	return s
}

// Enroll creates a pending petition for the student on the project. A second
// petition for the same pair is rejected whatever the first one's status.
func (s *PetitionService) Enroll(ctx context.Context, studentHex, projectHex string) (*models.Petition, error) {
	studentID, err := ParseID("studentId", studentHex)
	if err != nil {
		return nil, err
	}
	projectID, err := ParseID("projectId", projectHex)
	if err != nil {
		return nil, err
	}
	if err := s.ensureParties(ctx, studentID, projectID); err != nil {
		return nil, err
	}

	existing, err := s.petitions.FindByStudentAndProject(ctx, studentID, projectID)
	if err != nil {
		return nil, storeError(err, "failed to check existing petition")
	}
	if existing != nil {
		metrics.RecordEnrollment(metrics.OutcomeDuplicate)
		return nil, apperrors.Duplicate("a petition for this student and project already exists")
	}

	petition := &models.Petition{
		Date:          s.now(),
		Status:        models.StatusPending,
		Students:      []primitive.ObjectID{studentID},
		Projects:      []primitive.ObjectID{projectID},
		EnrollmentKey: models.EnrollmentKey(studentID, projectID),
	}
	if err := s.petitions.Insert(ctx, petition); err != nil {
		if isDuplicate(err) {
			metrics.RecordEnrollment(metrics.OutcomeDuplicate)
			return nil, apperrors.Duplicate("a petition for this student and project already exists")
		}
		return nil, storeError(err, "failed to create petition")
	}

	metrics.RecordEnrollment(metrics.OutcomeCreated)
	logging.Logger.WithFields(logrus.Fields{
		"petition": petition.ID.Hex(),
		"student":  studentHex,
		"project":  projectHex,
	}).Info("Event ID: PETITION_ENROLLED, Description: Student enrolled in project")
	return petition, nil
}

func (s *PetitionService) ensureParties(ctx context.Context, studentID, projectID primitive.ObjectID) error {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return storeError(err, "failed to load student")
	}
	if student == nil {
		return apperrors.NotFound("student not found")
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return storeError(err, "failed to load project")
	}
	if project == nil {
		return apperrors.NotFound("project not found")
	}
	return nil
}

func (s *PetitionService) FindByID(ctx context.Context, idHex string) (*models.Petition, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *PetitionService) load(ctx context.Context, id primitive.ObjectID) (*models.Petition, error) {
	petition, err := s.petitions.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load petition")
	}
	if petition == nil {
		return nil, apperrors.NotFound("petition not found")
	}
	return petition, nil
}

// FindByStudentAndProject returns the petition for the pair, or nil.
func (s *PetitionService) FindByStudentAndProject(ctx context.Context, studentHex, projectHex string) (*models.Petition, error) {
	studentID, err := ParseID("studentId", studentHex)
	if err != nil {
		return nil, err
	}
	projectID, err := ParseID("projectId", projectHex)
	if err != nil {
		return nil, err
	}
	petition, err := s.petitions.FindByStudentAndProject(ctx, studentID, projectID)
	if err != nil {
		return nil, storeError(err, "failed to load petition")
	}
	return petition, nil
}

func (s *PetitionService) IsEnrolled(ctx context.Context, studentHex, projectHex string) (bool, error) {
	petition, err := s.FindByStudentAndProject(ctx, studentHex, projectHex)
	if err != nil {
		return false, err
	}
	return petition != nil, nil
}

// List returns every petition with its student and project resolved.
func (s *PetitionService) List(ctx context.Context) ([]models.PetitionView, error) {
	petitions, err := s.petitions.FindAll(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list petitions")
	}
	return s.populate(ctx, petitions)
}

func (s *PetitionService) ListByStudent(ctx context.Context, studentHex string) ([]models.PetitionView, error) {
	studentID, err := ParseID("studentId", studentHex)
	if err != nil {
		return nil, err
	}
	petitions, err := s.petitions.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "failed to list petitions")
	}
	return s.populate(ctx, petitions)
}

// ListForEmail returns the petitions of the student owning email. Callers
// without a student record have no petitions.
func (s *PetitionService) ListForEmail(ctx context.Context, email string) ([]models.PetitionView, error) {
	student, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	if student == nil {
		return []models.PetitionView{}, nil
	}
	petitions, err := s.petitions.FindByStudent(ctx, student.ID)
	if err != nil {
		return nil, storeError(err, "failed to list petitions")
	}
	return s.populate(ctx, petitions)
}

func (s *PetitionService) populate(ctx context.Context, petitions []models.Petition) ([]models.PetitionView, error) {
	var studentIDs, projectIDs []primitive.ObjectID
	for _, p := range petitions {
		studentIDs = append(studentIDs, p.Students...)
		projectIDs = append(projectIDs, p.Projects...)
	}

	students, err := s.students.FindByIDs(ctx, studentIDs)
	if err != nil {
		return nil, storeError(err, "failed to resolve students")
	}
	projects, err := s.projects.FindByIDs(ctx, projectIDs)
	if err != nil {
		return nil, storeError(err, "failed to resolve projects")
	}
	studentByID := make(map[primitive.ObjectID]models.Student, len(students))
	for _, st := range students {
		studentByID[st.ID] = st
	}
	projectByID := make(map[primitive.ObjectID]models.Project, len(projects))
	for _, pr := range projects {
		projectByID[pr.ID] = pr
	}

	views := make([]models.PetitionView, 0, len(petitions))
	for _, p := range petitions {
		view := models.PetitionView{
			ID:              p.ID,
			Date:            p.Date,
			Status:          p.Status,
			Students:        []models.Student{},
			Projects:        []models.Project{},
			ApprovedAt:      p.ApprovedAt,
			RejectionReason: p.RejectionReason,
		}
		// Dangling references are dropped from the view.
		for _, id := range p.Students {
			if st, ok := studentByID[id]; ok {
				view.Students = append(view.Students, st)
			}
		}
		for _, id := range p.Projects {
			if pr, ok := projectByID[id]; ok {
				view.Projects = append(view.Projects, pr)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Approve accepts a pending petition and takes one seat on its project. The
// seat is reserved first with a single conditional update; if the petition
// cannot then be moved out of pending the seat is handed back.
func (s *PetitionService) Approve(ctx context.Context, idHex string) (*models.Decision, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	petition, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if petition.Status != models.StatusPending {
		metrics.RecordDecision(metrics.OutcomeStateConflict)
		return nil, apperrors.StateConflict("petition is not pending")
	}
	studentID, projectID := petition.StudentID(), petition.ProjectID()
	if studentID.IsZero() || projectID.IsZero() {
		return nil, apperrors.StateConflict("petition was withdrawn")
	}

	project, err := s.projects.ReserveSeat(ctx, projectID, studentID)
	if err != nil {
		return nil, storeError(err, "failed to reserve project seat")
	}
	if project == nil {
		existing, err := s.projects.FindByID(ctx, projectID)
		if err != nil {
			return nil, storeError(err, "failed to load project")
		}
		if existing == nil {
			return nil, apperrors.NotFound("project not found")
		}
		metrics.RecordDecision(metrics.OutcomeCapacityConflict)
		logging.Logger.WithField("petition", idHex).
			Warn("Event ID: PETITION_APPROVE_CONFLICT, Description: Project has no capacity left or student already enrolled")
		return nil, apperrors.CapacityConflict("project has no capacity left or student already enrolled")
	}

	decided, err := s.petitions.Decide(ctx, id, models.StatusApproved, s.now(), nil)
	if err != nil || decided == nil {
		s.releaseSeat(ctx, projectID, studentID, idHex)
		if err != nil {
			return nil, storeError(err, "failed to approve petition")
		}
		metrics.RecordDecision(metrics.OutcomeStateConflict)
		return nil, apperrors.StateConflict("petition is not pending")
	}

	metrics.RecordDecision(metrics.OutcomeApproved)
	logging.Logger.WithFields(logrus.Fields{
		"petition": idHex,
		"project":  projectID.Hex(),
		"capacity": project.Capacity,
	}).Info("Event ID: PETITION_APPROVED, Description: Petition approved")
	s.notify(ctx, decided, project)
	return &models.Decision{Petition: decided, Project: project}, nil
}

func (s *PetitionService) releaseSeat(ctx context.Context, projectID, studentID primitive.ObjectID, petitionHex string) {
	if _, err := s.projects.ReleaseSeat(ctx, projectID, studentID); err != nil {
		logging.Logger.WithError(err).WithField("petition", petitionHex).
			Error("Event ID: PETITION_SEAT_RELEASE_FAILED, Description: Failed to hand back reserved seat")
	}
}

// Reject declines a pending petition. The decision time is recorded in
// approvedAt as well. Projects are not touched.
func (s *PetitionService) Reject(ctx context.Context, idHex, reason string) (*models.Petition, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	petition, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if petition.Status != models.StatusPending {
		metrics.RecordDecision(metrics.OutcomeStateConflict)
		return nil, apperrors.StateConflict("petition is not pending")
	}

	decided, err := s.petitions.Decide(ctx, id, models.StatusRejected, s.now(), &reason)
	if err != nil {
		return nil, storeError(err, "failed to reject petition")
	}
	if decided == nil {
		metrics.RecordDecision(metrics.OutcomeStateConflict)
		return nil, apperrors.StateConflict("petition is not pending")
	}

	metrics.RecordDecision(metrics.OutcomeRejected)
	logging.Logger.WithField("petition", idHex).Info("Event ID: PETITION_REJECTED, Description: Petition rejected")

	var project *models.Project
	if pid := decided.ProjectID(); !pid.IsZero() {
		if project, err = s.projects.FindByID(ctx, pid); err != nil {
			logging.Logger.WithError(err).Warn("Event ID: PETITION_NOTIFY_LOOKUP, Description: Failed to load project for notification")
		}
	}
	s.notify(ctx, decided, project)
	return decided, nil
}

func (s *PetitionService) notify(ctx context.Context, petition *models.Petition, project *models.Project) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyDecision(ctx, petition, project); err != nil {
		logging.Logger.WithError(err).WithField("petition", petition.ID.Hex()).
			Error("Event ID: NOTIFICATION_FAILED, Description: Failed to store decision notification")
	}
}

// Unenroll withdraws the student from the project. The petition document is
// kept with its references removed; an approved petition hands its seat back.
func (s *PetitionService) Unenroll(ctx context.Context, studentHex, projectHex string) (*models.Petition, error) {
	studentID, err := ParseID("studentId", studentHex)
	if err != nil {
		return nil, err
	}
	projectID, err := ParseID("projectId", projectHex)
	if err != nil {
		return nil, err
	}
	petition, err := s.petitions.FindByStudentAndProject(ctx, studentID, projectID)
	if err != nil {
		return nil, storeError(err, "failed to load petition")
	}
	if petition == nil {
		return nil, apperrors.NotFound("petition not found")
	}

	released := false
	if petition.Status == models.StatusApproved {
		project, err := s.projects.ReleaseSeat(ctx, projectID, studentID)
		if err != nil {
			return nil, storeError(err, "failed to release project seat")
		}
		released = project != nil
	}

	updated, err := s.petitions.RemoveEnrollment(ctx, petition.ID, studentID, projectID)
	if err == nil && updated == nil {
		err = apperrors.NotFound("petition not found")
	}
	if err != nil {
		if released {
			s.restoreSeat(ctx, projectID, studentID, petition.ID.Hex())
		}
		return nil, storeError(err, "failed to unenroll")
	}

	logging.Logger.WithFields(logrus.Fields{
		"petition": petition.ID.Hex(),
		"released": released,
	}).Info("Event ID: PETITION_UNENROLLED, Description: Student withdrawn from project")
	return updated, nil
}

// Create stores a petition on behalf of an administrator. Non-pending
// statuses go through the regular decision path so project capacity stays
// consistent.
func (s *PetitionService) Create(ctx context.Context, np models.NewPetition) (*models.Petition, error) {
	if np.Status != "" && !np.Status.Valid() {
		return nil, apperrors.Validation("invalid status",
			apperrors.FieldError{Field: "status", Error: "must be one of pending approved rejected"})
	}
	petition, err := s.Enroll(ctx, np.StudentID, np.ProjectID)
	if err != nil {
		return nil, err
	}
	switch np.Status {
	case "", models.StatusPending:
		return petition, nil
	case models.StatusApproved:
		decision, err := s.Approve(ctx, petition.ID.Hex())
		if err != nil {
			s.discard(ctx, petition.ID)
			return nil, err
		}
		return decision.Petition, nil
	default:
		rejected, err := s.Reject(ctx, petition.ID.Hex(), "")
		if err != nil {
			s.discard(ctx, petition.ID)
			return nil, err
		}
		return rejected, nil
	}
}

// restoreSeat takes back a seat released ahead of a write that then failed.
func (s *PetitionService) restoreSeat(ctx context.Context, projectID, studentID primitive.ObjectID, petitionHex string) {
	if _, err := s.projects.ReserveSeat(ctx, projectID, studentID); err != nil {
		logging.Logger.WithError(err).WithField("petition", petitionHex).
			Error("Event ID: PETITION_SEAT_RESTORE_FAILED, Description: Failed to restore seat after a failed write")
	}
}

func (s *PetitionService) discard(ctx context.Context, id primitive.ObjectID) {
	if _, err := s.petitions.Delete(ctx, id); err != nil {
		logging.Logger.WithError(err).WithField("petition", id.Hex()).
			Error("Event ID: PETITION_DISCARD_FAILED, Description: Failed to remove petition after failed create")
	}
}

// Delete removes a petition. An approved petition hands its seat back first.
func (s *PetitionService) Delete(ctx context.Context, idHex string) error {
	id, err := ParseID("id", idHex)
	if err != nil {
		return err
	}
	petition, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	studentID, projectID := petition.StudentID(), petition.ProjectID()
	released := false
	if petition.Status == models.StatusApproved && !studentID.IsZero() && !projectID.IsZero() {
		project, err := s.projects.ReleaseSeat(ctx, projectID, studentID)
		if err != nil {
			return storeError(err, "failed to release project seat")
		}
		released = project != nil
	}

	deleted, err := s.petitions.Delete(ctx, id)
	if err == nil && !deleted {
		err = apperrors.NotFound("petition not found")
	}
	if err != nil {
		if released {
			s.restoreSeat(ctx, projectID, studentID, idHex)
		}
		return storeError(err, "failed to delete petition")
	}
	return nil
}
