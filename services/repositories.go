package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/models"
)

// Repository contracts implemented by the Mongo and in-memory stores. Finders
// return (nil, nil) when nothing matches; writes violating a unique key return
// an error wrapping repositories.ErrDuplicateKey.
type (
	PetitionRepository interface {
		Insert(ctx context.Context, petition *models.Petition) error
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.Petition, error)
		FindByStudentAndProject(ctx context.Context, studentID, projectID primitive.ObjectID) (*models.Petition, error)
		FindAll(ctx context.Context) ([]models.Petition, error)
		FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Petition, error)
		// Decide transitions a pending petition; nil when it is no longer pending.
		Decide(ctx context.Context, id primitive.ObjectID, status models.PetitionStatus, decidedAt time.Time, reason *string) (*models.Petition, error)
		RemoveEnrollment(ctx context.Context, id, studentID, projectID primitive.ObjectID) (*models.Petition, error)
		Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	ProjectRepository interface {
		Insert(ctx context.Context, project *models.Project) error
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
		FindByName(ctx context.Context, name string) (*models.Project, error)
		FindAll(ctx context.Context) ([]models.Project, error)
		FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error)
		FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Project, error)
		// ReserveSeat is the capacity check and decrement as one atomic step.
		ReserveSeat(ctx context.Context, projectID, studentID primitive.ObjectID) (*models.Project, error)
		ReleaseSeat(ctx context.Context, projectID, studentID primitive.ObjectID) (*models.Project, error)
		Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	StudentRepository interface {
		Insert(ctx context.Context, student *models.Student) error
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
		FindByEmail(ctx context.Context, email string) (*models.Student, error)
		FindAll(ctx context.Context) ([]models.Student, error)
		FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Student, error)
		AddCareer(ctx context.Context, studentID, careerID primitive.ObjectID) (bool, error)
		SetRole(ctx context.Context, email, role string) (bool, error)
		Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	UserRepository interface {
		Insert(ctx context.Context, user *models.User) error
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
		FindByEmail(ctx context.Context, email string) (*models.User, error)
		FindAll(ctx context.Context) ([]models.User, error)
		AddCareer(ctx context.Context, userID, careerID primitive.ObjectID) (bool, error)
		SetRole(ctx context.Context, email, role string) (bool, error)
		Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	AdministratorRepository interface {
		Insert(ctx context.Context, admin *models.Administrator) error
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.Administrator, error)
		FindByEmail(ctx context.Context, email string) (*models.Administrator, error)
		FindAll(ctx context.Context) ([]models.Administrator, error)
		Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	FacultyRepository interface {
		Insert(ctx context.Context, faculty *models.Faculty) error
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.Faculty, error)
		FindByName(ctx context.Context, name string) (*models.Faculty, error)
		FindAll(ctx context.Context) ([]models.Faculty, error)
		FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Faculty, error)
		Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	CareerRepository interface {
		Insert(ctx context.Context, career *models.Career) error
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.Career, error)
		FindByName(ctx context.Context, name string) (*models.Career, error)
		FindAll(ctx context.Context) ([]models.Career, error)
		FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Career, error)
		AddFaculty(ctx context.Context, careerID, facultyID primitive.ObjectID) (bool, error)
		Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	NotificationRepository interface {
		Insert(ctx context.Context, n *models.Notification) error
		FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Notification, error)
		MarkRead(ctx context.Context, id, studentID primitive.ObjectID) (bool, error)
	}
)

// Notifier is told about petition decisions. Failures never undo a decision.
type Notifier interface {
	NotifyDecision(ctx context.Context, petition *models.Petition, project *models.Project) error
}
