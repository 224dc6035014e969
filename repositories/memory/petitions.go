package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/models"
)

type PetitionRepository struct {
	s *Store
}

func clonePetition(p models.Petition) *models.Petition {
	p.Students = cloneIDs(p.Students)
	p.Projects = cloneIDs(p.Projects)
	if p.ApprovedAt != nil {
		t := *p.ApprovedAt
		p.ApprovedAt = &t
	}
	if p.RejectionReason != nil {
		r := *p.RejectionReason
		p.RejectionReason = &r
	}
	return &p
}

func petitionList(rows []models.Petition) []models.Petition {
	out := make([]models.Petition, 0, len(rows))
	for _, p := range rows {
		out = append(out, *clonePetition(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r *PetitionRepository) Insert(_ context.Context, petition *models.Petition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if petition.EnrollmentKey != "" {
		if _, ok := r.s.petitions.first(func(p models.Petition) bool { return p.EnrollmentKey == petition.EnrollmentKey }); ok {
			return duplicate("insert petition")
		}
	}
	if petition.ID.IsZero() {
		petition.ID = primitive.NewObjectID()
	}
	petition.Students = cloneIDs(petition.Students)
	petition.Projects = cloneIDs(petition.Projects)
	r.s.petitions.put(petition.ID, *clonePetition(*petition))
	return nil
}

func (r *PetitionRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Petition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.petitions.get(id)
	if !ok {
		return nil, nil
	}
	return clonePetition(p), nil
}

func (r *PetitionRepository) FindByStudentAndProject(_ context.Context, studentID, projectID primitive.ObjectID) (*models.Petition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.petitions.first(func(p models.Petition) bool {
		return containsID(p.Students, studentID) && containsID(p.Projects, projectID)
	})
	if !ok {
		return nil, nil
	}
	return clonePetition(p), nil
}

func (r *PetitionRepository) FindAll(_ context.Context) ([]models.Petition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return petitionList(r.s.petitions.list()), nil
}

func (r *PetitionRepository) FindByStudent(_ context.Context, studentID primitive.ObjectID) ([]models.Petition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return petitionList(r.s.petitions.filter(func(p models.Petition) bool {
		return containsID(p.Students, studentID)
	})), nil
}

func (r *PetitionRepository) Decide(_ context.Context, id primitive.ObjectID, status models.PetitionStatus, decidedAt time.Time, reason *string) (*models.Petition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.petitions.get(id)
	if !ok || p.Status != models.StatusPending {
		return nil, nil
	}
	p.Status = status
	p.ApprovedAt = &decidedAt
	if reason != nil {
		rs := *reason
		p.RejectionReason = &rs
	}
	r.s.petitions.put(id, p)
	return clonePetition(p), nil
}

func (r *PetitionRepository) RemoveEnrollment(_ context.Context, id, studentID, projectID primitive.ObjectID) (*models.Petition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.petitions.get(id)
	if !ok {
		return nil, nil
	}
	p.Students = removeID(p.Students, studentID)
	p.Projects = removeID(p.Projects, projectID)
	p.EnrollmentKey = ""
	r.s.petitions.put(id, p)
	return clonePetition(p), nil
}

func (r *PetitionRepository) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.petitions.remove(id), nil
}
