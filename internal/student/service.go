package student

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// PersistedEvent is published after a student row is written.
type PersistedEvent struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Group       Group     `json:"group,omitempty"`
	PersistedAt time.Time `json:"persistedAt"`
}

// Publisher delivers domain events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Service interface {
	CreateStudent(ctx context.Context, student *Student) (*Student, error)
	CreateStudents(ctx context.Context, students []*Student) error
	GetAllStudents(ctx context.Context) ([]Student, error)
	GetStudentByID(ctx context.Context, id int64) (*Student, error)
	UpdateStudent(ctx context.Context, student *Student) error
	DeleteStudent(ctx context.Context, id int64) error
}

type service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
}

// NewService wires the repository. publisher may be nil when no broker is configured.
func NewService(repo Repository, publisher Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *service) CreateStudent(ctx context.Context, student *Student) (*Student, error) {
	if student == nil {
		return nil, ErrInvalidInput
	}
	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, created)
	return created, nil
}

func (s *service) CreateStudents(ctx context.Context, students []*Student) error {
	if err := s.repo.CreateAll(ctx, students); err != nil {
		return err
	}
	for _, st := range students {
		s.publish(ctx, st)
	}
	return nil
}

func (s *service) GetAllStudents(ctx context.Context) ([]Student, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetStudentByID(ctx context.Context, id int64) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateStudent(ctx context.Context, student *Student) error {
	if student == nil || student.ID <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Update(ctx, student)
}

func (s *service) DeleteStudent(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// publish is best effort: the row is already committed, so a broker failure
// is logged and not returned.
func (s *service) publish(ctx context.Context, st *Student) {
	if s.publisher == nil {
		return
	}
	event := PersistedEvent{
		ID:          st.ID,
		Name:        st.Name,
		Group:       st.Group,
		PersistedAt: time.Now().UTC(),
	}
	if !st.DateOfBirth.IsZero() {
		event.DateOfBirth = st.DateOfBirth.Format(DateLayout)
	}
	if err := s.publisher.Publish(ctx, strconv.FormatInt(st.ID, 10), event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish student event", "id", st.ID, "error", err)
	}
}
