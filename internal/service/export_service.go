package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/repository"
	"alcyxob/training-scheduler/internal/schedule"
	"alcyxob/training-scheduler/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrExportDisabled = errors.New("schedule export storage is not configured")

const exportContentType = "text/csv"

// Export describes a stored weekly schedule file.
type Export struct {
	WeekStart   domain.Date
	ObjectKey   string
	DownloadURL string
	Rows        int
	ExpiresAt   time.Time
}

// ExportService renders a week of sessions as CSV into object storage.
type ExportService interface {
	ExportWeek(ctx context.Context, day domain.Date) (*Export, error)
}

type exportService struct {
	sessionRepo repository.SessionRepository
	training    *trainingService
	files       storage.FileStorage
	urlExpiry   time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewExportService creates an ExportService. files may be nil, in which case
// every export fails with ErrExportDisabled.
func NewExportService(
	sessionRepo repository.SessionRepository,
	customerRepo repository.CustomerRepository,
	workoutRepo repository.WorkoutRepository,
	assignmentRepo repository.AssignmentRepository,
	files storage.FileStorage,
	urlExpiry time.Duration,
	logger *zap.Logger,
) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		sessionRepo: sessionRepo,
		files:       files,
		urlExpiry:   urlExpiry,
		now:         time.Now,
		logger:      logger,
		training: &trainingService{
			customerRepo:   customerRepo,
			workoutRepo:    workoutRepo,
			assignmentRepo: assignmentRepo,
			sessionRepo:    sessionRepo,
			logger:         logger,
		},
	}
}

var exportHeader = []string{"date", "start_time", "end_time", "customer_id", "customer", "type", "status", "training_day"}

// ExportWeek writes the Monday–Sunday week containing day to
// exports/<monday>/<uuid>.csv and returns a presigned download URL.
func (s *exportService) ExportWeek(ctx context.Context, day domain.Date) (*Export, error) {
	if s.files == nil {
		return nil, ErrExportDisabled
	}
	if day.IsZero() {
		return nil, fmt.Errorf("%w: week is required", ErrInvalidRequest)
	}
	monday := day.WeekStart()
	sessions, err := s.sessionRepo.Find(ctx, repository.SessionFilter{From: monday, To: monday.AddDays(6)})
	if err != nil {
		return nil, err
	}

	data, err := s.render(ctx, sessions)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%s/%s.csv", monday, uuid.NewString())
	if err := s.files.PutObject(ctx, key, exportContentType, data); err != nil {
		return nil, fmt.Errorf("uploading export: %w", err)
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		if delErr := s.files.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove unreachable export", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("presigning export: %w", err)
	}

	s.logger.Info("schedule exported", zap.String("week", monday.String()), zap.String("key", key), zap.Int("rows", len(sessions)))
	return &Export{
		WeekStart:   monday,
		ObjectKey:   key,
		DownloadURL: url,
		Rows:        len(sessions),
		ExpiresAt:   s.now().Add(s.urlExpiry).UTC(),
	}, nil
}

func (s *exportService) render(ctx context.Context, sessions []domain.Session) ([]byte, error) {
	profiles := make(map[primitive.ObjectID]*schedule.TrainingProfile)
	weeks := make(map[primitive.ObjectID][]domain.Session)
	for _, sess := range sessions {
		if sess.Status != domain.StatusCancelled {
			weeks[sess.CustomerID] = append(weeks[sess.CustomerID], sess)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		p, ok := profiles[sess.CustomerID]
		if !ok {
			loaded, err := s.training.profile(ctx, sess.CustomerID)
			if err != nil && !errors.Is(err, ErrCustomerNotFound) {
				return nil, err
			}
			if err == nil {
				p = &loaded
			}
			profiles[sess.CustomerID] = p
		}

		name, label := "", ""
		if p != nil {
			name = p.Customer.Name
			if sess.Status != domain.StatusCancelled {
				res, err := schedule.Resolve(*p, sess, weeks[sess.CustomerID])
				if err != nil {
					s.logger.Warn("training day not resolved for export", zap.String("sessionId", sess.ID.Hex()), zap.Error(err))
				} else {
					label = res.Label
				}
			}
		}

		row := []string{
			sess.Date.String(), sess.StartTime, sess.EndTime,
			sess.CustomerID.Hex(), name,
			string(sess.Type), string(sess.Status), label,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
