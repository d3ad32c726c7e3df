package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/repository"
	"github.com/spec-kit/case-service/pkg/util/errorutil"
)

// AdminService owns the maintenance surface: mass data loads, the
// holiday calendar and the purge-all operation.
type AdminService struct {
	store  TxRunner
	repos  repository.Repos
	logger *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(store TxRunner, repos repository.Repos, logger *zap.Logger) *AdminService {
	return &AdminService{store: store, repos: repos, logger: logger}
}

// PurgeResult reports how many rows each table lost.
type PurgeResult struct {
	Cases       int64 `json:"cases"`
	Tasks       int64 `json:"tasks"`
	Processes   int64 `json:"processes"`
	Comments    int64 `json:"comments"`
	Attachments int64 `json:"attachments"`
}

// PurgeCases deletes every case and its children in one transaction.
func (s *AdminService) PurgeCases(ctx context.Context, actor string) (*PurgeResult, error) {
	var result PurgeResult
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		var err error
		if result.Comments, err = r.Comments.DeleteAll(ctx); err != nil {
			return err
		}
		if result.Attachments, err = r.Attachments.DeleteAll(ctx); err != nil {
			return err
		}
		if result.Tasks, err = r.Tasks.DeleteAll(ctx); err != nil {
			return err
		}
		if result.Processes, err = r.Processes.DeleteAll(ctx); err != nil {
			return err
		}
		if result.Cases, err = r.Cases.DeleteAll(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Warn("all case data purged",
		zap.String("actor", actor),
		zap.Int64("cases", result.Cases))
	return &result, nil
}

// LoadUsers mass-creates (or refreshes) identity cache rows.
func (s *AdminService) LoadUsers(ctx context.Context, actor string, users []domain.CoreUser) (int, error) {
	if len(users) == 0 {
		return 0, errorutil.NewValidationError("no users supplied", nil)
	}
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		for i := range users {
			users[i].CreatedBy = actor
			users[i].UpdatedBy = actor
			if users[i].Language == "" {
				users[i].Language = "en"
			}
			if err := r.Users.Upsert(ctx, &users[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

// DeleteUsers removes identity cache rows by email.
func (s *AdminService) DeleteUsers(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, errorutil.NewValidationError("no emails supplied", nil)
	}
	return s.repos.Users.DeleteByEmails(ctx, emails)
}

// LoadAuthMatrix mass-creates resolution-group membership rows.
func (s *AdminService) LoadAuthMatrix(ctx context.Context, actor string, entries []domain.AuthMatrixEntry) (int, error) {
	if len(entries) == 0 {
		return 0, errorutil.NewValidationError("no auth matrix entries supplied", nil)
	}
	for i := range entries {
		if entries[i].AssignedGroup == "" || entries[i].UserEmail == "" {
			return 0, errorutil.NewValidationError("assigned group and user email are required", nil)
		}
		entries[i].CreatedBy = actor
		entries[i].UpdatedBy = actor
	}
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		return r.AuthMatrix.Insert(ctx, entries)
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// DeleteAuthMatrixEntry removes one membership row.
func (s *AdminService) DeleteAuthMatrixEntry(ctx context.Context, group, email string) (int64, error) {
	if group == "" || email == "" {
		return 0, errorutil.NewValidationError("group and email are required", nil)
	}
	return s.repos.AuthMatrix.Delete(ctx, group, email)
}

// ListAuthMatrix returns all membership rows.
func (s *AdminService) ListAuthMatrix(ctx context.Context) ([]domain.AuthMatrixEntry, error) {
	return s.repos.AuthMatrix.List(ctx)
}

// LoadLookupData mass-creates reference data rows.
func (s *AdminService) LoadLookupData(ctx context.Context, actor string, entries []domain.LookupEntry) (int, error) {
	if len(entries) == 0 {
		return 0, errorutil.NewValidationError("no lookup entries supplied", nil)
	}
	for i := range entries {
		if entries[i].Object == "" || entries[i].Code == "" {
			return 0, errorutil.NewValidationError("object and code are required", nil)
		}
		if entries[i].RequestType == "" {
			entries[i].RequestType = string(domain.RequestTypeTE)
		}
		if entries[i].Language == "" {
			entries[i].Language = "en"
		}
		entries[i].CreatedBy = actor
		entries[i].UpdatedBy = actor
	}
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		return r.Lookup.Insert(ctx, entries)
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// DeleteLookupData removes all reference rows of one object.
func (s *AdminService) DeleteLookupData(ctx context.Context, requestType, object string) (int64, error) {
	if object == "" {
		return 0, errorutil.NewValidationError("object is required", nil)
	}
	if requestType == "" {
		requestType = string(domain.RequestTypeTE)
	}
	return s.repos.Lookup.DeleteByObject(ctx, requestType, object)
}

// ListLookupData returns the reference rows of one object.
func (s *AdminService) ListLookupData(ctx context.Context, requestType, object, language string) ([]domain.LookupEntry, error) {
	if requestType == "" {
		requestType = string(domain.RequestTypeTE)
	}
	if language == "" {
		language = "en"
	}
	return s.repos.Lookup.ListByObject(ctx, requestType, object, language)
}

// LoadHolidays replaces or extends the public-holiday calendar.
func (s *AdminService) LoadHolidays(ctx context.Context, holidays []repository.Holiday, replace bool) (int, error) {
	if len(holidays) == 0 {
		return 0, errorutil.NewValidationError("no holidays supplied", nil)
	}
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		if replace {
			if _, err := r.Holidays.DeleteAll(ctx); err != nil {
				return err
			}
		}
		return r.Holidays.Insert(ctx, holidays)
	})
	if err != nil {
		return 0, err
	}
	return len(holidays), nil
}

// ListHolidays returns the holiday calendar dates.
func (s *AdminService) ListHolidays(ctx context.Context) ([]time.Time, error) {
	return s.repos.Holidays.ListDates(ctx)
}
