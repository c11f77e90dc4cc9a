package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/models"
	"github.com/opencampus/academics-service/internal/repositories"
	"github.com/opencampus/academics-service/internal/validator"
)

const (
	studentImportColumns = 7 // username,password,first_name,last_name,email,roll_no,class_name
	facultyImportColumns = 5 // username,password,first_name,last_name,email
)

type importService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) ImportService {
	return &importService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

// ImportStudents reads a CSV of student accounts and creates a user plus a
// student profile per valid row. Rows that fail validation are skipped with a
// warning; an unexpected failure rolls back the whole upload.
func (s *importService) ImportStudents(ctx context.Context, r io.Reader) (*ImportResult, error) {
	s.logger.Info("Importing students from CSV")

	rows, err := readImportRows(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for i, row := range rows {
			line := i + 2 // 1-based, after the header
			warn, err := s.importStudentRow(ctx, txRepo, row, line)
			if err != nil {
				return err
			}
			if warn != "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, warn)
				continue
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import students: %w", err)
	}

	s.logger.Info("Student import finished", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

// ImportFaculty reads a CSV of faculty accounts. Same per-row semantics as
// ImportStudents, without the roll number and class columns.
func (s *importService) ImportFaculty(ctx context.Context, r io.Reader) (*ImportResult, error) {
	s.logger.Info("Importing faculty from CSV")

	rows, err := readImportRows(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for i, row := range rows {
			line := i + 2
			warn, err := s.importFacultyRow(ctx, txRepo, row, line)
			if err != nil {
				return err
			}
			if warn != "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, warn)
				continue
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import faculty: %w", err)
	}

	s.logger.Info("Faculty import finished", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

// importStudentRow returns a warning string when the row should be skipped.
// A non-nil error aborts the surrounding transaction.
func (s *importService) importStudentRow(ctx context.Context, txRepo repositories.Repository, row []string, line int) (string, error) {
	if len(row) != studentImportColumns {
		return fmt.Sprintf("line %d: expected %d columns, got %d", line, studentImportColumns, len(row)), nil
	}

	username := strings.TrimSpace(row[0])
	password := row[1]
	rollNo := strings.TrimSpace(row[5])
	className := strings.TrimSpace(row[6])

	if username == "" || password == "" {
		return fmt.Sprintf("line %d: username and password are required", line), nil
	}
	if rollNo == "" {
		return fmt.Sprintf("line %d: roll number is required", line), nil
	}
	if className == "" {
		return fmt.Sprintf("line %d: class name is required", line), nil
	}

	exists, err := txRepo.User().ExistsByUsername(ctx, nil, username)
	if err != nil {
		return "", fmt.Errorf("line %d: failed to check username: %w", line, err)
	}
	if exists {
		return fmt.Sprintf("line %d: username %q already exists", line, username), nil
	}

	taken, err := txRepo.Student().ExistsByRollNo(ctx, nil, rollNo)
	if err != nil {
		return "", fmt.Errorf("line %d: failed to check roll number: %w", line, err)
	}
	if taken {
		return fmt.Sprintf("line %d: roll number %q already exists", line, rollNo), nil
	}

	class, err := txRepo.Class().GetByName(ctx, nil, className)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Sprintf("line %d: class %q not found", line, className), nil
		}
		return "", fmt.Errorf("line %d: failed to look up class: %w", line, err)
	}

	user, err := buildImportedUser(row, models.RoleStudent)
	if err != nil {
		return "", fmt.Errorf("line %d: %w", line, err)
	}
	if err := txRepo.User().Create(ctx, nil, user); err != nil {
		return "", fmt.Errorf("line %d: failed to create user: %w", line, err)
	}
	profile := &models.StudentProfile{
		UserID:  user.ID,
		RollNo:  rollNo,
		ClassID: class.ID,
	}
	if err := txRepo.Student().Create(ctx, nil, profile); err != nil {
		return "", fmt.Errorf("line %d: failed to create student profile: %w", line, err)
	}

	return "", nil
}

func (s *importService) importFacultyRow(ctx context.Context, txRepo repositories.Repository, row []string, line int) (string, error) {
	if len(row) != facultyImportColumns {
		return fmt.Sprintf("line %d: expected %d columns, got %d", line, facultyImportColumns, len(row)), nil
	}

	username := strings.TrimSpace(row[0])
	password := row[1]

	if username == "" || password == "" {
		return fmt.Sprintf("line %d: username and password are required", line), nil
	}

	exists, err := txRepo.User().ExistsByUsername(ctx, nil, username)
	if err != nil {
		return "", fmt.Errorf("line %d: failed to check username: %w", line, err)
	}
	if exists {
		return fmt.Sprintf("line %d: username %q already exists", line, username), nil
	}

	user, err := buildImportedUser(row, models.RoleFaculty)
	if err != nil {
		return "", fmt.Errorf("line %d: %w", line, err)
	}
	if err := txRepo.User().Create(ctx, nil, user); err != nil {
		return "", fmt.Errorf("line %d: failed to create user: %w", line, err)
	}

	return "", nil
}

// readImportRows parses the CSV and strips the mandatory header row. Column
// counts are checked per row by the callers so that one short row skips
// instead of failing the whole file.
func readImportRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return records[1:], nil
}

func buildImportedUser(row []string, role models.UserRole) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(row[1]), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &models.User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(row[0]),
		FirstName:    strings.TrimSpace(row[2]),
		LastName:     strings.TrimSpace(row[3]),
		Email:        strings.TrimSpace(row[4]),
		PasswordHash: string(hash),
		Role:         role,
	}, nil
}
