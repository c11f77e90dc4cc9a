package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/opencampus/academics-service/internal/repositories"
)

const chatbotFallback = "I'm sorry, I don't understand that question. Try asking about student counts, faculty counts, or low attendance."

type chatbotService struct {
	repo    repositories.Repository
	db      *gorm.DB
	logger  *slog.Logger
	reports ReportService
}

func NewChatbotService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, reports ReportService) ChatbotService {
	return &chatbotService{
		repo:    repo,
		db:      db,
		logger:  logger,
		reports: reports,
	}
}

// chatHandler answers one family of questions.
type chatHandler struct {
	patterns []string
	answer   func(ctx context.Context) (string, error)
}

func (s *chatbotService) handlers() []chatHandler {
	return []chatHandler{
		{
			patterns: []string{"how many students", "count students"},
			answer:   s.answerStudentCount,
		},
		{
			patterns: []string{"how many faculty", "how many teachers", "count faculty", "count teachers"},
			answer:   s.answerFacultyCount,
		},
		{
			patterns: []string{"average attendance", "overall attendance"},
			answer:   s.answerAverageAttendance,
		},
		{
			patterns: []string{"low attendance", "who has low attendance"},
			answer:   s.answerLowAttendance,
		},
	}
}

func (s *chatbotService) Ask(ctx context.Context, message string) (*ChatResponse, error) {
	question := strings.ToLower(strings.TrimSpace(message))
	s.logger.Info("Chatbot question", "question", question)

	for _, handler := range s.handlers() {
		if !matchesAny(question, handler.patterns) {
			continue
		}

		reply, err := handler.answer(ctx)
		if err != nil {
			s.logger.Error("Chatbot handler failed", "question", question, "error", err)
			return &ChatResponse{Reply: fmt.Sprintf("I encountered an error trying to answer that: %v", err)}, nil
		}
		return &ChatResponse{Reply: reply}, nil
	}

	return &ChatResponse{Reply: chatbotFallback}, nil
}

func matchesAny(question string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(question, pattern) {
			return true
		}
	}
	return false
}

// ===== ANSWER HANDLERS =====

func (s *chatbotService) answerStudentCount(ctx context.Context) (string, error) {
	count, err := s.repo.Dashboard().GetTotalStudents(ctx, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("There are currently %d students registered in the system.", count), nil
}

func (s *chatbotService) answerFacultyCount(ctx context.Context) (string, error) {
	count, err := s.repo.Dashboard().GetTotalFaculty(ctx, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("There are %d faculty members in the system.", count), nil
}

func (s *chatbotService) answerAverageAttendance(ctx context.Context) (string, error) {
	avg, err := s.repo.Attendance().GetAveragePresence(ctx, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("The overall average attendance is %.2f%%.", avg*100), nil
}

func (s *chatbotService) answerLowAttendance(ctx context.Context) (string, error) {
	report, err := s.reports.GetLowAttendanceReport(ctx)
	if err != nil {
		return "", err
	}

	if len(report.Students) == 0 {
		return "Great news! No students currently have low attendance.", nil
	}

	var b strings.Builder
	b.WriteString("Here are the students with low attendance (<75%):\n")
	for _, student := range report.Students {
		fmt.Fprintf(&b, "- %s (%.1f%%)\n", student.StudentName, student.Percentage)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
