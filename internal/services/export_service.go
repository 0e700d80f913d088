package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/marketplace-service/internal/models"
	"github.com/SAP-F-2025/marketplace-service/internal/repositories"
	"github.com/SAP-F-2025/marketplace-service/internal/utils"
)

const rosterSheet = "Roster"

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// CourseRoster exports the enrolled accounts of a course as an XLSX workbook.
// Only the course instructor or an admin may download it.
func (s *exportService) CourseRoster(ctx context.Context, courseID string, principal *models.User) (*excelize.File, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if !ownerOrAdmin(principal, course.InstructorID) {
		return nil, NewPermissionError(principal.ID, courseID, "course", "export_roster", "not the course instructor")
	}

	var students []*models.User
	if len(course.EnrolledStudentIDs) > 0 {
		students, err = s.repo.User().GetByIDs(ctx, course.EnrolledStudentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load enrolled users: %w", err)
		}
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"#", "Email", "First Name", "Last Name", "Enrolled Courses"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(rosterSheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, student := range students {
		firstName, lastName := "", ""
		if student.Profile != nil {
			firstName = student.Profile.FirstName
			lastName = student.Profile.LastName
		}
		values := []interface{}{row + 1, student.Email, firstName, lastName, len(student.EnrolledCourseIDs)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(rosterSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	s.logger.InfoContext(ctx, "roster exported", "course_id", courseID, "students", len(students), "exported_by", principal.ID)
	return f, nil
}
