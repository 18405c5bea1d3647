package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusadvisor/advisor-api/internal/models"
)

type enrollmentSetReader interface {
	CompletedCourses(ctx context.Context, studentID string) (map[string]struct{}, error)
	CurrentCourses(ctx context.Context, studentID string) (map[string]struct{}, error)
}

// PrerequisiteService checks prerequisite satisfaction against the live
// catalog and expands prerequisite chains from the curriculum guide.
type PrerequisiteService struct {
	catalog     *CatalogService
	equiv       *EquivalencyResolver
	enrollments enrollmentSetReader
	logger      *zap.Logger
}

// NewPrerequisiteService constructs the service.
func NewPrerequisiteService(catalog *CatalogService, equiv *EquivalencyResolver, enrollments enrollmentSetReader, logger *zap.Logger) *PrerequisiteService {
	if equiv == nil {
		equiv = NewEquivalencyResolver(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrerequisiteService{catalog: catalog, equiv: equiv, enrollments: enrollments, logger: logger}
}

// CheckSatisfied reports whether a course's declared prerequisites are
// covered by the union of completed and concurrent courses. Courses the live
// catalog does not know, or that declare no prerequisites, are never blocked.
// The missing list preserves declaration order.
func (s *PrerequisiteService) CheckSatisfied(ctx context.Context, code string, completed, concurrent map[string]struct{}) (bool, []string) {
	available := make(map[string]struct{}, len(completed)+len(concurrent))
	for c := range completed {
		available[c] = struct{}{}
	}
	for c := range concurrent {
		available[c] = struct{}{}
	}

	declared, found := s.catalog.Prerequisites(ctx, code)
	if !found || len(declared) == 0 {
		return true, nil
	}

	var missing []string
	for _, prereq := range declared {
		if s.equiv.IsGroup(prereq) {
			if !s.equiv.IsSatisfiedBy(prereq, available) {
				missing = append(missing, prereq)
			}
			continue
		}
		if _, ok := available[prereq]; !ok {
			missing = append(missing, prereq)
		}
	}

	return len(missing) == 0, missing
}

// BuildChain expands the full prerequisite tree for a course from curriculum
// metadata. The visited set is copied per branch so diamond dependencies
// still expand fully; a code reappearing on its own path becomes a terminal
// node marked circular instead of recursing.
func (s *PrerequisiteService) BuildChain(code string) *models.PrereqChainNode {
	return s.buildChain(code, map[string]struct{}{})
}

func (s *PrerequisiteService) buildChain(code string, visited map[string]struct{}) *models.PrereqChainNode {
	if _, seen := visited[code]; seen {
		return &models.PrereqChainNode{Code: code, Circular: true}
	}
	visited[code] = struct{}{}

	node := &models.PrereqChainNode{Code: code, Name: "Unknown", Credits: defaultCredits}
	info, ok := s.catalog.GuideCourse(code)
	if !ok {
		return node
	}
	node.Name = info.Name
	node.Credits = info.Credits

	for _, prereq := range info.Prerequisites {
		branch := make(map[string]struct{}, len(visited))
		for c := range visited {
			branch[c] = struct{}{}
		}
		node.Prerequisites = append(node.Prerequisites, s.buildChain(prereq, branch))
	}
	return node
}

// EligibleCourses lists catalog courses the student could take now: not yet
// taken, with all prerequisites met. Sorted by course code.
func (s *PrerequisiteService) EligibleCourses(ctx context.Context, studentID string) ([]models.CourseEligibility, error) {
	all, err := s.CoursesWithEligibility(ctx, studentID)
	if err != nil {
		return nil, err
	}
	eligible := make([]models.CourseEligibility, 0, len(all))
	for _, course := range all {
		if course.Eligible {
			eligible = append(eligible, course)
		}
	}
	return eligible, nil
}

// CoursesWithEligibility classifies every guide course for the student:
// completed, enrolled, eligible, or missing prerequisites.
func (s *PrerequisiteService) CoursesWithEligibility(ctx context.Context, studentID string) ([]models.CourseEligibility, error) {
	completed, err := s.enrollments.CompletedCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}
	current, err := s.enrollments.CurrentCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}

	available := make(map[string]struct{}, len(completed)+len(current))
	for c := range completed {
		available[c] = struct{}{}
	}
	for c := range current {
		available[c] = struct{}{}
	}

	var out []models.CourseEligibility
	for _, info := range s.catalog.AllGuideCourses() {
		entry := models.CourseEligibility{
			Code:                 info.Code,
			Name:                 info.Name,
			Credits:              info.Credits,
			SemesterOffered:      info.Semester,
			Prerequisites:        info.Prerequisites,
			MissingPrerequisites: []string{},
		}

		if _, done := completed[info.Code]; done {
			entry.Status = models.EligibilityCompleted
		} else if _, taking := current[info.Code]; taking {
			entry.Status = models.EligibilityEnrolled
		} else if met, missing := s.CheckSatisfied(ctx, info.Code, available, nil); met {
			entry.Status = models.EligibilityEligible
			entry.Eligible = true
		} else {
			entry.Status = models.EligibilityMissingPrereqs
			entry.MissingPrerequisites = missing
		}

		out = append(out, entry)
	}
	return out, nil
}

// CoursesByStatus groups the eligibility listing by status.
func (s *PrerequisiteService) CoursesByStatus(ctx context.Context, studentID string) (map[models.EligibilityStatus][]models.CourseEligibility, error) {
	all, err := s.CoursesWithEligibility(ctx, studentID)
	if err != nil {
		return nil, err
	}

	grouped := map[models.EligibilityStatus][]models.CourseEligibility{
		models.EligibilityEligible:       {},
		models.EligibilityCompleted:      {},
		models.EligibilityEnrolled:       {},
		models.EligibilityMissingPrereqs: {},
	}
	for _, course := range all {
		grouped[course.Status] = append(grouped[course.Status], course)
	}
	return grouped, nil
}
