package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campusadvisor/advisor-api/internal/models"
)

// defaultCredits is assumed when neither source knows a course's credit value.
const defaultCredits = 3

type courseReader interface {
	FindByCode(ctx context.Context, code string) (*models.CourseRecord, error)
	ListCodes(ctx context.Context) ([]string, error)
}

// CatalogService holds the in-memory prerequisite catalog. The curriculum
// guide seeds display metadata (names, credits, semester offered); the live
// course catalog is the enforcement source for prerequisites and always takes
// precedence. The guide layer loads lazily and reloads as an all-or-nothing
// swap, so readers never observe a partial map.
type CatalogService struct {
	courses courseReader
	cache   *CacheService
	logger  *zap.Logger

	curriculumPath string
	cacheTTL       time.Duration

	mu     sync.RWMutex
	loaded bool
	guide  map[string]models.CurriculumCourse
}

// NewCatalogService constructs the catalog.
func NewCatalogService(courses courseReader, cache *CacheService, curriculumPath string, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CatalogService{
		courses:        courses,
		cache:          cache,
		logger:         logger,
		curriculumPath: curriculumPath,
		cacheTTL:       cacheTTL,
		guide:          map[string]models.CurriculumCourse{},
	}
}

// ensureLoaded lazily loads the curriculum guide. Load failures are logged
// and leave the guide empty; an empty catalog degrades to fail-open behavior
// rather than blocking unrelated parts of the system.
func (s *CatalogService) ensureLoaded() {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	guide, err := s.loadCurriculum()
	if err != nil {
		s.logger.Warn("could not load curriculum data, catalog starts empty", zap.Error(err))
		s.loaded = true
		return
	}
	s.guide = guide
	s.loaded = true
	s.logger.Info("curriculum catalog loaded", zap.Int("courses", len(guide)))
}

// Reload re-reads the curriculum guide and swaps the in-memory map whole.
// Cached live-course entries are dropped afterwards so the next lookup sees
// whatever catalog change prompted the reload.
func (s *CatalogService) Reload(ctx context.Context) error {
	guide, err := s.loadCurriculum()
	if err != nil {
		return fmt.Errorf("reload curriculum: %w", err)
	}
	s.mu.Lock()
	s.guide = guide
	s.loaded = true
	s.mu.Unlock()

	codes, err := s.courses.ListCodes(ctx)
	if err != nil {
		s.logger.Warn("could not list live courses for cache invalidation", zap.Error(err))
	}
	for _, code := range codes {
		s.InvalidateCourse(ctx, code)
	}

	s.logger.Info("curriculum catalog reloaded", zap.Int("courses", len(guide)))
	return nil
}

func (s *CatalogService) loadCurriculum() (map[string]models.CurriculumCourse, error) {
	raw, err := os.ReadFile(s.curriculumPath)
	if err != nil {
		return nil, err
	}

	var data models.CurriculumGuide
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse curriculum guide: %w", err)
	}

	guide := map[string]models.CurriculumCourse{}
	add := func(groups []models.CourseGroup) {
		for _, group := range groups {
			for _, course := range group.Courses {
				if course.Code == "" {
					continue
				}
				if course.Credits <= 0 {
					course.Credits = defaultCredits
				}
				if course.Semester == "" {
					course.Semester = "F/S"
				}
				guide[course.Code] = course
			}
		}
	}

	add(data.CoreCurriculum)
	for _, major := range data.Majors {
		add(major.RequiredCourses)
		add(major.ElectiveCourses)
	}
	for _, concentration := range data.Concentrations {
		add(concentration.CourseGroups)
	}
	if data.Prerequisites != nil {
		add([]models.CourseGroup{*data.Prerequisites})
	}

	return guide, nil
}

// GuideCourse returns the curriculum-guide entry for a course, if the guide
// knows it. Guide data is display metadata only.
func (s *CatalogService) GuideCourse(code string) (models.CurriculumCourse, bool) {
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.guide[code]
	return course, ok
}

// AllGuideCourses returns every guide entry sorted by course code.
func (s *CatalogService) AllGuideCourses() []models.CurriculumCourse {
	s.ensureLoaded()
	s.mu.RLock()
	courses := make([]models.CurriculumCourse, 0, len(s.guide))
	for _, course := range s.guide {
		courses = append(courses, course)
	}
	s.mu.RUnlock()

	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses
}

// Course returns the live catalog record for a code, consulting the cache
// first. A nil record with nil error means the catalog has no such course.
func (s *CatalogService) Course(ctx context.Context, code string) (*models.CourseRecord, error) {
	key := "catalog:course:" + code

	var cached models.CourseRecord
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	course, err := s.courses.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, nil
	}

	if err := s.cache.Set(ctx, key, course, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache course", zap.String("code", code), zap.Error(err))
	}
	return course, nil
}

// Prerequisites returns the enforcement-time prerequisite list for a course
// from the live catalog. found distinguishes "course unknown" from
// "prerequisites explicitly empty"; both fail open downstream. Lookup errors
// are logged and reported as unknown, never propagated.
func (s *CatalogService) Prerequisites(ctx context.Context, code string) (prereqs []string, found bool) {
	course, err := s.Course(ctx, code)
	if err != nil {
		s.logger.Warn("prerequisite lookup failed, treating course as unknown",
			zap.String("code", code), zap.Error(err))
		return nil, false
	}
	if course == nil {
		return nil, false
	}
	return course.Prerequisites, true
}

// CreditsOf returns a course's credit value: guide first, then the live
// catalog, then the default of 3.
func (s *CatalogService) CreditsOf(ctx context.Context, code string) float64 {
	if course, ok := s.GuideCourse(code); ok {
		return course.Credits
	}

	course, err := s.Course(ctx, code)
	if err == nil && course != nil && course.Credits > 0 {
		return course.Credits
	}
	return defaultCredits
}

// InvalidateCourse drops the cached copy of a course after catalog ingestion
// touches it.
func (s *CatalogService) InvalidateCourse(ctx context.Context, code string) {
	if err := s.cache.Invalidate(ctx, "catalog:course:"+code); err != nil {
		s.logger.Warn("failed to invalidate course cache", zap.String("code", code), zap.Error(err))
	}
}
