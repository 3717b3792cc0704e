package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"coursemart/internal/model"
	"coursemart/internal/recommend"
	"coursemart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recommendation sources reported to clients.
const (
	SourceRemote  = "remote"
	SourceCache   = "cache"
	SourcePopular = "popular"
)

const (
	defaultRecommendations = 5
	maxRecommendations     = 20
)

// recommendationService implements RecommendationService.
type recommendationService struct {
	recommender recommend.Recommender
	cache       recommend.Cache
	courseRepo  repository.CourseRepository
	orderRepo   repository.OrderRepository
	adminRepo   repository.AdminRepository
	timeout     time.Duration
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// RecommendationOptions bounds the remote call and its cache.
type RecommendationOptions struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(
	recommender recommend.Recommender,
	cache recommend.Cache,
	courseRepo repository.CourseRepository,
	orderRepo repository.OrderRepository,
	adminRepo repository.AdminRepository,
	opts RecommendationOptions,
	logger zerolog.Logger,
) RecommendationService {
	if recommender == nil {
		recommender = recommend.Disabled{}
	}
	if cache == nil {
		cache = recommend.NopCache{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 800 * time.Millisecond
	}
	return &recommendationService{
		recommender: recommender,
		cache:       cache,
		courseRepo:  courseRepo,
		orderRepo:   orderRepo,
		adminRepo:   adminRepo,
		timeout:     opts.Timeout,
		cacheTTL:    opts.CacheTTL,
		logger:      logger.With().Str("service", "recommendation").Logger(),
	}
}

func (s *recommendationService) Recommend(ctx context.Context, userID uuid.UUID, limit int) (*model.RecommendationsResponse, error) {
	if limit < 1 {
		limit = defaultRecommendations
	}
	if limit > maxRecommendations {
		limit = maxRecommendations
	}

	courses, err := s.courseRepo.Search(ctx, model.CourseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}

	purchased, err := s.orderRepo.PurchasedCourseIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	popular, err := s.adminRepo.PopularCourses(ctx, len(courses)+1)
	if err != nil {
		return nil, fmt.Errorf("failed to load popularity: %w", err)
	}

	snapshot := newCatalogSnapshot(courses, purchased, popular)

	items, source := s.remote(ctx, userID, limit, snapshot)

	recommendations := snapshot.resolve(items, limit)
	if len(recommendations) == 0 {
		recommendations = snapshot.popular(limit)
		source = SourcePopular
	}

	return &model.RecommendationsResponse{
		Recommendations: recommendations,
		Source:          source,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

// remote returns cached or freshly fetched items. Failures are logged and yield no items.
func (s *recommendationService) remote(ctx context.Context, userID uuid.UUID, limit int, snapshot *catalogSnapshot) ([]recommend.Item, string) {
	key := recommend.CacheKey(userID.String(), limit)

	items, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("recommendation cache unavailable")
	}
	if found {
		return items, SourceCache
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err = s.recommender.Recommend(callCtx, snapshot.request(userID, limit))
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("falling back to popular courses")
		return nil, SourcePopular
	}

	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, items, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache recommendations")
		}
	}

	return items, SourceRemote
}

// catalogSnapshot is the catalogue view a single recommendation request works from.
type catalogSnapshot struct {
	courses    []model.Course
	byID       map[uuid.UUID]model.Course
	owned      map[uuid.UUID]bool
	popularity map[uuid.UUID]int64
}

func newCatalogSnapshot(courses []model.Course, purchased []uuid.UUID, popular []model.PopularCourse) *catalogSnapshot {
	snap := &catalogSnapshot{
		courses:    courses,
		byID:       make(map[uuid.UUID]model.Course, len(courses)),
		owned:      make(map[uuid.UUID]bool, len(purchased)),
		popularity: make(map[uuid.UUID]int64, len(popular)),
	}
	for _, c := range courses {
		snap.byID[c.ID] = c
	}
	for _, id := range purchased {
		snap.owned[id] = true
	}
	for _, p := range popular {
		snap.popularity[p.ID] = p.OrderCount
	}
	return snap
}

func (c *catalogSnapshot) eligible(course model.Course) bool {
	return course.Available && !c.owned[course.ID]
}

// request builds the remote call body from the snapshot.
func (c *catalogSnapshot) request(userID uuid.UUID, limit int) recommend.Request {
	var (
		products     []recommend.Product
		interactions []recommend.Interaction
		maxPrice     float64
		ownedTotal   float64
		ownedCount   int
		categoryHits = map[string]int{}
	)

	for _, course := range c.courses {
		price, _ := course.Price.Float64()
		if price > maxPrice {
			maxPrice = price
		}

		if c.owned[course.ID] {
			interactions = append(interactions, recommend.Interaction{ProductID: course.ID.String(), Liked: true})
			ownedTotal += price
			ownedCount++
			categoryHits[course.Category]++
		}

		if !course.Available {
			continue
		}
		products = append(products, recommend.Product{
			ID:         course.ID.String(),
			Name:       course.Title,
			Category:   course.Category,
			Price:      price,
			Popularity: float64(c.popularity[course.ID]),
		})
	}

	categories := make([]string, 0, len(categoryHits))
	for category := range categoryHits {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categoryHits[categories[i]] != categoryHits[categories[j]] {
			return categoryHits[categories[i]] > categoryHits[categories[j]]
		}
		return categories[i] < categories[j]
	})

	sensitivity := 0.5
	if ownedCount > 0 && maxPrice > 0 {
		sensitivity = 1 - (ownedTotal/float64(ownedCount))/maxPrice
	}

	return recommend.Request{
		UserData: recommend.UserProfile{
			ID:                  userID.String(),
			PriceSensitivity:    sensitivity,
			PreferredCategories: categories,
		},
		ProductData:      products,
		UserInteractions: interactions,
		NRecommendations: limit,
	}
}

// resolve maps remote items onto eligible catalogue courses, dropping unknown ids and duplicates.
func (c *catalogSnapshot) resolve(items []recommend.Item, limit int) []model.Recommendation {
	result := []model.Recommendation{}
	seen := map[uuid.UUID]bool{}

	for _, item := range items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil || seen[id] {
			continue
		}
		course, ok := c.byID[id]
		if !ok || !c.eligible(course) {
			continue
		}
		seen[id] = true
		result = append(result, model.Recommendation{
			CourseID: course.ID,
			Title:    course.Title,
			Category: course.Category,
			Price:    course.Price,
			Score:    item.ConfidenceScore,
		})
		if len(result) == limit {
			break
		}
	}

	return result
}

// popular ranks eligible courses by order count, newest first on ties.
func (c *catalogSnapshot) popular(limit int) []model.Recommendation {
	candidates := make([]model.Course, 0, len(c.courses))
	for _, course := range c.courses {
		if c.eligible(course) {
			candidates = append(candidates, course)
		}
	}

	// Courses arrive newest first, so a stable sort keeps recency as the tie-breaker.
	sort.SliceStable(candidates, func(i, j int) bool {
		return c.popularity[candidates[i].ID] > c.popularity[candidates[j].ID]
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]model.Recommendation, 0, len(candidates))
	for _, course := range candidates {
		result = append(result, model.Recommendation{
			CourseID: course.ID,
			Title:    course.Title,
			Category: course.Category,
			Price:    course.Price,
			Score:    float64(c.popularity[course.ID]),
		})
	}

	return result
}
