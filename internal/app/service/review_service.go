package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrCommentTooShort = errors.New("comment too short")
)

// minCommentLength is the shortest accepted review comment, in runes
const minCommentLength = 10

// ReviewList is the review panel payload. Stale is set when the commerce API
// was unreachable and the list came from the last good fetch.
type ReviewList struct {
	Reviews []upstream.Review `json:"reviews"`
	Stale   bool              `json:"stale"`
}

type ReviewService interface {
	// ProductReviews fetches a product's reviews, falling back to the cache
	// when the commerce API is unreachable
	ProductReviews(ctx context.Context, productID string) (*ReviewList, error)
	// AddReview submits a review on behalf of the signed-in user
	AddReview(ctx context.Context, sessionID, productID string, rating int, comment string) error
	// Responses fetches the store-staff replies for a review
	Responses(ctx context.Context, reviewID string) ([]upstream.AdminResponse, error)
}

type reviewService struct {
	sessions *store.SessionStore
	cache    *store.ReviewCache
	client   *upstream.Client
}

func NewReviewService(sessions *store.SessionStore, cache *store.ReviewCache, client *upstream.Client) ReviewService {
	return &reviewService{sessions: sessions, cache: cache, client: client}
}

func (s *reviewService) ProductReviews(ctx context.Context, productID string) (*ReviewList, error) {
	reviews, err := s.client.ProductReviews(ctx, productID)
	if err == nil {
		if cacheErr := s.cache.Put(ctx, productID, reviews); cacheErr != nil {
			logger.Warn("Failed to cache reviews", map[string]interface{}{
				"product_id": productID,
				"error":      cacheErr.Error(),
			})
		}
		return &ReviewList{Reviews: reviews}, nil
	}

	// A rejected request (bad product id, auth) is not worth masking; only
	// transport failures fall back to the cache.
	if !errors.Is(err, upstream.ErrNetworkError) {
		return nil, err
	}

	cached, cacheErr := s.cache.Get(ctx, productID)
	if errors.Is(cacheErr, kv.ErrNotFound) {
		return nil, err
	}
	if cacheErr != nil {
		return nil, cacheErr
	}

	logger.Warn("Commerce API unreachable, serving cached reviews", map[string]interface{}{
		"product_id": productID,
		"error":      err.Error(),
	})
	return &ReviewList{Reviews: cached, Stale: true}, nil
}

func (s *reviewService) AddReview(ctx context.Context, sessionID, productID string, rating int, comment string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.SignedIn() {
		return ErrNotSignedIn
	}

	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if utf8.RuneCountInString(strings.TrimSpace(comment)) < minCommentLength {
		return ErrCommentTooShort
	}

	if _, err := s.client.AddReview(ctx, upstream.AddReviewRequest{
		ProductID:  productID,
		CustomerID: session.User.ID,
		Rating:     rating,
		Comment:    comment,
	}); err != nil {
		return err
	}

	logger.Info("Review submitted", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
		"user_id":    session.User.ID,
		"rating":     rating,
	})
	return nil
}

func (s *reviewService) Responses(ctx context.Context, reviewID string) ([]upstream.AdminResponse, error) {
	return s.client.ReviewResponses(ctx, reviewID)
}
