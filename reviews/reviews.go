// Package reviews submits, lists, and deletes product reviews, and keeps
// unrelated UI surfaces informed through the event bus: mutations announce
// ReviewsChanged, refetched aggregates announce ReviewsUpdated.
package reviews

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vasastore/storefront-client/client"
	apperrors "github.com/vasastore/storefront-client/errors"
	"github.com/vasastore/storefront-client/events"
	"github.com/vasastore/storefront-client/models"
	"github.com/vasastore/storefront-client/normalize"
)

type Service struct {
	api      *client.Client
	bus      *events.Bus
	validate *validator.Validate
}

func NewService(api *client.Client, bus *events.Bus) *Service {
	return &Service{
		api:      api,
		bus:      bus,
		validate: validator.New(),
	}
}

type submission struct {
	Rating  int    `validate:"required,gte=1,lte=5"`
	Comment string `validate:"required"`
}

// All lists every review site-wide (GET /reviews).
func (s *Service) All(ctx context.Context) ([]models.Review, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/reviews", nil)
	if err != nil {
		return nil, err
	}
	return normalize.Reviews(raw), nil
}

// Recent lists the latest reviews for the testimonial strip
// (GET /reviews/recent).
func (s *Service) Recent(ctx context.Context) ([]models.Review, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/reviews/recent", nil)
	if err != nil {
		return nil, err
	}
	return normalize.Reviews(raw), nil
}

// List fetches one product's reviews and publishes the refreshed aggregate
// so cached display values elsewhere can be patched in place.
func (s *Service) List(ctx context.Context, productID int) ([]models.Review, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, fmt.Sprintf("/products/%d/reviews", productID), nil)
	if err != nil {
		return nil, err
	}

	list := normalize.Reviews(raw)
	agg := normalize.Aggregate(raw, list)
	s.bus.Publish(events.Event{
		Kind:        events.ReviewsUpdated,
		ProductID:   productID,
		Rating:      agg.Rating,
		ReviewCount: agg.ReviewCount,
	})
	return list, nil
}

// Submit posts a review as a multipart form. Validation failures (rating out
// of range, empty comment) are caught before any network call.
func (s *Service) Submit(ctx context.Context, productID int, rating int, comment string, token string) error {
	sub := submission{Rating: rating, Comment: strings.TrimSpace(comment)}
	if err := s.validate.Struct(sub); err != nil {
		return apperrors.New(apperrors.ErrValidation.Code, apperrors.ErrValidation.Message, err)
	}
	if token == "" {
		return apperrors.ErrAuthRequired
	}

	form := client.NewMultipart().
		AddField("rating", strconv.Itoa(rating)).
		AddField("comment", sub.Comment)

	_, err := s.api.Request(ctx, http.MethodPost, fmt.Sprintf("/products/%d/reviews", productID), &client.Options{
		Token:     token,
		Multipart: form,
	})
	if err != nil {
		return err
	}

	s.bus.Publish(events.Event{Kind: events.ReviewsChanged, ProductID: productID})
	return nil
}

// Delete removes a review (owner or admin role) and announces the change.
func (s *Service) Delete(ctx context.Context, productID, reviewID int, token string) error {
	if token == "" {
		return apperrors.ErrAuthRequired
	}

	_, err := s.api.Request(ctx, http.MethodDelete, fmt.Sprintf("/products/%d/reviews/%d", productID, reviewID), &client.Options{Token: token})
	if err != nil {
		return err
	}

	s.bus.Publish(events.Event{Kind: events.ReviewsChanged, ProductID: productID})
	return nil
}
