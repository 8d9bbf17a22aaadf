// Package service provides business logic for applications.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	"github.com/festy23/workmatch/internal/application/repository"
	"github.com/festy23/workmatch/internal/clock"
	"github.com/festy23/workmatch/internal/config"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
	"github.com/festy23/workmatch/pkg/dberr"
)

// Service defines application operations.
type Service interface {
	// Apply records an APPLYING application of a for postID.
	Apply(ctx context.Context, a applicant.Applicant, postID int64) (*applicationModel.Application, error)

	// AppliedPostIDs returns the posts any of applicants applied to,
	// restricted to postIDs when given.
	AppliedPostIDs(ctx context.Context, applicants []applicant.Applicant, postIDs []int64) ([]int64, error)
}

type service struct {
	repo   repository.Repository
	posts  postRepository.Repository
	db     *gorm.DB
	logger *zap.SugaredLogger
	node   *snowflake.Node
	clock  clock.Clock
	cfg    *config.MatchingConfigHolder
}

// New creates a new application service instance.
func New(
	repo repository.Repository,
	posts postRepository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	node *snowflake.Node,
	clk clock.Clock,
	cfg *config.MatchingConfigHolder,
) Service {
	return &service{
		repo:   repo,
		posts:  posts,
		db:     db,
		logger: logger,
		node:   node,
		clock:  clk,
		cfg:    cfg,
	}
}

// Apply records an APPLYING application.
func (s *service) Apply(
	ctx context.Context,
	a applicant.Applicant,
	postID int64,
) (*applicationModel.Application, error) {
	s.logger.Debugw("Applying for post", "applicant", a.String(), "post_id", postID)

	if a.IsZero() {
		return nil, applicant.ErrInvalid
	}

	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	today := clock.Today(s.clock, s.cfg.Get().Location())
	if post.ClosedOn(today) {
		return nil, applicationModel.ErrPostClosed
	}

	app := applicationModel.NewApplication(
		s.node.Generate().Int64(),
		a,
		postID,
		applicationModel.StatusApplying,
		s.clock.Now(),
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		exists, err := txRepo.Exists(ctx, a, postID)
		if err != nil {
			return err
		}
		if exists {
			return applicationModel.ErrApplicationExists
		}
		return txRepo.Create(ctx, app)
	})
	if err != nil {
		if errors.Is(err, applicationModel.ErrApplicationExists) || dberr.IsDuplicateKey(err) {
			s.logger.Infow("Application already exists", "applicant", a.String(), "post_id", postID)
			return nil, applicationModel.ErrApplicationExists
		}
		s.logger.Errorw("Failed to create application", "applicant", a.String(), "post_id", postID, "error", err)
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.Infow("Application created",
		"application_id", app.ID,
		"applicant", a.String(),
		"post_id", postID,
	)
	return app, nil
}

// AppliedPostIDs returns the posts any of applicants applied to.
func (s *service) AppliedPostIDs(
	ctx context.Context,
	applicants []applicant.Applicant,
	postIDs []int64,
) ([]int64, error) {
	return s.repo.AppliedPostIDs(ctx, applicants, postIDs)
}
