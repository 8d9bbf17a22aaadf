// Package service generates daily recommendation batches.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/clock"
	"github.com/festy23/workmatch/internal/config"
	"github.com/festy23/workmatch/internal/lock"
	memberRepository "github.com/festy23/workmatch/internal/member/repository"
	"github.com/festy23/workmatch/internal/metrics"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	"github.com/festy23/workmatch/internal/recommendation/repository"
	"github.com/festy23/workmatch/pkg/dberr"
	"github.com/festy23/workmatch/pkg/retry"
)

// Service defines daily assignment operations.
type Service interface {
	// EnsureDaily returns today's batch for actor, generating it on first call.
	EnsureDaily(ctx context.Context, actor recModel.Actor) (*recModel.BatchResult, error)

	// EnsureForDay returns actor's batch for day, generating it when missing.
	EnsureForDay(ctx context.Context, actor recModel.Actor, day string) (*recModel.BatchResult, error)

	// RunDaily ensures today's batch for every eligible actor of actorType.
	RunDaily(ctx context.Context, actorType recModel.ActorType) (*recModel.RunSummary, error)

	// Today returns the current day key in the configured timezone.
	Today() string
}

// Options carries the collaborators of the assignment service. Locker and
// Metrics may be nil.
type Options struct {
	Selector CandidateSelector
	Config   *config.MatchingConfigHolder
	Clock    clock.Clock
	Node     *snowflake.Node
	Locker   lock.Locker
	Metrics  *metrics.Metrics
}

type service struct {
	repo     repository.Repository
	posts    postRepository.Repository
	members  memberRepository.Repository
	db       *gorm.DB
	logger   *zap.SugaredLogger
	selector CandidateSelector
	cfg      *config.MatchingConfigHolder
	clock    clock.Clock
	node     *snowflake.Node
	locker   lock.Locker
	metrics  *metrics.Metrics
}

// New creates a new assignment service instance.
func New(
	repo repository.Repository,
	posts postRepository.Repository,
	members memberRepository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	opts Options,
) Service {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Config == nil {
		opts.Config = config.NewStaticMatchingConfigHolder(config.DefaultMatchingConfig())
	}
	return &service{
		repo:     repo,
		posts:    posts,
		members:  members,
		db:       db,
		logger:   logger,
		selector: opts.Selector,
		cfg:      opts.Config,
		clock:    opts.Clock,
		node:     opts.Node,
		locker:   opts.Locker,
		metrics:  opts.Metrics,
	}
}

// Today returns the current day key in the configured timezone.
func (s *service) Today() string {
	return clock.Today(s.clock, s.cfg.Get().Location())
}

// EnsureDaily returns today's batch for actor.
func (s *service) EnsureDaily(ctx context.Context, actor recModel.Actor) (*recModel.BatchResult, error) {
	return s.EnsureForDay(ctx, actor, s.Today())
}

// EnsureForDay returns actor's batch for day, generating it when missing.
func (s *service) EnsureForDay(ctx context.Context, actor recModel.Actor, day string) (*recModel.BatchResult, error) {
	if !actor.Type.Valid() || actor.ID <= 0 {
		return nil, recModel.ErrInvalidActor
	}
	if _, err := clock.ParseDay(day, time.UTC); err != nil {
		return nil, fmt.Errorf("invalid day %q: %w", day, err)
	}

	s.logger.Debugw("Ensuring recommendation batch", "actor", actor.String(), "day", day)

	existing, err := s.load(ctx, actor, day)
	if err == nil {
		s.metrics.ObserveAssignment(string(actor.Type), metrics.OutcomeExisting)
		return existing, nil
	}
	if !errors.Is(err, recModel.ErrBatchNotFound) {
		s.logger.Errorw("Failed to load recommendation batch", "actor", actor.String(), "day", day, "error", err)
		return nil, err
	}

	cfg := s.cfg.Get()

	release, winner := s.acquire(ctx, actor, day, cfg)
	defer release()
	if winner != nil {
		s.metrics.ObserveAssignment(string(actor.Type), metrics.OutcomeExisting)
		return winner, nil
	}

	candidates, err := s.selectCandidates(ctx, actor, day, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			s.metrics.ObserveAssignment(string(actor.Type), metrics.OutcomeTimeout)
			s.logger.Warnw("Candidate selection timed out, nothing assigned",
				"actor", actor.String(),
				"day", day,
				"timeout", cfg.SelectionTimeout,
			)
			return &recModel.BatchResult{Actor: actor, Day: day, Entries: []recModel.Recommendation{}}, nil
		}
		s.metrics.ObserveAssignment(string(actor.Type), metrics.OutcomeFailed)
		s.logger.Errorw("Candidate selection failed", "actor", actor.String(), "day", day, "error", err)
		return nil, fmt.Errorf("%w: %v", recModel.ErrSelectionFailed, err)
	}

	batch, entries := s.buildBatch(actor, day, candidates, cfg.DailyLimit)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.New(tx).CreateBatch(ctx, batch, entries)
	})
	if err != nil {
		if !dberr.IsDuplicateKey(err) {
			s.metrics.ObserveAssignment(string(actor.Type), metrics.OutcomeFailed)
			s.logger.Errorw("Failed to persist recommendation batch", "actor", actor.String(), "day", day, "error", err)
			return nil, err
		}

		result, loadErr := s.load(ctx, actor, day)
		if loadErr != nil {
			s.logger.Errorw("Failed to load concurrent recommendation batch",
				"actor", actor.String(),
				"day", day,
				"error", loadErr,
			)
			return nil, loadErr
		}
		s.metrics.ObserveAssignment(string(actor.Type), metrics.OutcomeLostRace)
		s.logger.Infow("Recommendation batch created concurrently, using winner",
			"actor", actor.String(),
			"day", day,
			"batch_id", result.Batch.ID,
		)
		return result, nil
	}

	s.metrics.ObserveAssignment(string(actor.Type), metrics.OutcomeCreated)
	s.logger.Infow("Recommendation batch created",
		"actor", actor.String(),
		"day", day,
		"batch_id", batch.ID,
		"entries", len(entries),
	)

	return &recModel.BatchResult{
		Actor:   actor,
		Day:     day,
		Batch:   batch,
		Entries: entries,
		Created: true,
	}, nil
}

// RunDaily ensures today's batch for every eligible actor of actorType.
// Per-actor failures are counted and logged; the run continues.
func (s *service) RunDaily(ctx context.Context, actorType recModel.ActorType) (*recModel.RunSummary, error) {
	day := s.Today()
	summary := &recModel.RunSummary{ActorType: actorType, Day: day}

	var ids []int64
	var err error
	switch actorType {
	case recModel.ActorCompany:
		ids, err = s.posts.ListCompanyIDsWithOpenPosts(ctx, day)
	case recModel.ActorMember:
		ids, err = s.members.ListMemberIDsWithCareers(ctx, 0)
	default:
		return nil, recModel.ErrInvalidActor
	}
	if err != nil {
		s.logger.Errorw("Failed to list actors for daily run", "actor_type", actorType, "error", err)
		return nil, err
	}

	s.logger.Infow("Daily assignment run started", "actor_type", actorType, "day", day, "actors", len(ids))

	for _, id := range ids {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		summary.Actors++

		result, err := s.EnsureForDay(ctx, recModel.Actor{Type: actorType, ID: id}, day)
		switch {
		case err != nil:
			summary.Failed++
		case result.Batch == nil:
			summary.Skipped++
		case result.Created:
			summary.Created++
		default:
			summary.Existing++
		}
	}

	s.logger.Infow("Daily assignment run finished",
		"actor_type", actorType,
		"day", day,
		"actors", summary.Actors,
		"created", summary.Created,
		"existing", summary.Existing,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *service) load(ctx context.Context, actor recModel.Actor, day string) (*recModel.BatchResult, error) {
	batch, err := s.repo.FindBatch(ctx, actor, day)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	return &recModel.BatchResult{Actor: actor, Day: day, Batch: batch, Entries: entries}, nil
}

// acquire takes the per-(actor, day) lock when a locker is configured. When
// another caller holds it, it waits for that caller's batch and returns it.
// Lock errors and an unfinished winner fall through to normal generation.
func (s *service) acquire(
	ctx context.Context,
	actor recModel.Actor,
	day string,
	cfg config.MatchingConfig,
) (func(), *recModel.BatchResult) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	key := lock.BatchKey(string(actor.Type), actor.ID, day)
	token, ok, err := s.locker.TryLock(ctx, key, cfg.LockTTL)
	if err != nil {
		s.logger.Warnw("Assignment lock unavailable, continuing without it", "key", key, "error", err)
		return noop, nil
	}
	if ok {
		return func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
				s.logger.Warnw("Failed to release assignment lock", "key", key, "error", err)
			}
		}, nil
	}

	winner, err := retry.Poll(ctx, retry.PollConfig(cfg.SelectionTimeout), func() (*recModel.BatchResult, error) {
		result, err := s.load(ctx, actor, day)
		if errors.Is(err, recModel.ErrBatchNotFound) {
			return nil, retry.ErrPending
		}
		return result, err
	})
	if err != nil {
		s.logger.Debugw("Lock holder produced no batch in time", "key", key, "error", err)
		return noop, nil
	}
	return noop, winner
}

// selectCandidates runs the selector bounded by the configured timeout. A
// selector that ignores ctx is abandoned when the deadline passes.
func (s *service) selectCandidates(
	ctx context.Context,
	actor recModel.Actor,
	day string,
	cfg config.MatchingConfig,
) ([]recModel.Candidate, error) {
	selCtx, cancel := context.WithTimeout(ctx, cfg.SelectionTimeout)
	defer cancel()

	type outcome struct {
		candidates []recModel.Candidate
		err        error
	}
	done := make(chan outcome, 1)
	start := s.clock.Now()

	go func() {
		candidates, err := s.selector.SelectCandidates(selCtx, actor, day, cfg.DailyLimit)
		done <- outcome{candidates: candidates, err: err}
	}()

	select {
	case out := <-done:
		s.metrics.ObserveSelection(string(actor.Type), s.clock.Now().Sub(start))
		if out.err != nil && selCtx.Err() != nil {
			return nil, selCtx.Err()
		}
		return out.candidates, out.err
	case <-selCtx.Done():
		s.metrics.ObserveSelection(string(actor.Type), s.clock.Now().Sub(start))
		return nil, selCtx.Err()
	}
}

// buildBatch assigns ids and order to candidates, dropping duplicates and
// anything past limit.
func (s *service) buildBatch(
	actor recModel.Actor,
	day string,
	candidates []recModel.Candidate,
	limit int,
) (*recModel.Batch, []recModel.Recommendation) {
	batch := &recModel.Batch{
		ID:         s.node.Generate().Int64(),
		ActorType:  actor.Type,
		ActorID:    actor.ID,
		AssignedOn: day,
	}

	seen := make(map[recModel.Candidate]struct{}, len(candidates))
	entries := make([]recModel.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if len(entries) == limit {
			break
		}
		if c.Applicant.IsZero() || c.PostID <= 0 {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		entries = append(entries, recModel.Recommendation{
			ID:            s.node.Generate().Int64(),
			BatchID:       batch.ID,
			ActorType:     actor.Type,
			ActorID:       actor.ID,
			AssignedOn:    day,
			ApplicantType: c.Applicant.Kind(),
			ApplicantID:   c.Applicant.ID(),
			PostID:        c.PostID,
			SortOrder:     len(entries),
		})
	}
	return batch, entries
}
