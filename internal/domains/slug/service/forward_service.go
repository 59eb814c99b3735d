package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hibiken/asynq"

	"dat-backend/internal/domains/slug/model"
	"dat-backend/internal/domains/slug/repository"
	"dat-backend/internal/shared"
	"dat-backend/internal/shared/utils"
	"dat-backend/pkg/logger"
)

// TaskEnqueuer is the slice of asynq.Client we use; narrowed for tests.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type forwardService struct {
	resolver Resolver
	forward  repository.ForwardMap
	aliases  repository.AliasStore
	enqueuer TaskEnqueuer
}

func NewForwardService(resolver Resolver, forward repository.ForwardMap, aliases repository.AliasStore, enqueuer TaskEnqueuer) ForwardService {
	return &forwardService{
		resolver: resolver,
		forward:  forward,
		aliases:  aliases,
		enqueuer: enqueuer,
	}
}

func (s *forwardService) Lookup(ctx context.Context, slug string) (*string, error) {
	normalized := utils.NormalizeSlug(slug)
	if normalized == "" {
		return nil, model.ErrInvalidSlug
	}

	canonical, err := s.resolver.Resolve(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if canonical == normalized {
		return nil, nil
	}
	return &canonical, nil
}

func (s *forwardService) RecordForward(ctx context.Context, old, next, source string) error {
	from := utils.NormalizeSlug(old)
	to := utils.NormalizeSlug(next)

	rule := model.ForwardRule{FromSlug: from, ToSlug: to}
	if err := rule.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(shared.PersistSlugForwardPayload{
		FromSlug: from,
		ToSlug:   to,
		Source:   source,
	})
	if err != nil {
		return fmt.Errorf("record forward: marshal: %w", err)
	}

	task := asynq.NewTask(shared.TypePersistSlugForward, payload)
	if _, err := s.enqueuer.Enqueue(task, asynq.Queue(shared.QueueSlugs), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("record forward: enqueue: %w", err)
	}

	logger.Info("forward rule queued", map[string]interface{}{
		"from":   from,
		"to":     to,
		"source": source,
	})
	return nil
}

func (s *forwardService) AliasDiagnostics(ctx context.Context, slug string) (model.AliasDiagnostics, error) {
	aliases, err := s.aliases.Aliases(ctx, slug)
	if err != nil {
		return model.AliasDiagnostics{}, model.NewUpstreamUnavailable(err)
	}

	list := make([]string, 0, len(aliases))
	for a := range aliases {
		list = append(list, a)
	}
	sort.Strings(list)

	return model.AliasDiagnostics{AliasCount: len(list), Aliases: list}, nil
}

func (s *forwardService) InvalidateAliases(ctx context.Context, slug string) error {
	return s.aliases.Invalidate(ctx, slug)
}

func (s *forwardService) DebugDump(ctx context.Context, slug string) (model.ForwardDebugDump, error) {
	dump := model.ForwardDebugDump{Slug: utils.NormalizeSlug(slug)}

	probe, err := s.forward.Probe(ctx)
	dump.FetchOK = probe.FetchOK
	dump.FetchError = probe.FetchError
	dump.CSVBytes = probe.CSVBytes
	dump.RowCount = probe.RowCount
	dump.MapSize = probe.MapSize
	if err != nil {
		// The probe result itself is the diagnostic; still report it.
		return dump, nil
	}

	target, err := s.Lookup(ctx, slug)
	if err != nil {
		dump.FetchError = err.Error()
		return dump, nil
	}
	dump.Target = target
	return dump, nil
}
