package service

import (
	"context"

	"dat-backend/internal/domains/slug/model"
	"dat-backend/internal/domains/slug/repository"
	"dat-backend/internal/shared/utils"
)

type resolver struct {
	forward repository.ForwardMap
	aliases repository.AliasStore
}

func NewResolver(forward repository.ForwardMap, aliases repository.AliasStore) Resolver {
	return &resolver{forward: forward, aliases: aliases}
}

// Resolve walks the forward map and alias sets to a fixed point.
//
// Order per step: forward rule first, then alias ownership. The walk
// records its path, which collapses chains (a→b, b→c resolves a to c)
// and detects cycles: when a step lands on a slug already on the path,
// every member of the loop resolves to the lexicographically smallest
// slug in it. The representative does not depend on where the walk
// entered the cycle, so resolution stays idempotent and two members of
// one loop can never redirect to each other. Self-maps in the data are
// treated as fixed points, so bad rows cannot hang a request.
func (r *resolver) Resolve(ctx context.Context, input string) (string, error) {
	current := utils.NormalizeSlug(input)
	if current == "" {
		return "", model.ErrInvalidSlug
	}

	// One fresh load per resolution; every hop of the walk sees the
	// same snapshot, which keeps the result deterministic even if the
	// sheet changes mid-flight.
	forward, err := r.forward.Load(ctx)
	if err != nil {
		return "", model.NewUpstreamUnavailable(err)
	}

	path := []string{current}
	index := map[string]int{current: 0}
	for {
		next, stepped := "", false
		if target, ok := forward[current]; ok && target != current {
			next, stepped = target, true
		} else {
			canonical, ok, err := r.aliases.CanonicalForAlias(ctx, current)
			if err != nil {
				return "", model.NewUpstreamUnavailable(err)
			}
			if ok && canonical != current {
				next, stepped = canonical, true
			}
		}

		if !stepped {
			return current, nil
		}
		if i, seen := index[next]; seen {
			return cycleRepresentative(path[i:]), nil
		}

		index[next] = len(path)
		path = append(path, next)
		current = next
	}
}

// cycleRepresentative picks the canonical slug for a loop: the smallest
// member, which is the same no matter which member the walk started from.
func cycleRepresentative(members []string) string {
	smallest := members[0]
	for _, m := range members[1:] {
		if m < smallest {
			smallest = m
		}
	}
	return smallest
}
