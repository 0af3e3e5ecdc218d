package library

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/spider/commons"
)

// Generator builds term libraries under one configuration. Its cache lives
// as long as the generator, so repeated runs reuse canonical forms.
type Generator struct {
	cfg generatorConfig
}

// NewGenerator applies opts over the defaults: observables [Rho, V], caps of
// DefaultMaxObservables and DefaultMaxRho, a fresh cache, a discarding
// logger, one worker.
func NewGenerator(opts ...Option) *Generator {
	return &Generator{cfg: gatherOptions(opts...)}
}

// Cache returns the generator's canonicalization cache (nil when disabled).
func (g *Generator) Cache() *Cache { return g.cfg.cache }

// GenerateTermsTo is NewGenerator(opts...).TermsTo(complexity).
func GenerateTermsTo(complexity int, opts ...Option) ([]Term, error) {
	return NewGenerator(opts...).TermsTo(complexity)
}

// TermsTo returns ConstantTerm followed by every distinct canonical library
// term of complexity at most complexity, scalar or vector.
//
// For every m in 1..complexity the budget m is split over the observables,
// the coarse-graining operator and the two derivative kinds. Splits without
// an operator or above the caps are skipped. Each remaining split is expanded
// into tensors, the tensors into contraction patterns and valid observable
// arrangements, and every resulting term is canonicalized. A canonical form
// is kept the first time it is reached. The output order is that first-seen
// order and is identical for any worker count.
//
// Errors:
//   - ErrInvalidComplexity       - complexity < 1.
//   - ErrDuplicateObservable     - an observable occurs twice.
//   - commons.ErrUnsupportedRank - an observable has rank ∉ {0, 1}.
func (g *Generator) TermsTo(complexity int) ([]Term, error) {
	if complexity < 1 {
		return nil, libraryErrorf("TermsTo", "complexity=%d", ErrInvalidComplexity, complexity)
	}
	obs, err := g.sortedObservables()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.New()
	log := g.cfg.logger.With(slog.String("run_id", runID.String()))

	parts, err := g.admissiblePartitions(complexity, len(obs))
	if err != nil {
		return nil, err
	}

	results := make([][]*LibraryTerm, len(parts))
	if g.cfg.workers <= 1 {
		for i, part := range parts {
			results[i] = g.expandPartition(log, obs, part, complexity)
		}
	} else {
		var eg errgroup.Group
		eg.SetLimit(g.cfg.workers)
		for i, part := range parts {
			eg.Go(func() error {
				results[i] = g.expandPartition(log, obs, part, complexity)
				return nil
			})
		}
		_ = eg.Wait()
	}

	terms := []Term{ConstantTerm{}}
	seen := make(map[string]struct{})
	for _, batch := range results {
		for _, t := range batch {
			key := t.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			terms = append(terms, t)
		}
	}

	hits, misses := g.cfg.cache.Stats()
	log.Info("generated term library",
		slog.Int("complexity", complexity),
		slog.Int("observables", len(obs)),
		slog.Int("partitions", len(parts)),
		slog.Int("terms", len(terms)),
		slog.Int("cache_entries", g.cfg.cache.Len()),
		slog.Int64("cache_hits", hits),
		slog.Int64("cache_misses", misses),
		slog.Duration("elapsed", time.Since(start)),
	)

	return terms, nil
}

// sortedObservables validates the configured observables and returns them
// in descending order, the order the enumerator consumes them in.
func (g *Generator) sortedObservables() ([]commons.Observable, error) {
	obs := slices.Clone(g.cfg.observables)
	for _, o := range obs {
		if o.Rank != 0 && o.Rank != 1 {
			return nil, libraryErrorf("TermsTo", "%q has rank %d", commons.ErrUnsupportedRank, o.Name, o.Rank)
		}
	}
	slices.SortFunc(obs, func(a, b commons.Observable) int { return b.Compare(a) })
	for i := 1; i < len(obs); i++ {
		if obs[i] == obs[i-1] {
			return nil, libraryErrorf("TermsTo", "%q", ErrDuplicateObservable, obs[i].Name)
		}
	}

	return obs, nil
}

// admissiblePartitions lists the budget vectors of every m in 1..complexity
// that use at least one operator and respect the caps.
func (g *Generator) admissiblePartitions(complexity, k int) ([][]int, error) {
	var out [][]int
	for m := 1; m <= complexity; m++ {
		parts, err := commons.Partition(m, k+3)
		if err != nil {
			return nil, err
		}
		for _, p := range parts {
			if p[k] > 0 && sum(p[:k]) <= g.cfg.maxObservables && p[k] <= g.cfg.maxRho {
				out = append(out, p)
			}
		}
	}

	return out, nil
}

// expandPartition returns the distinct canonical terms reachable from one
// budget vector, in first-seen order.
func (g *Generator) expandPartition(log *slog.Logger, obs []commons.Observable, part []int, complexity int) []*LibraryTerm {
	var (
		out     []*LibraryTerm
		tensors int
		seen    = make(map[string]struct{})
	)
	for tensor := range RawLibraryTensors(obs, part) {
		if tensor.Complexity() > float64(complexity)+complexityEpsilon {
			continue
		}
		tensors++
		for labels := range ListLabels(tensor) {
			index := commons.LabelsToIndexList(labels, tensor.Len())
			for lt := range GetLibraryTerms(tensor, index) {
				canon := lt.Canonicalize(g.cfg.cache)
				key := canon.Key()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, canon)
			}
		}
	}
	log.Debug("expanded partition",
		slog.Any("partition", part),
		slog.Int("tensors", tensors),
		slog.Int("terms", len(out)),
	)

	return out
}
