package gitcas

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/aweris/gitcas/internal/object"
)

// Problem describes one object that failed verification.
type Problem struct {
	ID  ID
	Err error
}

// VerifyReport summarizes a Verify run.
type VerifyReport struct {
	Checked  int
	Problems []Problem
}

// OK reports whether every object verified.
func (v *VerifyReport) OK() bool { return len(v.Problems) == 0 }

// Verify reads every stored object, checks that it decompresses, that its
// header is well formed, that it hashes to its id, and that trees decode.
func (r *Repository) Verify(ctx context.Context) (*VerifyReport, error) {
	ids, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	p := pool.NewWithResults[Problem]().WithContext(ctx).WithMaxGoroutines(r.opts.Concurrency)
	for _, id := range ids {
		p.Go(func(ctx context.Context) (Problem, error) {
			verr := r.verifyObject(ctx, id)
			if err := ctx.Err(); err != nil {
				return Problem{}, err
			}
			return Problem{ID: id, Err: verr}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{Checked: len(ids)}
	for _, res := range results {
		if res.Err != nil {
			r.log.Warn("object failed verification", "id", res.ID, "err", res.Err)
			report.Problems = append(report.Problems, res)
		}
	}
	slices.SortFunc(report.Problems, func(a, b Problem) int { return strings.Compare(string(a.ID), string(b.ID)) })
	return report, nil
}

func (r *Repository) verifyObject(ctx context.Context, id ID) error {
	kind, content, err := r.ReadObject(ctx, id)
	if err != nil {
		return err
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrCorrupt, kind)
	}
	if kind == KindTree {
		if _, err := object.DecodeTree(content); err != nil {
			return err
		}
	}
	return nil
}
