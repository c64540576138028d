package mailscope

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mailscope/mailscope/internal/parse"
)

// VerifyBatch verifies a list of addresses concurrently. Blank and
// whitespace-only lines are dropped; the remaining addresses appear in the
// returned Batch in their original relative order, regardless of completion
// order. Running the same input twice yields the same output order.
//
// Addresses are dispatched grouped by domain so that same-domain entries hit
// a warm DNS cache and a pooled SMTP connection.
//
// If ctx is cancelled mid-run, VerifyBatch returns the context error and no
// partial batch.
func (v *Verifier) VerifyBatch(ctx context.Context, emails []string, opts ...BatchOptions) (Batch, error) {
	if v.err != nil {
		return nil, v.err
	}

	var o BatchOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Workers <= 0 {
		o.Workers = 5
	}

	type job struct {
		index  int
		email  string
		domain string
	}
	var jobs []job
	for _, raw := range emails {
		email := strings.TrimSpace(raw)
		if email == "" {
			continue
		}
		jobs = append(jobs, job{index: len(jobs), email: email, domain: parse.Split(email).Domain})
	}

	results := make(Batch, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	order := make([]job, len(jobs))
	copy(order, jobs)
	sort.SliceStable(order, func(i, j int) bool { return order[i].domain < order[j].domain })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for _, j := range order {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := v.Verify(gctx, j.email)
			if err != nil {
				return err
			}
			results[j.index] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
