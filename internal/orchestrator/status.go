package orchestrator

// Plan reports what Run would do to dir without touching the filesystem.
// Confirmation and auditing are skipped.
func Plan(dir string, opts Options) (*Report, error) {
	opts.DryRun = true
	opts.Confirm = nil
	opts.Audit = nil
	return Run(dir, opts)
}

// Pending returns the files a dry run would rename, in processing order.
func (r *Report) Pending() []Result {
	var pending []Result
	for _, res := range r.Results {
		if res.Outcome == OutcomePlanned {
			pending = append(pending, res)
		}
	}
	return pending
}
