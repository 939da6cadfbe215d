package provisioning

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/forgeops/repoforge/internal/config"
	"github.com/forgeops/repoforge/internal/platform/github"
	"github.com/forgeops/repoforge/internal/platform/s3"
	"github.com/forgeops/repoforge/internal/platform/tailscale"
	"github.com/forgeops/repoforge/internal/util/naming"
	"github.com/forgeops/repoforge/internal/util/retry"
)

const (
	// maxConsecutiveFailures trips the circuit breaker: repeated failures
	// in a row indicate a systemic problem (bad token, exhausted quota)
	// rather than individually bad names.
	maxConsecutiveFailures = 5

	// Readiness poll after repository creation. Exceeding the attempts is
	// a warning, not a failure.
	readinessAttempts = 10
	readinessInterval = 2 * time.Second

	// preSecretDelay gives the platform time to finish provisioning the
	// repository's secret store before the first secret PUT.
	preSecretDelay = 2 * time.Second
)

// Orchestrator executes one bulk-provisioning run.
type Orchestrator struct {
	cfg      *config.Config
	host     github.RepoHost
	issuer   tailscale.KeyIssuer
	backups  s3.Store
	observer Observer
	sleep    func(time.Duration)

	cancelled atomic.Bool
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithObserver replaces the default console observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithBackupStore enables off-site upload of the key-backup file.
func WithBackupStore(store s3.Store) Option {
	return func(o *Orchestrator) { o.backups = store }
}

// WithSleep replaces the delay function. Used in tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(o *Orchestrator) { o.sleep = fn }
}

// New creates an orchestrator for the given configuration and clients.
// issuer may be nil when no secret draws from the key issuer.
func New(cfg *config.Config, host github.RepoHost, issuer tailscale.KeyIssuer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		host:     host,
		issuer:   issuer,
		observer: NewConsoleObserver(),
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Cancel requests cooperative cancellation. The repository currently being
// provisioned finishes; no further repositories are started.
func (o *Orchestrator) Cancel() {
	o.cancelled.Store(true)
}

func (o *Orchestrator) cancelRequested(ctx context.Context) bool {
	// Context cancellation counts as a cancelled run, so the final report
	// can say how far the run got rather than presenting a short Created
	// list as the whole story.
	if ctx.Err() != nil {
		o.cancelled.Store(true)
	}
	return o.cancelled.Load()
}

type phase struct {
	name    string
	percent int
	fn      func(context.Context, *Run) error
}

// Run executes the full provisioning pipeline and always returns a Result,
// even on early abort.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	start := time.Now()
	run := NewRun()

	phases := []phase{
		{"validating", 5, o.validate},
		{"preparing-names", 15, o.prepareNames},
		{"reading-secrets", 25, o.prepareSecrets},
		{"issuing-keys", 30, o.issueKeys},
		{"creating-repositories", 40, o.createRepositories},
		{"finalizing", 100, o.finalize},
	}

	var fatal error
	for _, p := range phases {
		phaseStart := time.Now()
		o.observer.Progress(p.percent, p.name, "starting")
		o.observer.Event(Event{Type: EventPhaseStarted, Phase: p.name, Message: "starting"})

		if err := p.fn(ctx, run); err != nil {
			o.observer.Event(Event{
				Type:    EventPhaseFailed,
				Phase:   p.name,
				Message: fmt.Sprintf("failed: %v", err),
			})
			run.Warn("%s phase failed: %v", p.name, err)
			fatal = fmt.Errorf("%s phase failed: %w", p.name, err)
			break
		}

		o.observer.Event(Event{
			Type:    EventPhaseCompleted,
			Phase:   p.name,
			Message: fmt.Sprintf("completed in %v", time.Since(phaseStart).Round(time.Millisecond)),
		})
	}

	return o.result(run, start, fatal)
}

func (o *Orchestrator) result(run *Run, start time.Time, fatal error) *Result {
	result := &Result{
		Success:   len(run.Created) > 0,
		Created:   run.Created,
		Failed:    run.Failed,
		Errors:    run.Errors,
		KeyCount:  len(run.Keys),
		Backup:    run.BackupFile,
		Elapsed:   time.Since(start),
		Cancelled: o.cancelled.Load(),
	}

	switch {
	case fatal != nil:
		result.Message = fatal.Error()
	case result.Cancelled:
		result.Message = fmt.Sprintf("run cancelled: %d of %d repositories created",
			len(run.Created), len(run.Names))
	case len(run.Failed) > 0:
		result.Message = fmt.Sprintf("created %d repositories, %d failed",
			len(run.Created), len(run.Failed))
	default:
		result.Message = fmt.Sprintf("created %d repositories", len(run.Created))
	}
	return result
}

// prepareNames generates and validates the ordered target name list.
func (o *Orchestrator) prepareNames(_ context.Context, run *Run) error {
	n := o.cfg.Repositories.Naming
	names, err := naming.Generate(n.Strategy, o.cfg.Repositories.Count, naming.Params{
		Prefix:    n.Prefix,
		NamesFile: n.NamesFile,
	})
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := naming.ValidateRepositoryName(name); err != nil {
			return err
		}
	}
	run.Names = names
	o.observer.Printf("prepared %d repository names (%s strategy)", len(names), n.Strategy)
	return nil
}

// prepareSecrets pre-reads all file-backed secret sources.
func (o *Orchestrator) prepareSecrets(_ context.Context, run *Run) error {
	return loadSecretSources(o.cfg, run)
}

// issueKeys bulk-issues one auth key per repository when any secret draws
// from the key issuer, then writes the optional backup file.
func (o *Orchestrator) issueKeys(ctx context.Context, run *Run) error {
	if !o.cfg.HasIssuerSecrets() {
		o.observer.Printf("no issuer-sourced secrets configured, skipping key issuance")
		return nil
	}
	if o.issuer == nil {
		return fmt.Errorf("issuer-sourced secrets configured but no key issuer available")
	}

	count := o.cfg.Repositories.Count
	keyCfg := o.cfg.Tailscale.Key
	keys, err := o.issuer.CreateAuthKeys(ctx, count, tailscale.KeyOptions{
		ExpiryDays:    keyCfg.ExpiryDays,
		Reusable:      keyCfg.Reusable,
		Ephemeral:     keyCfg.Ephemeral,
		Preauthorized: keyCfg.Preauthorized,
		Tags:          keyCfg.Tags,
	}, func(current, total int, message string) {
		o.observer.Progress(30+(10*current)/total, "issuing-keys", message)
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		run.Keys = append(run.Keys, key.Key)
	}
	o.observer.Event(Event{
		Type:    EventKeyIssued,
		Phase:   "issuing-keys",
		Message: fmt.Sprintf("issued %d of %d keys", len(keys), count),
	})
	if len(keys) < count {
		run.Warn("only %d of %d auth keys issued: later repositories will not receive issuer-sourced secrets",
			len(keys), count)
	}

	o.backupKeys(ctx, run, keys)
	return nil
}

// backupKeys writes the local backup file and optionally uploads it.
// All failures here are warnings.
func (o *Orchestrator) backupKeys(ctx context.Context, run *Run, keys []*tailscale.AuthKey) {
	if !o.cfg.Backup.Enabled {
		return
	}

	path, err := tailscale.SaveKeysBackup(keys, o.cfg.Backup.Directory, o.cfg.Tailscale.Key.ExpiryDays)
	if err != nil {
		run.Warn("key backup failed: %v", err)
		return
	}
	run.BackupFile = path
	o.observer.Printf("saved key backup to %s", path)

	s3cfg := o.cfg.Backup.S3
	if !s3cfg.Enabled || o.backups == nil {
		return
	}
	if err := o.backups.EnsureBucket(ctx, s3cfg.Bucket); err != nil {
		run.Warn("backup bucket check failed: %v", err)
		return
	}
	key, err := o.backups.UploadBackup(ctx, s3cfg.Bucket, s3cfg.Prefix, path)
	if err != nil {
		run.Warn("backup upload failed: %v", err)
		return
	}
	o.observer.Printf("uploaded key backup to s3://%s/%s", s3cfg.Bucket, key)
}

// createRepositories runs the sequential per-repository pipeline. One
// repository is fully processed before the next begins.
func (o *Orchestrator) createRepositories(ctx context.Context, run *Run) error {
	total := len(run.Names)

	for i, name := range run.Names {
		run.Cursor = i

		if o.cancelRequested(ctx) {
			o.observer.Event(Event{
				Type:    EventRunCancelled,
				Phase:   "creating-repositories",
				Message: fmt.Sprintf("cancelled before repository %d of %d", i+1, total),
			})
			return nil
		}
		if run.ConsecutiveFailures >= maxConsecutiveFailures {
			o.observer.Event(Event{
				Type:    EventRunAborted,
				Phase:   "creating-repositories",
				Message: fmt.Sprintf("aborting after %d consecutive failures", run.ConsecutiveFailures),
			})
			return fmt.Errorf("aborted after %d consecutive failures", run.ConsecutiveFailures)
		}

		o.observer.Progress(40+(50*i)/total, "creating-repositories", name)
		o.observer.Event(Event{Type: EventRepoCreating, Phase: "creating-repositories", Repository: name, Message: "creating"})

		repo, err := o.createWithRetry(ctx, name)
		if err != nil {
			run.ConsecutiveFailures++
			run.Failed = append(run.Failed, name)
			run.Warn("failed to create repository %s: %v", name, err)
			o.observer.Event(Event{
				Type:       EventRepoFailed,
				Phase:      "creating-repositories",
				Repository: name,
				Message:    err.Error(),
			})
			o.emitStats(run, total, i+1)
			continue
		}

		run.ConsecutiveFailures = 0
		run.Created = append(run.Created, name)
		o.observer.Event(Event{
			Type:       EventRepoCreated,
			Phase:      "creating-repositories",
			Repository: name,
			Message:    repo.HTMLURL,
		})

		o.provisionRepository(ctx, run, i, name)
		o.emitStats(run, total, i+1)
	}
	return nil
}

func (o *Orchestrator) emitStats(run *Run, total, current int) {
	o.observer.Stats(Stats{
		Total:   total,
		Current: current,
		Created: len(run.Created),
		Failed:  len(run.Failed),
	})
}

// createWithRetry creates one repository under the retry policy. Rate
// limits, 5xx responses, and transport failures are retried; everything
// else (name conflicts, auth failures) is not.
func (o *Orchestrator) createWithRetry(ctx context.Context, name string) (*github.Repository, error) {
	var repo *github.Repository
	err := retry.Do(ctx, func() error {
		var err error
		repo, err = o.host.CreateRepository(ctx, github.CreateRepositoryOpts{
			Name:           name,
			Description:    o.cfg.Repositories.Description,
			Private:        o.cfg.Repositories.Private,
			AutoInit:       o.cfg.Repositories.AutoInit,
			EnableIssues:   o.cfg.Repositories.HasIssues,
			EnableWiki:     o.cfg.Repositories.HasWiki,
			EnableProjects: o.cfg.Repositories.HasProjects,
		})
		return err
	},
		retry.WithRetryable(github.IsRetryable),
		retry.WithSleep(func(ctx context.Context, d time.Duration) error {
			o.sleep(d)
			return ctx.Err()
		}),
	)
	return repo, err
}

// provisionRepository executes steps 5-11 of the per-repository pipeline:
// readiness poll, settings, uploads, secrets, workflow trigger. All steps
// are best effort; failures are recorded as warnings.
func (o *Orchestrator) provisionRepository(ctx context.Context, run *Run, index int, name string) {
	o.waitUntilReady(ctx, run, name)
	o.applySettings(ctx, run, name)
	o.uploadContent(ctx, run, name)
	o.injectSecrets(ctx, run, index, name)
	o.triggerWorkflow(ctx, run, name)
}

// waitUntilReady polls the default branch until the repository is fully
// initialized. Only a 404 means "not ready yet": any other error ends the
// poll immediately and is recorded verbatim. Both outcomes are warnings;
// later uploads may still succeed.
func (o *Orchestrator) waitUntilReady(ctx context.Context, run *Run, name string) {
	for attempt := 0; attempt < readinessAttempts; attempt++ {
		_, err := o.host.GetDefaultBranch(ctx, name)
		if err == nil {
			return
		}
		if !github.IsNotFound(err) {
			run.Warn("readiness check for %s failed: %v", name, err)
			return
		}
		o.sleep(readinessInterval)
	}
	run.Warn("repository %s not ready after %d attempts, continuing anyway", name, readinessAttempts)
}

func (o *Orchestrator) applySettings(ctx context.Context, run *Run, name string) {
	repos := o.cfg.Repositories

	if len(repos.Topics) > 0 {
		if err := o.host.SetTopics(ctx, name, repos.Topics); err != nil {
			run.Warn("failed to set topics on %s: %v", name, err)
		}
	}
	if repos.Pages.Enabled {
		if err := o.host.EnablePages(ctx, name, repos.Pages.Source); err != nil {
			run.Warn("failed to enable pages on %s: %v", name, err)
		}
	}
	if repos.BranchProtection.Enabled {
		err := o.host.ProtectBranch(ctx, name, "main", github.BranchProtectionOpts{
			RequireReviews:      repos.BranchProtection.RequireReviews,
			RequireStatusChecks: repos.BranchProtection.RequireStatusChecks,
			RestrictPush:        repos.BranchProtection.RestrictPush,
		})
		if err != nil {
			run.Warn("failed to protect branch on %s: %v", name, err)
		}
	}
}

func (o *Orchestrator) uploadContent(ctx context.Context, run *Run, name string) {
	tmpl := o.cfg.Repositories.Template

	if tmpl.WorkflowFile != "" {
		target := path.Join(".github/workflows", filepath.Base(tmpl.WorkflowFile))
		if err := o.host.UploadFile(ctx, name, tmpl.WorkflowFile, target, "Add CI workflow"); err != nil {
			run.Warn("failed to upload workflow to %s: %v", name, err)
		}
	}
	if tmpl.GitignoreFile != "" {
		if err := o.host.UploadFile(ctx, name, tmpl.GitignoreFile, ".gitignore", "Add .gitignore"); err != nil {
			run.Warn("failed to upload .gitignore to %s: %v", name, err)
		}
	}

	for _, p := range tmpl.ProjectPaths {
		info, err := os.Stat(p)
		if err != nil {
			run.Warn("project path %s: %v", p, err)
			continue
		}
		if info.IsDir() {
			// Each folder lands under its own subfolder, so two
			// configured folders never merge into one tree.
			target := path.Join(tmpl.TargetFolder, filepath.Base(p))
			summary, err := o.host.UploadFolder(ctx, name, p, target, "Add project files")
			if err != nil {
				run.Warn("failed to upload folder %s to %s: %v", p, name, err)
				continue
			}
			if summary.Failed > 0 {
				run.Warn("folder %s: %d of %d files failed to upload to %s",
					p, summary.Failed, summary.Uploaded+summary.Failed, name)
			}
			continue
		}
		target := path.Join(tmpl.TargetFolder, filepath.Base(p))
		if err := o.host.UploadFile(ctx, name, p, target, "Add project files"); err != nil {
			run.Warn("failed to upload %s to %s: %v", p, name, err)
		}
	}
}

// injectSecrets resolves and adds every configured secret plus the shared
// KEY=VALUE entries for the repository at the given position.
func (o *Orchestrator) injectSecrets(ctx context.Context, run *Run, index int, name string) {
	if len(o.cfg.Secrets.Specs) == 0 && len(run.SharedSecrets) == 0 {
		return
	}

	o.sleep(preSecretDelay)

	for _, spec := range o.cfg.Secrets.Specs {
		value, ok, warning := resolveSecret(spec, index, run)
		if !ok {
			run.Warn("%s", warning)
			o.observer.Event(Event{
				Type:       EventWarning,
				Phase:      "creating-repositories",
				Repository: name,
				Message:    warning,
			})
			continue
		}
		if err := o.host.AddSecret(ctx, name, spec.Name, value); err != nil {
			run.Warn("failed to add secret %s to %s: %v", spec.Name, name, err)
		}
	}

	for _, kv := range run.SharedSecrets {
		if err := o.host.AddSecret(ctx, name, kv[0], kv[1]); err != nil {
			run.Warn("failed to add shared secret %s to %s: %v", kv[0], name, err)
		}
	}
}

func (o *Orchestrator) triggerWorkflow(ctx context.Context, run *Run, name string) {
	if !o.cfg.Actions.TriggerWorkflow {
		return
	}
	workflow := o.cfg.Actions.WorkflowFile
	if o.cfg.Repositories.Template.WorkflowFile != "" {
		workflow = filepath.Base(o.cfg.Repositories.Template.WorkflowFile)
	}
	if err := o.host.StartWorkflow(ctx, name, workflow); err != nil {
		run.Warn("failed to trigger workflow on %s: %v", name, err)
	}
}

func (o *Orchestrator) finalize(_ context.Context, run *Run) error {
	o.observer.Progress(100, "finalizing", "done")
	o.observer.Printf("run complete: %d created, %d failed, %d warnings",
		len(run.Created), len(run.Failed), len(run.Errors))
	return nil
}
