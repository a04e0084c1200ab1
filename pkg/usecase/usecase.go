package usecase

import (
	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
)

// UseCases bundles the sync use cases with their shared collaborators
type UseCases struct {
	repo interfaces.Repository

	Sync   *SyncUseCase
	Status *StatusUseCase

	notifiers    []interfaces.Notifier
	scheduleTmpl *model.ScheduleTemplate
	platform     string
}

type Option func(*UseCases)

// WithNotifier attaches a notification emitter. May be given multiple times;
// every attached emitter receives each outcome event, best-effort.
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifiers = append(uc.notifiers, n)
	}
}

// WithScheduleTemplate overrides the default working-hours template used for
// newly created accounts
func WithScheduleTemplate(tmpl *model.ScheduleTemplate) Option {
	return func(uc *UseCases) {
		uc.scheduleTmpl = tmpl
	}
}

// WithPlatformName sets the upstream platform identifier recorded on ledger rows
func WithPlatformName(name string) Option {
	return func(uc *UseCases) {
		uc.platform = name
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		platform: "platform",
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.scheduleTmpl == nil {
		uc.scheduleTmpl = model.DefaultScheduleTemplate()
	}

	uc.Sync = newSyncUseCase(repo, uc.notifiers, uc.scheduleTmpl, uc.platform)
	uc.Status = newStatusUseCase(repo)

	return uc
}
