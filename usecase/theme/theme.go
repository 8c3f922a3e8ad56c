package theme

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/usecase"
)

// Outcome describes what a theme operation did.
type Outcome string

const (
	OutcomeApplied         Outcome = "applied"
	OutcomeUnlocked        Outcome = "unlocked"
	OutcomeDeclined        Outcome = "declined"
	OutcomeAlreadyUnlocked Outcome = "already_unlocked"
	OutcomeFallback        Outcome = "fallback"
	OutcomeConsistent      Outcome = "consistent"
)

// Message returns the user-facing text for an outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeUnlocked:
		return "Premium themes unlocked! Enjoy!"
	case OutcomeAlreadyUnlocked:
		return "You already have premium themes unlocked! Enjoy!"
	case OutcomeFallback:
		return "Premium theme is locked. Reverted to the default theme."
	default:
		return ""
	}
}

// AccountStore is the slice of the account store the gate needs.
type AccountStore interface {
	Current() (*domain.Account, error)
	SetTheme(ctx context.Context, username, theme string) error
	SetPremium(ctx context.Context, username string, premium bool) error
}

// Gate applies theme selections and guards premium themes behind the entitlement flag.
type Gate struct {
	accounts AccountStore
	renderer usecase.Renderer
	logger   *zap.Logger
}

func New(accounts AccountStore, renderer usecase.Renderer, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		accounts: accounts,
		renderer: renderer,
		logger:   logger,
	}
}

// ListThemes returns the catalog with lock state for the session account.
func (g *Gate) ListThemes() ([]domain.ThemeOption, error) {
	acct, err := g.accounts.Current()
	if err != nil {
		return nil, err
	}
	return domain.ThemeOptions(acct.IsPremium), nil
}

// ActiveTheme returns the session account's theme.
func (g *Gate) ActiveTheme() (string, error) {
	acct, err := g.accounts.Current()
	if err != nil {
		return "", err
	}
	return acct.Theme, nil
}

// SelectTheme applies id, asking confirmer to unlock premium themes when needed.
// A declined unlock leaves both the theme and the entitlement untouched.
func (g *Gate) SelectTheme(ctx context.Context, id string, confirmer usecase.Confirmer) (Outcome, error) {
	acct, err := g.accounts.Current()
	if err != nil {
		return "", err
	}
	th, ok := domain.LookupTheme(id)
	if !ok {
		return "", domain.ErrUnknownTheme
	}

	if !th.Premium || acct.IsPremium {
		if err := g.apply(ctx, acct.Username, id); err != nil {
			return "", err
		}
		return OutcomeApplied, nil
	}

	prompt := fmt.Sprintf("This is a premium theme (%s). Would you like to unlock all premium themes for $X? (This is a demo, no actual payment)", th.Label)
	if !confirm(confirmer, prompt) {
		g.logger.Info("premium unlock declined", zap.String("username", acct.Username), zap.String("theme", id))
		g.render(acct.Theme, acct.IsPremium)
		return OutcomeDeclined, nil
	}

	if err := g.unlock(ctx, acct.Username); err != nil {
		return "", err
	}
	if err := g.apply(ctx, acct.Username, id); err != nil {
		return "", err
	}
	return OutcomeUnlocked, nil
}

// UnlockAllThemes runs the purchase confirmation outside of a theme selection.
func (g *Gate) UnlockAllThemes(ctx context.Context, confirmer usecase.Confirmer) (Outcome, error) {
	acct, err := g.accounts.Current()
	if err != nil {
		return "", err
	}
	if acct.IsPremium {
		return OutcomeAlreadyUnlocked, nil
	}

	if !confirm(confirmer, "Unlock all premium themes for $X? (This is a demo, no actual payment)") {
		g.logger.Info("premium unlock declined", zap.String("username", acct.Username))
		return OutcomeDeclined, nil
	}
	if err := g.unlock(ctx, acct.Username); err != nil {
		return "", err
	}
	// re-apply so a premium theme recorded while locked becomes valid
	if err := g.apply(ctx, acct.Username, acct.Theme); err != nil {
		return "", err
	}
	return OutcomeUnlocked, nil
}

// EnsureConsistent falls back to the default theme when the persisted theme is premium but the
// account is not, or when the theme is not in the catalog at all.
func (g *Gate) EnsureConsistent(ctx context.Context) (Outcome, error) {
	acct, err := g.accounts.Current()
	if err != nil {
		return "", err
	}

	th, known := domain.LookupTheme(acct.Theme)
	if known && (!th.Premium || acct.IsPremium) {
		g.render(acct.Theme, acct.IsPremium)
		return OutcomeConsistent, nil
	}

	g.logger.Warn("persisted theme not usable, falling back",
		zap.String("username", acct.Username),
		zap.String("theme", acct.Theme),
		zap.Bool("premium", acct.IsPremium))
	if err := g.apply(ctx, acct.Username, domain.DefaultTheme); err != nil {
		return "", err
	}
	return OutcomeFallback, nil
}

func (g *Gate) unlock(ctx context.Context, username string) error {
	if err := g.accounts.SetPremium(ctx, username, true); err != nil {
		return err
	}
	g.logger.Info("premium themes unlocked", zap.String("username", username))
	return nil
}

func (g *Gate) apply(ctx context.Context, username, id string) error {
	if err := g.accounts.SetTheme(ctx, username, id); err != nil {
		return err
	}
	acct, err := g.accounts.Current()
	if err != nil {
		return err
	}
	g.render(acct.Theme, acct.IsPremium)
	return nil
}

func (g *Gate) render(active string, premium bool) {
	if g.renderer == nil {
		return
	}
	g.renderer.RenderThemes(active, domain.ThemeOptions(premium))
}

func confirm(confirmer usecase.Confirmer, message string) bool {
	if confirmer == nil {
		return false
	}
	return confirmer.Confirm(message)
}
