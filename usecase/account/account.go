package account

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/repository"
)

// Store owns the account directory and the active session.
//
// Store is not safe for concurrent use; callers serialize access (see usecase.Dispatcher).
// Every mutation is applied to a copy of the directory and swapped in only after the copy has
// been persisted, so a failed write leaves the in-memory state untouched.
type Store struct {
	accounts repository.AccountRepository
	sessions repository.SessionRepository
	hasher   PasswordHasher
	logger   *zap.Logger

	directory domain.Directory
	session   *domain.Session
}

// Open loads the directory and any persisted session.
func Open(
	ctx context.Context,
	accounts repository.AccountRepository,
	sessions repository.SessionRepository,
	hasher PasswordHasher,
	logger *zap.Logger,
) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	dir, err := accounts.Load(ctx)
	if err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeCorruptState) {
			return nil, err
		}
		logger.Error("account directory recovered with defaults", zap.Error(err))
	}
	if dir == nil {
		dir = domain.Directory{}
	}

	s := &Store{
		accounts:  accounts,
		sessions:  sessions,
		hasher:    hasher,
		logger:    logger,
		directory: dir,
	}

	username, err := sessions.Current(ctx)
	if err != nil {
		logger.Warn("persisted session unreadable, starting signed out", zap.Error(err))
		return s, nil
	}
	if username == "" {
		return s, nil
	}
	if _, ok := dir[username]; !ok {
		logger.Warn("discarding session for unknown account", zap.String("username", username))
		if err := sessions.Clear(ctx); err != nil {
			logger.Warn("failed to clear stale session", zap.Error(err))
		}
		return s, nil
	}
	s.session = &domain.Session{Username: username, StartedAt: time.Now()}
	logger.Info("session restored", zap.String("username", username))
	return s, nil
}

// Register creates an account with the default theme and no entitlement.
func (s *Store) Register(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return domain.ErrInvalidPayload
	}
	if _, exists := s.directory[username]; exists {
		return domain.ErrAlreadyExists
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "hash password", err)
	}

	if err := s.mutate(ctx, func(dir domain.Directory) error {
		dir[username] = domain.NewAccount(username, stored)
		return nil
	}); err != nil {
		return err
	}
	s.logger.Info("account registered", zap.String("username", username))
	return nil
}

// Authenticate establishes the session when both credentials match.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, username, password string) error {
	acct, ok := s.directory[username]
	if !ok {
		s.logger.Info("authentication failed", zap.String("username", username), zap.String("reason", "unknown user"))
		return domain.ErrInvalidCredentials
	}
	if acct.NoPassword {
		s.logger.Warn("authentication failed", zap.String("username", username), zap.String("reason", "no stored password"))
		return domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(acct.Password, password) {
		s.logger.Info("authentication failed", zap.String("username", username), zap.String("reason", "wrong password"))
		return domain.ErrInvalidCredentials
	}

	if err := s.sessions.Save(ctx, username); err != nil {
		return err
	}
	s.session = &domain.Session{Username: username, StartedAt: time.Now()}
	s.logger.Info("session started", zap.String("username", username))

	s.upgradePassword(ctx, username, password)
	return nil
}

// Logout clears the session. Accounts and tasks are left alone.
func (s *Store) Logout(ctx context.Context) error {
	if !s.session.IsActive() {
		return nil
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("session ended", zap.String("username", s.session.Username))
	s.session = nil
	return nil
}

// Session returns a copy of the active session, or nil.
func (s *Store) Session() *domain.Session {
	if !s.session.IsActive() {
		return nil
	}
	out := *s.session
	return &out
}

// Current returns a copy of the session's account.
func (s *Store) Current() (*domain.Account, error) {
	if !s.session.IsActive() {
		return nil, domain.ErrNoActiveSession
	}
	acct, ok := s.directory[s.session.Username]
	if !ok {
		return nil, domain.ErrNoActiveSession
	}
	return acct.Clone(), nil
}

// Account returns a copy of the named account.
func (s *Store) Account(username string) (*domain.Account, error) {
	acct, ok := s.directory[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acct.Clone(), nil
}

// SetTheme records the active theme of an account.
func (s *Store) SetTheme(ctx context.Context, username, theme string) error {
	return s.mutateAccount(ctx, username, func(acct *domain.Account) {
		acct.Theme = theme
	})
}

// SetPremium records the entitlement flag. The flag never goes back to false.
func (s *Store) SetPremium(ctx context.Context, username string, premium bool) error {
	return s.mutateAccount(ctx, username, func(acct *domain.Account) {
		if acct.IsPremium && !premium {
			s.logger.Warn("ignoring attempt to revoke premium", zap.String("username", username))
			return
		}
		acct.IsPremium = premium
	})
}

// SetTasks replaces the persisted task list of an account.
func (s *Store) SetTasks(ctx context.Context, username string, tasks []domain.Task) error {
	return s.mutateAccount(ctx, username, func(acct *domain.Account) {
		acct.Tasks = domain.CloneTasks(tasks)
	})
}

// Flush writes the whole directory.
func (s *Store) Flush(ctx context.Context) error {
	return s.accounts.Save(ctx, s.directory)
}

func (s *Store) mutateAccount(ctx context.Context, username string, fn func(acct *domain.Account)) error {
	return s.mutate(ctx, func(dir domain.Directory) error {
		acct, ok := dir[username]
		if !ok {
			return domain.ErrAccountNotFound
		}
		fn(acct)
		return nil
	})
}

func (s *Store) mutate(ctx context.Context, fn func(dir domain.Directory) error) error {
	next := s.directory.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.accounts.Save(ctx, next); err != nil {
		return err
	}
	s.directory = next
	return nil
}

// upgradePassword re-stores a legacy plain-text password with the configured hasher.
func (s *Store) upgradePassword(ctx context.Context, username, password string) {
	if _, ok := s.hasher.(BcryptHasher); !ok {
		return
	}
	if isBcrypt(s.directory[username].Password) {
		return
	}
	stored, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("password upgrade failed", zap.String("username", username), zap.Error(err))
		return
	}
	if err := s.mutateAccount(ctx, username, func(acct *domain.Account) {
		acct.Password = stored
	}); err != nil {
		s.logger.Warn("password upgrade failed", zap.String("username", username), zap.Error(err))
		return
	}
	s.logger.Info("legacy password upgraded", zap.String("username", username))
}
