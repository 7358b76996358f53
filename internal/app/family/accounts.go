package family

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/royal-guard/royalguard/internal/domain"
)

// ─── Accounts ───────────────────────────────────────────────────────────────

// ChildSignup is the input for creating a child account.
type ChildSignup struct {
	Username string
	Password string
	Name     string
	Age      int
	Gender   domain.Gender
}

// ChildUpdate carries editable profile fields. Nil fields are left as is.
type ChildUpdate struct {
	Name   *string
	Age    *int
	Gender *domain.Gender
}

// ParentSignup is the input for creating a parent account.
type ParentSignup struct {
	Username string
	Password string
	Name     string
}

// CreateChild signs up a child: level 1, no XP, no tickets.
func (s *Service) CreateChild(ctx context.Context, in ChildSignup) (domain.ChildData, error) {
	child, err := s.insertChild(ctx, in)
	if err != nil {
		return domain.ChildData{}, err
	}
	s.publish(ctx, "child.created", child)
	return child, nil
}

func (s *Service) insertChild(ctx context.Context, in ChildSignup) (domain.ChildData, error) {
	if _, err := domain.ParseGender(string(in.Gender)); err != nil {
		return domain.ChildData{}, err
	}
	username, err := s.claimUsername(ctx, in.Username)
	if err != nil {
		return domain.ChildData{}, err
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return domain.ChildData{}, err
	}

	child := domain.NewChild(s.newID(), username, hash, strings.TrimSpace(in.Name), in.Age, in.Gender)
	child.UpdatedAt = s.now()
	if err := s.store.InsertChild(ctx, child); err != nil {
		return domain.ChildData{}, err
	}

	s.log.Info("child created", zap.String("child_id", child.Profile.ID), zap.String("username", username))
	return child, nil
}

// CreateParent signs up a parent with no linked children.
func (s *Service) CreateParent(ctx context.Context, in ParentSignup) (domain.Parent, error) {
	username, err := s.claimUsername(ctx, in.Username)
	if err != nil {
		return domain.Parent{}, err
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return domain.Parent{}, err
	}

	p := domain.Parent{
		ID:             s.newID(),
		Username:       username,
		PasswordHash:   hash,
		Name:           strings.TrimSpace(in.Name),
		LinkedChildIDs: []string{},
		CreatedAt:      s.now(),
	}
	if err := s.store.InsertParent(ctx, p); err != nil {
		return domain.Parent{}, err
	}
	s.log.Info("parent created", zap.String("parent_id", p.ID), zap.String("username", username))
	return p, nil
}

// AddChildForParent creates a child and links it to parentID. A failed
// link removes the new child again.
func (s *Service) AddChildForParent(ctx context.Context, parentID string, in ChildSignup) (domain.ChildData, error) {
	if _, err := s.store.GetParent(ctx, parentID); err != nil {
		return domain.ChildData{}, err
	}
	child, err := s.insertChild(ctx, in)
	if err != nil {
		return domain.ChildData{}, err
	}
	if err := s.store.LinkChild(ctx, parentID, child.Profile.ID); err != nil {
		if derr := s.store.DeleteChild(ctx, child.Profile.ID); derr != nil {
			s.log.Error("orphaned child after failed link",
				zap.String("child_id", child.Profile.ID), zap.Error(derr))
		}
		return domain.ChildData{}, err
	}
	s.publish(ctx, "child.created", child)
	return child, nil
}

// LinkChild adds childID to the parent's linked children. Linking an
// already linked child is a no-op.
func (s *Service) LinkChild(ctx context.Context, parentID, childID string) (domain.Parent, error) {
	if _, err := s.store.GetParent(ctx, parentID); err != nil {
		return domain.Parent{}, err
	}
	if _, err := s.store.GetChild(ctx, childID); err != nil {
		return domain.Parent{}, err
	}
	if err := s.store.LinkChild(ctx, parentID, childID); err != nil {
		return domain.Parent{}, err
	}
	return s.store.GetParent(ctx, parentID)
}

// Child returns the current snapshot of a child.
func (s *Service) Child(ctx context.Context, childID string) (domain.ChildData, error) {
	return s.store.GetChild(ctx, childID)
}

// Parent returns a parent account.
func (s *Service) Parent(ctx context.Context, parentID string) (domain.Parent, error) {
	return s.store.GetParent(ctx, parentID)
}

// ListChildren returns the children linked to a parent in link order.
// Links to children that no longer exist are skipped.
func (s *Service) ListChildren(ctx context.Context, parentID string) ([]domain.ChildData, error) {
	p, err := s.store.GetParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	children := make([]domain.ChildData, 0, len(p.LinkedChildIDs))
	for _, id := range p.LinkedChildIDs {
		c, err := s.store.GetChild(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return children, nil
}

// UpdateChild edits the profile fields a parent may change.
func (s *Service) UpdateChild(ctx context.Context, childID string, in ChildUpdate) (domain.ChildData, error) {
	if in.Gender != nil {
		if _, err := domain.ParseGender(string(*in.Gender)); err != nil {
			return domain.ChildData{}, err
		}
	}
	if in.Age != nil && *in.Age < 0 {
		return domain.ChildData{}, fmt.Errorf("%w: age %d", domain.ErrInvalidRange, *in.Age)
	}
	return s.mutate(ctx, childID, "child.updated", func(c domain.ChildData) (domain.ChildData, error) {
		next := c.Clone()
		if in.Name != nil {
			next.Profile.Name = strings.TrimSpace(*in.Name)
		}
		if in.Age != nil {
			next.Profile.Age = *in.Age
		}
		if in.Gender != nil {
			next.Profile.Gender = *in.Gender
		}
		return next, nil
	})
}

// DeleteChild removes a child and unlinks it from every parent.
func (s *Service) DeleteChild(ctx context.Context, childID string) error {
	if err := s.store.DeleteChild(ctx, childID); err != nil {
		return err
	}
	s.log.Info("child deleted", zap.String("child_id", childID))
	s.publish(ctx, "child.deleted", domain.ChildData{
		Profile:   domain.Profile{ID: childID},
		UpdatedAt: s.now(),
	})
	return nil
}

// Authenticate resolves a username and password to a principal. Child
// accounts are checked before parent accounts.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.Principal, error) {
	username = strings.TrimSpace(username)

	child, err := s.store.FindChildByUsername(ctx, username)
	switch {
	case err == nil:
		if !s.checkPassword(child.Profile.PasswordHash, password) {
			return domain.Principal{}, domain.ErrInvalidCredentials
		}
		return domain.Principal{Kind: domain.PrincipalChild, ID: child.Profile.ID, Name: child.Profile.Name}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Principal{}, err
	}

	parent, err := s.store.FindParentByUsername(ctx, username)
	switch {
	case err == nil:
		if !s.checkPassword(parent.PasswordHash, password) {
			return domain.Principal{}, domain.ErrInvalidCredentials
		}
		return domain.Principal{Kind: domain.PrincipalParent, ID: parent.ID, Name: parent.Name}, nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.Principal{}, domain.ErrInvalidCredentials
	default:
		return domain.Principal{}, err
	}
}

func (s *Service) claimUsername(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: empty username", domain.ErrInvalidRange)
	}
	taken, err := s.store.UsernameTaken(ctx, username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: %s", domain.ErrUsernameTaken, username)
	}
	return username, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", domain.ErrInvalidRange)
	}
	if len(password) > 72 {
		return "", fmt.Errorf("%w: password longer than 72 bytes", domain.ErrInvalidRange)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
