package store

import (
	"errors"
	"fmt"

	"github.com/mehular0ra/pingme/pkg/models"
)

// AdminCode is the seeded administrator profile. Administrator capability
// itself is carried by the is_admin column, not by the literal code.
const AdminCode = "0000"

// EnsureAdminUser creates the administrator profile if it does not exist.
func (s *Store) EnsureAdminUser(username string) error {
	_, err := s.GetUserByCode(AdminCode)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = s.DB.Exec(`
		INSERT INTO users (code, username, is_admin) VALUES ($1, $2, TRUE)
		ON CONFLICT (code) DO NOTHING
	`, AdminCode, username)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	s.logger.Info("Admin user created", "code", AdminCode)
	return nil
}

// EnsureGlobalGroup creates the everyone-group named name if missing and
// backfills every existing user into it. It returns the group so the
// composition root can cache its code for new-user backfill.
func (s *Store) EnsureGlobalGroup(name string) (*models.Group, error) {
	group, err := s.GetGroupByName(name)
	if errors.Is(err, ErrNotFound) {
		group = &models.Group{Name: name, Admins: []string{AdminCode}}
		if err := s.CreateGroup(group); err != nil {
			return nil, err
		}
		s.logger.Info("Created global group", "name", name, "code", group.Code)
	} else if err != nil {
		return nil, err
	}

	if err := s.addToGroupSet(group.Code, "admins", AdminCode); err != nil {
		return nil, err
	}

	codes, err := s.ListUserCodes()
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		if err := s.AddUserToGroup(code, group.Code); err != nil {
			return nil, fmt.Errorf("backfill user %s into global group: %w", code, err)
		}
	}

	return s.GetGroupByCode(group.Code)
}

// AddUserToGroup records membership on both documents without the join
// checks; used by the global group backfill.
func (s *Store) AddUserToGroup(userCode, groupCode string) error {
	group, err := s.GetGroupByCode(groupCode)
	if err != nil {
		return err
	}
	if !contains(group.Admins, userCode) {
		if err := s.addToGroupSet(groupCode, "members", userCode); err != nil {
			return err
		}
	}
	return s.addToUserSet(userCode, "groups", groupCode)
}
