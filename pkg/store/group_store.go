package store

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/mehular0ra/pingme/pkg/models"
)

const groupColumns = `code, name, icon, members, admins, muted, banned,
	join_disabled, created_at, updated_at`

func scanGroup(row interface{ Scan(...any) error }) (*models.Group, error) {
	var g models.Group
	err := row.Scan(
		&g.Code, &g.Name, &g.Icon,
		pq.Array(&g.Members), pq.Array(&g.Admins), pq.Array(&g.Muted), pq.Array(&g.Banned),
		&g.JoinDisabled, &g.CreatedAt, &g.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) addToGroupSet(code, column, value string) error {
	query := fmt.Sprintf(
		`UPDATE groups SET %s = array_append(%s, $2) WHERE code = $1 AND NOT ($2 = ANY(%s))`,
		column, column, column)
	_, err := s.DB.Exec(query, code, value)
	return err
}

func (s *Store) pullFromGroupSet(code, column, value string) error {
	query := fmt.Sprintf(`UPDATE groups SET %s = array_remove(%s, $2) WHERE code = $1`, column, column)
	_, err := s.DB.Exec(query, code, value)
	return err
}

// CreateGroup inserts the group under a fresh code and records the group
// code on every founding member's and the founding admin's profile.
func (s *Store) CreateGroup(group *models.Group) error {
	code, err := s.GenerateGroupCode()
	if err != nil {
		return fmt.Errorf("generate group code: %w", err)
	}
	group.Code = code

	_, err = s.DB.Exec(`
		INSERT INTO groups (code, name, icon, members, admins)
		VALUES ($1, $2, $3, $4, $5)
	`, group.Code, group.Name, group.Icon, pq.Array(group.Members), pq.Array(group.Admins))
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	for _, member := range group.Recipients() {
		if err := s.addToUserSet(member, "groups", group.Code); err != nil {
			return fmt.Errorf("record group on user %s: %w", member, err)
		}
	}

	s.logger.Info("Group created", "code", group.Code, "name", group.Name)
	return nil
}

func (s *Store) GetGroupByCode(code string) (*models.Group, error) {
	row := s.DB.QueryRow(`SELECT `+groupColumns+` FROM groups WHERE code = $1`, code)
	return scanGroup(row)
}

// GetGroupsByCodes resolves a user's group code array to group records.
func (s *Store) GetGroupsByCodes(codes []string) ([]models.Group, error) {
	if len(codes) == 0 {
		return []models.Group{}, nil
	}
	rows, err := s.DB.Query(`SELECT `+groupColumns+` FROM groups WHERE code = ANY($1) ORDER BY name`, pq.Array(codes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

func (s *Store) UpdateGroup(code string, updates *models.GroupUpdateRequest) (*models.Group, error) {
	if updates.Name != nil {
		if _, err := s.DB.Exec(`UPDATE groups SET name = $2 WHERE code = $1`, code, *updates.Name); err != nil {
			return nil, err
		}
	}
	if updates.Icon != nil {
		if _, err := s.DB.Exec(`UPDATE groups SET icon = $2 WHERE code = $1`, code, *updates.Icon); err != nil {
			return nil, err
		}
	}
	if updates.JoinDisabled != nil {
		if _, err := s.DB.Exec(`UPDATE groups SET join_disabled = $2 WHERE code = $1`, code, *updates.JoinDisabled); err != nil {
			return nil, err
		}
	}
	return s.GetGroupByCode(code)
}

// JoinGroup adds the user to the group's member set and the group code to
// the user's groups. Joining a closed group or one the user is banned from
// is rejected with no state change. Admins never re-enter as members.
func (s *Store) JoinGroup(userCode, groupCode string) (*models.Group, error) {
	if _, err := s.GetUserByCode(userCode); err != nil {
		return nil, err
	}
	group, err := s.GetGroupByCode(groupCode)
	if err != nil {
		return nil, err
	}
	if group.JoinDisabled {
		return nil, fmt.Errorf("%w: joining this group is disabled", ErrConflict)
	}
	if group.IsBanned(userCode) {
		return nil, fmt.Errorf("%w: banned from this group", ErrConflict)
	}

	if err := s.addToUserSet(userCode, "groups", groupCode); err != nil {
		return nil, err
	}
	if !contains(group.Admins, userCode) {
		if err := s.addToGroupSet(groupCode, "members", userCode); err != nil {
			return nil, err
		}
	}
	return s.GetGroupByCode(groupCode)
}

// LeaveGroup removes the user from members and admins, and the group from
// the user's groups array.
func (s *Store) LeaveGroup(userCode, groupCode string) error {
	if _, err := s.GetUserByCode(userCode); err != nil {
		return err
	}
	if _, err := s.GetGroupByCode(groupCode); err != nil {
		return err
	}
	if err := s.pullFromUserSet(userCode, "groups", groupCode); err != nil {
		return err
	}
	if err := s.pullFromGroupSet(groupCode, "members", userCode); err != nil {
		return err
	}
	return s.pullFromGroupSet(groupCode, "admins", userCode)
}

// KickMember removes a plain member from the group. Admin authorization and
// the admins-are-unkickable rule are checked by the caller against the
// loaded group.
func (s *Store) KickMember(groupCode, targetCode string) error {
	if err := s.pullFromGroupSet(groupCode, "members", targetCode); err != nil {
		return err
	}
	if err := s.pullFromGroupSet(groupCode, "muted", targetCode); err != nil {
		return err
	}
	return s.pullFromUserSet(targetCode, "groups", groupCode)
}

// MuteMember adds the target to the group's muted set.
func (s *Store) MuteMember(groupCode, targetCode string) error {
	return s.addToGroupSet(groupCode, "muted", targetCode)
}

// UnmuteMember removes the target from the group's muted set.
func (s *Store) UnmuteMember(groupCode, targetCode string) error {
	return s.pullFromGroupSet(groupCode, "muted", targetCode)
}

// BanMember adds the target to banned and strips it from every other set,
// preserving the invariant that banned codes never appear in
// members/admins/muted.
func (s *Store) BanMember(groupCode, targetCode string) error {
	if err := s.addToGroupSet(groupCode, "banned", targetCode); err != nil {
		return err
	}
	for _, column := range []string{"members", "admins", "muted"} {
		if err := s.pullFromGroupSet(groupCode, column, targetCode); err != nil {
			return err
		}
	}
	return s.pullFromUserSet(targetCode, "groups", groupCode)
}

// DeleteGroupCascade removes the group, its messages and its code from
// every member's groups array. It returns the recipient set that should be
// notified of the deletion.
func (s *Store) DeleteGroupCascade(code string) (*models.Group, error) {
	group, err := s.GetGroupByCode(code)
	if err != nil {
		return nil, err
	}

	if _, err := s.DB.Exec(
		`UPDATE users SET groups = array_remove(groups, $1) WHERE $1 = ANY(groups)`, code); err != nil {
		return nil, fmt.Errorf("strip group from users: %w", err)
	}
	if _, err := s.DB.Exec(`DELETE FROM messages WHERE group_code = $1`, code); err != nil {
		return nil, fmt.Errorf("delete group messages: %w", err)
	}
	if _, err := s.DB.Exec(`DELETE FROM groups WHERE code = $1`, code); err != nil {
		return nil, err
	}

	s.logger.Info("Group deleted with cascade", "code", code, "name", group.Name)
	return group, nil
}

// GetGroupByName is used by the global group bootstrap.
func (s *Store) GetGroupByName(name string) (*models.Group, error) {
	row := s.DB.QueryRow(`SELECT `+groupColumns+` FROM groups WHERE name = $1 LIMIT 1`, name)
	return scanGroup(row)
}
