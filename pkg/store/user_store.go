package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/mehular0ra/pingme/pkg/models"
)

const userColumns = `code, username, profile_picture, password_hash,
	contacts, pending, requests, groups,
	is_online, last_seen, last_used_at,
	device_id, is_device_locked, is_admin, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.Code, &u.Username, &u.ProfilePicture, &u.PasswordHash,
		pq.Array(&u.Contacts), pq.Array(&u.Pending), pq.Array(&u.Requests), pq.Array(&u.Groups),
		&u.IsOnline, &u.LastSeen, &u.LastUsedAt,
		&u.DeviceID, &u.IsDeviceLocked, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser generates a fresh code for the user and inserts the profile.
func (s *Store) CreateUser(user *models.User) error {
	code, err := s.GenerateUserCode()
	if err != nil {
		return fmt.Errorf("generate user code: %w", err)
	}
	user.Code = code

	now := time.Now()
	user.LastSeen = now
	user.LastUsedAt = now
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = s.DB.Exec(`
		INSERT INTO users (code, username, profile_picture, device_id, is_device_locked, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.Code, user.Username, user.ProfilePicture, user.DeviceID, user.IsDeviceLocked, user.IsAdmin)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("User created", "code", user.Code, "username", user.Username)
	return nil
}

func (s *Store) GetUserByCode(code string) (*models.User, error) {
	row := s.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE code = $1`, code)
	return scanUser(row)
}

// GetUserByDevice restores a device-locked profile across address changes.
func (s *Store) GetUserByDevice(deviceID string) (*models.User, error) {
	row := s.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE device_id = $1`, deviceID)
	return scanUser(row)
}

// GetMostRecentUser returns the most recently used profile, for automatic
// restoration on first visit.
func (s *Store) GetMostRecentUser() (*models.User, error) {
	row := s.DB.QueryRow(`SELECT ` + userColumns + ` FROM users ORDER BY last_used_at DESC LIMIT 1`)
	return scanUser(row)
}

func (s *Store) UpdateUser(code string, updates *models.UserUpdateRequest) (*models.User, error) {
	if updates.Username != nil {
		if _, err := s.DB.Exec(`UPDATE users SET username = $2 WHERE code = $1`, code, *updates.Username); err != nil {
			return nil, err
		}
	}
	if updates.ProfilePicture != nil {
		if _, err := s.DB.Exec(`UPDATE users SET profile_picture = $2 WHERE code = $1`, code, *updates.ProfilePicture); err != nil {
			return nil, err
		}
	}
	return s.GetUserByCode(code)
}

func (s *Store) TouchLastUsed(code string) error {
	result, err := s.DB.Exec(`UPDATE users SET last_used_at = NOW() WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserPresence writes the durable online/lastSeen mirror and refreshes
// the Redis presence cache. The cache write is best-effort.
func (s *Store) SetUserPresence(code string, online bool, at time.Time) error {
	_, err := s.DB.Exec(`UPDATE users SET is_online = $2, last_seen = $3 WHERE code = $1`, code, online, at)
	if err != nil {
		return err
	}
	if cacheErr := s.CachePresence(models.UserPresence{UserCode: code, IsOnline: online, LastSeen: at}); cacheErr != nil {
		s.logger.Warn("Failed to cache presence", "code", code, "error", cacheErr)
	}
	return nil
}

// SetUserPassword hashes and stores the profile password.
func (s *Store) SetUserPassword(code, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	result, err := s.DB.Exec(`UPDATE users SET password_hash = $2 WHERE code = $1`, code, string(hash))
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifyUserPassword returns the user when password matches the stored
// hash. A profile without a password accepts any restore attempt.
func (s *Store) VerifyUserPassword(code, password string) (*models.User, error) {
	user, err := s.GetUserByCode(code)
	if err != nil {
		return nil, err
	}
	if !user.HasPassword() {
		return user, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// IsAdmin is the capability predicate for administrator operations.
func (s *Store) IsAdmin(code string) (bool, error) {
	var isAdmin bool
	err := s.DB.QueryRow(`SELECT is_admin FROM users WHERE code = $1`, code).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}

// Idempotent array mutations, the SQL rendition of $addToSet / $pull on a
// single document. Concurrent mutations of different fields may interleave;
// each statement is atomic on its own.

func (s *Store) addToUserSet(code, column, value string) error {
	query := fmt.Sprintf(
		`UPDATE users SET %s = array_append(%s, $2) WHERE code = $1 AND NOT ($2 = ANY(%s))`,
		column, column, column)
	_, err := s.DB.Exec(query, code, value)
	return err
}

func (s *Store) pullFromUserSet(code, column, value string) error {
	query := fmt.Sprintf(`UPDATE users SET %s = array_remove(%s, $2) WHERE code = $1`, column, column)
	_, err := s.DB.Exec(query, code, value)
	return err
}

func contains(set []string, code string) bool {
	for _, c := range set {
		if c == code {
			return true
		}
	}
	return false
}

// checkCanRequest holds the handshake-start conflict rules: no
// self-requests, no re-requesting an existing contact, no duplicate
// in-flight request.
func checkCanRequest(user *models.User, contactCode string) error {
	if user.Code == contactCode {
		return fmt.Errorf("%w: cannot add yourself", ErrConflict)
	}
	if contains(user.Contacts, contactCode) {
		return fmt.Errorf("%w: already a contact", ErrConflict)
	}
	if contains(user.Pending, contactCode) {
		return fmt.Errorf("%w: request already pending", ErrConflict)
	}
	return nil
}

// checkCanAccept requires an in-flight request from requesterCode. The
// first accept removes the request edge, so a replayed accept fails here
// and touches nothing.
func checkCanAccept(user *models.User, requesterCode string) error {
	if !contains(user.Requests, requesterCode) {
		return fmt.Errorf("%w: no pending request from %s", ErrConflict, requesterCode)
	}
	return nil
}

// SendContactRequest starts the friend-request handshake:
// requester.pending gains the target, target.requests gains the requester.
func (s *Store) SendContactRequest(userCode, contactCode string) error {
	user, err := s.GetUserByCode(userCode)
	if err != nil {
		return err
	}
	if err := checkCanRequest(user, contactCode); err != nil {
		return err
	}
	if _, err := s.GetUserByCode(contactCode); err != nil {
		return err
	}

	if err := s.addToUserSet(userCode, "pending", contactCode); err != nil {
		return err
	}
	return s.addToUserSet(contactCode, "requests", userCode)
}

// AcceptContactRequest collapses an in-flight request into a symmetric
// contact edge. A second accept of the same request is a conflict and
// leaves the contact arrays unchanged.
func (s *Store) AcceptContactRequest(userCode, requesterCode string) error {
	user, err := s.GetUserByCode(userCode)
	if err != nil {
		return err
	}
	if _, err := s.GetUserByCode(requesterCode); err != nil {
		return err
	}
	if err := checkCanAccept(user, requesterCode); err != nil {
		return err
	}

	if err := s.pullFromUserSet(userCode, "requests", requesterCode); err != nil {
		return err
	}
	if err := s.pullFromUserSet(requesterCode, "pending", userCode); err != nil {
		return err
	}
	if err := s.addToUserSet(userCode, "contacts", requesterCode); err != nil {
		return err
	}
	return s.addToUserSet(requesterCode, "contacts", userCode)
}

func (s *Store) DeclineContactRequest(userCode, requesterCode string) error {
	if _, err := s.GetUserByCode(userCode); err != nil {
		return err
	}
	if _, err := s.GetUserByCode(requesterCode); err != nil {
		return err
	}
	if err := s.pullFromUserSet(userCode, "requests", requesterCode); err != nil {
		return err
	}
	return s.pullFromUserSet(requesterCode, "pending", userCode)
}

func (s *Store) CancelPendingRequest(userCode, contactCode string) error {
	if _, err := s.GetUserByCode(userCode); err != nil {
		return err
	}
	if _, err := s.GetUserByCode(contactCode); err != nil {
		return err
	}
	if err := s.pullFromUserSet(userCode, "pending", contactCode); err != nil {
		return err
	}
	return s.pullFromUserSet(contactCode, "requests", userCode)
}

// RemoveContact severs the edge on both sides.
func (s *Store) RemoveContact(userCode, contactCode string) error {
	if _, err := s.GetUserByCode(userCode); err != nil {
		return err
	}
	if err := s.pullFromUserSet(userCode, "contacts", contactCode); err != nil {
		return err
	}
	return s.pullFromUserSet(contactCode, "contacts", userCode)
}

// GetUsersByCodes resolves a code array to profiles, for the contact,
// pending and request list endpoints.
func (s *Store) GetUsersByCodes(codes []string) ([]models.User, error) {
	if len(codes) == 0 {
		return []models.User{}, nil
	}
	rows, err := s.DB.Query(`SELECT `+userColumns+` FROM users WHERE code = ANY($1) ORDER BY username`, pq.Array(codes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ListUsers returns the trimmed admin projection of every profile.
func (s *Store) ListUsers() ([]models.AdminUserView, error) {
	rows, err := s.DB.Query(`SELECT code, username, profile_picture, is_online FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.AdminUserView
	for rows.Next() {
		var u models.AdminUserView
		if err := rows.Scan(&u.Code, &u.Username, &u.ProfilePicture, &u.IsOnline); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListUserCodes returns every user code, for global group backfill.
func (s *Store) ListUserCodes() ([]string, error) {
	rows, err := s.DB.Query(`SELECT code FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// DeleteUserCascade removes a profile and every reference to it: other
// users' relationship arrays, group member/admin/muted/banned sets, and
// all messages the user sent or received.
func (s *Store) DeleteUserCascade(code string) error {
	if _, err := s.GetUserByCode(code); err != nil {
		return err
	}

	for _, column := range []string{"contacts", "pending", "requests"} {
		query := fmt.Sprintf(`UPDATE users SET %s = array_remove(%s, $1) WHERE $1 = ANY(%s)`, column, column, column)
		if _, err := s.DB.Exec(query, code); err != nil {
			return fmt.Errorf("strip user from %s: %w", column, err)
		}
	}
	for _, column := range []string{"members", "admins", "muted", "banned"} {
		query := fmt.Sprintf(`UPDATE groups SET %s = array_remove(%s, $1) WHERE $1 = ANY(%s)`, column, column, column)
		if _, err := s.DB.Exec(query, code); err != nil {
			return fmt.Errorf("strip user from group %s: %w", column, err)
		}
	}
	if _, err := s.DB.Exec(`DELETE FROM messages WHERE sender_code = $1 OR receiver_code = $1`, code); err != nil {
		return fmt.Errorf("delete user messages: %w", err)
	}

	result, err := s.DB.Exec(`DELETE FROM users WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	s.logger.Info("User deleted with cascade", "code", code)
	return nil
}
