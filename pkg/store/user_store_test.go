package store

import (
	"errors"
	"testing"

	"github.com/mehular0ra/pingme/pkg/models"
)

func TestRequestGuardRejectsSelf(t *testing.T) {
	user := &models.User{Code: "1000"}
	if err := checkCanRequest(user, "1000"); !errors.Is(err, ErrConflict) {
		t.Errorf("self-request = %v, want ErrConflict", err)
	}
}

func TestRequestGuardRejectsExistingContact(t *testing.T) {
	user := &models.User{Code: "1000", Contacts: []string{"2000"}}
	if err := checkCanRequest(user, "2000"); !errors.Is(err, ErrConflict) {
		t.Errorf("re-request of a contact = %v, want ErrConflict", err)
	}
}

func TestRequestGuardRejectsDuplicatePending(t *testing.T) {
	user := &models.User{Code: "1000", Pending: []string{"2000"}}
	if err := checkCanRequest(user, "2000"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate request = %v, want ErrConflict", err)
	}
}

func TestRequestGuardAllowsFreshTarget(t *testing.T) {
	user := &models.User{Code: "1000", Contacts: []string{"3000"}, Pending: []string{"4000"}}
	if err := checkCanRequest(user, "2000"); err != nil {
		t.Errorf("fresh request = %v, want nil", err)
	}
}

func TestAcceptRequiresInFlightRequest(t *testing.T) {
	user := &models.User{Code: "1000", Requests: []string{"2000"}}
	if err := checkCanAccept(user, "2000"); err != nil {
		t.Errorf("first accept = %v, want nil", err)
	}
}

func TestSecondAcceptIsConflict(t *testing.T) {
	// The first accept moves 2000 from requests to contacts; replaying the
	// accept against the resulting state must refuse and touch nothing.
	user := &models.User{Code: "1000", Contacts: []string{"2000"}, Requests: []string{}}
	if err := checkCanAccept(user, "2000"); !errors.Is(err, ErrConflict) {
		t.Errorf("replayed accept = %v, want ErrConflict", err)
	}
	if len(user.Contacts) != 1 || user.Contacts[0] != "2000" {
		t.Errorf("contacts changed to %v", user.Contacts)
	}
}
