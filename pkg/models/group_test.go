package models

import (
	"reflect"
	"testing"
)

func TestRecipientsUnionsMembersAndAdmins(t *testing.T) {
	g := &Group{
		Members: []string{"1111", "2222"},
		Admins:  []string{"3333"},
	}
	got := g.Recipients()
	want := []string{"1111", "2222", "3333"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recipients() = %v, want %v", got, want)
	}
}

func TestRecipientsDeduplicates(t *testing.T) {
	g := &Group{
		Members: []string{"1111", "2222"},
		Admins:  []string{"2222", "3333"},
	}
	got := g.Recipients()
	want := []string{"1111", "2222", "3333"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recipients() = %v, want %v", got, want)
	}
}

func TestRecipientsEmptyGroup(t *testing.T) {
	g := &Group{}
	if got := g.Recipients(); len(got) != 0 {
		t.Errorf("Recipients() of empty group = %v, want empty", got)
	}
}

func TestIsGroupAdmin(t *testing.T) {
	g := &Group{Members: []string{"1111"}, Admins: []string{"3333"}}
	if g.IsGroupAdmin("1111") {
		t.Error("plain member reported as admin")
	}
	if !g.IsGroupAdmin("3333") {
		t.Error("admin not recognized")
	}
}

func TestIsBanned(t *testing.T) {
	g := &Group{Banned: []string{"4444"}}
	if !g.IsBanned("4444") {
		t.Error("banned code not recognized")
	}
	if g.IsBanned("1111") {
		t.Error("unbanned code reported as banned")
	}
}
