package store

import (
	"slices"

	"github.com/zeroverload/SmartLib/internal/model"
)

func (tx *Tx) ListUsers(find *model.FindUser) []*model.User {
	list := []*model.User{}
	for i := range tx.snap.users {
		user := tx.snap.users[i]
		if v := find.ID; v != nil && user.ID != *v {
			continue
		}
		if v := find.Username; v != nil && user.Username != *v {
			continue
		}
		if v := find.Role; v != nil && user.Role != *v {
			continue
		}
		if v := find.Status; v != nil && user.Status != *v {
			continue
		}
		list = append(list, &user)
	}
	return list
}

// GetUser returns the first match or nil.
func (tx *Tx) GetUser(find *model.FindUser) *model.User {
	list := tx.ListUsers(find)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// CreateUser stores user, assigning the next id when ID is zero.
func (tx *Tx) CreateUser(user *model.User) error {
	if err := tx.write(CollectionUsers); err != nil {
		return err
	}
	if user.ID == 0 {
		user.ID = nextID(tx.snap.users, func(u *model.User) int32 { return u.ID })
	}
	tx.snap.users = append(tx.snap.users, *user)
	return nil
}

func (tx *Tx) UpdateUser(user *model.User) error {
	for i := range tx.snap.users {
		if tx.snap.users[i].ID == user.ID {
			if err := tx.write(CollectionUsers); err != nil {
				return err
			}
			tx.snap.users[i] = *user
			return nil
		}
	}
	return ErrNotFound
}

func (tx *Tx) DeleteUser(id int32) error {
	idx := slices.IndexFunc(tx.snap.users, func(u model.User) bool { return u.ID == id })
	if idx < 0 {
		return ErrNotFound
	}
	if err := tx.write(CollectionUsers); err != nil {
		return err
	}
	tx.snap.users = slices.Delete(tx.snap.users, idx, idx+1)
	return nil
}
