// Package store holds every write to the relational store. Reads used by the
// access and notification packages live in relationship.DBProvider.
//
// Each operation checks who is acting. Mutations that must keep two tables
// consistent run in a single transaction.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/Luismorlan/eventmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

const DefaultAvatarUrl = "https://robohash.org/eventmux?set=set4&bgset=&size=400x400"

type Store struct {
	DB *gorm.DB
	// now is swapped in tests.
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db, now: time.Now}
}

type NewUserInput struct {
	Id          string
	Username    string
	DisplayName string
	AvatarUrl   string
}

// CreateUser creates the user if no user with the id exists, and returns the
// stored user either way.
func (s *Store) CreateUser(ctx context.Context, input NewUserInput) (*model.User, error) {
	id := strings.TrimSpace(input.Id)
	if id == "" {
		return nil, errors.Wrap(ErrInvalidInput, "user id is required")
	}

	var user model.User
	res := s.DB.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&user)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "fail to query user "+id)
	}
	if res.RowsAffected == 1 {
		return &user, nil
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = id
	}
	var taken int64
	if err := s.DB.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&taken).Error; err != nil {
		return nil, errors.Wrap(err, "fail to check username "+username)
	}
	if taken > 0 {
		return nil, errors.Wrap(ErrConflict, "username "+username+" is taken")
	}

	avatar := strings.TrimSpace(input.AvatarUrl)
	if avatar == "" {
		avatar = DefaultAvatarUrl
	}
	user = model.User{
		Id:          id,
		CreatedAt:   s.now(),
		Username:    username,
		DisplayName: strings.TrimSpace(input.DisplayName),
		AvatarUrl:   avatar,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "fail to create user "+id)
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := first(s.DB.WithContext(ctx).Where("id = ?", id), &user, "user "+id); err != nil {
		return nil, err
	}
	return &user, nil
}

// first loads one row into dest, mapping a missing row to ErrNotFound.
func first(query *gorm.DB, dest interface{}, what string) error {
	err := query.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	if err != nil {
		return errors.Wrap(err, "fail to query "+what)
	}
	return nil
}
